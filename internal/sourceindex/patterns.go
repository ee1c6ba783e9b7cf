package sourceindex

import "regexp"

// routePattern recognizes one framework's route-declaration syntax. The
// capture group at pathIndex holds the endpoint path.
type routePattern struct {
	framework string
	re        *regexp.Regexp
	pathIndex int
}

var routePatterns = []routePattern{
	{
		framework: "gin",
		re:        regexp.MustCompile(`\b(?:router|r|g|engine|group|v\d+)\.(GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS)\(\s*"([^"]+)"`),
		pathIndex: 2,
	},
	{
		framework: "echo",
		re:        regexp.MustCompile(`\b(?:e|echo|api)\.(GET|POST|PUT|DELETE|PATCH)\(\s*"([^"]+)"`),
		pathIndex: 2,
	},
	{
		framework: "net/http",
		re:        regexp.MustCompile(`\bHandleFunc\(\s*"(?:(?:GET|POST|PUT|DELETE|PATCH) )?([^"]+)"`),
		pathIndex: 1,
	},
	{
		// The leading guard keeps this from matching inside Python
		// decorators like @app.get(...).
		framework: "express",
		re:        regexp.MustCompile(`(?:^|[^@\w])(?:app|router)\.(get|post|put|delete|patch|all)\(\s*['"` + "`" + `]([^'"` + "`" + `]+)`),
		pathIndex: 2,
	},
	{
		framework: "fastapi",
		re:        regexp.MustCompile(`@\w+\.(get|post|put|delete|patch|head|options)\(\s*['"]([^'"]+)['"]`),
		pathIndex: 2,
	},
	{
		framework: "flask",
		re:        regexp.MustCompile(`@\w+\.route\(\s*['"]([^'"]+)['"]`),
		pathIndex: 1,
	},
	{
		framework: "spring",
		re:        regexp.MustCompile(`@(?:Get|Post|Put|Delete|Patch|Request)Mapping\(\s*(?:value\s*=\s*)?"([^"]+)"`),
		pathIndex: 1,
	},
}

// funcDecl extracts the handler name declared on or shortly after the
// route line, per language.
var funcDecls = []*regexp.Regexp{
	regexp.MustCompile(`\bfunc\s+(?:\([^)]*\)\s*)?([A-Za-z_]\w*)\s*\(`), // Go
	regexp.MustCompile(`\bdef\s+([A-Za-z_]\w*)\s*\(`),                   // Python
	regexp.MustCompile(`\bfunction\s+([A-Za-z_$]\w*)\s*\(`),             // JS
	regexp.MustCompile(`\bconst\s+([A-Za-z_$]\w*)\s*=\s*(?:async\s*)?\(`),
	regexp.MustCompile(`(?:public|private|protected)?\s*\w[\w<>\[\]]*\s+([A-Za-z_]\w*)\s*\([^)]*\)\s*\{`), // Java
}

// codeExts are the extensions worth scanning for route declarations.
var codeExts = map[string]struct{}{
	".go":   {},
	".py":   {},
	".js":   {},
	".jsx":  {},
	".ts":   {},
	".tsx":  {},
	".java": {},
	".kt":   {},
	".rb":   {},
}
