// Package sourceindex discovers HTTP endpoint declarations in a source
// tree so report endpoints can be tied back to handler code.
package sourceindex

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

const (
	// snippetRadius is how many lines to keep around a route
	// declaration.
	snippetRadius = 25
	// maxFileBytes guards against scanning bundled or generated blobs.
	maxFileBytes = 1 << 20
)

// Scanner walks one source tree and extracts endpoint declarations.
// File contents are kept in an LRU cache so a file declaring many
// routes is read once.
type Scanner struct {
	root  string
	files *lru.Cache[string, []string]
}

func NewScanner(root string) (*Scanner, error) {
	cache, err := lru.New[string, []string](256)
	if err != nil {
		return nil, err
	}
	return &Scanner{root: root, files: cache}, nil
}

// Scan walks the tree and returns every recognized endpoint declaration
// in deterministic walk order. Unreadable entries are skipped, not
// fatal.
func (s *Scanner) Scan(ctx context.Context) ([]t.SourceEndpoint, error) {
	var endpoints []t.SourceEndpoint

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if d.IsDir() {
			switch filepath.Base(path) {
			case ".git", ".hg", ".svn", "node_modules", "vendor", "target", "build", "dist", ".next", ".cache", "__pycache__":
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if _, ok := codeExts[ext]; !ok {
			return nil
		}
		if fi, e := os.Stat(path); e != nil || fi.Size() > maxFileBytes {
			return nil
		}

		lines, ok := s.lines(path)
		if !ok {
			return nil
		}
		rel, _ := filepath.Rel(s.root, path)
		rel = filepath.ToSlash(rel)
		endpoints = append(endpoints, scanFile(rel, lines)...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return endpoints, nil
}

func (s *Scanner) lines(path string) ([]string, bool) {
	if cached, ok := s.files.Get(path); ok {
		return cached, true
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	lines := strings.Split(strings.ReplaceAll(string(b), "\r\n", "\n"), "\n")
	s.files.Add(path, lines)
	return lines, true
}

// scanFile matches every route pattern against each line; the first
// pattern that hits a line wins so one declaration yields one endpoint.
func scanFile(relPath string, lines []string) []t.SourceEndpoint {
	var out []t.SourceEndpoint
	for i, line := range lines {
		for _, p := range routePatterns {
			m := p.re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			endpoint := strings.TrimSpace(m[p.pathIndex])
			if endpoint == "" || !strings.HasPrefix(endpoint, "/") {
				continue
			}
			out = append(out, t.SourceEndpoint{
				Endpoint:     endpoint,
				FilePath:     relPath,
				LineNumber:   i + 1,
				FunctionName: handlerName(lines, i),
				Framework:    p.framework,
				CodeSnippet:  snippet(lines, i),
			})
			break
		}
	}
	return out
}

// handlerName looks on the route line and the next few lines for a
// function declaration, which catches both inline handlers and
// decorator-style routes.
func handlerName(lines []string, routeIdx int) string {
	end := routeIdx + 4
	if end > len(lines) {
		end = len(lines)
	}
	for i := routeIdx; i < end; i++ {
		for _, re := range funcDecls {
			if m := re.FindStringSubmatch(lines[i]); m != nil {
				return m[1]
			}
		}
	}
	return ""
}

func snippet(lines []string, routeIdx int) string {
	lo := routeIdx - 2
	if lo < 0 {
		lo = 0
	}
	hi := routeIdx + snippetRadius
	if hi > len(lines) {
		hi = len(lines)
	}
	return strings.Join(lines[lo:hi], "\n")
}
