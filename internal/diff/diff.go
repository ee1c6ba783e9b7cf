// Package diff renders line-oriented comparisons between a current
// code snippet and a proposed replacement.
package diff

import (
	"fmt"
	"strings"

	t "github.com/RamuVenkatesan-infosrc/Report-sub000/internal/types"
)

// Compare runs a positional line comparison of old against new and
// renders the paired, unified and line-numbered forms plus aggregate
// counts. Lines are paired by index, padding the shorter side with
// empty lines; a pair with differing non-empty content is a
// modification, while an empty side makes the pair a pure addition or
// deletion. The comparison deliberately skips alignment detection, so
// an inserted line shifts everything after it; determinism is worth
// more here than a minimal diff.
func Compare(oldText, newText string) *t.DiffResult {
	lines := compareLines(splitLines(oldText), splitLines(newText))
	return &t.DiffResult{
		Paired:       lines,
		Unified:      renderUnified(lines),
		LineNumbered: expandModified(lines),
		Stats:        stats(lines),
	}
}

func compareLines(oldLines, newLines []string) []t.DiffLine {
	n := len(oldLines)
	if len(newLines) > n {
		n = len(newLines)
	}
	lines := make([]t.DiffLine, 0, n)
	for i := 0; i < n; i++ {
		var oldContent, newContent string
		if i < len(oldLines) {
			oldContent = oldLines[i]
		}
		if i < len(newLines) {
			newContent = newLines[i]
		}
		switch {
		case oldContent == newContent:
			lines = append(lines, t.DiffLine{
				Type:       t.DiffUnchanged,
				OldLineNum: lineNum(i),
				NewLineNum: lineNum(i),
				OldContent: oldContent,
				NewContent: newContent,
			})
		case oldContent == "":
			lines = append(lines, t.DiffLine{
				Type:       t.DiffAdded,
				NewLineNum: lineNum(i),
				NewContent: newContent,
			})
		case newContent == "":
			lines = append(lines, t.DiffLine{
				Type:       t.DiffDeleted,
				OldLineNum: lineNum(i),
				OldContent: oldContent,
			})
		default:
			lines = append(lines, t.DiffLine{
				Type:       t.DiffModified,
				OldLineNum: lineNum(i),
				NewLineNum: lineNum(i),
				OldContent: oldContent,
				NewContent: newContent,
			})
		}
	}
	return lines
}

// stats tallies line types; a modified pair counts as one deletion plus
// one addition.
func stats(lines []t.DiffLine) t.DiffStats {
	var s t.DiffStats
	for _, l := range lines {
		switch l.Type {
		case t.DiffAdded:
			s.AdditionsCount++
		case t.DiffDeleted:
			s.DeletionsCount++
		case t.DiffModified:
			s.AdditionsCount++
			s.DeletionsCount++
		}
	}
	s.ChangesCount = s.AdditionsCount + s.DeletionsCount
	return s
}

// renderUnified emits a unified-style text with a single synthetic hunk
// header; a modified pair becomes a deletion line followed by an
// addition line.
func renderUnified(lines []t.DiffLine) string {
	var b strings.Builder
	oldTotal, newTotal := 0, 0
	for _, l := range lines {
		if l.OldLineNum != nil {
			oldTotal++
		}
		if l.NewLineNum != nil {
			newTotal++
		}
	}
	fmt.Fprintf(&b, "@@ -1,%d +1,%d @@\n", oldTotal, newTotal)
	for _, l := range lines {
		switch l.Type {
		case t.DiffUnchanged:
			b.WriteString(" " + l.OldContent + "\n")
		case t.DiffDeleted:
			b.WriteString("-" + l.OldContent + "\n")
		case t.DiffAdded:
			b.WriteString("+" + l.NewContent + "\n")
		case t.DiffModified:
			b.WriteString("-" + l.OldContent + "\n")
			b.WriteString("+" + l.NewContent + "\n")
		}
	}
	return b.String()
}

// expandModified renders the line-numbered form: identical to the
// paired form except a modified pair splits into a deleted row and an
// added row, each carrying only its own side.
func expandModified(lines []t.DiffLine) []t.DiffLine {
	out := make([]t.DiffLine, 0, len(lines))
	for _, l := range lines {
		if l.Type != t.DiffModified {
			out = append(out, l)
			continue
		}
		out = append(out,
			t.DiffLine{
				Type:       t.DiffDeleted,
				OldLineNum: l.OldLineNum,
				OldContent: l.OldContent,
			},
			t.DiffLine{
				Type:       t.DiffAdded,
				NewLineNum: l.NewLineNum,
				NewContent: l.NewContent,
			},
		)
	}
	return out
}

func lineNum(idx int) *int {
	n := idx + 1
	return &n
}

// splitLines returns nil for empty input so that an empty snippet
// contributes zero lines rather than one empty line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
