package recovery

import (
	"errors"
	"strings"
)

var errNoSpan = errors.New("no balanced object span found")

// scanner state over raw bytes: outside a string literal, inside one,
// or immediately after a backslash inside one.
type scanState int

const (
	outsideString scanState = iota
	insideString
	escaped
)

// balancedSpan locates the first top-level object in text by counted
// bracket matching: every unescaped opener increments and every
// unescaped closer decrements the depth, and braces inside string
// literals are ignored. This survives trailing prose that a rightmost
// closing-brace search would swallow and truncation that a leftmost
// search would mishandle. When the text ends before the object closes
// (truncated generation), the open tail is returned as the span so the
// repair pass can still salvage leading records.
func balancedSpan(text string) (span string, start int, err error) {
	start = strings.IndexByte(text, '{')
	if start < 0 {
		return "", 0, errNoSpan
	}

	state := outsideString
	depth := 0
	for i := start; i < len(text); i++ {
		c := text[i]
		switch state {
		case escaped:
			state = insideString
		case insideString:
			switch c {
			case '\\':
				state = escaped
			case '"':
				state = outsideString
			}
		default:
			switch c {
			case '"':
				state = insideString
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return text[start : i+1], start, nil
				}
			}
		}
	}
	// Ran out of text with the object still open.
	return text[start:], start, nil
}

// sanitizeSpan makes the bounded span parseable: literal control
// characters are illegal inside a well-formed string literal, so
// newlines, tabs and carriage returns that appear unescaped inside a
// string are re-escaped, and any other bare control character is
// dropped. Characters already part of a valid escape sequence are left
// alone, as is everything outside string literals apart from control
// bytes.
func sanitizeSpan(span string) string {
	var b strings.Builder
	b.Grow(len(span) + 16)

	state := outsideString
	for i := 0; i < len(span); i++ {
		c := span[i]
		switch state {
		case escaped:
			b.WriteByte(c)
			state = insideString
		case insideString:
			switch {
			case c == '\\':
				b.WriteByte(c)
				state = escaped
			case c == '"':
				b.WriteByte(c)
				state = outsideString
			case c == '\n':
				b.WriteString(`\n`)
			case c == '\t':
				b.WriteString(`\t`)
			case c == '\r':
				b.WriteString(`\r`)
			case c < 0x20:
				// bare control character, not representable: drop
			default:
				b.WriteByte(c)
			}
		default:
			switch {
			case c == '"':
				b.WriteByte(c)
				state = insideString
			case c < 0x20 && c != '\n' && c != '\t' && c != '\r':
				// stray control byte between tokens: drop
			default:
				b.WriteByte(c)
			}
		}
	}
	return b.String()
}

// truncateAtLastKey cuts span just past the last value that completed
// before the text ran out, then closes every still-open bracket,
// producing a shorter but balanced candidate. Key strings (a string
// whose next token is a colon) are not completion points, so the cut
// never lands between a key and its value. Returns false when the span
// was already balanced or nothing ever completed.
func truncateAtLastKey(span string) (string, bool) {
	state := outsideString
	var stack []byte
	lastComplete := -1
	var lastStack []byte

	record := func(end int) {
		lastComplete = end
		lastStack = append(lastStack[:0], stack...)
	}

	for i := 0; i < len(span); i++ {
		c := span[i]
		switch state {
		case escaped:
			state = insideString
		case insideString:
			switch c {
			case '\\':
				state = escaped
			case '"':
				state = outsideString
				if !isKeyString(span, i+1) {
					record(i + 1)
				}
			}
		default:
			switch c {
			case '"':
				state = insideString
			case '{', '[':
				stack = append(stack, c)
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				if len(stack) == 0 {
					// Already balanced; truncation cannot help.
					return "", false
				}
				record(i + 1)
			default:
				if isScalarEnd(span, i) {
					record(i + 1)
				}
			}
		}
	}

	if lastComplete <= 0 || len(lastStack) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteString(span[:lastComplete])
	for i := len(lastStack) - 1; i >= 0; i-- {
		if lastStack[i] == '{' {
			b.WriteByte('}')
		} else {
			b.WriteByte(']')
		}
	}
	return b.String(), true
}

// isKeyString reports whether the string that just closed is an object
// key: the next non-space byte is a colon.
func isKeyString(s string, from int) bool {
	for j := from; j < len(s); j++ {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ':':
			return true
		default:
			return false
		}
	}
	return false
}

func isScalarByte(c byte) bool {
	switch {
	case c >= '0' && c <= '9':
		return true
	case c == '-' || c == '+' || c == '.':
		return true
	case c >= 'a' && c <= 'z':
		return true
	}
	return false
}

// isScalarEnd reports whether position i terminates a bare scalar
// (number, true/false/null): the next non-space byte is a comma or a
// closer.
func isScalarEnd(s string, i int) bool {
	if !isScalarByte(s[i]) {
		return false
	}
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case ' ', '\t', '\n', '\r':
			continue
		case ',', '}', ']':
			return true
		default:
			return false
		}
	}
	return false
}
