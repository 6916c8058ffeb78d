package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites a script before it reaches zygomys:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols and cannot clash with user variables.
//  2. kebab-case identifiers become snake_case (cylinder-height ->
//     cylinder_height); zygomys reads a bare hyphen as subtraction.
//  3. ; and ;; line comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	var sb strings.Builder
	sb.Grow(len(source) + len(source)/4)

	b := []byte(source)
	for i := 0; i < len(b); {
		switch c := b[i]; {
		case c == '"':
			i = copyQuoted(&sb, b, i, '"', true)

		case c == '`':
			i = copyQuoted(&sb, b, i, '`', false)

		case c == ';':
			sb.WriteString("//")
			for i < len(b) && b[i] == ';' {
				i++
			}
			for ; i < len(b) && b[i] != '\n'; i++ {
				sb.WriteByte(b[i])
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			sb.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			sb.WriteString(`"` + kwPrefix + string(b[i+1:j]) + `"`)
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			sb.WriteByte('_')
			i++

		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// copyQuoted copies the literal starting at b[start] up to and including its
// closing quote and returns the index after it.
func copyQuoted(sb *strings.Builder, b []byte, start int, quote byte, escapes bool) int {
	sb.WriteByte(quote)
	i := start + 1
	for i < len(b) && b[i] != quote {
		if escapes && b[i] == '\\' && i+1 < len(b) {
			sb.Write(b[i : i+2])
			i += 2
			continue
		}
		sb.WriteByte(b[i])
		i++
	}
	if i < len(b) {
		sb.WriteByte(quote)
		i++
	}
	return i
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
