package extract

import (
	"strings"
)

// textFromContentStream pulls the text shown by a page's content stream.
// It walks the stream looking at the text-showing operators (Tj, ', ", TJ)
// and collects their literal string operands, inserting line breaks at the
// text-positioning operators (Td, TD, T*) so reading order survives.
//
// This is not a full content stream interpreter. It ignores fonts, CMaps and
// hex strings, which is exactly why it is only the first rung of the
// extraction ladder: pages it cannot read fall through to the next strategy.
func textFromContentStream(stream string) string {
	var out strings.Builder
	var pending []string

	flush := func() {
		for _, s := range pending {
			out.WriteString(s)
		}
		pending = pending[:0]
	}

	i := 0
	n := len(stream)
	for i < n {
		c := stream[i]

		switch {
		case c == '(':
			s, next := readLiteralString(stream, i)
			pending = append(pending, s)
			i = next

		case c == '<':
			// Hex string or dict open; skip hex strings, they need CMap
			// decoding this scanner does not attempt.
			if i+1 < n && stream[i+1] == '<' {
				i += 2
			} else {
				j := strings.IndexByte(stream[i:], '>')
				if j < 0 {
					i = n
				} else {
					i += j + 1
				}
			}

		case c == '%':
			// Comment until end of line
			j := strings.IndexByte(stream[i:], '\n')
			if j < 0 {
				i = n
			} else {
				i += j + 1
			}

		case isOperatorChar(c):
			op, next := readToken(stream, i)
			switch op {
			case "Tj", "'", "\"", "TJ":
				flush()
				out.WriteString(" ")
			case "Td", "TD", "T*", "ET":
				pending = pending[:0]
				if out.Len() > 0 {
					out.WriteString("\n")
				}
			}
			i = next

		default:
			i++
		}
	}

	return collapseWhitespace(out.String())
}

// readLiteralString reads a PDF literal string starting at the '(' in
// stream[start]. Handles escape sequences and balanced nested parentheses.
// Returns the decoded string and the index after the closing ')'.
func readLiteralString(stream string, start int) (string, int) {
	var sb strings.Builder
	depth := 0
	i := start
	n := len(stream)

	for i < n {
		c := stream[i]
		switch c {
		case '\\':
			if i+1 >= n {
				return sb.String(), n
			}
			next := stream[i+1]
			switch next {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
				// Ignore
			case '(', ')', '\\':
				sb.WriteByte(next)
			case '\n':
				// Line continuation
			default:
				// Octal escape \ddd
				if next >= '0' && next <= '7' {
					val := 0
					j := i + 1
					for j < n && j < i+4 && stream[j] >= '0' && stream[j] <= '7' {
						val = val*8 + int(stream[j]-'0')
						j++
					}
					if val > 0 && val < 128 {
						sb.WriteByte(byte(val))
					}
					i = j
					continue
				}
				sb.WriteByte(next)
			}
			i += 2

		case '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
			i++

		case ')':
			depth--
			if depth == 0 {
				return sb.String(), i + 1
			}
			sb.WriteByte(c)
			i++

		default:
			sb.WriteByte(c)
			i++
		}
	}

	return sb.String(), n
}

// readToken reads an operator or name token starting at stream[start].
func readToken(stream string, start int) (string, int) {
	i := start
	for i < len(stream) && isOperatorChar(stream[i]) {
		i++
	}
	return stream[start:i], i
}

func isOperatorChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '*' || c == '\'' || c == '"'
}

// collapseWhitespace normalizes runs of spaces and blank lines.
func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	var out []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
