package lang

import "strings"

// cursor is a position in a sequence of lines.
type cursor struct {
	line, col int
}

// pattern locates the first occurrence of a delimiter in s, returning the
// byte offsets of its start and end, or -1, -1.
type pattern func(s string) (start, end int)

func literal(lit string) pattern {
	return func(s string) (int, int) {
		i := strings.Index(s, lit)
		if i < 0 {
			return -1, -1
		}

		return i, i + len(lit)
	}
}

// ifOpener matches the opening forms of a conditional named name that share
// its closer: $$IF(name) and $$IF(name,value). The inline three-argument
// form has no closer and is not matched.
func ifOpener(name string) pattern {
	lead := sentinel + "IF(" + name

	return func(s string) (int, int) {
		for off := 0; ; {
			i := strings.Index(s[off:], lead)
			if i < 0 {
				return -1, -1
			}

			i += off
			j := i + len(lead)

			switch {
			case j < len(s) && s[j] == ')':
				return i, j + 1

			case j < len(s) && s[j] == ',':
				k := strings.IndexAny(s[j+1:], ",)")
				if k >= 0 && s[j+1+k] == ')' {
					return i, j + 1 + k + 1
				}
			}

			off = i + 1
		}
	}
}

// calcOpener matches $$IFCALC{...}, ending after the closing brace.
func calcOpener(s string) (int, int) {
	lead := sentinel + "IFCALC{"

	for off := 0; ; {
		i := strings.Index(s[off:], lead)
		if i < 0 {
			return -1, -1
		}

		i += off
		j := i + len(lead)

		if k := strings.IndexByte(s[j:], '}'); k >= 0 {
			return i, j + k + 1
		}

		off = i + 1
	}
}

// scanRegion captures the text from at up to the first closer that is not
// preceded by an unmatched opener. While no opener is pending it looks for
// closer; inside a nested region it looks for end instead, which is the
// generic closer of the same directive name.
//
// The captured lines keep nested openers and closers verbatim. The returned
// cursor is positioned after the closer, or at the start of the next line
// when the scan began at column 0 and nothing but whitespace follows the
// closer. It reports false when input ends without a closer.
func scanRegion(
	lines []string,
	at cursor,
	closer, opener, end pattern,
) ([]string, cursor, bool) {
	var out []string

	nest := 0
	j, loc := at.line, at.col

	for j < len(lines) {
		s := lines[j][loc:]

		_, openEnd := opener(s)

		target := closer
		if nest > 0 {
			target = end
		}

		closeStart, closeEnd := target(s)

		switch {
		case openEnd < 0 && closeEnd < 0:
			out = append(out, s)
			j, loc = j+1, 0

		case openEnd >= 0 && (closeEnd < 0 || openEnd < closeEnd):
			nest++

			out = append(out, lines[j][loc:advance(lines[j], loc, openEnd)])
			loc = advance(lines[j], loc, openEnd)

		case nest > 0:
			nest--

			out = append(out, lines[j][loc:advance(lines[j], loc, closeEnd)])
			loc = advance(lines[j], loc, closeEnd)

		default:
			out = append(out, s[:closeStart])

			pos := loc
			loc += closeEnd

			if pos == 0 && strings.TrimSpace(lines[j][loc:]) == "" {
				j, loc = j+1, 0
			}

			return out, cursor{line: j, col: loc}, true
		}
	}

	return nil, cursor{}, false
}

// advance returns the column after a nested delimiter ending n bytes past
// loc. A delimiter copied from the start of a line takes its newline along.
func advance(line string, loc, n int) int {
	next := loc + n
	if loc == 0 && next < len(line) && line[next] == '\n' {
		next++
	}

	return next
}
