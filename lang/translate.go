package lang

import "strings"

// enumerate expands character ranges written as "a-z" into the full
// sequence of characters, descending when the first bound is greater.
// Runs of '-' at either end of s are kept literally.
func enumerate(s string) []rune {
	body := []rune(strings.TrimRight(strings.TrimLeft(s, "-"), "-"))
	lead := len(s) - len(strings.TrimLeft(s, "-"))

	// An all-dash string has no body and no trailing run.
	trail := 0
	if len(body) > 0 {
		trail = len(s) - len(strings.TrimRight(s, "-"))
	}

	out := make([]rune, 0, len(s))
	out = append(out, []rune(strings.Repeat("-", lead))...)

	for len(body) > 0 {
		if len(body) > 2 && body[1] == '-' {
			first, last := body[0], body[2]

			if first <= last {
				for r := first; r <= last; r++ {
					out = append(out, r)
				}
			} else {
				for r := first; r >= last; r-- {
					out = append(out, r)
				}
			}

			body = body[3:]

			continue
		}

		out = append(out, body[0])
		body = body[1:]
	}

	return append(out, []rune(strings.Repeat("-", trail))...)
}

// translate maps each character of s found in from to the character at the
// same position in to. It reports false when from and to expand to
// different lengths. When a character appears in from more than once, its
// last mapping wins.
func translate(s, from, to string) (string, bool) {
	src, dst := enumerate(from), enumerate(to)
	if len(src) != len(dst) {
		return "", false
	}

	table := make(map[rune]rune, len(src))
	for i, r := range src {
		table[r] = dst[i]
	}

	return strings.Map(func(r rune) rune {
		if m, ok := table[r]; ok {
			return m
		}

		return r
	}, s), true
}
