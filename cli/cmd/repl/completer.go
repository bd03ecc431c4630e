package repl

import (
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/expand/lang"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "vars", "types", "reload", "edit", "clear", "quit"}

// sentinel introduces every directive and variable reference.
const sentinel = "$$"

// isWordChar reports whether b can be part of a variable name.
func isWordChar(b byte) bool {
	return b == '_' ||
		('0' <= b && b <= '9') ||
		('a' <= b && b <= 'z') ||
		('A' <= b && b <= 'Z')
}

// wordBounds returns the name at the cursor position and its byte
// boundaries within input. The word is empty when the cursor is not
// touching a name.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(max(cursor, 0), len(input))

	start = cursor
	for start > 0 && isWordChar(input[start-1]) {
		start--
	}

	end = cursor
	for end < len(input) && isWordChar(input[end]) {
		end++
	}

	return input[start:end], start, end
}

// referenceContext reports whether the word starting at wordStart follows
// a sentinel, and whether that sentinel opened a parenthesized name. Only
// such words are completed in eval mode.
func referenceContext(input string, wordStart int) (ref, paren bool) {
	prefix := input[:wordStart]

	switch {
	case strings.HasSuffix(prefix, sentinel+"("):
		return true, true

	case strings.HasSuffix(prefix, sentinel):
		return true, false
	}

	return false, false
}

// evalCandidates returns the variable names of cfg and, unless a
// parenthesized name was opened, the directive keywords.
func evalCandidates(cfg *lang.Config, paren bool) []string {
	var names []string
	if cfg != nil {
		names = slices.Sorted(maps.Keys(cfg.Vars()))
	}

	if paren {
		return names
	}

	return append(names, lang.Keywords()...)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list,
// and the word boundaries. Right after a sentinel every candidate matches,
// so the user can browse them.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	if m.mode == modeCtrl {
		if word == "" || wordStart > 0 {
			return nil, nil, wordStart, wordEnd
		}

		return fuzzy.Find(word, ctrlCommands), ctrlCommands, wordStart, wordEnd
	}

	ref, paren := referenceContext(input, wordStart)
	if !ref {
		return nil, nil, wordStart, wordEnd
	}

	candidates = evalCandidates(m.cfg, paren)
	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	if word == "" {
		matches = make(fuzzy.Matches, len(candidates))
		for i, c := range candidates {
			matches[i] = fuzzy.Match{Str: c, Index: i}
		}

		return matches, candidates, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. The selected candidate (when tabbing)
// uses the selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx)

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if i > 0 && used+entryWidth+ellipsisWidth > width {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	base, highlight := suggestionStyle, suggestionStyle.Bold(true)
	if selected {
		base, highlight = selectedStyle, selectedStyle.Bold(true)
	}

	var b strings.Builder

	for i, r := range match.Str {
		if slices.Contains(match.MatchedIndexes, i) {
			b.WriteString(highlight.Render(string(r)))
		} else {
			b.WriteString(base.Render(string(r)))
		}
	}

	return b.String()
}
