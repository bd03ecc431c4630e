package repl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWordBounds(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		cursor    int
		wantWord  string
		wantStart int
		wantEnd   int
	}{
		{"simple", "foo", 3, "foo", 0, 3},
		{"after_sentinel", "$$NA", 4, "NA", 2, 4},
		{"after_paren", "x $$(NA", 7, "NA", 5, 7},
		{"mid_word", "$$NAME)", 4, "NAME", 2, 6},
		{"empty_after_sentinel", "$$", 2, "", 2, 2},
		{"after_space", "a ", 2, "", 2, 2},
		{"at_start", "foo", 0, "foo", 0, 3},
		{"underscore_digits", "$$A_1b", 6, "A_1b", 2, 6},
		{"cursor_past_end", "ab", 9, "ab", 0, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			word, start, end := wordBounds(tt.input, tt.cursor)
			if word != tt.wantWord || start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("wordBounds(%q, %d) = (%q, %d, %d), want (%q, %d, %d)",
					tt.input, tt.cursor, word, start, end,
					tt.wantWord, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestReferenceContext(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wordStart int
		ref       bool
		paren     bool
	}{
		{"bare", "NA", 0, false, false},
		{"sentinel", "$$NA", 2, true, false},
		{"paren", "$$(NA", 3, true, true},
		{"single_dollar", "$NA", 1, false, false},
		{"embedded", "x=$$NA", 4, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, paren := referenceContext(tt.input, tt.wordStart)
			assert.Equal(t, tt.ref, ref)
			assert.Equal(t, tt.paren, paren)
		})
	}
}

func TestComputeMatches(t *testing.T) {
	m := testModel(t, "NAME=value\nNUMBER=3\n")

	tests := []struct {
		name    string
		mode    inputMode
		input   string
		want    []string
		exclude []string
	}{
		{"variable_and_keyword", modeEval, "$$NA", []string{"NAME", "NAME("}, nil},
		{"paren_has_no_keywords", modeEval, "$$(NA", []string{"NAME"}, []string{"NAME("}},
		{"sentinel_lists_all", modeEval, "$$", []string{"NAME", "NUMBER", "LOOP(", "CALC{"}, nil},
		{"plain_text", modeEval, "NA", nil, nil},
		{"command", modeCtrl, "rel", []string{"reload"}, nil},
		{"command_argument", modeCtrl, "vars NA", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := m.switchToMode(tt.mode)
			m.input.SetValue(tt.input)
			m.input.SetCursor(len(tt.input))

			matches, _, _, _ := m.computeMatches()

			var got []string
			for _, match := range matches {
				got = append(got, match.Str)
			}

			if tt.want == nil {
				assert.Empty(t, got)
			}

			for _, s := range tt.want {
				assert.Contains(t, got, s)
			}

			for _, s := range tt.exclude {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestCycle(t *testing.T) {
	m := testModel(t, "ALPHA=1\nALPINE=2\n")
	m.input.SetValue("$$(AL")
	m.input.SetCursor(5)
	refreshMatches(&m, false)

	assert.Len(t, m.matches, 2)

	m = m.cycle(1)
	first := m.input.Value()
	assert.True(t, m.tabActive)

	m = m.cycle(1)
	assert.NotEqual(t, first, m.input.Value())

	m = m.cycle(1)
	assert.Equal(t, first, m.input.Value())

	m = m.cycle(-1)
	assert.NotEqual(t, first, m.input.Value())
}
