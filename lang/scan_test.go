package lang

import (
	"strings"
	"testing"
)

func TestScanRegion(t *testing.T) {
	loopCloser := literal(sentinel + "ENDLOOP(x)")
	loopOpener := literal(sentinel + "LOOP(x)")

	tests := []struct {
		name   string
		lines  []string
		at     cursor
		want   string
		next   cursor
		wantOK bool
	}{
		{
			name:   "closer on its own line",
			lines:  []string{"a\n", "$$ENDLOOP(x)\n", "b\n"},
			want:   "a\n",
			next:   cursor{line: 2},
			wantOK: true,
		},
		{
			name: "nested region",
			lines: []string{
				"$$LOOP(x)\n", "in\n", "$$ENDLOOP(x)\n", "$$ENDLOOP(x)\n", "after\n",
			},
			want:   "$$LOOP(x)\nin\n$$ENDLOOP(x)\n",
			next:   cursor{line: 4},
			wantOK: true,
		},
		{
			name:   "closer within a line",
			lines:  []string{"x $$ENDLOOP(x) y\n"},
			want:   "x ",
			next:   cursor{line: 0, col: 14},
			wantOK: true,
		},
		{
			name:   "scan starting mid-line keeps the rest of the closing line",
			lines:  []string{"$$LOOP(x)body$$ENDLOOP(x)\n"},
			at:     cursor{col: 9},
			want:   "body",
			next:   cursor{line: 0, col: 25},
			wantOK: true,
		},
		{
			name:  "no closer",
			lines: []string{"a\n", "b\n"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, next, ok := scanRegion(tt.lines, tt.at,
				loopCloser, loopOpener, loopCloser)

			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}

			if !ok {
				return
			}

			if s := strings.Join(got, ""); s != tt.want {
				t.Errorf("captured %q, want %q", s, tt.want)
			}

			if next != tt.next {
				t.Errorf("next = %+v, want %+v", next, tt.next)
			}
		})
	}
}

func TestIfOpener(t *testing.T) {
	tests := []struct {
		s          string
		start, end int
	}{
		{"$$IF(A)", 0, 7},
		{"x $$IF(A,v) y", 2, 11},
		{"$$IF(A,t,f)", -1, -1},
		{"$$IF(AB)", -1, -1},
		{"$$IF(AB) $$IF(A)", 9, 16},
		{"no directive", -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			start, end := ifOpener("A")(tt.s)
			if start != tt.start || end != tt.end {
				t.Errorf("ifOpener(A)(%q) = %d, %d; want %d, %d",
					tt.s, start, end, tt.start, tt.end)
			}
		})
	}
}

func TestCalcOpener(t *testing.T) {
	start, end := calcOpener("ab $$IFCALC{X+1} cd")
	if start != 3 || end != 16 {
		t.Errorf("calcOpener = %d, %d; want 3, 16", start, end)
	}

	if start, _ := calcOpener("$$IFCALC{X+1"); start != -1 {
		t.Errorf("calcOpener matched an unterminated directive at %d", start)
	}
}
