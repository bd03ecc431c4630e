package lang

import (
	"slices"
	"testing"
)

func TestParseCall(t *testing.T) {
	tests := []struct {
		s         string
		kind      Directive
		args      []string
		size      int
		wholeLine bool
	}{
		{"LOOP(Host)\n", Loop, []string{"Host"}, 10, true},
		{"IF(A)", If, []string{"A"}, 5, true},
		{"IF(A,b)", IfEqual, []string{"A", "b"}, 7, true},
		{"IF(A,b,c)", IfInline, []string{"A", "b", "c"}, 9, false},
		{"IFCALC{X+1}", IfCalc, []string{"X+1"}, 11, false},
		{"INCLUDE(common.cfg)", Include, []string{"common.cfg"}, 19, true},
		{`TRANSLATE(T,"a-z","A-Z")`, Translate, []string{"T", "a-z", "A-Z"}, 24, false},
		{"COUNT(Host)", Count, []string{"Host"}, 11, true},
		{"CALC{1,%d}", Calc, []string{"1,%d"}, 10, false},
		{"ASSIGN{N,N+1}", Assign, []string{"N,N+1"}, 13, false},
		{"UP(PATH)", Up, []string{"PATH"}, 8, true},
		{"ROOT(F)", Root, []string{"F"}, 7, true},
		{"SUBSTR(S,1,3)", Substr, []string{"S", "1", "3"}, 13, false},
		{"SUBSTR(S,1)", Tail, []string{"S", "1"}, 11, false},
		{"NAME(web,PORT)", Name, []string{"web,PORT"}, 14, true},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			got, _, ok := parseCall(tt.s)
			if !ok {
				t.Fatalf("parseCall(%q) failed", tt.s)
			}

			if got.kind != tt.kind || !slices.Equal(got.args, tt.args) ||
				got.size != tt.size || got.wholeLine != tt.wholeLine {
				t.Errorf("parseCall(%q) = %v %q size %d whole %v; "+
					"want %v %q size %d whole %v",
					tt.s, got.kind, got.args, got.size, got.wholeLine,
					tt.kind, tt.args, tt.size, tt.wholeLine)
			}
		})
	}
}

func TestParseCallRejects(t *testing.T) {
	tests := []struct {
		s  string
		kw string
	}{
		{"FOO", ""},
		{"ELSE(A)", ""},
		{"LOOP", ""},
		{"CALC{1+2", "CALC"},
		{"LOOP(x", "LOOP"},
		{`TRANSLATE(T,a,b)`, "TRANSLATE"},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			_, kw, ok := parseCall(tt.s)
			if ok || kw != tt.kw {
				t.Errorf("parseCall(%q) = %q, %v; want %q, false", tt.s, kw, ok, tt.kw)
			}
		})
	}
}

func TestParseReference(t *testing.T) {
	tests := []struct {
		s      string
		name   string
		n      int
		wantOK bool
	}{
		{"(NAME)rest", "NAME", 6, true},
		{"NAME rest", "NAME", 4, true},
		{"NAME:x", "NAME", 4, true},
		{"(NAME", "", 0, false},
		{" x", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			name, n, ok := parseReference(tt.s)
			if name != tt.name || n != tt.n || ok != tt.wantOK {
				t.Errorf("parseReference(%q) = %q, %d, %v; want %q, %d, %v",
					tt.s, name, n, ok, tt.name, tt.n, tt.wantOK)
			}
		})
	}
}

func TestDirectiveString(t *testing.T) {
	if s := IfInline.String(); s != "IF" {
		t.Errorf("IfInline.String() = %q, want IF", s)
	}

	if s := Directive(-1).String(); s != "Directive(?)" {
		t.Errorf("Directive(-1).String() = %q", s)
	}
}
