package lang

import "testing"

func TestEnumerate(t *testing.T) {
	tests := map[string]string{
		"ab":   "ab",
		"a-e":  "abcde",
		"e-a":  "edcba",
		"0-3x": "0123x",
		"-a-c": "-abc",
		"a-":   "a-",
		"-":    "-",
		"":     "",
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := string(enumerate(in)); got != want {
				t.Errorf("enumerate(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		s, from, to string
		want        string
		wantOK      bool
	}{
		{"2", "0123456789AB", "ABCDEFGHIJKL", "C", true},
		{"hello", "a-z", "A-Z", "HELLO", true},
		{"abc", "a-c", "c-a", "cba", true},
		{"x-y", "-", "_", "x_y", true},
		{"a9", "a-c", "A-C", "A9", true},
		{"abc", "ab", "x", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.s+"/"+tt.from, func(t *testing.T) {
			got, ok := translate(tt.s, tt.from, tt.to)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("translate(%q, %q, %q) = %q, %v; want %q, %v",
					tt.s, tt.from, tt.to, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
