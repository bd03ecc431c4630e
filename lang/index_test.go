package lang

import (
	"maps"
	"testing"
)

func TestRenameIndex(t *testing.T) {
	got := renameIndex(Vars{
		"INDEX":   "0",
		"INDEX1":  "5",
		"INDEX9":  "7",
		"INDEXED": "x",
		"FOO":     "1",
	})

	want := Vars{
		"INDEX1":  "0",
		"INDEX2":  "5",
		"INDEX10": "7",
		"INDEXED": "x",
		"FOO":     "1",
	}

	if !maps.Equal(got, want) {
		t.Errorf("renameIndex = %v, want %v", got, want)
	}
}

func TestIndexDepth(t *testing.T) {
	tests := []struct {
		name   string
		want   int
		wantOK bool
	}{
		{"INDEX", 0, true},
		{"INDEX12", 12, true},
		{"INDEXa", 0, false},
		{"XINDEX", 0, false},
		{"INDEX_1", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := indexDepth(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("indexDepth(%q) = %d, %v; want %d, %v",
					tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
