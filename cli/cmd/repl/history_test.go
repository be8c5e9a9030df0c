package repl

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func entries(h *History) []HistoryEntry {
	out := make([]HistoryEntry, h.Len())
	for i := range out {
		out[i], _ = h.Entry(i)
	}

	return out
}

func TestHistory_Add(t *testing.T) {
	tests := []struct {
		name  string
		adds  []HistoryEntry
		want  []HistoryEntry
	}{
		{
			name: "appends",
			adds: []HistoryEntry{{"1 + 1", modeEval}, {"list", modeCtrl}},
			want: []HistoryEntry{{"1 + 1", modeEval}, {"list", modeCtrl}},
		},
		{
			name: "skips blank",
			adds: []HistoryEntry{{"  ", modeEval}},
			want: []HistoryEntry{},
		},
		{
			name: "skips repeat",
			adds: []HistoryEntry{{"x", modeEval}, {" x ", modeEval}},
			want: []HistoryEntry{{"x", modeEval}},
		},
		{
			name: "moves duplicate to end",
			adds: []HistoryEntry{{"a", modeEval}, {"b", modeEval}, {"a", modeEval}},
			want: []HistoryEntry{{"b", modeEval}, {"a", modeEval}},
		},
		{
			name: "mode distinguishes entries",
			adds: []HistoryEntry{{"help", modeEval}, {"help", modeCtrl}},
			want: []HistoryEntry{{"help", modeEval}, {"help", modeCtrl}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "history")
			h := NewHistory(path)

			for _, e := range tt.adds {
				if err := h.Add(e.Line, e.Mode); err != nil {
					t.Fatalf("Add(%q): %v", e.Line, err)
				}
			}

			if got := entries(h); !slices.Equal(got, tt.want) {
				t.Errorf("entries = %v, want %v", got, tt.want)
			}

			// The file holds the same entries.
			loaded := NewHistory(path)
			if err := loaded.Load(); err != nil {
				t.Fatalf("Load: %v", err)
			}

			if got := entries(loaded); !slices.Equal(got, tt.want) {
				t.Errorf("loaded entries = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHistory_Load(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		h := NewHistory(filepath.Join(dir, "missing"))
		if err := h.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}

		if h.Len() != 0 {
			t.Errorf("Len = %d, want 0", h.Len())
		}
	})

	t.Run("unprefixed lines", func(t *testing.T) {
		path := filepath.Join(dir, "plain")
		if err := os.WriteFile(path, []byte("1 + 2\n\nC:quit\nE:x\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		h := NewHistory(path)
		if err := h.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}

		want := []HistoryEntry{{"1 + 2", modeEval}, {"quit", modeCtrl}, {"x", modeEval}}
		if got := entries(h); !slices.Equal(got, want) {
			t.Errorf("entries = %v, want %v", got, want)
		}
	})

	t.Run("memory only", func(t *testing.T) {
		h := NewHistory("")
		if err := h.Add("x", modeEval); err != nil {
			t.Fatalf("Add: %v", err)
		}

		if err := h.Load(); err != nil {
			t.Fatalf("Load: %v", err)
		}

		if h.Len() != 1 {
			t.Errorf("Len = %d, want 1", h.Len())
		}
	})
}

func TestHistory_Entry(t *testing.T) {
	h := NewHistory("")
	_ = h.Add("x", modeEval)

	for _, i := range []int{-1, 1} {
		if _, err := h.Entry(i); !errors.Is(err, ErrOutOfBounds) {
			t.Errorf("Entry(%d) error = %v, want %v", i, err, ErrOutOfBounds)
		}
	}
}
