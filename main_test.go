package main

import (
	"strings"
	"testing"
	"time"
)

func TestRenderResultCardsShowsBranchesAndMeta(t *testing.T) {
	t.Parallel()

	res := testResult("adopt a ferret")
	res.Meta.HumorLevel = humorHigh
	res.Branches[0].LoopBack = true

	rendered := renderResultCards(res, 80)
	for _, expected := range []string{
		"a test-sized thought",
		"Rational Analysis",
		"humor: high",
		"source: template",
		"↻",
	} {
		if !strings.Contains(rendered, expected) {
			t.Fatalf("rendered cards missing %q:\n%s", expected, rendered)
		}
	}
}

func TestRenderHistoryShowsEntries(t *testing.T) {
	t.Parallel()

	m := model{
		width:  100,
		height: 20,
		screen: screenHistory,
		entries: []historyEntry{
			{
				id:        1700000000000,
				createdAt: time.Unix(1700000000, 0),
				decision:  "repaint the hallway a questionable green",
				res:       testResult("repaint the hallway a questionable green"),
			},
		},
	}

	rendered := m.renderHistory()
	if !strings.Contains(rendered, "repaint the hallway") {
		t.Fatalf("expected decision in rendered history, got: %q", rendered)
	}
	if !strings.Contains(rendered, "template") {
		t.Fatalf("expected source kind in rendered history, got: %q", rendered)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		width    int
		expected string
	}{
		{"short", "hi", 10, "hi"},
		{"exact", "exactly10!", 10, "exactly10!"},
		{"truncated", "a longer sentence", 10, "a longe..."},
		{"tiny width", "abcdef", 2, "..."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := truncateString(tc.input, tc.width); got != tc.expected {
				t.Errorf("truncateString(%q, %d) = %q, want %q", tc.input, tc.width, got, tc.expected)
			}
		})
	}
}

func TestListOffset(t *testing.T) {
	t.Parallel()

	if got := listOffset(0, 3, 10); got != 0 {
		t.Fatalf("fits entirely: offset %d, want 0", got)
	}
	if got := listOffset(19, 20, 5); got != 15 {
		t.Fatalf("cursor at end: offset %d, want 15", got)
	}
	if got := listOffset(0, 20, 5); got != 0 {
		t.Fatalf("cursor at start: offset %d, want 0", got)
	}
}
