package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
)

func openTestStore(t *testing.T, limit int) *historyStore {
	t.Helper()
	store, err := openHistoryStore(filepath.Join(t.TempDir(), "history.db"), limit)
	if err != nil {
		t.Fatalf("open history store: %v", err)
	}
	t.Cleanup(func() { _ = store.close() })
	return store
}

func testResult(decision string) result {
	return result{
		Decision:    decision,
		RootThought: "a test-sized thought",
		Branches: []branch{
			{
				CategoryKey: "rational",
				DisplayName: "Rational Analysis",
				Icon:        "🧠",
				Tone:        toneRational,
				Nodes:       []thoughtNode{{Text: "seems fine", Depth: 1}},
			},
		},
		Meta: resultMeta{
			HumorLevel:     humorSubtle,
			AbsurdityLevel: absurdityControlled,
			SafetyChecked:  true,
			SourceKind:     sourceTemplate,
		},
	}
}

func TestHistoryAppendEvictsOldest(t *testing.T) {
	t.Parallel()

	store := openTestStore(t, 5)
	for i := 1; i <= 7; i++ {
		if _, err := store.append(testResult(fmt.Sprintf("decision %d", i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	entries, err := store.list()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("expected 5 entries after eviction, got %d", len(entries))
	}
	// Most recent first; the two oldest are gone.
	for i, expected := range []string{"decision 7", "decision 6", "decision 5", "decision 4", "decision 3"} {
		if entries[i].decision != expected {
			t.Fatalf("entry %d decision = %q, want %q", i, entries[i].decision, expected)
		}
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].id >= entries[i-1].id {
			t.Fatalf("ids not strictly decreasing: %d then %d", entries[i-1].id, entries[i].id)
		}
	}
}

func TestHistoryGetRoundTripsResult(t *testing.T) {
	t.Parallel()

	store := openTestStore(t, 5)
	stored := testResult("commit to the bit")
	entry, err := store.append(stored)
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	loaded, err := store.get(entry.id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(loaded.res, stored) {
		t.Fatalf("result did not round-trip:\nstored %+v\nloaded %+v", stored, loaded.res)
	}
}

func TestHistoryGetNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t, 5)
	if _, err := store.get(424242); !errors.Is(err, errHistoryNotFound) {
		t.Fatalf("expected errHistoryNotFound, got %v", err)
	}
}

func TestHistoryClear(t *testing.T) {
	t.Parallel()

	store := openTestStore(t, 5)
	if _, err := store.append(testResult("something clearable")); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := store.clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	entries, err := store.list()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history after clear, got %d entries", len(entries))
	}
}

func TestHistoryCustomLimit(t *testing.T) {
	t.Parallel()

	store := openTestStore(t, 2)
	for i := 1; i <= 3; i++ {
		if _, err := store.append(testResult(fmt.Sprintf("decision %d", i))); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	entries, err := store.list()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].decision != "decision 3" || entries[1].decision != "decision 2" {
		t.Fatalf("unexpected surviving entries: %q, %q", entries[0].decision, entries[1].decision)
	}
}
