package services

import (
	"context"
	"sort"
	"testing"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/engine"
	"github.com/vintervake/kodekalender/kalender/store"
)

func newSearchFixture(t *testing.T) (*ArchiveSearchService, *engine.Engine) {
	t.Helper()
	catalog, err := content.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	eng := engine.New("search-test", catalog, store.NewMemoryStore(), engine.Options{FixedDay: 2})
	if _, err := eng.SubmitCode(context.Background(), 1, "LYKT"); err != nil {
		t.Fatal(err)
	}
	return NewArchiveSearchService(catalog), eng
}

func TestSearchEmptyQueryListsUnlockedAlphabetically(t *testing.T) {
	svc, eng := newSearchFixture(t)

	results, err := svc.Search(context.Background(), eng, "   ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want unlocked file + topic: %+v", len(results), results)
	}
	if !sort.SliceIsSorted(results, func(i, j int) bool { return results[i].Label < results[j].Label }) {
		t.Errorf("results not alphabetical: %+v", results)
	}
	if results[0].Kind != "file" || results[0].ID != "logg-001" {
		t.Errorf("first result = %+v, want the day 1 log file", results[0])
	}
	if results[1].Kind != "topic" || results[1].ID != "morse" || results[1].Day != 1 {
		t.Errorf("second result = %+v, want the morse topic from day 1", results[1])
	}
}

func TestSearchFuzzyMatchesFiles(t *testing.T) {
	svc, eng := newSearchFixture(t)

	results, err := svc.Search(context.Background(), eng, "Ferds")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) == 0 {
		t.Fatal("fuzzy query returned nothing")
	}
	if results[0].ID != "logg-001" {
		t.Errorf("best match = %+v, want logg-001", results[0])
	}
	for _, r := range results {
		if r.Kind == "topic" {
			t.Errorf("topic %q matched a file-only query", r.ID)
		}
	}
}

func TestSearchNeverShowsLockedContent(t *testing.T) {
	svc, eng := newSearchFixture(t)

	// Day 2 is open on the calendar but not completed, so its file and
	// topic stay out of the archive.
	for _, query := range []string{"", "ferdslogg", "radio"} {
		results, err := svc.Search(context.Background(), eng, query)
		if err != nil {
			t.Fatalf("Search(%q) error = %v", query, err)
		}
		for _, r := range results {
			if r.ID == "logg-002" || r.ID == "radiobolger" {
				t.Errorf("Search(%q) leaked locked content: %+v", query, r)
			}
		}
	}
}
