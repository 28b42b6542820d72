package services

import (
	"context"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/vintervake/kodekalender/kalender/content"
	"github.com/vintervake/kodekalender/kalender/engine"
)

// archiveItems implements fuzzy.Source over the searchable archive entries.
type archiveItems []archiveItem

type archiveItem struct {
	Kind  string // "file" or "topic"
	ID    string
	Label string
	Day   int
}

func (items archiveItems) Len() int            { return len(items) }
func (items archiveItems) String(i int) string { return items[i].Label }

// SearchResult is one archive hit ordered by match quality.
type SearchResult struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Label string `json:"label"`
	Day   int    `json:"day,omitempty"`
	Score int    `json:"score"`
}

// ArchiveSearchService fuzzy-searches a session's unlocked files and topics.
// Locked content never appears in results.
type ArchiveSearchService struct {
	catalog *content.Catalog
}

func NewArchiveSearchService(catalog *content.Catalog) *ArchiveSearchService {
	return &ArchiveSearchService{catalog: catalog}
}

// Search matches the query against the session's unlocked archive. An empty
// query returns everything unlocked, alphabetically.
func (s *ArchiveSearchService) Search(ctx context.Context, eng *engine.Engine, query string) ([]SearchResult, error) {
	st, err := eng.State(ctx)
	if err != nil {
		return nil, err
	}

	items := make(archiveItems, 0, len(st.UnlockedFiles)+len(st.UnlockedTopics))
	for _, fileID := range st.UnlockedFiles {
		node, ok := s.catalog.FileByID(fileID)
		if !ok {
			continue
		}
		items = append(items, archiveItem{
			Kind:  "file",
			ID:    node.ID,
			Label: node.Name,
		})
	}
	for topic, day := range st.UnlockedTopics {
		items = append(items, archiveItem{
			Kind:  "topic",
			ID:    topic,
			Label: topic,
			Day:   day,
		})
	}

	query = strings.TrimSpace(query)
	if query == "" {
		results := make([]SearchResult, len(items))
		for i, item := range items {
			results[i] = SearchResult{Kind: item.Kind, ID: item.ID, Label: item.Label, Day: item.Day}
		}
		sort.Slice(results, func(i, j int) bool { return results[i].Label < results[j].Label })
		return results, nil
	}

	matches := fuzzy.FindFrom(strings.ToLower(query), items)
	results := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		item := items[m.Index]
		results = append(results, SearchResult{
			Kind:  item.Kind,
			ID:    item.ID,
			Label: item.Label,
			Day:   item.Day,
			Score: m.Score,
		})
	}
	return results, nil
}
