package catalog

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/models"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	// SortByTitle orders by title ascending, ignoring case first.
	SortByTitle SortKey = "title"
	// SortByDate orders newest first; undated papers go last.
	SortByDate SortKey = "date"
)

// ParseSortKey maps a user supplied sort name onto a SortKey.
// The empty string selects SortByTitle.
func ParseSortKey(s string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "title":
		return SortByTitle, nil
	case "date", "year", "published":
		return SortByDate, nil
	}
	return "", fmt.Errorf("%w: unknown sort key %q", apperr.ErrInvalidArgument, s)
}

// Filter returns the papers tagged with at least one of topics (all papers
// when topics is empty) whose raw payload contains keyword, ignoring case
// (all papers when keyword is blank). Relative order is preserved.
func Filter(papers []models.Paper, topics []string, keyword string) []models.Paper {
	want := make(map[string]struct{}, len(topics))
	for _, t := range topics {
		if t != "" {
			want[t] = struct{}{}
		}
	}
	keyword = strings.TrimSpace(keyword)

	out := make([]models.Paper, 0, len(papers))
	for _, p := range papers {
		if len(want) > 0 && !p.HasAnyTopic(want) {
			continue
		}
		if !p.Matches(keyword) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort returns a sorted copy of papers. Title is the secondary key for
// SortByDate and input order breaks any remaining tie.
func Sort(papers []models.Paper, key SortKey) []models.Paper {
	out := slices.Clone(papers)
	switch key {
	case SortByDate:
		slices.SortStableFunc(out, func(a, b models.Paper) int {
			if c := compareDateDesc(a.Published, b.Published); c != 0 {
				return c
			}
			return compareTitle(a.Title, b.Title)
		})
	default:
		slices.SortStableFunc(out, func(a, b models.Paper) int {
			return compareTitle(a.Title, b.Title)
		})
	}
	return out
}

func compareDateDesc(a, b models.Date) int {
	switch {
	case a.IsZero() && b.IsZero():
		return 0
	case a.IsZero():
		return 1
	case b.IsZero():
		return -1
	}
	return b.Compare(a)
}

func compareTitle(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// TopicCounts returns every topic with the number of papers carrying it,
// sorted by topic name. A topic repeated inside one paper counts once.
func TopicCounts(papers []models.Paper) []models.TopicCount {
	counts := make(map[string]int)
	for _, p := range papers {
		seen := make(map[string]struct{}, len(p.Topics))
		for _, t := range p.Topics {
			if _, dup := seen[t]; dup {
				continue
			}
			seen[t] = struct{}{}
			counts[t]++
		}
	}
	out := make([]models.TopicCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, models.TopicCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
