package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/models"
)

func paper(id, title string, date models.Date, topics ...string) models.Paper {
	return models.Paper{ID: id, File: id + ".json", Title: title, Published: date, Topics: topics}.
		WithSearchText(`{"title":"` + title + `"}`)
}

func ids(papers []models.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.ID
	}
	return out
}

func sample() []models.Paper {
	return []models.Paper{
		paper("1", "Protein folding", models.Date{Year: 2021}, "Biology", "Chemistry"),
		paper("2", "Galaxy survey", models.Date{Year: 2023, Month: 2}, "Astronomy"),
		paper("3", "Gene networks", models.Date{}, "Biology"),
		paper("4", "Catalyst search", models.Date{Year: 2021}, "Chemistry"),
	}
}

func TestFilter_Identity(t *testing.T) {
	in := sample()
	assert.Equal(t, in, Filter(in, nil, ""))
	assert.Equal(t, in, Filter(in, []string{}, "   "))
}

func TestFilter_Topic(t *testing.T) {
	got := Filter(sample(), []string{"Biology"}, "")
	assert.Equal(t, []string{"1", "3"}, ids(got))
	for _, p := range got {
		assert.Contains(t, p.Topics, "Biology")
	}

	got = Filter(sample(), []string{"Astronomy", "Chemistry"}, "")
	assert.Equal(t, []string{"1", "2", "4"}, ids(got))

	assert.Empty(t, Filter(sample(), []string{"Geology"}, ""))
}

func TestFilter_KeywordAndTopic(t *testing.T) {
	assert.Equal(t, []string{"3"}, ids(Filter(sample(), nil, "GENE")))
	assert.Equal(t, []string{"4"}, ids(Filter(sample(), []string{"Chemistry"}, " catalyst ")))
	assert.Empty(t, Filter(sample(), []string{"Astronomy"}, "protein"))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := sample()
	before := ids(in)
	_ = Filter(in, []string{"Biology"}, "gene")
	_ = Sort(in, SortByDate)
	assert.Equal(t, before, ids(in))
}

func TestSort_Title(t *testing.T) {
	in := []models.Paper{
		paper("1", "beta", models.Date{}),
		paper("2", "Alpha", models.Date{}),
		paper("3", "alpha", models.Date{}),
		paper("4", "Beta", models.Date{}),
	}
	assert.Equal(t, []string{"2", "3", "4", "1"}, ids(Sort(in, SortByTitle)))
}

func TestSort_DateNewestFirstUnresolvedLast(t *testing.T) {
	got := Sort(sample(), SortByDate)
	assert.Equal(t, []string{"2", "4", "1", "3"}, ids(got))
}

func TestSort_DateStable(t *testing.T) {
	in := []models.Paper{
		paper("1", "Same", models.Date{Year: 2020}),
		paper("2", "Same", models.Date{Year: 2020}),
		paper("3", "Earlier title", models.Date{Year: 2020}),
		paper("4", "Same", models.Date{Year: 2020}),
	}
	assert.Equal(t, []string{"3", "1", "2", "4"}, ids(Sort(in, SortByDate)))
}

func TestParseSortKey(t *testing.T) {
	for in, want := range map[string]SortKey{
		"":       SortByTitle,
		"title":  SortByTitle,
		"Date":   SortByDate,
		" year ": SortByDate,
	} {
		got, err := ParseSortKey(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSortKey("citations")
	assert.ErrorIs(t, err, apperr.ErrInvalidArgument)
}

func TestTopicCounts(t *testing.T) {
	in := append(sample(), paper("5", "Dup", models.Date{}, "Biology", "Biology"))
	assert.Equal(t, []models.TopicCount{
		{Name: "Astronomy", Count: 1},
		{Name: "Biology", Count: 3},
		{Name: "Chemistry", Count: 2},
	}, TopicCounts(in))
}
