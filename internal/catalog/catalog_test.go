package catalog

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func titles(papers []models.Paper) []string {
	out := make([]string, len(papers))
	for i, p := range papers {
		out[i] = p.Title
	}
	return out
}

func TestLoad_OneRecordPerFile(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"a.json":    `{"title": "A"}`,
		"b.json":    `{"title": "B"}`,
		"c.json":    `{"title": "C"}`,
		"notes.txt": `not a paper`,
	})
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.json"), 0o755))

	snap := Load(dir, quietLogger())
	require.Equal(t, 3, snap.Len())
	assert.Equal(t, []string{"A", "B", "C"}, titles(snap.Papers))
	assert.Empty(t, snap.Warnings)
	assert.NotEmpty(t, snap.Generation)
	assert.NotEmpty(t, snap.Signature)
}

func TestLoad_PartialSuccess(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"good1.json":  `{"title": "Good one"}`,
		"broken.json": `{"title": `,
		"list.json":   `[1, 2, 3]`,
		"good2.json":  `{"title": "Good two"}`,
	})

	snap := Load(dir, quietLogger())
	assert.Equal(t, []string{"Good one", "Good two"}, titles(snap.Papers))
	require.Len(t, snap.Warnings, 2)
	assert.Equal(t, "broken.json", snap.Warnings[0].File)
	assert.Equal(t, "list.json", snap.Warnings[1].File)
	assert.True(t, snap.Warnings[0].Skipped)
}

func TestLoad_MissingDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "absent")

	snap := Load(dir, quietLogger())
	assert.Equal(t, 0, snap.Len())
	assert.NotNil(t, snap.Papers)
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, dir, snap.Warnings[0].File)
	assert.True(t, snap.Warnings[0].Skipped)
}

func TestLoad_DefaultTopic(t *testing.T) {
	dir := writeDir(t, map[string]string{"p.json": `{"title": "No areas"}`})

	snap := Load(dir, quietLogger())
	require.Equal(t, 1, snap.Len())
	assert.Equal(t, []string{models.UnknownTopic}, snap.Papers[0].Topics)
	assert.Equal(t, []string{models.UnknownTopic}, snap.Topics)
}

func TestLoad_Deterministic(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"x.json": `{"title": "X", "year": 2020, "subject_area": {"areas": ["Physics"]}}`,
		"y.json": `{"paper_title": "Y", "authors": ["A", "B"]}`,
	})

	first := Load(dir, quietLogger())
	second := Load(dir, quietLogger())
	assert.Equal(t, first.Papers, second.Papers)
	assert.Equal(t, first.Topics, second.Topics)
	assert.Equal(t, first.Signature, second.Signature)
	assert.NotEqual(t, first.Generation, second.Generation)
}

func TestLoad_IdentifierCollision(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"Paper.json": `{"title": "Upper"}`,
		"paper.JSON": `{"title": "Lower"}`,
	})

	snap := Load(dir, quietLogger())
	require.Equal(t, 2, snap.Len())
	assert.Equal(t, "Paper", snap.Papers[0].ID)
	assert.Equal(t, "paper.JSON", snap.Papers[1].ID)
	require.Len(t, snap.Warnings, 1)
	assert.Equal(t, "paper.JSON", snap.Warnings[0].File)
	assert.False(t, snap.Warnings[0].Skipped)

	p, ok := snap.Get("paper.JSON")
	require.True(t, ok)
	assert.Equal(t, "Lower", p.Title)
}

func TestSnapshot_Select(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"a.json": `{"title": "A"}`,
		"b.json": `{"title": "B"}`,
	})
	snap := Load(dir, quietLogger())

	got, err := snap.Select([]string{"b", "a", "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "A"}, titles(got))

	_, err = snap.Select([]string{"a", "missing"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestLoad_FooBarSortedByDate(t *testing.T) {
	dir := writeDir(t, map[string]string{
		"paper1.json": `{"title": "Foo", "published": "2023-05-01"}`,
		"paper2.json": `{"paper_title": "Bar", "year": 2021}`,
	})

	snap := Load(dir, quietLogger())
	sorted := Sort(snap.Papers, SortByDate)
	assert.Equal(t, []string{"Foo", "Bar"}, titles(sorted))
	assert.Equal(t, models.Date{Year: 2023, Month: 5, Day: 1}, sorted[0].Published)
	assert.Equal(t, models.Date{Year: 2021}, sorted[1].Published)
}
