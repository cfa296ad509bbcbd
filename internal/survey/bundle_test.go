package survey

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/models"
)

func rawPaper(id, raw string) models.Paper {
	return models.Paper{ID: id, File: id + ".json", Title: id, Raw: json.RawMessage(raw)}
}

func TestBundle_Format(t *testing.T) {
	got, err := Bundle([]models.Paper{
		rawPaper("a", `{"title":"Foo","year":2023}`),
		rawPaper("b", "\n  {\"paper_title\": \"Bar\", \"authors\": [\"X\", \"Y\"], \"extra\": {}}\n"),
	})
	require.NoError(t, err)

	want := "Here are 2 JSON files representing selected papers:\n" +
		"{\n  \"title\": \"Foo\",\n  \"year\": 2023\n}" +
		"\n\n" +
		"{\n  \"paper_title\": \"Bar\",\n  \"authors\": [\n    \"X\",\n    \"Y\"\n  ],\n  \"extra\": {}\n}"
	assert.Equal(t, want, got)
}

func TestBundle_KeepsOrderAndNumbers(t *testing.T) {
	got, err := Bundle([]models.Paper{
		rawPaper("z", `{"n": 1.50}`),
		rawPaper("a", `{"n": 10000000000000000001}`),
	})
	require.NoError(t, err)
	assert.Less(t, strings.Index(got, "1.50"), strings.Index(got, "10000000000000000001"))
}

func TestBundle_EmptySelection(t *testing.T) {
	_, err := Bundle(nil)
	assert.ErrorIs(t, err, apperr.ErrNoSelection)
}

func TestBuildRequest(t *testing.T) {
	papers := []models.Paper{rawPaper("a", `{"title":"Foo"}`)}

	req, err := BuildRequest(papers, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, req.Model)
	assert.Equal(t, DefaultMaxTokens, req.MaxTokens)
	require.Len(t, req.Messages, 2)
	assert.Equal(t, Message{Role: "system", Content: SystemPrompt}, req.Messages[0])
	assert.Equal(t, "user", req.Messages[1].Role)

	bundle, _ := Bundle(papers)
	assert.Equal(t, PromptTemplate+"\n\n"+bundle, req.Messages[1].Content)

	req, err = BuildRequest(papers, DefaultOptions())
	require.NoError(t, err)
	assert.InDelta(t, 0.1, req.Temperature, 1e-9)

	body, err := json.Marshal(req)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"max_tokens":4096`)
	assert.Contains(t, string(body), `"model":"gpt-4-turbo"`)
}

func TestBuildRequest_EmptySelection(t *testing.T) {
	_, err := BuildRequest(nil, DefaultOptions())
	assert.ErrorIs(t, err, apperr.ErrNoSelection)
}
