// Package survey turns a selection of papers into a chat-completion request
// and sends it to an OpenAI-compatible endpoint.
package survey

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/models"
)

// Defaults applied by BuildRequest when Options leaves a field unset.
const (
	DefaultModel       = "gpt-4-turbo"
	DefaultTemperature = 0.1
	DefaultMaxTokens   = 4096
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Message is one chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is an OpenAI-compatible chat-completion request body.
type Request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

// Options are the model parameters of a survey request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// DefaultOptions returns the parameters used when nothing is configured.
func DefaultOptions() Options {
	return Options{Model: DefaultModel, Temperature: DefaultTemperature, MaxTokens: DefaultMaxTokens}
}

// Bundle concatenates the raw payloads of papers, each re-indented with two
// spaces, under a header naming how many were selected. Papers appear in the
// order given.
func Bundle(papers []models.Paper) (string, error) {
	if len(papers) == 0 {
		return "", apperr.ErrNoSelection
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Here are %d JSON files representing selected papers:\n", len(papers))
	for i, p := range papers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		var buf bytes.Buffer
		raw := bytes.TrimSpace(bytes.TrimPrefix(p.Raw, utf8BOM))
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return "", fmt.Errorf("survey: bundle %s: %w", p.ID, err)
		}
		b.Write(buf.Bytes())
	}
	return b.String(), nil
}

// BuildRequest assembles the system and user messages for papers.
func BuildRequest(papers []models.Paper, opts Options) (Request, error) {
	bundle, err := Bundle(papers)
	if err != nil {
		return Request{}, err
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return Request{
		Model: opts.Model,
		Messages: []Message{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: PromptTemplate + "\n\n" + bundle},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}, nil
}
