package survey

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/exhyte/internal/catalog"
	"github.com/starford/exhyte/internal/models"
)

// Result is a generated survey.
type Result struct {
	Text     string        `json:"text"`
	Model    string        `json:"model"`
	PaperIDs []string      `json:"paper_ids"`
	Elapsed  time.Duration `json:"elapsed_ns"`
}

// Generator writes surveys through a Completer.
type Generator struct {
	completer Completer
	opts      Options
	logger    *slog.Logger
}

// NewGenerator returns a Generator using opts for every request.
func NewGenerator(c Completer, opts Options, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{completer: c, opts: opts, logger: logger}
}

// Generate orders papers newest first, then by title, and asks the
// completer for a survey of them.
func (g *Generator) Generate(ctx context.Context, papers []models.Paper) (*Result, error) {
	ordered := catalog.Sort(papers, catalog.SortByDate)
	req, err := BuildRequest(ordered, g.opts)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(ordered))
	for i, p := range ordered {
		ids[i] = p.ID
	}

	start := time.Now()
	text, err := g.completer.Complete(ctx, req)
	elapsed := time.Since(start)
	if errors.Is(err, context.Canceled) {
		g.logger.Debug("survey: completion cancelled", slog.Duration("elapsed", elapsed))
		return nil, fmt.Errorf("survey: generate: %w", err)
	}
	if err != nil {
		g.logger.Error("survey: completion failed",
			slog.Int("papers", len(ids)),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("survey: generate: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyResponse
	}

	g.logger.Info("survey: generated",
		slog.Int("papers", len(ids)),
		slog.String("model", req.Model),
		slog.Duration("elapsed", elapsed))

	return &Result{Text: text, Model: req.Model, PaperIDs: ids, Elapsed: elapsed}, nil
}
