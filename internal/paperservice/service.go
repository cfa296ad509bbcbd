// Package paperservice coordinates the catalog cache, the search index and
// the survey generator behind one API used by the HTTP and MCP front ends.
package paperservice

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/catalog"
	"github.com/starford/exhyte/internal/index"
	"github.com/starford/exhyte/internal/models"
	"github.com/starford/exhyte/internal/survey"
)

// PaperListItem is a lightweight item in a list response.
type PaperListItem struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Authors   string   `json:"authors"`
	Published string   `json:"published"`
	Year      int      `json:"year,omitempty"`
	Topics    []string `json:"topics"`
	Link      string   `json:"link,omitempty"`
}

// PaperDetail is the full representation of a paper.
type PaperDetail struct {
	PaperListItem
	File     string          `json:"file"`
	Checksum string          `json:"checksum"`
	Raw      json.RawMessage `json:"raw"`
}

// ListQuery selects and orders papers. Zero values mean: every topic, no
// keyword, title order, no paging.
type ListQuery struct {
	Topics  []string
	Keyword string
	Sort    string
	Limit   int
	Offset  int
}

// ListResult is one page of papers plus the size of the full match.
type ListResult struct {
	Items      []PaperListItem `json:"papers"`
	Total      int             `json:"total"`
	Generation string          `json:"generation"`
}

// Status describes the loaded snapshot.
type Status struct {
	Dir        string               `json:"dir"`
	Papers     int                  `json:"papers"`
	Indexed    int                  `json:"indexed"`
	Topics     int                  `json:"topics"`
	Generation string               `json:"generation"`
	Signature  string               `json:"signature"`
	LoadedAt   time.Time            `json:"loaded_at"`
	Warnings   []models.LoadWarning `json:"warnings"`
	Survey     bool                 `json:"survey_enabled"`
}

// Service coordinates cache, index and survey operations.
type Service struct {
	cache  *catalog.Cache
	db     *index.DB
	gen    *survey.Generator
	notify index.EventCallback
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator enables survey generation.
func WithGenerator(g *survey.Generator) Option {
	return func(s *Service) { s.gen = g }
}

// WithNotifier sets the callback invoked for papers changed by Reload.
func WithNotifier(cb index.EventCallback) Option {
	return func(s *Service) { s.notify = cb }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService creates a paper service.
func NewService(cache *catalog.Cache, db *index.DB, opts ...Option) *Service {
	s := &Service{cache: cache, db: db, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List filters, sorts and pages the current snapshot.
func (s *Service) List(_ context.Context, q ListQuery) (*ListResult, error) {
	key, err := catalog.ParseSortKey(q.Sort)
	if err != nil {
		return nil, err
	}
	if q.Limit < 0 || q.Offset < 0 {
		return nil, fmt.Errorf("%w: limit and offset must not be negative", apperr.ErrInvalidArgument)
	}

	snap := s.cache.Current()
	matched := catalog.Sort(catalog.Filter(snap.Papers, q.Topics, q.Keyword), key)
	total := len(matched)

	page := matched[min(q.Offset, total):]
	if q.Limit > 0 && q.Limit < len(page) {
		page = page[:q.Limit]
	}

	items := make([]PaperListItem, len(page))
	for i, p := range page {
		items[i] = listItem(p)
	}
	return &ListResult{Items: items, Total: total, Generation: snap.Generation}, nil
}

// Get returns one paper with its raw payload.
func (s *Service) Get(_ context.Context, id string) (*PaperDetail, error) {
	p, ok := s.cache.Current().Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: paper %q", apperr.ErrNotFound, id)
	}
	return &PaperDetail{
		PaperListItem: listItem(p),
		File:          p.File,
		Checksum:      p.Checksum,
		Raw:           p.Raw,
	}, nil
}

// Raw returns the verbatim source bytes of a paper and their checksum.
func (s *Service) Raw(_ context.Context, id string) ([]byte, string, error) {
	p, ok := s.cache.Current().Get(id)
	if !ok {
		return nil, "", fmt.Errorf("%w: paper %q", apperr.ErrNotFound, id)
	}
	return p.Raw, p.Checksum, nil
}

// Topics returns every topic with its paper count, sorted by name.
func (s *Service) Topics(_ context.Context) []models.TopicCount {
	return catalog.TopicCounts(s.cache.Current().Papers)
}

// Search delegates full-text search to the index.
func (s *Service) Search(_ context.Context, query string, limit int) ([]index.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is required", apperr.ErrInvalidArgument)
	}
	return s.db.Search(query, limit)
}

// Status reports on the current snapshot and index.
func (s *Service) Status(_ context.Context) (*Status, error) {
	snap := s.cache.Current()
	indexed, err := s.db.Count()
	if err != nil {
		return nil, err
	}
	warnings := snap.Warnings
	if warnings == nil {
		warnings = []models.LoadWarning{}
	}
	return &Status{
		Dir:        s.cache.Dir(),
		Papers:     snap.Len(),
		Indexed:    indexed,
		Topics:     len(snap.Topics),
		Generation: snap.Generation,
		Signature:  snap.Signature,
		LoadedAt:   snap.LoadedAt,
		Warnings:   warnings,
		Survey:     s.gen != nil,
	}, nil
}

// SurveyBundle returns the document bundle a survey of ids would send.
func (s *Service) SurveyBundle(_ context.Context, ids []string) (string, error) {
	papers, err := s.selection(ids)
	if err != nil {
		return "", err
	}
	return survey.Bundle(catalog.Sort(papers, catalog.SortByDate))
}

// GenerateSurvey asks the configured completer for a survey of ids.
func (s *Service) GenerateSurvey(ctx context.Context, ids []string) (*survey.Result, error) {
	if s.gen == nil {
		return nil, apperr.ErrSurveyUnavailable
	}
	papers, err := s.selection(ids)
	if err != nil {
		return nil, err
	}
	return s.gen.Generate(ctx, papers)
}

// Reload re-scans the directory now instead of waiting for the watcher.
func (s *Service) Reload(_ context.Context) []catalog.Change {
	changes := index.Reload(s.db, s.cache, s.logger, s.notify)
	if changes == nil {
		changes = []catalog.Change{}
	}
	return changes
}

func (s *Service) selection(ids []string) ([]models.Paper, error) {
	if len(ids) == 0 {
		return nil, apperr.ErrNoSelection
	}
	return s.cache.Current().Select(ids)
}

func listItem(p models.Paper) PaperListItem {
	return PaperListItem{
		ID:        p.ID,
		Title:     p.Title,
		Authors:   p.Authors,
		Published: p.Published.String(),
		Year:      p.Published.Year,
		Topics:    p.Topics,
		Link:      p.Link,
	}
}
