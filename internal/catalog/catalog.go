// Package catalog loads a directory of paper summaries into an immutable
// snapshot and provides the pure filter and sort operations over it.
package catalog

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starford/exhyte/internal/apperr"
	"github.com/starford/exhyte/internal/checksum"
	"github.com/starford/exhyte/internal/models"
	"github.com/starford/exhyte/internal/parser"
	"github.com/starford/exhyte/internal/storage"
)

// unavailableSignature marks a snapshot built for a missing or unreadable directory.
const unavailableSignature = "unavailable"

// Snapshot is one complete load of the paper directory. It is never modified
// after construction; a reload produces a new Snapshot.
type Snapshot struct {
	Papers     []models.Paper
	Topics     []string
	Warnings   []models.LoadWarning
	Signature  string
	Generation string
	LoadedAt   time.Time

	byID map[string]int
}

// Len returns the number of loaded papers.
func (s *Snapshot) Len() int { return len(s.Papers) }

// Get returns the paper with the given identifier.
func (s *Snapshot) Get(id string) (models.Paper, bool) {
	i, ok := s.byID[id]
	if !ok {
		return models.Paper{}, false
	}
	return s.Papers[i], true
}

// Select resolves ids in the order given, skipping repeats. An unknown id
// fails the whole selection.
func (s *Snapshot) Select(ids []string) ([]models.Paper, error) {
	out := make([]models.Paper, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		p, ok := s.Get(id)
		if !ok {
			return nil, fmt.Errorf("%w: paper %q", apperr.ErrNotFound, id)
		}
		out = append(out, p)
	}
	return out, nil
}

// Load reads every .json file in dir. Unreadable or malformed files are
// logged and skipped; a missing directory yields an empty snapshot. Load
// never fails as a whole.
func Load(dir string, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.Default()
	}
	store, err := storage.NewFS(dir)
	if err != nil {
		return unavailable(dir, err, logger)
	}
	return LoadFrom(store, logger)
}

// LoadFrom is Load over an already opened provider.
func LoadFrom(store storage.Provider, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.Default()
	}
	metas, err := store.List()
	if err != nil {
		return unavailable(store.Root(), err, logger)
	}
	return build(store, metas, logger)
}

func open(dir string) (storage.Provider, []storage.FileMeta, error) {
	store, err := storage.NewFS(dir)
	if err != nil {
		return nil, nil, err
	}
	metas, err := store.List()
	if err != nil {
		return nil, nil, err
	}
	return store, metas, nil
}

func unavailable(dir string, err error, logger *slog.Logger) *Snapshot {
	logger.Warn("catalog: paper directory unavailable",
		slog.String("dir", dir),
		slog.String("error", err.Error()))
	return newSnapshot(nil, []models.LoadWarning{{File: dir, Error: err.Error(), Skipped: true}}, unavailableSignature)
}

func build(store storage.Provider, metas []storage.FileMeta, logger *slog.Logger) *Snapshot {
	var (
		papers   = make([]models.Paper, 0, len(metas))
		warnings []models.LoadWarning
		// taken holds lower-cased identifiers so that Paper.json and
		// paper.JSON are recognised as the same stem.
		taken = make(map[string]string, len(metas))
	)

	warn := func(file string, err error) {
		logger.Warn("catalog: skipped paper file", slog.String("file", file), slog.String("error", err.Error()))
		warnings = append(warnings, models.LoadWarning{File: file, Error: err.Error(), Skipped: true})
	}

	for _, m := range metas {
		data, err := store.Read(m.Name)
		if err != nil {
			warn(m.Name, err)
			continue
		}
		p, err := parser.Parse(m.Name, data)
		if err != nil {
			warn(m.Name, err)
			continue
		}

		if owner, clash := taken[strings.ToLower(p.ID)]; clash {
			id := uniqueID(p.File, taken)
			msg := fmt.Sprintf("identifier %q already used by %s; using %q", p.ID, owner, id)
			logger.Warn("catalog: identifier collision", slog.String("file", m.Name), slog.String("id", id), slog.String("owner", owner))
			warnings = append(warnings, models.LoadWarning{File: m.Name, Error: msg})
			p.ID = id
		}
		taken[strings.ToLower(p.ID)] = m.Name
		papers = append(papers, *p)
	}

	logger.Debug("catalog: loaded",
		slog.String("dir", store.Root()),
		slog.Int("papers", len(papers)),
		slog.Int("warnings", len(warnings)))

	return newSnapshot(papers, warnings, signature(metas))
}

// uniqueID falls back to the full file name, which is unique within a
// directory, and numbers it only if some other stem happens to equal it.
func uniqueID(file string, taken map[string]string) string {
	id := file
	for n := 2; ; n++ {
		if _, clash := taken[strings.ToLower(id)]; !clash {
			return id
		}
		id = fmt.Sprintf("%s~%d", file, n)
	}
}

func signature(metas []storage.FileMeta) string {
	entries := make([]checksum.Entry, len(metas))
	for i, m := range metas {
		entries[i] = checksum.Entry{Name: m.Name, Size: m.Size, ModTime: m.ModTime}
	}
	return checksum.Signature(entries)
}

func newSnapshot(papers []models.Paper, warnings []models.LoadWarning, sig string) *Snapshot {
	if papers == nil {
		papers = []models.Paper{}
	}
	byID := make(map[string]int, len(papers))
	topics := make(map[string]struct{})
	for i, p := range papers {
		byID[p.ID] = i
		for _, t := range p.Topics {
			topics[t] = struct{}{}
		}
	}
	names := make([]string, 0, len(topics))
	for t := range topics {
		names = append(names, t)
	}
	sort.Strings(names)

	return &Snapshot{
		Papers:     papers,
		Topics:     names,
		Warnings:   warnings,
		Signature:  sig,
		Generation: uuid.NewString(),
		LoadedAt:   time.Now().UTC(),
		byID:       byID,
	}
}
