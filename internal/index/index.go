package index

import "github.com/starford/exhyte/internal/models"

// PaperIndex defines the interface for paper indexing operations.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type PaperIndex interface {
	UpsertPaper(p models.Paper) error
	DeletePaper(id string) error
	GetChecksum(id string) (string, error)
	AllChecksums() (map[string]string, error)
	Search(query string, limit int) ([]SearchResult, error)
	Count() (int, error)
	Close() error
}

// Verify *DB satisfies PaperIndex at compile time.
var _ PaperIndex = (*DB)(nil)
