// Package storage defines the read-only paper directory abstraction.
package storage

import (
	"strings"
	"time"
)

// Extension is the suffix (matched case-insensitively) of paper files.
const Extension = ".json"

// FileMeta describes one paper file in the directory.
type FileMeta struct {
	Name    string    `json:"name"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
}

// Provider is the interface for paper directory access.
type Provider interface {
	// Root returns the absolute directory path.
	Root() string
	// List returns every paper file directly under the root, sorted by name.
	List() ([]FileMeta, error)
	// Read returns the raw bytes of the named file.
	Read(name string) ([]byte, error)
}

// IsPaperFile reports whether name looks like a paper file: a .json
// extension in any case and a non-empty stem.
func IsPaperFile(name string) bool {
	return len(name) > len(Extension) && strings.EqualFold(name[len(name)-len(Extension):], Extension)
}
