//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
	"strings"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS papers_fts USING fts5(
			id UNINDEXED,
			title,
			authors,
			topics,
			body,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsUpsert(tx *sql.Tx, id, title, authors, topics, body string) error {
	if err := ftsDelete(tx, id); err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	_, err := tx.Exec(`INSERT INTO papers_fts (id, title, authors, topics, body) VALUES (?, ?, ?, ?, ?)`,
		id, title, authors, topics, body)
	if err != nil {
		return fmt.Errorf("index: upsert fts: %w", err)
	}
	return nil
}

func ftsDelete(tx *sql.Tx, id string) error {
	_, err := tx.Exec(`DELETE FROM papers_fts WHERE id = ?`, id)
	return err
}

// ftsQuery quotes every whitespace separated term so that user input such
// as "AI-driven" is matched literally instead of as FTS5 syntax.
func ftsQuery(query string) string {
	terms := strings.Fields(query)
	for i, t := range terms {
		terms[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"`
	}
	return strings.Join(terms, " ")
}

// Search performs an FTS5 full-text search and returns matching results with snippets.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 20
	}
	q := ftsQuery(query)
	if q == "" {
		return []SearchResult{}, nil
	}
	rows, err := db.conn.Query(`
		SELECT id,
		       title,
		       snippet(papers_fts, -1, '<b>', '</b>', '...', 32)
		FROM papers_fts
		WHERE papers_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, q, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	return scanResults(rows)
}
