package index

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/starford/exhyte/internal/models"
)

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertPaper inserts or replaces a paper and its FTS entry within a transaction.
func (db *DB) UpsertPaper(p models.Paper) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	topicsJSON, _ := json.Marshal(p.Topics)
	body := string(p.Raw)

	_, err = tx.Exec(`
		INSERT INTO papers (id, file, title, authors, year, month, day, topics, link, checksum, body, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			file       = excluded.file,
			title      = excluded.title,
			authors    = excluded.authors,
			year       = excluded.year,
			month      = excluded.month,
			day        = excluded.day,
			topics     = excluded.topics,
			link       = excluded.link,
			checksum   = excluded.checksum,
			body       = excluded.body,
			indexed_at = excluded.indexed_at
	`, p.ID, p.File, p.Title, p.Authors,
		p.Published.Year, p.Published.Month, p.Published.Day,
		string(topicsJSON), p.Link, p.Checksum, body, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("index: upsert paper: %w", err)
	}

	// No-op when the sqlite_fts5 tag is absent.
	if err := ftsUpsert(tx, p.ID, p.Title, p.Authors, strings.Join(p.Topics, " "), body); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePaper removes a paper and its FTS entry.
func (db *DB) DeletePaper(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := ftsDelete(tx, id); err != nil {
		return fmt.Errorf("index: delete fts: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM papers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("index: delete paper: %w", err)
	}
	return tx.Commit()
}

// GetChecksum returns the stored checksum for a paper, or empty string if not found.
func (db *DB) GetChecksum(id string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM papers WHERE id = ?`, id).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("index: get checksum: %w", err)
	}
	return cs, nil
}

// AllChecksums returns id -> checksum for every indexed paper.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM papers`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// Count returns the number of indexed papers.
func (db *DB) Count() (int, error) {
	var n int
	if err := db.conn.QueryRow(`SELECT count(*) FROM papers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

func scanResults(rows *sql.Rows) ([]SearchResult, error) {
	defer rows.Close()
	out := []SearchResult{}
	for rows.Next() {
		var r SearchResult
		if err := rows.Scan(&r.ID, &r.Title, &r.Snippet); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
