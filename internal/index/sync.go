package index

import (
	"log/slog"

	"github.com/starford/exhyte/internal/catalog"
)

// Sync brings the index up to date with snap:
//   - papers whose checksum differs from the stored one are upserted
//   - indexed ids missing from snap are deleted
func Sync(db *DB, snap *catalog.Snapshot, logger *slog.Logger) error {
	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	present := make(map[string]struct{}, snap.Len())
	for _, p := range snap.Papers {
		present[p.ID] = struct{}{}

		if checksums[p.ID] == p.Checksum {
			continue
		}
		if err := db.UpsertPaper(p); err != nil {
			logger.Warn("sync: index failed", slog.String("id", p.ID), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("id", p.ID))
		}
	}

	for id := range checksums {
		if _, ok := present[id]; ok {
			continue
		}
		if err := db.DeletePaper(id); err != nil {
			logger.Warn("sync: delete failed", slog.String("id", id), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: removed stale", slog.String("id", id))
		}
	}

	return nil
}
