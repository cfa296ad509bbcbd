package catalog

import "github.com/starford/exhyte/internal/models"

// ChangeKind classifies a per-paper difference between two snapshots.
type ChangeKind string

const (
	Created ChangeKind = "created"
	Updated ChangeKind = "updated"
	Deleted ChangeKind = "deleted"
)

// Change is one paper-level difference.
type Change struct {
	Kind ChangeKind `json:"kind"`
	ID   string     `json:"id"`
}

// Diff compares two snapshots by paper ID and checksum. Created and updated
// papers are reported in the order of next, deletions follow in the order of
// prev. A nil prev is treated as empty.
func Diff(prev, next *Snapshot) []Change {
	var changes []Change
	if next != nil {
		for _, p := range next.Papers {
			var (
				old models.Paper
				ok  bool
			)
			if prev != nil {
				old, ok = prev.Get(p.ID)
			}
			switch {
			case !ok:
				changes = append(changes, Change{Kind: Created, ID: p.ID})
			case old.Checksum != p.Checksum:
				changes = append(changes, Change{Kind: Updated, ID: p.ID})
			}
		}
	}
	if prev != nil {
		for _, p := range prev.Papers {
			if next != nil {
				if _, ok := next.Get(p.ID); ok {
					continue
				}
			}
			changes = append(changes, Change{Kind: Deleted, ID: p.ID})
		}
	}
	return changes
}
