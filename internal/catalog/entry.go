package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Misfitd4/b99pack/internal/b99"
)

// Entry is one catalog row describing a packed bundle.
type Entry struct {
	ID           string `json:"id"`
	Path         string `json:"path"`
	HashCount    int    `json:"hash_count"`
	SSFCount     int    `json:"ssf_count"`
	TriggerCount int    `json:"trigger_count"`
	TotalOps     int    `json:"total_ops"`
	SizeBytes    int64  `json:"size_bytes"`
	MaxOps       int    `json:"max_ops"`
	CreatedAt    string `json:"created_at"`
}

// NewEntry describes a bundle just written to path, with a fresh
// UUIDv7 identity.
func NewEntry(path string, bundle *b99.Bundle, sizeBytes int64, maxOps int) Entry {
	return Entry{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Path:         path,
		HashCount:    bundle.FragmentCount(),
		SSFCount:     len(bundle.SSFs),
		TriggerCount: len(bundle.Triggers),
		TotalOps:     bundle.TotalOps(),
		SizeBytes:    sizeBytes,
		MaxOps:       maxOps,
	}
}

// Record inserts an entry. The entry's ID must be set; CreatedAt is
// filled by the database.
func (c *Catalog) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		return fmt.Errorf("record bundle: entry has no ID")
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO bundles
		(id, path, hash_count, ssf_count, trigger_count, total_ops, size_bytes, max_ops)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		e.ID,
		e.Path,
		e.HashCount,
		e.SSFCount,
		e.TriggerCount,
		e.TotalOps,
		e.SizeBytes,
		e.MaxOps,
	)
	if err != nil {
		return fmt.Errorf("record bundle: %w", err)
	}
	return nil
}

// List returns all entries, newest first. Ordering is deterministic:
// creation time, then ID.
func (c *Catalog) List(ctx context.Context) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `
		SELECT id, path, hash_count, ssf_count, trigger_count, total_ops, size_bytes, max_ops, created_at
		FROM bundles
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(
			&e.ID, &e.Path, &e.HashCount, &e.SSFCount, &e.TriggerCount,
			&e.TotalOps, &e.SizeBytes, &e.MaxOps, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan bundle row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bundles: %w", err)
	}
	return entries, nil
}

// Remove deletes one entry by ID and reports whether a row was
// actually deleted. The bundle file on disk is left alone.
func (c *Catalog) Remove(ctx context.Context, id string) (bool, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM bundles WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("remove bundle %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove bundle %s: %w", id, err)
	}
	return n > 0, nil
}
