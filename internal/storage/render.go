package storage

import (
	"database/sql"
	"fmt"
)

// RecordRender asynchronously appends to the render log
func (s *Store) RecordRender(record RenderRecord) {
	s.enqueue("render record", func(tx *sql.Tx) error {
		query := `INSERT INTO renders (placement, format, theme, rendered_at) VALUES (?, ?, ?, ?)`
		_, err := tx.Exec(query, record.Placement, record.Format, record.Theme, record.RenderedAt)
		return err
	})
}

// RecentRenders returns up to limit log entries, newest first
func (s *Store) RecentRenders(limit int) ([]RenderRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT render_id, placement, format, theme, rendered_at
		FROM renders ORDER BY render_id DESC LIMIT ?`

	rows, err := s.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var renders []RenderRecord
	for rows.Next() {
		var r RenderRecord
		if err := rows.Scan(&r.RenderID, &r.Placement, &r.Format, &r.Theme, &r.RenderedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		renders = append(renders, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return renders, nil
}
