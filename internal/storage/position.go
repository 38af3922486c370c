package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// CreatePosition inserts a position synchronously
func (s *Store) CreatePosition(record PositionRecord) error {
	query := `INSERT INTO positions (position_id, name, placement, created_at) VALUES (?, ?, ?, ?)`
	if _, err := s.db.Exec(query, record.PositionID, record.Name, record.Placement, record.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert position: %w", err)
	}
	return nil
}

// GetPosition returns the position with the given ID or ErrNotFound
func (s *Store) GetPosition(positionID string) (*PositionRecord, error) {
	var p PositionRecord
	query := `SELECT position_id, name, placement, created_at FROM positions WHERE position_id = ?`

	err := s.db.QueryRow(query, positionID).Scan(&p.PositionID, &p.Name, &p.Placement, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return &p, nil
}

// QueryPositions lists positions, newest first. An empty name or "*" matches all.
func (s *Store) QueryPositions(name string) ([]PositionRecord, error) {
	query := `SELECT position_id, name, placement, created_at FROM positions WHERE 1=1`

	var args []interface{}
	if name != "" && name != "*" {
		query += " AND name = ?"
		args = append(args, name)
	}
	query += " ORDER BY created_at DESC, position_id"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var positions []PositionRecord
	for rows.Next() {
		var p PositionRecord
		if err := rows.Scan(&p.PositionID, &p.Name, &p.Placement, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		positions = append(positions, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return positions, nil
}

// DeletePosition removes a position, returning ErrNotFound if it did not exist
func (s *Store) DeletePosition(positionID string) error {
	result, err := s.db.Exec(`DELETE FROM positions WHERE position_id = ?`, positionID)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
