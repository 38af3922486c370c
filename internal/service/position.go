package service

import (
	"errors"
	"fmt"
	"time"

	"fenview/internal/board"
	"fenview/internal/storage"

	"github.com/google/uuid"
)

// Position is a named, persisted board snapshot
type Position struct {
	PositionID string
	Name       string
	Placement  string
	CreatedAt  time.Time
}

// SavePosition validates the FEN and stores its normalized placement under a new ID
func (s *Service) SavePosition(name, fen string) (*Position, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	b, err := board.ParseFEN(fen)
	if err != nil {
		return nil, err
	}

	id, err := s.generateUniquePositionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate unique ID: %w", err)
	}

	pos := &Position{
		PositionID: id,
		Name:       name,
		Placement:  b.Placement(),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.CreatePosition(storage.PositionRecord{
		PositionID: pos.PositionID,
		Name:       pos.Name,
		Placement:  pos.Placement,
		CreatedAt:  pos.CreatedAt,
	}); err != nil {
		return nil, err
	}

	return pos, nil
}

// GetPosition loads a stored position
func (s *Service) GetPosition(positionID string) (*Position, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	rec, err := s.store.GetPosition(positionID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return fromRecord(*rec), nil
}

// ListPositions returns stored positions, optionally filtered by name
func (s *Service) ListPositions(name string) ([]Position, error) {
	if s.store == nil {
		return nil, ErrStorageDisabled
	}

	records, err := s.store.QueryPositions(name)
	if err != nil {
		return nil, err
	}

	positions := make([]Position, 0, len(records))
	for _, rec := range records {
		positions = append(positions, *fromRecord(rec))
	}
	return positions, nil
}

// DeletePosition removes a stored position
func (s *Service) DeletePosition(positionID string) error {
	if s.store == nil {
		return ErrStorageDisabled
	}

	err := s.store.DeletePosition(positionID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// generateUniquePositionID retries on the unlikely event of a collision
func (s *Service) generateUniquePositionID() (string, error) {
	const maxAttempts = 10

	for i := 0; i < maxAttempts; i++ {
		id := uuid.New().String()
		_, err := s.store.GetPosition(id)
		if errors.Is(err, storage.ErrNotFound) {
			return id, nil
		}
		if err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("failed to generate unique position ID after %d attempts", maxAttempts)
}

func fromRecord(rec storage.PositionRecord) *Position {
	return &Position{
		PositionID: rec.PositionID,
		Name:       rec.Name,
		Placement:  rec.Placement,
		CreatedAt:  rec.CreatedAt,
	}
}
