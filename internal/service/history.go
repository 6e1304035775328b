package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"er-patch-tracker/internal/domain"
	"er-patch-tracker/internal/repository"

	"github.com/rs/zerolog"
)

// Snapshot is the seed file shape: characters keyed by name.
type Snapshot struct {
	Characters map[string]domain.Character `json:"characters"`
}

type HistoryService struct {
	characters *repository.CharacterRepository
	logger     zerolog.Logger
}

func NewHistoryService(characters *repository.CharacterRepository, logger zerolog.Logger) *HistoryService {
	return &HistoryService{characters: characters, logger: logger}
}

// RecalculateAll rewrites streaks and stats of every stored character.
func (s *HistoryService) RecalculateAll(ctx context.Context) (int, error) {
	characters, err := s.characters.List(ctx)
	if err != nil {
		return 0, err
	}

	batch := make([]*domain.Character, len(characters))
	for i := range characters {
		batch[i] = &characters[i]
	}
	if err := s.characters.PutBatch(ctx, batch); err != nil {
		s.logger.Error().Err(err).Msg("failed to recalculate characters")
		return 0, err
	}

	s.logger.Info().Int("characters", len(batch)).Msg("stats recalculated")
	return len(batch), nil
}

func (s *HistoryService) Import(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return 0, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}

	batch := make([]*domain.Character, 0, len(snap.Characters))
	for name, c := range snap.Characters {
		if c.Name == "" {
			c.Name = name
		}
		batch = append(batch, &c)
	}
	if err := s.characters.PutBatch(ctx, batch); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to import snapshot")
		return 0, err
	}

	s.logger.Info().Int("characters", len(batch)).Str("path", path).Msg("snapshot imported")
	return len(batch), nil
}

func (s *HistoryService) Export(ctx context.Context, path string) (int, error) {
	characters, err := s.characters.List(ctx)
	if err != nil {
		return 0, err
	}

	snap := Snapshot{Characters: make(map[string]domain.Character, len(characters))}
	for _, c := range characters {
		snap.Characters[c.Name] = c
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return 0, fmt.Errorf("failed to write snapshot: %w", err)
	}

	s.logger.Info().Int("characters", len(characters)).Str("path", path).Msg("snapshot exported")
	return len(characters), nil
}
