package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"er-patch-tracker/internal/balance"
	"er-patch-tracker/internal/db"
	"er-patch-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type CharacterRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewCharacterRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *CharacterRepository {
	return &CharacterRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func toCharacter(row db.Character) (*domain.Character, error) {
	c := &domain.Character{
		Name:      row.Name,
		NameEn:    row.NameEn,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Stats), &c.Stats); err != nil {
		return nil, fmt.Errorf("failed to decode stats of %s: %w", row.Name, err)
	}
	if err := json.Unmarshal([]byte(row.PatchHistory), &c.PatchHistory); err != nil {
		return nil, fmt.Errorf("failed to decode patch history of %s: %w", row.Name, err)
	}
	if c.PatchHistory == nil {
		c.PatchHistory = []domain.PatchEntry{}
	}
	return c, nil
}

// Get returns nil when the character is not stored.
func (r *CharacterRepository) Get(ctx context.Context, name string) (*domain.Character, error) {
	return r.get(ctx, r.queries, name)
}

func (r *CharacterRepository) get(ctx context.Context, q *db.Queries, name string) (*domain.Character, error) {
	row, err := q.GetCharacter(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character %s: %w", name, err)
	}
	return toCharacter(row)
}

func (r *CharacterRepository) List(ctx context.Context) ([]domain.Character, error) {
	rows, err := r.queries.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters: %w", err)
	}

	out := make([]domain.Character, 0, len(rows))
	for _, row := range rows {
		c, err := toCharacter(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

// Put recomputes streaks and stats from the history and writes both in one
// statement.
func (r *CharacterRepository) Put(ctx context.Context, c *domain.Character) error {
	return r.put(ctx, r.queries, c)
}

func (r *CharacterRepository) put(ctx context.Context, q *db.Queries, c *domain.Character) error {
	if c.PatchHistory == nil {
		c.PatchHistory = []domain.PatchEntry{}
	}
	balance.Recompute(c)
	c.UpdatedAt = time.Now()

	stats, err := json.Marshal(c.Stats)
	if err != nil {
		return fmt.Errorf("failed to encode stats of %s: %w", c.Name, err)
	}
	history, err := json.Marshal(c.PatchHistory)
	if err != nil {
		return fmt.Errorf("failed to encode patch history of %s: %w", c.Name, err)
	}

	if err := q.UpsertCharacter(ctx, db.UpsertCharacterParams{
		Name:         c.Name,
		NameEn:       c.NameEn,
		Stats:        string(stats),
		PatchHistory: string(history),
		UpdatedAt:    c.UpdatedAt,
	}); err != nil {
		return fmt.Errorf("failed to put character %s: %w", c.Name, err)
	}

	r.logger.Debug().
		Str("character", c.Name).
		Int("patches", c.Stats.TotalPatches).
		Msg("character stored")
	return nil
}

// PutBatch stores characters in one transaction.
func (r *CharacterRepository) PutBatch(ctx context.Context, characters []*domain.Character) error {
	return r.withTx(ctx, func(qtx *db.Queries) error {
		for _, c := range characters {
			if err := r.put(ctx, qtx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddPatchEntry appends entry to the character's history, creating the
// character when absent. It fails with domain.ErrPatchExists when the history
// already holds the patch.
func (r *CharacterRepository) AddPatchEntry(ctx context.Context, name string, entry domain.PatchEntry) (*domain.Character, error) {
	var stored *domain.Character
	err := r.withTx(ctx, func(qtx *db.Queries) error {
		c, err := r.get(ctx, qtx, name)
		if err != nil {
			return err
		}
		if c == nil {
			c = &domain.Character{Name: name}
			r.logger.Info().Str("character", name).Msg("creating character")
		}
		if c.HasPatch(entry.PatchID) {
			return fmt.Errorf("%s patch %d: %w", name, entry.PatchID, domain.ErrPatchExists)
		}

		entry.OverallChange = balance.OverallChange(entry.Changes)
		c.PatchHistory = append(c.PatchHistory, entry)
		if err := r.put(ctx, qtx, c); err != nil {
			return err
		}
		stored = c
		return nil
	})
	return stored, err
}

// ReplacePatchChanges swaps the changes of an existing entry. An empty
// devComment keeps the stored one; a stored empty comment is filled.
func (r *CharacterRepository) ReplacePatchChanges(ctx context.Context, name string, patchID int, changes []domain.Change, devComment string) (*domain.Character, error) {
	var stored *domain.Character
	err := r.withTx(ctx, func(qtx *db.Queries) error {
		c, err := r.get(ctx, qtx, name)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%s: %w", name, domain.ErrCharacterNotFound)
		}
		entry := c.Entry(patchID)
		if entry == nil {
			return fmt.Errorf("%s patch %d: %w", name, patchID, domain.ErrPatchEntryNotFound)
		}

		entry.Changes = changes
		entry.OverallChange = balance.OverallChange(changes)
		if entry.DevComment == "" {
			entry.DevComment = devComment
		}
		if err := r.put(ctx, qtx, c); err != nil {
			return err
		}
		stored = c
		return nil
	})
	return stored, err
}

func (r *CharacterRepository) withTx(ctx context.Context, fn func(*db.Queries) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(r.queries.WithTx(tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
