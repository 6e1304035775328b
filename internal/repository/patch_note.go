package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"er-patch-tracker/internal/constants"
	"er-patch-tracker/internal/db"
	"er-patch-tracker/internal/domain"

	"github.com/rs/zerolog"
)

type PatchNoteRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewPatchNoteRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *PatchNoteRepository {
	return &PatchNoteRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func toPatchNote(row db.PatchNote) (*domain.PatchNote, error) {
	n := &domain.PatchNote{
		ID:           int(row.ID),
		Title:        row.Title,
		Link:         row.Link,
		ThumbnailURL: row.ThumbnailUrl,
		ViewCount:    int(row.ViewCount),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.CharacterNames), &n.CharacterNames); err != nil {
		return nil, fmt.Errorf("failed to decode character names of patch %d: %w", row.ID, err)
	}
	return n, nil
}

// Get returns nil when the patch note is not stored.
func (r *PatchNoteRepository) Get(ctx context.Context, id int) (*domain.PatchNote, error) {
	row, err := r.queries.GetPatchNote(ctx, int64(id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patch note %d: %w", id, err)
	}
	return toPatchNote(row)
}

// List returns patch notes newest id first; limit <= 0 returns all.
func (r *PatchNoteRepository) List(ctx context.Context, limit int) ([]domain.PatchNote, error) {
	n := int64(limit)
	if limit <= 0 {
		n = -1
	}
	rows, err := r.queries.ListPatchNotes(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("failed to list patch notes: %w", err)
	}

	out := make([]domain.PatchNote, 0, len(rows))
	for _, row := range rows {
		note, err := toPatchNote(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *note)
	}
	return out, nil
}

func (r *PatchNoteRepository) KnownIDs(ctx context.Context) (map[int]bool, error) {
	ids, err := r.queries.ListPatchNoteIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patch note ids: %w", err)
	}
	known := make(map[int]bool, len(ids))
	for _, id := range ids {
		known[int(id)] = true
	}
	return known, nil
}

// UpsertBatch writes crawled notes. Stored character names are kept.
func (r *PatchNoteRepository) UpsertBatch(ctx context.Context, notes []domain.PatchNote) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)

	for i := 0; i < len(notes); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(notes))

		for _, note := range notes[i:end] {
			names, err := encodeNames(note.CharacterNames)
			if err != nil {
				return err
			}
			err = qtx.UpsertPatchNote(ctx, db.UpsertPatchNoteParams{
				ID:             int64(note.ID),
				Title:          note.Title,
				Link:           note.Link,
				ThumbnailUrl:   note.ThumbnailURL,
				ViewCount:      int64(note.ViewCount),
				CharacterNames: names,
				CreatedAt:      note.CreatedAt,
				UpdatedAt:      note.UpdatedAt,
			})
			if err != nil {
				return fmt.Errorf("failed to upsert patch note %d: %w", note.ID, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().Int("count", len(notes)).Msg("patch notes upserted")
	return nil
}

// SetCharacterNames replaces the denormalized name list, sorted. It fails with
// domain.ErrPatchNoteNotFound when no such note is stored.
func (r *PatchNoteRepository) SetCharacterNames(ctx context.Context, id int, names []string) error {
	encoded, err := encodeNames(names)
	if err != nil {
		return err
	}
	n, err := r.queries.UpdatePatchNoteCharacterNames(ctx, db.UpdatePatchNoteCharacterNamesParams{
		CharacterNames: encoded,
		ID:             int64(id),
	})
	if err != nil {
		return fmt.Errorf("failed to update character names of patch %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("patch %d: %w", id, domain.ErrPatchNoteNotFound)
	}
	return nil
}

func encodeNames(names []string) (string, error) {
	sorted := append([]string{}, names...)
	sort.Strings(sorted)
	data, err := json.Marshal(sorted)
	if err != nil {
		return "", fmt.Errorf("failed to encode character names: %w", err)
	}
	return string(data), nil
}
