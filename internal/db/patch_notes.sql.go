package db

import (
	"context"
	"time"
)

const getPatchNote = `SELECT id, title, link, thumbnail_url, view_count, character_names, created_at, updated_at
FROM patch_notes
WHERE id = ?`

func (q *Queries) GetPatchNote(ctx context.Context, id int64) (PatchNote, error) {
	row := q.db.QueryRowContext(ctx, getPatchNote, id)
	var i PatchNote
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Link,
		&i.ThumbnailUrl,
		&i.ViewCount,
		&i.CharacterNames,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const listPatchNotes = `SELECT id, title, link, thumbnail_url, view_count, character_names, created_at, updated_at
FROM patch_notes
ORDER BY id DESC
LIMIT ?`

// ListPatchNotes takes a negative limit to mean no limit.
func (q *Queries) ListPatchNotes(ctx context.Context, limit int64) ([]PatchNote, error) {
	rows, err := q.db.QueryContext(ctx, listPatchNotes, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []PatchNote
	for rows.Next() {
		var i PatchNote
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Link,
			&i.ThumbnailUrl,
			&i.ViewCount,
			&i.CharacterNames,
			&i.CreatedAt,
			&i.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listPatchNoteIDs = `SELECT id FROM patch_notes`

func (q *Queries) ListPatchNoteIDs(ctx context.Context) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, listPatchNoteIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// character_names is left alone on conflict; it is owned by the name scans.
const upsertPatchNote = `INSERT INTO patch_notes (id, title, link, thumbnail_url, view_count, character_names, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
    title = excluded.title,
    link = excluded.link,
    thumbnail_url = excluded.thumbnail_url,
    view_count = excluded.view_count,
    created_at = excluded.created_at,
    updated_at = excluded.updated_at`

type UpsertPatchNoteParams struct {
	ID             int64
	Title          string
	Link           string
	ThumbnailUrl   string
	ViewCount      int64
	CharacterNames string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (q *Queries) UpsertPatchNote(ctx context.Context, arg UpsertPatchNoteParams) error {
	_, err := q.db.ExecContext(ctx, upsertPatchNote,
		arg.ID,
		arg.Title,
		arg.Link,
		arg.ThumbnailUrl,
		arg.ViewCount,
		arg.CharacterNames,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	return err
}

const updatePatchNoteCharacterNames = `UPDATE patch_notes SET character_names = ? WHERE id = ?`

type UpdatePatchNoteCharacterNamesParams struct {
	CharacterNames string
	ID             int64
}

func (q *Queries) UpdatePatchNoteCharacterNames(ctx context.Context, arg UpdatePatchNoteCharacterNamesParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updatePatchNoteCharacterNames, arg.CharacterNames, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
