package db

import (
	"context"
	"time"
)

const getCharacter = `SELECT name, name_en, stats, patch_history, updated_at
FROM characters
WHERE name = ?`

func (q *Queries) GetCharacter(ctx context.Context, name string) (Character, error) {
	row := q.db.QueryRowContext(ctx, getCharacter, name)
	var i Character
	err := row.Scan(
		&i.Name,
		&i.NameEn,
		&i.Stats,
		&i.PatchHistory,
		&i.UpdatedAt,
	)
	return i, err
}

const listCharacters = `SELECT name, name_en, stats, patch_history, updated_at
FROM characters
ORDER BY name`

func (q *Queries) ListCharacters(ctx context.Context) ([]Character, error) {
	rows, err := q.db.QueryContext(ctx, listCharacters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Character
	for rows.Next() {
		var i Character
		if err := rows.Scan(
			&i.Name,
			&i.NameEn,
			&i.Stats,
			&i.PatchHistory,
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

const upsertCharacter = `INSERT INTO characters (name, name_en, stats, patch_history, updated_at)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
    name_en = excluded.name_en,
    stats = excluded.stats,
    patch_history = excluded.patch_history,
    updated_at = excluded.updated_at`

type UpsertCharacterParams struct {
	Name         string
	NameEn       string
	Stats        string
	PatchHistory string
	UpdatedAt    time.Time
}

func (q *Queries) UpsertCharacter(ctx context.Context, arg UpsertCharacterParams) error {
	_, err := q.db.ExecContext(ctx, upsertCharacter,
		arg.Name,
		arg.NameEn,
		arg.Stats,
		arg.PatchHistory,
		arg.UpdatedAt,
	)
	return err
}
