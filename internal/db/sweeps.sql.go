package db

import (
	"context"
	"time"
)

const insertSweepRun = `INSERT INTO sweep_runs (id, kind, started_at) VALUES (?, ?, ?)`

type InsertSweepRunParams struct {
	ID        string
	Kind      string
	StartedAt time.Time
}

func (q *Queries) InsertSweepRun(ctx context.Context, arg InsertSweepRunParams) error {
	_, err := q.db.ExecContext(ctx, insertSweepRun, arg.ID, arg.Kind, arg.StartedAt)
	return err
}

const finishSweepRun = `UPDATE sweep_runs
SET finished_at = ?, total = ?, matched = ?, mismatched = ?, not_found = ?, errored = ?, report_path = ?
WHERE id = ?`

type FinishSweepRunParams struct {
	FinishedAt time.Time
	Total      int64
	Matched    int64
	Mismatched int64
	NotFound   int64
	Errored    int64
	ReportPath string
	ID         string
}

func (q *Queries) FinishSweepRun(ctx context.Context, arg FinishSweepRunParams) error {
	_, err := q.db.ExecContext(ctx, finishSweepRun,
		arg.FinishedAt,
		arg.Total,
		arg.Matched,
		arg.Mismatched,
		arg.NotFound,
		arg.Errored,
		arg.ReportPath,
		arg.ID,
	)
	return err
}

const listSweepRuns = `SELECT id, kind, started_at, finished_at, total, matched, mismatched, not_found, errored, report_path
FROM sweep_runs
ORDER BY started_at DESC
LIMIT ?`

func (q *Queries) ListSweepRuns(ctx context.Context, limit int64) ([]SweepRun, error) {
	rows, err := q.db.QueryContext(ctx, listSweepRuns, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SweepRun
	for rows.Next() {
		var i SweepRun
		if err := rows.Scan(
			&i.ID,
			&i.Kind,
			&i.StartedAt,
			&i.FinishedAt,
			&i.Total,
			&i.Matched,
			&i.Mismatched,
			&i.NotFound,
			&i.Errored,
			&i.ReportPath,
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

const insertSweepDiscrepancy = `INSERT INTO sweep_discrepancies
    (id, run_id, character_name, patch_id, status, db_changes, web_changes, missing, extra, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type InsertSweepDiscrepancyParams struct {
	ID            string
	RunID         string
	CharacterName string
	PatchID       int64
	Status        string
	DbChanges     int64
	WebChanges    int64
	Missing       int64
	Extra         int64
	CreatedAt     time.Time
}

func (q *Queries) InsertSweepDiscrepancy(ctx context.Context, arg InsertSweepDiscrepancyParams) error {
	_, err := q.db.ExecContext(ctx, insertSweepDiscrepancy,
		arg.ID,
		arg.RunID,
		arg.CharacterName,
		arg.PatchID,
		arg.Status,
		arg.DbChanges,
		arg.WebChanges,
		arg.Missing,
		arg.Extra,
		arg.CreatedAt,
	)
	return err
}

const countSweepDiscrepancies = `SELECT COUNT(*) FROM sweep_discrepancies WHERE run_id = ?`

func (q *Queries) CountSweepDiscrepancies(ctx context.Context, runID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countSweepDiscrepancies, runID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
