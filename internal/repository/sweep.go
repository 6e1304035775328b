package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"er-patch-tracker/internal/constants"
	"er-patch-tracker/internal/db"
	"er-patch-tracker/internal/reconcile"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// SweepRun is the audit record of one verification sweep.
type SweepRun struct {
	ID         string
	Kind       string
	StartedAt  time.Time
	FinishedAt *time.Time
	Total      int
	Matched    int
	Mismatched int
	NotFound   int
	Errored    int
	ReportPath string
}

type SweepRepository struct {
	queries *db.Queries
	db      *sql.DB
	logger  zerolog.Logger
}

func NewSweepRepository(sqlDB *sql.DB, queries *db.Queries, logger zerolog.Logger) *SweepRepository {
	return &SweepRepository{
		queries: queries,
		db:      sqlDB,
		logger:  logger,
	}
}

func (r *SweepRepository) Start(ctx context.Context, id, kind string, startedAt time.Time) error {
	if err := r.queries.InsertSweepRun(ctx, db.InsertSweepRunParams{
		ID:        id,
		Kind:      kind,
		StartedAt: startedAt,
	}); err != nil {
		return fmt.Errorf("failed to record sweep run: %w", err)
	}
	return nil
}

// Finish stores the report counters and every non-matching pair.
func (r *SweepRepository) Finish(ctx context.Context, report *reconcile.Report, reportPath string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now()

	var issues []reconcile.PairResult
	for _, res := range report.AllResults {
		if res.Status != reconcile.StatusMatch {
			issues = append(issues, res)
		}
	}

	for i := 0; i < len(issues); i += constants.DBBatchSize {
		end := min(i+constants.DBBatchSize, len(issues))

		for _, res := range issues[i:end] {
			id, err := gonanoid.New()
			if err != nil {
				return fmt.Errorf("failed to generate discrepancy id: %w", err)
			}
			err = qtx.InsertSweepDiscrepancy(ctx, db.InsertSweepDiscrepancyParams{
				ID:            id,
				RunID:         report.RunID,
				CharacterName: res.Character,
				PatchID:       int64(res.PatchID),
				Status:        string(res.Status),
				DbChanges:     int64(res.DBChangesCount),
				WebChanges:    int64(res.WebChangesCount),
				Missing:       int64(len(res.MissingChanges)),
				Extra:         int64(len(res.ExtraChanges)),
				CreatedAt:     now,
			})
			if err != nil {
				return fmt.Errorf("failed to record discrepancy %s/%d: %w", res.Character, res.PatchID, err)
			}
		}
	}

	s := report.Summary
	if err := qtx.FinishSweepRun(ctx, db.FinishSweepRunParams{
		FinishedAt: now,
		Total:      int64(s.TotalPairs),
		Matched:    int64(s.MatchCount),
		Mismatched: int64(s.MismatchCount),
		NotFound:   int64(s.NotFoundCount + s.SectionMissingCount),
		Errored:    int64(s.ErrorCount),
		ReportPath: reportPath,
		ID:         report.RunID,
	}); err != nil {
		return fmt.Errorf("failed to finish sweep run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *SweepRepository) Recent(ctx context.Context, limit int) ([]SweepRun, error) {
	rows, err := r.queries.ListSweepRuns(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list sweep runs: %w", err)
	}

	out := make([]SweepRun, 0, len(rows))
	for _, row := range rows {
		run := SweepRun{
			ID:         row.ID,
			Kind:       row.Kind,
			StartedAt:  row.StartedAt,
			Total:      int(row.Total),
			Matched:    int(row.Matched),
			Mismatched: int(row.Mismatched),
			NotFound:   int(row.NotFound),
			Errored:    int(row.Errored),
			ReportPath: row.ReportPath,
		}
		if row.FinishedAt.Valid {
			t := row.FinishedAt.Time
			run.FinishedAt = &t
		}
		out = append(out, run)
	}
	return out, nil
}

func (r *SweepRepository) DiscrepancyCount(ctx context.Context, runID string) (int, error) {
	n, err := r.queries.CountSweepDiscrepancies(ctx, runID)
	if err != nil {
		return 0, fmt.Errorf("failed to count discrepancies: %w", err)
	}
	return int(n), nil
}
