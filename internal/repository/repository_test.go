package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"er-patch-tracker/internal/config"
	"er-patch-tracker/internal/database"
	"er-patch-tracker/internal/db"
	"er-patch-tracker/internal/domain"
	"er-patch-tracker/internal/reconcile"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) (*sql.DB, *db.Queries) {
	t.Helper()
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "patches.db")}
	sqlDB, err := database.New(cfg, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return sqlDB, db.New(sqlDB)
}

func buffChange(target string) domain.Change {
	return domain.Change{
		Target:         target,
		Stat:           "피해량",
		Before:         "100",
		After:          "120",
		ChangeType:     domain.ChangeBuff,
		ChangeCategory: domain.CategoryNumeric,
	}
}

func nerfChange(target string) domain.Change {
	return domain.Change{
		Target:         target,
		Stat:           "피해량",
		Before:         "120",
		After:          "100",
		ChangeType:     domain.ChangeNerf,
		ChangeCategory: domain.CategoryNumeric,
	}
}

func TestCharacterGetMissing(t *testing.T) {
	sqlDB, q := openStore(t)
	repo := NewCharacterRepository(sqlDB, q, zerolog.Nop())

	c, err := repo.Get(context.Background(), "재키")
	require.NoError(t, err)
	require.Nil(t, c)
}

func TestCharacterPutRecomputes(t *testing.T) {
	ctx := context.Background()
	sqlDB, q := openStore(t)
	repo := NewCharacterRepository(sqlDB, q, zerolog.Nop())

	c := &domain.Character{
		Name: "재키",
		PatchHistory: []domain.PatchEntry{
			{PatchID: 1, PatchDate: "2024-01-01", OverallChange: domain.ChangeBuff},
			{PatchID: 2, PatchDate: "2024-01-08", OverallChange: domain.ChangeBuff},
			{PatchID: 3, PatchDate: "2024-01-15", OverallChange: domain.ChangeNerf},
		},
	}
	require.NoError(t, repo.Put(ctx, c))

	got, err := repo.Get(ctx, "재키")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 3, got.Stats.TotalPatches)
	require.Equal(t, 2, got.Stats.BuffCount)
	require.Equal(t, 2, got.Stats.MaxBuffStreak)
	require.Equal(t, domain.CurrentStreak{Type: domain.ChangeNerf, Count: 1}, got.Stats.CurrentStreak)
	require.Equal(t, 3, got.PatchHistory[0].PatchID)
	require.Equal(t, 2, got.PatchHistory[1].Streak)
}

func TestAddPatchEntry(t *testing.T) {
	ctx := context.Background()
	sqlDB, q := openStore(t)
	repo := NewCharacterRepository(sqlDB, q, zerolog.Nop())

	entry := domain.PatchEntry{
		PatchID:      1500,
		PatchVersion: "1.50",
		PatchDate:    "2025-02-01",
		Changes:      []domain.Change{buffChange("난도질(Q)")},
	}
	c, err := repo.AddPatchEntry(ctx, "재키", entry)
	require.NoError(t, err)
	require.Equal(t, domain.ChangeBuff, c.PatchHistory[0].OverallChange)
	require.Equal(t, 1, c.Stats.TotalPatches)

	_, err = repo.AddPatchEntry(ctx, "재키", entry)
	require.ErrorIs(t, err, domain.ErrPatchExists)

	stored, err := repo.Get(ctx, "재키")
	require.NoError(t, err)
	require.Len(t, stored.PatchHistory, 1)
}

func TestReplacePatchChanges(t *testing.T) {
	ctx := context.Background()
	sqlDB, q := openStore(t)
	repo := NewCharacterRepository(sqlDB, q, zerolog.Nop())

	_, err := repo.AddPatchEntry(ctx, "아야", domain.PatchEntry{
		PatchID:   10,
		PatchDate: "2025-01-01",
		Changes:   []domain.Change{buffChange("기본 스탯")},
	})
	require.NoError(t, err)

	c, err := repo.ReplacePatchChanges(ctx, "아야", 10, []domain.Change{nerfChange("기본 스탯")}, "너무 강했습니다.")
	require.NoError(t, err)
	require.Equal(t, domain.ChangeNerf, c.PatchHistory[0].OverallChange)
	require.Equal(t, "너무 강했습니다.", c.PatchHistory[0].DevComment)
	require.Equal(t, 1, c.Stats.NerfCount)

	_, err = repo.ReplacePatchChanges(ctx, "아야", 11, nil, "")
	require.ErrorIs(t, err, domain.ErrPatchEntryNotFound)

	_, err = repo.ReplacePatchChanges(ctx, "없는사람", 10, nil, "")
	require.ErrorIs(t, err, domain.ErrCharacterNotFound)
}

func TestPatchNoteUpsertKeepsNames(t *testing.T) {
	ctx := context.Background()
	sqlDB, q := openStore(t)
	repo := NewPatchNoteRepository(sqlDB, q, zerolog.Nop())

	created := time.Date(2025, 1, 2, 3, 0, 0, 0, time.UTC)
	notes := []domain.PatchNote{
		{ID: 2, Title: "1.2 패치", Link: "/posts/news/2", CreatedAt: created, UpdatedAt: created},
		{ID: 1, Title: "1.1 패치", Link: "/posts/news/1", CreatedAt: created.Add(-time.Hour), UpdatedAt: created},
	}
	require.NoError(t, repo.UpsertBatch(ctx, notes))
	require.NoError(t, repo.SetCharacterNames(ctx, 2, []string{"헤이즈", "재키"}))

	notes[0].Title = "1.2 패치 (수정)"
	require.NoError(t, repo.UpsertBatch(ctx, notes[:1]))

	got, err := repo.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "1.2 패치 (수정)", got.Title)
	require.Equal(t, []string{"재키", "헤이즈"}, got.CharacterNames)

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 2, list[0].ID)

	known, err := repo.KnownIDs(ctx)
	require.NoError(t, err)
	require.True(t, known[1])
	require.False(t, known[3])

	require.ErrorIs(t, repo.SetCharacterNames(ctx, 99, nil), domain.ErrPatchNoteNotFound)

	missing, err := repo.Get(ctx, 99)
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestSweepRunLifecycle(t *testing.T) {
	ctx := context.Background()
	sqlDB, q := openStore(t)
	repo := NewSweepRepository(sqlDB, q, zerolog.Nop())

	now := time.Now()
	require.NoError(t, repo.Start(ctx, "run-1", "verify", now))

	report := reconcile.NewReport("run-1", now)
	report.Add(reconcile.PairResult{Character: "재키", PatchID: 1, Status: reconcile.StatusMatch})
	report.Add(reconcile.PairResult{Character: "재키", PatchID: 2, Status: reconcile.StatusMismatch})
	report.Add(reconcile.PairResult{Character: "아야", PatchID: 2, Status: reconcile.StatusNotFound})
	require.NoError(t, repo.Finish(ctx, report, "data/report.json"))

	runs, err := repo.Recent(ctx, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.Equal(t, 3, runs[0].Total)
	require.Equal(t, 1, runs[0].Matched)
	require.Equal(t, 1, runs[0].Mismatched)
	require.Equal(t, 1, runs[0].NotFound)
	require.NotNil(t, runs[0].FinishedAt)
	require.Equal(t, "data/report.json", runs[0].ReportPath)

	n, err := repo.DiscrepancyCount(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, 2, n)
}
