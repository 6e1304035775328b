package db

import (
	"database/sql"
	"time"
)

type PatchNote struct {
	ID             int64
	Title          string
	Link           string
	ThumbnailUrl   string
	ViewCount      int64
	CharacterNames string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Character struct {
	Name         string
	NameEn       string
	Stats        string
	PatchHistory string
	UpdatedAt    time.Time
}

type SweepRun struct {
	ID         string
	Kind       string
	StartedAt  time.Time
	FinishedAt sql.NullTime
	Total      int64
	Matched    int64
	Mismatched int64
	NotFound   int64
	Errored    int64
	ReportPath string
}

type SweepDiscrepancy struct {
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
