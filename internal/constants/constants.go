package constants

import "time"

const (
	PageFetchTimeout = 30 * time.Second
	FetchRetryDelay  = 2 * time.Second
	PageSettleDelay  = 1 * time.Second
	RequestDelay     = 300 * time.Millisecond
	RequestJitter    = 200 * time.Millisecond
	ListingPageDelay = 500 * time.Millisecond
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
	StartTimeout       = 15 * time.Second
	ShutdownTimeout    = 5 * time.Second
)

const (
	DBMaxOpenConns    = 4
	DBMaxIdleConns    = 2
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
	DBBatchSize       = 100
)

const (
	ListingMaxPages = 200
	ListingCategory = "patchnote"
	LocaleCookie    = "locale"
	ReportDir       = "data"
	SuggestionLimit = 3
	SuggestionScore = 0.8
	SweepRecentRuns = 10
)
