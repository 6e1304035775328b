package fx

import (
	"context"
	"database/sql"

	"er-patch-tracker/internal/api"
	"er-patch-tracker/internal/config"
	"er-patch-tracker/internal/database"
	"er-patch-tracker/internal/db"
	"er-patch-tracker/internal/fetcher"
	"er-patch-tracker/internal/logger"
	"er-patch-tracker/internal/patchnote"
	"er-patch-tracker/internal/repository"
	"er-patch-tracker/internal/service"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideExtractor() *patchnote.Extractor {
	return patchnote.NewExtractor(patchnote.DefaultOptions())
}

// registerShutdown releases the browser and the store when the app stops.
func registerShutdown(lc fx.Lifecycle, f fetcher.Fetcher, sqlDB *sql.DB, logger zerolog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := f.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing browser")
			}
			if err := sqlDB.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
				return err
			}
			return nil
		},
	})
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	// repos
	fx.Provide(repository.NewCharacterRepository),
	fx.Provide(repository.NewPatchNoteRepository),
	fx.Provide(repository.NewSweepRepository),
	// site access
	fx.Provide(api.NewArticleClient),
	fx.Provide(fetcher.New),
	fx.Provide(ProvideExtractor),
	// svc
	fx.Provide(service.NewCrawlService),
	fx.Provide(service.NewVerifyService),
	fx.Provide(service.NewFixService),
	fx.Provide(service.NewNamesService),
	fx.Provide(service.NewHistoryService),
	fx.Provide(service.NewParseService),
	fx.Invoke(registerShutdown),
)
