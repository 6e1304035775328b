package runid

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const RunIDKey contextKey = "run_id"

// Attach tags ctx and the logger it carries with a fresh run id.
func Attach(ctx context.Context, logger zerolog.Logger) (context.Context, zerolog.Logger, string) {
	id := uuid.New().String()

	ctx = context.WithValue(ctx, RunIDKey, id)

	loggerWithID := logger.With().Str("run_id", id).Logger()
	ctx = loggerWithID.WithContext(ctx)

	return ctx, loggerWithID, id
}

func From(ctx context.Context) string {
	if id, ok := ctx.Value(RunIDKey).(string); ok {
		return id
	}
	return ""
}
