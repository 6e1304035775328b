package runid

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestAttach(t *testing.T) {
	var buf bytes.Buffer
	ctx, logger, id := Attach(context.Background(), zerolog.New(&buf))

	_, err := uuid.Parse(id)
	require.NoError(t, err)
	require.Equal(t, id, From(ctx))

	logger.Info().Msg("hello")
	require.Contains(t, buf.String(), `"run_id":"`+id+`"`)

	buf.Reset()
	zerolog.Ctx(ctx).Info().Msg("from ctx")
	require.Contains(t, buf.String(), id)
}

func TestFromEmpty(t *testing.T) {
	require.Empty(t, From(context.Background()))
}
