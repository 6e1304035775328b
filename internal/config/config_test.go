package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_PATH", "")
	t.Setenv("REQUEST_DELAY", "")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "er-patches.db", cfg.DBPath)
	require.Equal(t, "ko_KR", cfg.SiteLocale)
	require.Equal(t, 300*time.Millisecond, cfg.RequestDelay)
	require.True(t, cfg.Headless)
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("REQUEST_DELAY", "1s")
	t.Setenv("HEADLESS", "false")

	cfg, err := Load(zerolog.Nop())
	require.NoError(t, err)
	require.Equal(t, "custom.db", cfg.DBPath)
	require.Equal(t, time.Second, cfg.RequestDelay)
	require.False(t, cfg.Headless)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FETCH_TIMEOUT", "thirty")

	_, err := Load(zerolog.Nop())
	require.ErrorContains(t, err, "FETCH_TIMEOUT")
}

func TestReadTargetsMergesLocal(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "targets.json5")

	require.NoError(t, os.WriteFile(base, []byte(`{
  // verified by hand
  targets: [
    { patchId: 1021, characters: ["재키", "나딘"] },
    { patchId: 0, characters: ["무시"] },
  ],
}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "targets.local.json5"), []byte(`{
  targets: [{ patchId: 1030, characters: ["아야"] }],
}`), 0o644))

	targets, err := ReadTargets(base)
	require.NoError(t, err)
	require.Equal(t, []FixTarget{
		{PatchID: 1021, Characters: []string{"재키", "나딘"}},
		{PatchID: 1030, Characters: []string{"아야"}},
	}, targets)
}

func TestReadTargetsMissing(t *testing.T) {
	_, err := ReadTargets(filepath.Join(t.TempDir(), "nope.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
