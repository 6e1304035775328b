package fetcher

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/url"
	"strconv"
	"strings"
	"time"

	"er-patch-tracker/internal/runid"

	"github.com/rs/zerolog"
)

// Fetcher returns the rendered HTML of one patch note page.
type Fetcher interface {
	Fetch(ctx context.Context, patchID int) (string, error)
	Close() error
}

// ErrLaunch marks a browser that could not be started. No page can be
// fetched after it, so callers stop instead of recording a failed page.
var ErrLaunch = errors.New("failed to start browser")

// FetchError reports a page that could not be loaded after every attempt.
type FetchError struct {
	PatchID  int
	Attempts int
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch patch %d failed after %d attempts: %v", e.PatchID, e.Attempts, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// PatchURL builds the article URL for a patch id.
func PatchURL(baseURL, localeQuery string, patchID int) string {
	u := strings.TrimRight(baseURL, "/") + "/posts/news/" + strconv.Itoa(patchID)
	if localeQuery != "" {
		u += "?hl=" + url.QueryEscape(localeQuery)
	}
	return u
}

const fetchAttempts = 2

func withRetry(ctx context.Context, logger zerolog.Logger, patchID int, delay time.Duration, fn func(context.Context) (string, error)) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= fetchAttempts; attempt++ {
		html, err := fn(ctx)
		if err == nil {
			return html, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		logger.Warn().
			Err(err).
			Str("run_id", runid.From(ctx)).
			Int("patch_id", patchID).
			Int("attempt", attempt).
			Msg("fetch attempt failed")

		if attempt < fetchAttempts {
			if err := sleep(ctx, delay); err != nil {
				return "", err
			}
		}
	}
	return "", &FetchError{PatchID: patchID, Attempts: fetchAttempts, Err: lastErr}
}

// Pace waits delay plus a random share of jitter between two site requests.
func Pace(ctx context.Context, delay, jitter time.Duration) error {
	if jitter > 0 {
		delay += rand.N(jitter)
	}
	return sleep(ctx, delay)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
