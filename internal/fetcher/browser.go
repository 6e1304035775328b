package fetcher

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"er-patch-tracker/internal/config"
	"er-patch-tracker/internal/constants"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// Browser renders patch note pages in a shared headless Chrome, one tab per
// fetch.
type Browser struct {
	cfg    *config.Config
	logger zerolog.Logger

	mu            sync.Mutex
	browserCtx    context.Context
	cancelAlloc   context.CancelFunc
	cancelBrowser context.CancelFunc
}

func NewBrowser(cfg *config.Config, logger zerolog.Logger) *Browser {
	return &Browser{cfg: cfg, logger: logger}
}

func (b *Browser) start() (context.Context, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx != nil {
		return b.browserCtx, nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.cfg.Headless),
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(b.cfg.UserAgent),
	)
	if b.cfg.ChromePath != "" {
		opts = append(opts, chromedp.ExecPath(b.cfg.ChromePath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// An empty run launches the browser so startup errors surface here.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, fmt.Errorf("%w: %w", ErrLaunch, err)
	}

	b.browserCtx = browserCtx
	b.cancelAlloc = cancelAlloc
	b.cancelBrowser = cancelBrowser
	b.logger.Debug().Bool("headless", b.cfg.Headless).Msg("browser started")
	return browserCtx, nil
}

func (b *Browser) Fetch(ctx context.Context, patchID int) (string, error) {
	browserCtx, err := b.start()
	if err != nil {
		return "", err
	}
	pageURL := PatchURL(b.cfg.SiteBaseURL, b.cfg.SiteLocaleQuery, patchID)

	return withRetry(ctx, b.logger, patchID, b.cfg.FetchRetryDelay, func(ctx context.Context) (string, error) {
		return b.render(ctx, browserCtx, pageURL)
	})
}

func (b *Browser) render(ctx, browserCtx context.Context, pageURL string) (string, error) {
	tabCtx, cancelTab := chromedp.NewContext(browserCtx)
	defer cancelTab()

	timeout := b.cfg.FetchTimeout
	if timeout <= 0 {
		timeout = constants.PageFetchTimeout
	}
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, timeout)
	defer cancelTimeout()

	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	host := ""
	if u, err := url.Parse(b.cfg.SiteBaseURL); err == nil {
		host = u.Hostname()
	}

	var html string
	start := time.Now()
	err := chromedp.Run(tabCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return network.SetCookies([]*network.CookieParam{{
				Name:   constants.LocaleCookie,
				Value:  b.cfg.SiteLocale,
				Domain: host,
				Path:   "/",
			}}).Do(ctx)
		}),
		chromedp.Navigate(pageURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(b.cfg.FetchSettle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}

	b.logger.Debug().
		Str("url", pageURL).
		Int("bytes", len(html)).
		Dur("duration", time.Since(start)).
		Msg("page rendered")
	return html, nil
}

func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browserCtx == nil {
		return nil
	}
	b.cancelBrowser()
	b.cancelAlloc()
	b.browserCtx = nil
	b.logger.Debug().Msg("browser closed")
	return nil
}
