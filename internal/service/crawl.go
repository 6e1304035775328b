package service

import (
	"context"
	"fmt"
	"sort"

	"er-patch-tracker/internal/api"
	"er-patch-tracker/internal/config"
	"er-patch-tracker/internal/constants"
	"er-patch-tracker/internal/domain"
	"er-patch-tracker/internal/fetcher"
	"er-patch-tracker/internal/repository"

	"github.com/rs/zerolog"
)

type CrawlOptions struct {
	// Full walks every listing page instead of stopping at the first page
	// with nothing new.
	Full     bool
	MaxPages int
}

type CrawlResult struct {
	Pages   int
	Fetched int
	New     int
}

type CrawlService struct {
	articles *api.ArticleClient
	notes    *repository.PatchNoteRepository
	cfg      *config.Config
	logger   zerolog.Logger
}

func NewCrawlService(articles *api.ArticleClient, notes *repository.PatchNoteRepository, cfg *config.Config, logger zerolog.Logger) *CrawlService {
	return &CrawlService{articles: articles, notes: notes, cfg: cfg, logger: logger}
}

const listingAttempts = 2

// Crawl pages through the patch note listing and upserts what it finds. A
// failed page or a cancelled context ends the walk early; the notes collected
// up to then are still stored and the error is returned with the result.
func (s *CrawlService) Crawl(ctx context.Context, opts CrawlOptions) (*CrawlResult, error) {
	known, err := s.notes.KnownIDs(ctx)
	if err != nil {
		return nil, err
	}

	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = constants.ListingMaxPages
	}

	res := &CrawlResult{}
	seen := make(map[int]bool)
	var collected []domain.PatchNote
	var crawlErr error

	for page := 1; page <= maxPages; page++ {
		if page > 1 {
			if err := fetcher.Pace(ctx, s.cfg.ListingPageDelay, 0); err != nil {
				crawlErr = err
				break
			}
		}

		listing, err := s.listPage(ctx, page)
		if err != nil {
			s.logger.Error().Err(err).Int("page", page).Msg("failed to fetch listing page")
			crawlErr = fmt.Errorf("failed to fetch listing page %d: %w", page, err)
			break
		}
		res.Pages++

		unseen := 0
		for _, a := range listing.Articles {
			if seen[a.ID] {
				continue
			}
			seen[a.ID] = true
			collected = append(collected, a.ToPatchNote(s.articles.Locale()))
			if !known[a.ID] {
				unseen++
				res.New++
			}
		}

		s.logger.Info().
			Int("page", page).
			Int("total_pages", listing.TotalPage).
			Int("articles", len(listing.Articles)).
			Int("new", unseen).
			Msg("listing page fetched")

		if !opts.Full && unseen == 0 {
			break
		}
		if page >= listing.TotalPage || len(listing.Articles) == 0 {
			break
		}
	}

	sort.SliceStable(collected, func(i, j int) bool {
		return collected[i].CreatedAt.After(collected[j].CreatedAt)
	})
	res.Fetched = len(collected)

	if len(collected) > 0 {
		if err := s.notes.UpsertBatch(context.WithoutCancel(ctx), collected); err != nil {
			s.logger.Error().Err(err).Msg("failed to store patch notes")
			return res, err
		}
	}

	s.logger.Info().
		Int("pages", res.Pages).
		Int("fetched", res.Fetched).
		Int("new", res.New).
		Bool("complete", crawlErr == nil).
		Msg("crawl finished")
	return res, crawlErr
}

// listPage fetches one listing page, retrying once.
func (s *CrawlService) listPage(ctx context.Context, page int) (*api.ArticleListResponse, error) {
	var lastErr error
	for attempt := 1; attempt <= listingAttempts; attempt++ {
		listing, err := s.articles.ListPage(ctx, page)
		if err == nil {
			return listing, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.logger.Warn().
			Err(err).
			Int("page", page).
			Int("attempt", attempt).
			Msg("listing attempt failed")

		if attempt < listingAttempts {
			if err := fetcher.Pace(ctx, s.cfg.FetchRetryDelay, 0); err != nil {
				return nil, err
			}
		}
	}
	return nil, lastErr
}
