package service

import (
	"context"
	"fmt"
	"os"

	"er-patch-tracker/internal/fetcher"
	"er-patch-tracker/internal/patchnote"

	"github.com/rs/zerolog"
)

type ParseOptions struct {
	PatchID   int
	Character string
	// File reads the page from disk instead of the site.
	File string
}

type ParseService struct {
	fetcher   fetcher.Fetcher
	extractor *patchnote.Extractor
	logger    zerolog.Logger
}

func NewParseService(f fetcher.Fetcher, extractor *patchnote.Extractor, logger zerolog.Logger) *ParseService {
	return &ParseService{fetcher: f, extractor: extractor, logger: logger}
}

// Parse runs the extractor over one page, optionally for a single character.
func (s *ParseService) Parse(ctx context.Context, opts ParseOptions) (patchnote.Result, error) {
	var html string
	if opts.File != "" {
		data, err := os.ReadFile(opts.File)
		if err != nil {
			return patchnote.Result{}, fmt.Errorf("failed to read page: %w", err)
		}
		html = string(data)
	} else {
		var err error
		html, err = s.fetcher.Fetch(ctx, opts.PatchID)
		if err != nil {
			s.logger.Error().Err(err).Int("patch_id", opts.PatchID).Msg("failed to fetch patch page")
			return patchnote.Result{}, err
		}
	}

	doc, err := patchnote.ParseString(html)
	if err != nil {
		return patchnote.Result{}, fmt.Errorf("failed to parse page: %w", err)
	}

	if opts.Character == "" {
		return s.extractor.Extract(doc), nil
	}

	ext, status := s.extractor.ExtractCharacter(doc, opts.Character)
	res := patchnote.Result{Status: status}
	if status == patchnote.StatusFound {
		res.Characters = []patchnote.Extraction{ext}
	}
	return res, nil
}
