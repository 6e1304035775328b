package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"er-patch-tracker/internal/config"
	"er-patch-tracker/internal/constants"
	"er-patch-tracker/internal/domain"
	"er-patch-tracker/internal/fetcher"
	"er-patch-tracker/internal/patchnote"
	"er-patch-tracker/internal/reconcile"
	"er-patch-tracker/internal/repository"
	"er-patch-tracker/internal/runid"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const SweepKindVerify = "verify"

type VerifyOptions struct {
	// Character restricts the sweep to one character; Offset and Limit are
	// ignored then.
	Character string
	Offset    int
	Limit     int
	Out       string
}

// pair is one stored (character, patch) entry waiting for its page.
type pair struct {
	character string
	entry     domain.PatchEntry
}

type VerifyService struct {
	characters *repository.CharacterRepository
	notes      *repository.PatchNoteRepository
	sweeps     *repository.SweepRepository
	fetcher    fetcher.Fetcher
	extractor  *patchnote.Extractor
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewVerifyService(
	characters *repository.CharacterRepository,
	notes *repository.PatchNoteRepository,
	sweeps *repository.SweepRepository,
	f fetcher.Fetcher,
	extractor *patchnote.Extractor,
	cfg *config.Config,
	logger zerolog.Logger,
) *VerifyService {
	return &VerifyService{
		characters: characters,
		notes:      notes,
		sweeps:     sweeps,
		fetcher:    f,
		extractor:  extractor,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *VerifyService) preload(ctx context.Context) ([]domain.Character, map[int]domain.PatchNote, error) {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(dbCtx)
	var characters []domain.Character
	var notes []domain.PatchNote

	g.Go(func() error {
		var err error
		characters, err = s.characters.List(gCtx)
		return err
	})

	g.Go(func() error {
		var err error
		notes, err = s.notes.List(gCtx, 0)
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Msg("failed to preload store")
		return nil, nil, fmt.Errorf("failed to preload store: %w", err)
	}

	byID := make(map[int]domain.PatchNote, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}
	return characters, byID, nil
}

func selectCharacters(all []domain.Character, opts VerifyOptions) ([]domain.Character, error) {
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	if opts.Character != "" {
		name := patchnote.NormalizeName(opts.Character)
		for _, c := range all {
			if patchnote.NormalizeName(c.Name) == name {
				return []domain.Character{c}, nil
			}
		}
		return nil, fmt.Errorf("%s: %w", opts.Character, domain.ErrCharacterNotFound)
	}

	start := min(max(opts.Offset, 0), len(all))
	end := len(all)
	if opts.Limit > 0 {
		end = min(start+opts.Limit, len(all))
	}
	return all[start:end], nil
}

// groupByPatch returns the pairs keyed by patch id and the ids newest first.
func groupByPatch(characters []domain.Character) (map[int][]pair, []int) {
	groups := make(map[int][]pair)
	for _, c := range characters {
		for _, e := range c.PatchHistory {
			groups[e.PatchID] = append(groups[e.PatchID], pair{character: c.Name, entry: e})
		}
	}
	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))
	return groups, ids
}

// Sweep re-extracts every selected stored entry from its live page and
// compares change sets. Each distinct patch is fetched once.
func (s *VerifyService) Sweep(ctx context.Context, opts VerifyOptions) (*reconcile.Report, string, error) {
	ctx, log, id := runid.Attach(ctx, s.logger)
	started := time.Now()

	all, notes, err := s.preload(ctx)
	if err != nil {
		return nil, "", err
	}
	characters, err := selectCharacters(all, opts)
	if err != nil {
		return nil, "", err
	}

	if err := s.sweeps.Start(ctx, id, SweepKindVerify, started); err != nil {
		return nil, "", err
	}

	groups, ids := groupByPatch(characters)
	report := reconcile.NewReport(id, started)
	report.Summary.CharactersChecked = len(characters)
	report.Summary.TotalPatches = len(ids)
	report.Summary.Offset = opts.Offset
	report.Summary.Limit = opts.Limit

	log.Info().
		Int("characters", len(characters)).
		Int("patches", len(ids)).
		Msg("verification started")

	var sweepErr error
	for i, patchID := range ids {
		if i > 0 {
			if err := fetcher.Pace(ctx, s.cfg.RequestDelay, s.cfg.RequestJitter); err != nil {
				sweepErr = err
				break
			}
		}

		pairs := groups[patchID]
		if n, ok := notes[patchID]; ok {
			for j := range pairs {
				if pairs[j].entry.PatchVersion == "" {
					pairs[j].entry.PatchVersion = patchnote.PatchVersion(n.Title)
				}
			}
		}

		doc, err := s.load(ctx, patchID)
		if err != nil {
			if ctx.Err() != nil {
				sweepErr = ctx.Err()
				break
			}
			if errors.Is(err, fetcher.ErrLaunch) {
				log.Error().Err(err).Msg("browser unavailable, stopping verification")
				sweepErr = err
				break
			}
			log.Warn().Err(err).Int("patch_id", patchID).Msg("patch page unavailable")
			for _, p := range pairs {
				res := basePair(p)
				res.Status = reconcile.StatusError
				res.Error = err.Error()
				report.Add(res)
			}
			continue
		}
		report.Summary.PatchesFetched++

		for _, p := range pairs {
			report.Add(s.judge(doc, p))
		}

		log.Debug().
			Int("patch_id", patchID).
			Int("pairs", len(pairs)).
			Int("done", i+1).
			Int("total", len(ids)).
			Msg("patch verified")
	}

	if sweepErr != nil {
		log.Warn().Err(sweepErr).Int("pairs", report.Summary.TotalPairs).Msg("verification interrupted")
	}

	path := opts.Out
	if path == "" {
		path = reconcile.ReportPath(s.cfg.ReportDir, opts.Character, opts.Offset, opts.Limit)
	}
	if err := reconcile.WriteFile(path, report); err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to write report")
		return report, "", err
	}

	// The audit row is written even when the sweep was interrupted.
	if err := s.sweeps.Finish(context.WithoutCancel(ctx), report, path); err != nil {
		log.Error().Err(err).Msg("failed to record sweep run")
		return report, path, err
	}

	sm := report.Summary
	log.Info().
		Int("pairs", sm.TotalPairs).
		Int("match", sm.MatchCount).
		Int("mismatch", sm.MismatchCount).
		Int("not_found", sm.NotFoundCount).
		Int("section_missing", sm.SectionMissingCount).
		Int("errors", sm.ErrorCount).
		Str("report", path).
		Dur("duration", time.Since(started)).
		Msg("verification finished")

	return report, path, sweepErr
}

func (s *VerifyService) load(ctx context.Context, patchID int) (*patchnote.Document, error) {
	html, err := s.fetcher.Fetch(ctx, patchID)
	if err != nil {
		return nil, err
	}
	doc, err := patchnote.ParseString(html)
	if err != nil {
		return nil, fmt.Errorf("failed to parse patch %d: %w", patchID, err)
	}
	return doc, nil
}

func basePair(p pair) reconcile.PairResult {
	return reconcile.PairResult{
		Character:      p.character,
		PatchID:        p.entry.PatchID,
		PatchVersion:   p.entry.PatchVersion,
		DBChangesCount: len(p.entry.Changes),
	}
}

func (s *VerifyService) judge(doc *patchnote.Document, p pair) reconcile.PairResult {
	ext, status := s.extractor.ExtractCharacter(doc, p.character)
	switch status {
	case patchnote.StatusSectionNotFound:
		res := basePair(p)
		res.Status = reconcile.StatusSectionMissing
		return res
	case patchnote.StatusCharacterNotFound:
		res := basePair(p)
		res.Status = reconcile.StatusMatch
		if len(p.entry.Changes) > 0 {
			res.Status = reconcile.StatusNotFound
		}
		return res
	}
	return reconcile.NewPairResult(p.character, p.entry, ext.Changes)
}

func (s *VerifyService) RecentRuns(ctx context.Context, limit int) ([]repository.SweepRun, error) {
	if limit <= 0 {
		limit = constants.SweepRecentRuns
	}
	return s.sweeps.Recent(ctx, limit)
}

// Suggest proposes stored names close to an unknown one.
func (s *VerifyService) Suggest(ctx context.Context, name string) ([]patchnote.Suggestion, error) {
	characters, err := s.characters.List(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(characters))
	for i, c := range characters {
		names[i] = c.Name
	}
	return patchnote.Suggest(name, names, constants.SuggestionLimit, constants.SuggestionScore), nil
}
