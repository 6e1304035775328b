package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"er-patch-tracker/internal/config"
	"er-patch-tracker/internal/domain"
	"er-patch-tracker/internal/fetcher"
	"er-patch-tracker/internal/patchnote"
	"er-patch-tracker/internal/reconcile"
	"er-patch-tracker/internal/repository"
	"er-patch-tracker/internal/runid"

	"github.com/rs/zerolog"
)

type FixItem struct {
	Character string `json:"character"`
	PatchID   int    `json:"patchId"`
	Changes   int    `json:"changes"`
	Reason    string `json:"reason,omitempty"`
}

type FixResult struct {
	DryRun  bool      `json:"dryRun"`
	Fixed   []FixItem `json:"fixed"`
	Skipped []FixItem `json:"skipped"`
	Failed  []FixItem `json:"failed"`
}

type FixService struct {
	characters *repository.CharacterRepository
	notes      *repository.PatchNoteRepository
	fetcher    fetcher.Fetcher
	extractor  *patchnote.Extractor
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewFixService(
	characters *repository.CharacterRepository,
	notes *repository.PatchNoteRepository,
	f fetcher.Fetcher,
	extractor *patchnote.Extractor,
	cfg *config.Config,
	logger zerolog.Logger,
) *FixService {
	return &FixService{
		characters: characters,
		notes:      notes,
		fetcher:    f,
		extractor:  extractor,
		cfg:        cfg,
		logger:     logger,
	}
}

func (s *FixService) load(ctx context.Context, patchID int) (*patchnote.Document, error) {
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

// FixChanges replaces the stored changes of every report entry where the live
// page lists more changes than the store.
func (s *FixService) FixChanges(ctx context.Context, report *reconcile.Report, dryRun bool) (*FixResult, error) {
	ctx, log, _ := runid.Attach(ctx, s.logger)
	result := &FixResult{DryRun: dryRun}

	byPatch := make(map[int][]string)
	for _, res := range report.Underfilled() {
		byPatch[res.PatchID] = append(byPatch[res.PatchID], res.Character)
	}
	ids := make([]int, 0, len(byPatch))
	for id := range byPatch {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ids)))

	log.Info().Int("patches", len(ids)).Bool("dry_run", dryRun).Msg("fixing underfilled entries")

	for i, patchID := range ids {
		if i > 0 {
			if err := fetcher.Pace(ctx, s.cfg.RequestDelay, s.cfg.RequestJitter); err != nil {
				return result, err
			}
		}

		names := byPatch[patchID]
		doc, err := s.load(ctx, patchID)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			if errors.Is(err, fetcher.ErrLaunch) {
				return result, err
			}
			log.Warn().Err(err).Int("patch_id", patchID).Msg("patch page unavailable")
			for _, name := range names {
				result.Failed = append(result.Failed, FixItem{Character: name, PatchID: patchID, Reason: err.Error()})
			}
			continue
		}

		for _, name := range names {
			item := FixItem{Character: name, PatchID: patchID}
			ext, status := s.extractor.ExtractCharacter(doc, name)
			if status != patchnote.StatusFound || len(ext.Changes) == 0 {
				item.Reason = string(status)
				result.Skipped = append(result.Skipped, item)
				continue
			}
			item.Changes = len(ext.Changes)

			if !dryRun {
				if _, err := s.characters.ReplacePatchChanges(ctx, name, patchID, ext.Changes, ext.DevComment); err != nil {
					log.Error().Err(err).Str("character", name).Int("patch_id", patchID).Msg("failed to replace changes")
					item.Reason = err.Error()
					result.Failed = append(result.Failed, item)
					continue
				}
			}
			result.Fixed = append(result.Fixed, item)
			log.Info().Str("character", name).Int("patch_id", patchID).Int("changes", item.Changes).Msg("changes replaced")
		}
	}

	return result, nil
}

// AddMissing creates the patch entries listed in targets from their live
// pages. Existing entries and empty extractions are skipped.
func (s *FixService) AddMissing(ctx context.Context, targets []config.FixTarget, dryRun bool) (*FixResult, error) {
	ctx, log, _ := runid.Attach(ctx, s.logger)
	result := &FixResult{DryRun: dryRun}

	for i, target := range targets {
		if i > 0 {
			if err := fetcher.Pace(ctx, s.cfg.RequestDelay, s.cfg.RequestJitter); err != nil {
				return result, err
			}
		}

		failAll := func(reason string) {
			for _, name := range target.Characters {
				result.Failed = append(result.Failed, FixItem{Character: name, PatchID: target.PatchID, Reason: reason})
			}
		}

		note, err := s.notes.Get(ctx, target.PatchID)
		if err != nil {
			return result, err
		}
		if note == nil {
			failAll(domain.ErrPatchNoteNotFound.Error())
			continue
		}

		doc, err := s.load(ctx, target.PatchID)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			if errors.Is(err, fetcher.ErrLaunch) {
				return result, err
			}
			log.Warn().Err(err).Int("patch_id", target.PatchID).Msg("patch page unavailable")
			failAll(err.Error())
			continue
		}

		added := make([]string, 0, len(target.Characters))
		for _, name := range target.Characters {
			item := FixItem{Character: name, PatchID: target.PatchID}

			ext, status := s.extractor.ExtractCharacter(doc, name)
			if status != patchnote.StatusFound || len(ext.Changes) == 0 {
				item.Reason = string(status)
				if status == patchnote.StatusFound {
					item.Reason = "no changes"
				}
				result.Skipped = append(result.Skipped, item)
				continue
			}
			item.Changes = len(ext.Changes)

			entry := domain.PatchEntry{
				PatchID:      target.PatchID,
				PatchVersion: patchnote.PatchVersion(note.Title),
				PatchDate:    patchnote.PatchDate(note.CreatedAt),
				DevComment:   ext.DevComment,
				Changes:      ext.Changes,
			}

			if dryRun {
				stored, err := s.characters.Get(ctx, name)
				if err != nil {
					return result, err
				}
				if stored != nil && stored.HasPatch(target.PatchID) {
					item.Reason = domain.ErrPatchExists.Error()
					result.Skipped = append(result.Skipped, item)
					continue
				}
				result.Fixed = append(result.Fixed, item)
				continue
			}

			if _, err := s.characters.AddPatchEntry(ctx, name, entry); err != nil {
				if errors.Is(err, domain.ErrPatchExists) {
					item.Reason = domain.ErrPatchExists.Error()
					result.Skipped = append(result.Skipped, item)
					continue
				}
				log.Error().Err(err).Str("character", name).Int("patch_id", target.PatchID).Msg("failed to add patch entry")
				item.Reason = err.Error()
				result.Failed = append(result.Failed, item)
				continue
			}
			result.Fixed = append(result.Fixed, item)
			added = append(added, ext.Name)
			log.Info().Str("character", name).Int("patch_id", target.PatchID).Int("changes", item.Changes).Msg("patch entry added")
		}

		if len(added) > 0 {
			if err := s.notes.SetCharacterNames(ctx, target.PatchID, mergeNames(note.CharacterNames, added)); err != nil {
				log.Warn().Err(err).Int("patch_id", target.PatchID).Msg("failed to update character names")
			}
		}
	}

	return result, nil
}

func mergeNames(existing, added []string) []string {
	set := make(map[string]bool, len(existing)+len(added))
	out := make([]string, 0, len(existing)+len(added))
	for _, list := range [][]string{existing, added} {
		for _, n := range list {
			if !set[n] {
				set[n] = true
				out = append(out, n)
			}
		}
	}
	sort.Strings(out)
	return out
}
