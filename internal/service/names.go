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
	"er-patch-tracker/internal/repository"
	"er-patch-tracker/internal/runid"

	"github.com/rs/zerolog"
)

// NameScan compares the names found on one patch page with the stored list.
type NameScan struct {
	PatchID int      `json:"patchId"`
	Title   string   `json:"title"`
	Status  string   `json:"status"`
	Found   []string `json:"found"`
	Missing []string `json:"missing,omitempty"`
	Excess  []string `json:"excess,omitempty"`
	Applied bool     `json:"applied,omitempty"`
	Error   string   `json:"error,omitempty"`
}

func (n NameScan) Changed() bool {
	return len(n.Missing) > 0 || len(n.Excess) > 0
}

type NamesService struct {
	characters *repository.CharacterRepository
	notes      *repository.PatchNoteRepository
	fetcher    fetcher.Fetcher
	extractor  *patchnote.Extractor
	cfg        *config.Config
	logger     zerolog.Logger
}

func NewNamesService(
	characters *repository.CharacterRepository,
	notes *repository.PatchNoteRepository,
	f fetcher.Fetcher,
	cfg *config.Config,
	logger zerolog.Logger,
) *NamesService {
	return &NamesService{
		characters: characters,
		notes:      notes,
		fetcher:    f,
		extractor:  patchnote.NewExtractor(patchnote.NameScanOptions()),
		cfg:        cfg,
		logger:     logger,
	}
}

// Scan reads the newest limit patch pages and reports which character names
// differ from the stored lists. With apply the found names are written.
func (s *NamesService) Scan(ctx context.Context, limit int, apply bool) ([]NameScan, error) {
	ctx, log, _ := runid.Attach(ctx, s.logger)

	notes, err := s.notes.List(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]NameScan, 0, len(notes))
	for i, note := range notes {
		if i > 0 {
			if err := fetcher.Pace(ctx, s.cfg.RequestDelay, s.cfg.RequestJitter); err != nil {
				return out, err
			}
		}

		scan := NameScan{PatchID: note.ID, Title: note.Title}

		html, err := s.fetcher.Fetch(ctx, note.ID)
		if err == nil {
			var doc *patchnote.Document
			doc, err = patchnote.ParseString(html)
			if err == nil {
				res := s.extractor.Extract(doc)
				scan.Status = string(res.Status)
				scan.Found = res.Names()
				sort.Strings(scan.Found)
				scan.Missing = difference(scan.Found, note.CharacterNames)
				scan.Excess = difference(note.CharacterNames, scan.Found)
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			if errors.Is(err, fetcher.ErrLaunch) {
				return out, err
			}
			log.Warn().Err(err).Int("patch_id", note.ID).Msg("patch page unavailable")
			scan.Status = "error"
			scan.Error = err.Error()
			out = append(out, scan)
			continue
		}

		if apply && scan.Changed() && scan.Status == string(patchnote.StatusFound) {
			if err := s.notes.SetCharacterNames(ctx, note.ID, scan.Found); err != nil {
				return out, err
			}
			scan.Applied = true
		}

		log.Debug().
			Int("patch_id", note.ID).
			Int("found", len(scan.Found)).
			Int("missing", len(scan.Missing)).
			Int("excess", len(scan.Excess)).
			Msg("patch names scanned")
		out = append(out, scan)
	}
	return out, nil
}

// difference returns the names in a that are not in b.
func difference(a, b []string) []string {
	set := make(map[string]bool, len(b))
	for _, n := range b {
		set[patchnote.NormalizeName(n)] = true
	}
	var out []string
	for _, n := range a {
		if !set[patchnote.NormalizeName(n)] {
			out = append(out, n)
		}
	}
	return out
}

type RebuildResult struct {
	Updated int
	// Orphans are patch ids referenced by a history with no stored note.
	Orphans []int
}

// Rebuild derives every patch note's character names from the stored
// histories.
func (s *NamesService) Rebuild(ctx context.Context) (*RebuildResult, error) {
	characters, err := s.characters.List(ctx)
	if err != nil {
		return nil, err
	}
	known, err := s.notes.KnownIDs(ctx)
	if err != nil {
		return nil, err
	}

	byPatch := namesByPatch(characters)
	ids := make([]int, 0, len(byPatch))
	for id := range byPatch {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	res := &RebuildResult{}
	for _, id := range ids {
		if !known[id] {
			res.Orphans = append(res.Orphans, id)
			continue
		}
		if err := s.notes.SetCharacterNames(ctx, id, byPatch[id]); err != nil {
			return res, fmt.Errorf("failed to rebuild names of patch %d: %w", id, err)
		}
		res.Updated++
	}

	s.logger.Info().
		Int("updated", res.Updated).
		Int("orphans", len(res.Orphans)).
		Msg("character names rebuilt")
	return res, nil
}

func namesByPatch(characters []domain.Character) map[int][]string {
	out := make(map[int][]string)
	for _, c := range characters {
		for _, e := range c.PatchHistory {
			out[e.PatchID] = append(out[e.PatchID], c.Name)
		}
	}
	return out
}
