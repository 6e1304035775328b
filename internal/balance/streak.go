package balance

import (
	"slices"
	"sort"

	"er-patch-tracker/internal/domain"
)

// SortNewestFirst orders a history the way it is stored.
func SortNewestFirst(history []domain.PatchEntry) {
	sort.SliceStable(history, func(i, j int) bool {
		return chronoLess(history[j], history[i])
	})
}

func chronoLess(a, b domain.PatchEntry) bool {
	if a.PatchDate != b.PatchDate {
		return a.PatchDate < b.PatchDate
	}
	return a.PatchID < b.PatchID
}

func chronological(history []domain.PatchEntry) []int {
	idx := make([]int, len(history))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return chronoLess(history[idx[i]], history[idx[j]])
	})
	return idx
}

type runningStreak struct {
	kind  domain.ChangeType
	count int
}

func (r *runningStreak) push(t domain.ChangeType) int {
	if t != domain.ChangeBuff && t != domain.ChangeNerf {
		r.kind, r.count = "", 0
		return 1
	}
	if r.kind == t {
		r.count++
	} else {
		r.kind, r.count = t, 1
	}
	return r.count
}

// RecomputeStreaks rewrites every entry's Streak walking the history oldest
// first, then leaves the slice ordered newest first.
func RecomputeStreaks(history []domain.PatchEntry) {
	var run runningStreak
	for _, i := range chronological(history) {
		history[i].Streak = run.push(history[i].OverallChange)
	}
	SortNewestFirst(history)
}

func ComputeStats(history []domain.PatchEntry) domain.CharacterStats {
	stats := domain.CharacterStats{TotalPatches: len(history)}

	var run runningStreak
	for _, i := range chronological(history) {
		t := history[i].OverallChange
		switch t {
		case domain.ChangeBuff:
			stats.BuffCount++
		case domain.ChangeNerf:
			stats.NerfCount++
		default:
			stats.MixedCount++
		}
		n := run.push(t)
		switch {
		case t == domain.ChangeBuff && n > stats.MaxBuffStreak:
			stats.MaxBuffStreak = n
		case t == domain.ChangeNerf && n > stats.MaxNerfStreak:
			stats.MaxNerfStreak = n
		}
	}

	stats.CurrentStreak = domain.CurrentStreak{Type: run.kind, Count: run.count}
	return stats
}

// Recompute brings a character's derived fields back in line with its history:
// change types, overall changes, streaks and stats. Entries without changes
// keep their stored overall change.
func Recompute(c *domain.Character) {
	for i := range c.PatchHistory {
		e := &c.PatchHistory[i]
		if len(e.Changes) == 0 {
			continue
		}
		e.Changes = slices.Clone(e.Changes)
		Classify(e.Changes)
		e.OverallChange = OverallChange(e.Changes)
	}
	RecomputeStreaks(c.PatchHistory)
	c.Stats = ComputeStats(c.PatchHistory)
}
