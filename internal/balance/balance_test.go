package balance

import (
	"testing"

	"er-patch-tracker/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestClassifyNumericChange(t *testing.T) {
	cases := []struct {
		name   string
		stat   string
		before string
		after  string
		want   domain.ChangeType
	}{
		{"damage up", "피해량", "100", "120", domain.ChangeBuff},
		{"damage down", "피해량", "120", "100", domain.ChangeNerf},
		{"cooldown down", "쿨다운", "12초", "10초", domain.ChangeBuff},
		{"cooldown up", "쿨다운", "10초", "12초", domain.ChangeNerf},
		{"english cooldown", "Cooldown", "8s", "7s", domain.ChangeBuff},
		{"sp cost", "SP 소모", "50", "60", domain.ChangeNerf},
		{"multi rank averaged", "피해량", "20/40/60", "30/50/70", domain.ChangeBuff},
		{"multi rank equal average", "피해량", "10/30", "20/20", domain.ChangeMixed},
		{"no numbers before", "효과", "없음", "10%", domain.ChangeMixed},
		{"no numbers after", "효과", "10%", "삭제", domain.ChangeMixed},
		{"unchanged", "방어력", "30", "30", domain.ChangeMixed},
		{"decimals", "공격 속도", "0.12", "0.14", domain.ChangeBuff},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ClassifyNumericChange(tc.stat, tc.before, tc.after))
		})
	}
}

func TestClassifySymmetry(t *testing.T) {
	pairs := [][3]string{
		{"피해량", "100", "120"},
		{"쿨다운", "12초", "10초"},
		{"스킬 증폭", "20/40/60(+30%)", "25/45/65(+30%)"},
		{"마나 소모", "80", "75"},
		{"체력", "없음", "200"},
		{"방어력", "5", "5"},
	}
	flip := map[domain.ChangeType]domain.ChangeType{
		domain.ChangeBuff:  domain.ChangeNerf,
		domain.ChangeNerf:  domain.ChangeBuff,
		domain.ChangeMixed: domain.ChangeMixed,
	}

	for _, p := range pairs {
		forward := ClassifyNumericChange(p[0], p[1], p[2])
		backward := ClassifyNumericChange(p[0], p[2], p[1])
		require.Equal(t, flip[forward], backward, "stat %s", p[0])
	}
}

func TestOverallChange(t *testing.T) {
	buff := domain.Change{ChangeType: domain.ChangeBuff}
	nerf := domain.Change{ChangeType: domain.ChangeNerf}
	mixed := domain.Change{ChangeType: domain.ChangeMixed}

	require.Equal(t, domain.ChangeBuff, OverallChange([]domain.Change{buff, buff}))
	require.Equal(t, domain.ChangeBuff, OverallChange([]domain.Change{buff, mixed}))
	require.Equal(t, domain.ChangeNerf, OverallChange([]domain.Change{nerf}))
	require.Equal(t, domain.ChangeMixed, OverallChange([]domain.Change{buff, nerf}))
	require.Equal(t, domain.ChangeMixed, OverallChange([]domain.Change{mixed}))
	require.Equal(t, domain.ChangeMixed, OverallChange(nil))
}

func TestEffect(t *testing.T) {
	require.Equal(t, domain.CategoryAdded, Effect("없음", "10%"))
	require.Equal(t, domain.CategoryAdded, Effect("-", "3초"))
	require.Equal(t, domain.CategoryRemoved, Effect("10%", "삭제"))
	require.Equal(t, domain.CategoryNumeric, Effect("10", "20"))
	require.Equal(t, domain.CategoryMechanic, Effect("이동 불가", "둔화"))
	require.Equal(t, domain.CategoryUnknown, Effect("10", "둔화"))
}

func entries(types ...domain.ChangeType) []domain.PatchEntry {
	out := make([]domain.PatchEntry, len(types))
	for i, t := range types {
		out[i] = domain.PatchEntry{
			PatchID:       1000 + i,
			PatchDate:     "2024-01-0" + string(rune('1'+i)),
			OverallChange: t,
		}
	}
	return out
}

func TestRecomputeStreaksScenario(t *testing.T) {
	b, n := domain.ChangeBuff, domain.ChangeNerf
	history := entries(b, b, n, b, b)

	c := &domain.Character{Name: "재키", PatchHistory: history}
	Recompute(c)

	// stored newest first
	require.Equal(t, 1004, c.PatchHistory[0].PatchID)
	require.Equal(t, 1000, c.PatchHistory[4].PatchID)

	var streaks []int
	for i := len(c.PatchHistory) - 1; i >= 0; i-- {
		streaks = append(streaks, c.PatchHistory[i].Streak)
	}
	require.Equal(t, []int{1, 2, 1, 1, 2}, streaks)

	require.Equal(t, domain.CharacterStats{
		TotalPatches:  5,
		BuffCount:     4,
		NerfCount:     1,
		CurrentStreak: domain.CurrentStreak{Type: domain.ChangeBuff, Count: 2},
		MaxBuffStreak: 2,
		MaxNerfStreak: 1,
	}, c.Stats)
}

func TestStreakMonotonicity(t *testing.T) {
	for _, kind := range []domain.ChangeType{domain.ChangeBuff, domain.ChangeNerf} {
		history := entries(kind, kind, kind, kind, kind, kind)
		RecomputeStreaks(history)

		for i, e := range history {
			require.Equal(t, len(history)-i, e.Streak)
		}
	}
}

func TestMixedResetsStreak(t *testing.T) {
	b, m := domain.ChangeBuff, domain.ChangeMixed
	history := entries(b, b, b, m, b)
	stats := ComputeStats(history)
	RecomputeStreaks(history)

	require.Equal(t, 1, history[0].Streak)
	require.Equal(t, 1, history[1].Streak)
	require.Equal(t, 3, history[2].Streak)
	require.Equal(t, 3, stats.MaxBuffStreak)
	require.Equal(t, 1, stats.MixedCount)
	require.Equal(t, domain.CurrentStreak{Type: b, Count: 1}, stats.CurrentStreak)
}

func TestComputeStatsEndsOnMixed(t *testing.T) {
	stats := ComputeStats(entries(domain.ChangeNerf, domain.ChangeMixed))
	require.Equal(t, domain.CurrentStreak{}, stats.CurrentStreak)
	require.Equal(t, 1, stats.MaxNerfStreak)
}

func TestSameDateOrdersByPatchID(t *testing.T) {
	history := []domain.PatchEntry{
		{PatchID: 7, PatchDate: "2024-03-01", OverallChange: domain.ChangeBuff},
		{PatchID: 5, PatchDate: "2024-03-01", OverallChange: domain.ChangeBuff},
	}
	RecomputeStreaks(history)
	require.Equal(t, 7, history[0].PatchID)
	require.Equal(t, 2, history[0].Streak)
}

func TestRecomputeDerivesChangeTypes(t *testing.T) {
	changes := []domain.Change{
		{Stat: "마나 소모", Before: "80", After: "60", ChangeCategory: domain.CategoryNumeric},
		{Description: "둔화 지속 시간이 늘어납니다", ChangeCategory: domain.CategoryMechanic, ChangeType: domain.ChangeBuff},
	}
	c := &domain.Character{Name: "나딘", PatchHistory: []domain.PatchEntry{
		{PatchID: 1, PatchDate: "2025-01-01", Changes: changes},
		{PatchID: 2, PatchDate: "2025-01-15", OverallChange: domain.ChangeNerf},
	}}
	Recompute(c)

	first := c.PatchHistory[1]
	require.Equal(t, domain.ChangeBuff, first.Changes[0].ChangeType)
	require.Equal(t, domain.ChangeMixed, first.Changes[1].ChangeType)
	require.Equal(t, domain.ChangeBuff, first.OverallChange)
	require.Equal(t, domain.ChangeNerf, c.PatchHistory[0].OverallChange)

	// the caller's slice is left alone
	require.Empty(t, changes[0].ChangeType)
}
