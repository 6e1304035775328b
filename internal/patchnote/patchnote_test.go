package patchnote

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"er-patch-tracker/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func loadFixture(t *testing.T, name string) *Document {
	t.Helper()
	f, err := os.Open(filepath.Join("testdata", name))
	require.NoError(t, err)
	defer f.Close()

	doc, err := Parse(f)
	require.NoError(t, err)
	return doc
}

func numeric(target, stat, before, after string, kind domain.ChangeType) domain.Change {
	return domain.Change{
		Target:         target,
		Stat:           stat,
		Before:         before,
		After:          after,
		ChangeType:     kind,
		ChangeCategory: domain.CategoryNumeric,
	}
}

func TestExtractRegularDocument(t *testing.T) {
	doc := loadFixture(t, "regular.html")
	res := NewExtractor(DefaultOptions()).Extract(doc)

	require.Equal(t, StatusFound, res.Status)
	require.Equal(t, 1, res.Sections)
	require.Equal(t, []string{"재키", "나딘"}, res.Names())

	jackie, ok := res.Find("재키")
	require.True(t, ok)
	require.Equal(t, ShapeRegular, jackie.Shape)
	require.Equal(t, "재키의 초반 교전력을 조금 더 강화합니다.", jackie.DevComment)

	want := []domain.Change{
		numeric(domain.BaseStatTarget, "기본 공격력", "20", "22", domain.ChangeBuff),
		numeric("난도질(Q)", "피해량", "100", "120", domain.ChangeBuff),
		numeric("난도질(Q)", "쿨다운", "12초", "10초", domain.ChangeBuff),
	}
	if diff := cmp.Diff(want, jackie.Changes); diff != "" {
		t.Fatalf("재키 changes mismatch (-want +got):\n%s", diff)
	}

	nadine, ok := res.Find("나딘")
	require.True(t, ok)
	want = []domain.Change{
		{
			Target:         "야생의 본능(E)",
			Description:    "덫 설치 시 이동 속도가 잠시 증가하는 효과가 추가됩니다(신규)",
			ChangeType:     domain.ChangeMixed,
			ChangeCategory: domain.CategoryAdded,
		},
		numeric("야생의 본능(E)", "마나 소모", "80", "90", domain.ChangeNerf),
	}
	if diff := cmp.Diff(want, nadine.Changes); diff != "" {
		t.Fatalf("나딘 changes mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockEndsAtNextMarker(t *testing.T) {
	doc := loadFixture(t, "regular.html")
	jackie, status := NewExtractor(DefaultOptions()).ExtractCharacter(doc, "재키")

	require.Equal(t, StatusFound, status)
	require.Len(t, jackie.Changes, 3)
	for _, c := range jackie.Changes {
		require.NotEqual(t, "야생의 본능(E)", c.Target)
		require.NotEqual(t, "마나 소모", c.Stat)
	}
}

func TestExtractHotfixDocument(t *testing.T) {
	doc := loadFixture(t, "hotfix.html")
	res := NewExtractor(DefaultOptions()).Extract(doc)

	require.Equal(t, []string{"아야", "리 다이린"}, res.Names())

	aya, _ := res.Find("아야")
	require.Equal(t, ShapeHotfix, aya.Shape)
	want := []domain.Change{
		numeric(domain.BaseStatTarget, "기본 공격력", "30", "28", domain.ChangeNerf),
		numeric("바인딩(Q)", "피해량", "50/100/150", "40/90/140", domain.ChangeNerf),
	}
	if diff := cmp.Diff(want, aya.Changes); diff != "" {
		t.Fatalf("아야 changes mismatch (-want +got):\n%s", diff)
	}

	li, ok := res.Find("리   다이린")
	require.True(t, ok)
	require.Equal(t, []domain.Change{
		numeric(domain.BaseStatTarget, "공격 속도", "0.12", "0.14", domain.ChangeBuff),
	}, li.Changes)
}

func TestMultipleCandidateSections(t *testing.T) {
	doc := loadFixture(t, "multi_section.html")
	ex := NewExtractor(DefaultOptions())

	res := ex.Extract(doc)
	require.Equal(t, 2, res.Sections)
	require.Equal(t, []string{"유키", "헤이즈"}, res.Names())

	hyde, status := ex.ExtractCharacter(doc, "헤이즈")
	require.Equal(t, StatusFound, status)
	require.Equal(t, []domain.Change{
		numeric(domain.BaseStatTarget, "이동 속도", "3.4", "3.5", domain.ChangeBuff),
	}, hyde.Changes)

	yuki, _ := ex.ExtractCharacter(doc, "유키")
	require.Equal(t, "800", yuki.Changes[0].Before)

	_, status = ex.ExtractCharacter(doc, "재키")
	require.Equal(t, StatusCharacterNotFound, status)
}

func TestSectionNotFound(t *testing.T) {
	doc, err := ParseString(`<div class="er-article-detail__content"><h5>시스템</h5><p>내용</p></div>`)
	require.NoError(t, err)

	ex := NewExtractor(DefaultOptions())
	require.Equal(t, StatusSectionNotFound, ex.Extract(doc).Status)

	_, status := ex.ExtractCharacter(doc, "재키")
	require.Equal(t, StatusSectionNotFound, status)

	doc, err = ParseString(`<div><h5>실험체</h5></div>`)
	require.NoError(t, err)
	require.Equal(t, StatusSectionNotFound, ex.Extract(doc).Status)
}

func TestStrictSectionEnd(t *testing.T) {
	const page = `<div class="er-article-detail__content">
<h5>실험체</h5>
<p><span><strong>재키</strong></span></p>
<h5>참고 사항</h5>
<ul><li><p><span>피해량 100 → 120</span></p></li></ul>
<h5>무기</h5>
<ul><li><p><span>공격력 1 → 2</span></p></li></ul>
</div>`
	doc, err := ParseString(page)
	require.NoError(t, err)

	loose := NewExtractor(DefaultOptions())
	jackie, _ := loose.ExtractCharacter(doc, "재키")
	require.Empty(t, jackie.Changes)

	opts := DefaultOptions()
	opts.StrictEnd = true
	jackie, _ = NewExtractor(opts).ExtractCharacter(doc, "재키")
	require.Len(t, jackie.Changes, 1)
	require.Equal(t, "피해량", jackie.Changes[0].Stat)
}

func TestRoundTripSkillTarget(t *testing.T) {
	const page = `<div class="er-article-detail__content">
<h5>실험체</h5>
<p><span><strong>엠마</strong></span></p>
<ul>
  <li>
    <p><span>매직 스틱(W)</span></p>
    <ul>
      <li><p><span>피해량 60 → 70</span></p></li>
      <li><p><span>사거리 5m → 5.5m</span></p></li>
    </ul>
  </li>
</ul>
</div>`
	doc, err := ParseString(page)
	require.NoError(t, err)

	emma, status := NewExtractor(DefaultOptions()).ExtractCharacter(doc, "엠마")
	require.Equal(t, StatusFound, status)
	require.Len(t, emma.Changes, 2)
	for _, c := range emma.Changes {
		require.Equal(t, "매직 스틱(W)", c.Target)
		require.True(t, c.IsNumeric())
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "regular.html"))
	require.NoError(t, err)

	ex := NewExtractor(DefaultOptions())
	first, err := ParseString(string(raw))
	require.NoError(t, err)
	second, err := ParseString(string(raw))
	require.NoError(t, err)

	require.Equal(t, ex.Extract(first), ex.Extract(second))
}

func TestSkillHeaderPatterns(t *testing.T) {
	headers := []string{
		"난도질(Q)",
		"바인딩(강화 Q2)",
		"야생의 본능(패시브)",
		"데비 돌진(W) - 마를렌 돌진(W2)",
		"Blade Dance(R)",
	}
	for _, h := range headers {
		got, ok := skillHeader(h)
		require.True(t, ok, h)
		require.Equal(t, h, got)
		require.True(t, isBareSkillHeader(h), h)
	}

	got, ok := skillHeader("난도질(Q) 적중 시 출혈 효과를 부여합니다")
	require.True(t, ok)
	require.Equal(t, "난도질(Q)", got)

	_, ok = skillHeader("난도질(Q) 피해량 10 → 20")
	require.False(t, ok)
	_, ok = skillHeader("최대 체력(증가)")
	require.False(t, ok)
}

func TestParseNumericLine(t *testing.T) {
	c, ok := parseNumeric("피해량 100 → 120", domain.BaseStatTarget)
	require.True(t, ok)
	require.Equal(t, numeric(domain.BaseStatTarget, "피해량", "100", "120", domain.ChangeBuff), c)

	c, ok = parseNumeric("쿨다운 12초 → 10초", "난도질(Q)")
	require.True(t, ok)
	require.Equal(t, domain.ChangeBuff, c.ChangeType)

	c, ok = parseNumeric("피해량 20/40/60(+공격력의 30%) → 30/50/70(+공격력의 30%)", "Q")
	require.True(t, ok)
	require.Equal(t, "피해량", c.Stat)
	require.Equal(t, "20/40/60(+공격력의 30%)", c.Before)
	require.Equal(t, "30/50/70(+공격력의 30%)", c.After)

	c, ok = parseNumeric("치명타 피해 감소 효과 없음 → 10%", "Q")
	require.True(t, ok)
	require.Equal(t, "치명타 피해 감소 효과", c.Stat)
	require.Equal(t, "없음", c.Before)

	c, ok = parseNumeric("피해량 100 → 최대 120", "Q")
	require.True(t, ok)
	require.Equal(t, "피해량", c.Stat)
	require.Equal(t, "100", c.Before)
	require.Equal(t, "120", c.After)

	_, ok = parseNumeric("→ 120", "Q")
	require.False(t, ok)
}

func TestDescriptiveCategory(t *testing.T) {
	require.Equal(t, domain.CategoryAdded, descriptiveCategory("스킬 적중 시 표식을 남깁니다 (신규)"))
	require.Equal(t, domain.CategoryAdded, descriptiveCategory("신규 효과: 이동 속도 증가"))
	require.Equal(t, domain.CategoryRemoved, descriptiveCategory("둔화 효과가 삭제됩니다"))
	require.Equal(t, domain.CategoryMechanic, descriptiveCategory("스킬 시전 중 방향 전환이 가능합니다"))
}

func TestNameMarkers(t *testing.T) {
	opts := DefaultOptions()
	require.True(t, opts.acceptName("데비&마를렌"))
	require.True(t, opts.acceptName("리 다이린"))
	require.False(t, opts.acceptName("무기"))
	require.False(t, opts.acceptName("기본 스탯"))
	require.False(t, opts.acceptName("Jackie"))
	require.False(t, opts.acceptName("이 문장은 이름이라기에는 너무 깁니다"))

	scan := NameScanOptions()
	require.True(t, scan.acceptName("재키"))
	require.False(t, scan.acceptName("강화 효과"))
}

func TestMarkerWithLeadText(t *testing.T) {
	const page = `<div class="er-article-detail__content">
<h5>실험체</h5>
<p><span><strong>시셀라</strong><br>시셀라의 생존력을 소폭 보강합니다.</span></p>
<ul><li><p><span>방어력 30 → 33</span></p></li></ul>
</div>`
	doc, err := ParseString(page)
	require.NoError(t, err)

	ex, status := NewExtractor(DefaultOptions()).ExtractCharacter(doc, "시셀라")
	require.Equal(t, StatusFound, status)
	require.Equal(t, "시셀라의 생존력을 소폭 보강합니다.", ex.DevComment)
	require.Len(t, ex.Changes, 1)
}

func TestDevCommentThresholds(t *testing.T) {
	const page = `<div class="er-article-detail__content">
<h5>실험체</h5>
<p><span><strong>시셀라</strong><br>생존력을 소폭 보강합니다.</span></p>
<ul><li><p><span>방어력 30 → 33</span></p></li></ul>
<p><span><strong>아야</strong></span></p>
<p><span>생존력을 소폭 보강합니다.</span></p>
<ul><li><p><span>방어력 30 → 33</span></p></li></ul>
</div>`
	doc, err := ParseString(page)
	require.NoError(t, err)
	ex := NewExtractor(DefaultOptions())

	lead, status := ex.ExtractCharacter(doc, "시셀라")
	require.Equal(t, StatusFound, status)
	require.Equal(t, "생존력을 소폭 보강합니다.", lead.DevComment)

	loose, status := ex.ExtractCharacter(doc, "아야")
	require.Equal(t, StatusFound, status)
	require.Empty(t, loose.DevComment)
	require.Len(t, loose.Changes, 1)
}

func TestNormalizeName(t *testing.T) {
	require.Equal(t, "데비&마를렌", NormalizeName(" 데비 &amp; 마를렌 "))
	require.Equal(t, "리 다이린", NormalizeName("리  다이린"))
}

func TestSuggest(t *testing.T) {
	got := Suggest("아드리아노", Roster(), 1, 0.8)
	require.Len(t, got, 1)
	require.Equal(t, "아드리아나", got[0].Name)

	require.Empty(t, Suggest("zzzz", Roster(), 3, 0.8))
}

func TestPatchVersion(t *testing.T) {
	require.Equal(t, "1.35", PatchVersion("1.35 패치노트"))
	require.Equal(t, "1.35a", PatchVersion("정식 시즌 - 1.35a 패치"))
	require.Equal(t, "2.0", PatchVersion("2.0핫픽스 안내"))
	require.Equal(t, "밸런스 조정 안내", PatchVersion(" 밸런스 조정 안내 "))
	require.Equal(t, "2024-07-11", PatchDate(time.Date(2024, 7, 11, 2, 0, 0, 0, time.UTC)))
}
