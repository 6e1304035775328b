package patchnote

import (
	"sort"
	"strings"

	"github.com/antzucaro/matchr"
)

var roster = []string{
	"가넷", "나딘", "나타폰", "니아", "니키", "다니엘", "다르코", "데비&마를렌", "띠아", "라우라",
	"레녹스", "레니", "레온", "로지", "루크", "르노어", "리 다이린", "리오", "마르티나", "마이",
	"마커스", "매그너스", "미르카", "바냐", "바바라", "버니스", "블레어", "비앙카", "샬럿", "셀린",
	"쇼우", "쇼이치", "수아", "슈린", "시셀라", "실비아", "아델라", "아드리아나", "아디나", "아르다",
	"아비게일", "아야", "아이솔", "아이작", "알렉스", "알론소", "얀", "에스텔", "에이든", "에키온",
	"엘레나", "엠마", "요한", "윌리엄", "유민", "유스티나", "유키", "이렘", "이바", "이슈트반",
	"이안", "일레븐", "자히르", "재키", "제니", "츠바메", "카밀로", "카티야", "칼라", "캐시",
	"케네스", "클로에", "키아라", "타지아", "테오도르", "펠릭스", "프리야", "피오라", "피올로", "하트",
	"헤이즈", "헨리", "현우", "혜진", "히스이",
}

// Roster returns a copy of the known character names.
func Roster() []string {
	out := make([]string, len(roster))
	copy(out, roster)
	return out
}

// NormalizeName collapses whitespace and drops spaces around '&' so that
// "데비 & 마를렌" and "데비&마를렌" compare equal.
func NormalizeName(name string) string {
	name = cleanText(name)
	name = strings.ReplaceAll(name, " &", "&")
	return strings.ReplaceAll(name, "& ", "&")
}

func inRoster(list []string, name string) bool {
	for _, n := range list {
		if NormalizeName(n) == name {
			return true
		}
	}
	return false
}

type Suggestion struct {
	Name  string
	Score float64
}

// Suggest ranks candidates by Jaro-Winkler similarity to name and returns the
// best matches scoring at least minScore.
func Suggest(name string, candidates []string, limit int, minScore float64) []Suggestion {
	name = NormalizeName(name)
	var out []Suggestion
	for _, c := range candidates {
		score := matchr.JaroWinkler(name, NormalizeName(c), false)
		if score >= minScore {
			out = append(out, Suggestion{Name: c, Score: score})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
