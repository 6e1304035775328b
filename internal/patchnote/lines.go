package patchnote

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"er-patch-tracker/internal/balance"
	"er-patch-tracker/internal/domain"
)

const arrow = "→"

const skillSlot = `\((?:[가-힣A-Za-z\s-]*)(?:[QWERP]|패시브)\d?\)`

var (
	// "이름(Q)", "이름(강화 Q2)", "이름(패시브)", "이름(Q) - 이름(Q2)"
	skillHeaderPrefix = regexp.MustCompile(`^[^(→]+` + skillSlot + `(?:\s*-\s*[^(→]+` + skillSlot + `)?`)
	skillHeaderLine   = regexp.MustCompile(skillHeaderPrefix.String() + `$`)

	numericLine = regexp.MustCompile(`^(.+?)\s+([^\s→]+(?:\([^)]*\))?(?:[^→]*?))\s*→\s*(.+)$`)

	newMarker = regexp.MustCompile(`신규(?:[^가-힣]|$)`)
)

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func hasArrow(s string) bool {
	return strings.Contains(s, arrow)
}

// skillHeader returns the leading skill header of text, if any. Lines with an
// arrow are never headers.
func skillHeader(text string) (string, bool) {
	if hasArrow(text) {
		return "", false
	}
	m := skillHeaderPrefix.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.TrimSpace(m), true
}

func isBareSkillHeader(text string) bool {
	return skillHeaderLine.MatchString(text)
}

// parseNumeric splits "<stat> <before> → <after>".
func parseNumeric(text, target string) (domain.Change, bool) {
	m := numericLine.FindStringSubmatch(text)
	if m == nil {
		return domain.Change{}, false
	}
	stat, before, after := splitValuePrefix(
		strings.TrimSpace(m[1]),
		strings.TrimSpace(m[2]),
		strings.TrimSpace(m[3]),
	)
	return domain.Change{
		Target:         target,
		Stat:           stat,
		Before:         before,
		After:          after,
		ChangeType:     balance.ClassifyNumericChange(stat, before, after),
		ChangeCategory: domain.CategoryNumeric,
	}, true
}

var absentValues = map[string]bool{"없음": true, "-": true, "x": true, "X": true}

// splitValuePrefix moves words that precede the first value in before onto
// the stat name. Words before the first value in after are dropped.
func splitValuePrefix(stat, before, after string) (string, string, string) {
	if aidx := firstDigitOutsideParens(after); aidx > 0 {
		after = strings.TrimSpace(after[aidx:])
	}

	idx := firstDigitOutsideParens(before)
	if idx < 0 {
		// "효과 없음 → 10%": only the absence marker is a value
		if i := strings.LastIndexByte(before, ' '); i > 0 && absentValues[before[i+1:]] {
			return stat + " " + strings.TrimSpace(before[:i]), before[i+1:], after
		}
		return stat, before, after
	}
	if idx == 0 {
		return stat, before, after
	}

	prefix := strings.TrimSpace(before[:idx])
	if prefix == "" {
		return stat, strings.TrimSpace(before), after
	}
	return stat + " " + prefix, strings.TrimSpace(before[idx:]), after
}

// firstDigitOutsideParens returns the byte offset of the first digit not
// enclosed in parentheses, or -1.
func firstDigitOutsideParens(s string) int {
	depth := 0
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0 && unicode.IsDigit(r):
			return i
		}
	}
	return -1
}

func descriptiveCategory(text string) domain.ChangeCategory {
	switch {
	case strings.Contains(text, "(신규)") || newMarker.MatchString(text):
		return domain.CategoryAdded
	case strings.Contains(text, "(삭제)") || strings.Contains(text, "삭제됩니다"):
		return domain.CategoryRemoved
	default:
		return domain.CategoryMechanic
	}
}

func descriptive(text, target string) domain.Change {
	return domain.Change{
		Target:         target,
		Description:    text,
		ChangeType:     domain.ChangeMixed,
		ChangeCategory: descriptiveCategory(text),
	}
}

func startsWithDigit(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsDigit(r)
}
