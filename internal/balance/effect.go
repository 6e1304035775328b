package balance

import (
	"strings"
	"unicode"

	"er-patch-tracker/internal/domain"
)

var (
	absentBefore = map[string]bool{"": true, "없음": true, "-": true, "x": true}
	absentAfter  = map[string]bool{"": true, "삭제": true, "없음": true, "-": true}
)

// Effect reports what a numeric value pair does to the underlying effect:
// added when there was no prior value, removed when there is no new one,
// numeric when both sides are values and mechanic when neither is.
func Effect(before, after string) domain.ChangeCategory {
	b := strings.ToLower(strings.TrimSpace(before))
	a := strings.ToLower(strings.TrimSpace(after))

	switch {
	case absentBefore[b]:
		return domain.CategoryAdded
	case absentAfter[a]:
		return domain.CategoryRemoved
	}

	bNum, aNum := startsWithDigit(b), startsWithDigit(a)
	switch {
	case bNum && aNum:
		return domain.CategoryNumeric
	case !bNum && !aNum:
		return domain.CategoryMechanic
	default:
		return domain.CategoryUnknown
	}
}

func startsWithDigit(s string) bool {
	for _, r := range s {
		return unicode.IsDigit(r)
	}
	return false
}
