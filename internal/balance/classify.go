package balance

import (
	"regexp"
	"strconv"
	"strings"

	"er-patch-tracker/internal/domain"
)

// decreaseIsBuff lists stat keywords for which a lower value favours the
// character. Matching is first-hit substring on the lower-cased stat name.
var decreaseIsBuff = []string{
	"쿨다운", "cooldown", "cd",
	"마나", "mana", "sp", "mp",
	"소모",
	"시전", "cast", "casting",
	"딜레이", "delay",
	"대기", "wait",
	"충전", "charge time",
	"선딜", "후딜", "선 딜레이", "후 딜레이",
	"스태미나",
}

var numberPattern = regexp.MustCompile(`\d+(?:\.\d+)?`)

func IsDecreaseBuffStat(stat string) bool {
	lower := strings.ToLower(stat)
	for _, kw := range decreaseIsBuff {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// ExtractNumbers returns every numeric token in s, in order.
func ExtractNumbers(s string) []float64 {
	matches := numberPattern.FindAllString(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

func average(nums []float64) float64 {
	var sum float64
	for _, n := range nums {
		sum += n
	}
	return sum / float64(len(nums))
}

// ClassifyNumericChange compares the averaged magnitudes of before and after.
// Multi-rank values such as "10/20/30" are averaged rather than rejected.
func ClassifyNumericChange(stat, before, after string) domain.ChangeType {
	beforeNums := ExtractNumbers(before)
	afterNums := ExtractNumbers(after)
	if len(beforeNums) == 0 || len(afterNums) == 0 {
		return domain.ChangeMixed
	}

	beforeAvg := average(beforeNums)
	afterAvg := average(afterNums)
	if beforeAvg == afterAvg {
		return domain.ChangeMixed
	}

	isIncrease := afterAvg > beforeAvg
	if IsDecreaseBuffStat(stat) {
		if isIncrease {
			return domain.ChangeNerf
		}
		return domain.ChangeBuff
	}
	if isIncrease {
		return domain.ChangeBuff
	}
	return domain.ChangeNerf
}

// OverallChange summarizes an entry. Mixed changes do not block a buff or nerf
// verdict; only the presence of both directions does.
func OverallChange(changes []domain.Change) domain.ChangeType {
	var buffs, nerfs int
	for _, c := range changes {
		switch c.ChangeType {
		case domain.ChangeBuff:
			buffs++
		case domain.ChangeNerf:
			nerfs++
		}
	}
	switch {
	case buffs > 0 && nerfs == 0:
		return domain.ChangeBuff
	case nerfs > 0 && buffs == 0:
		return domain.ChangeNerf
	default:
		return domain.ChangeMixed
	}
}

// Classify fills ChangeType on every change in place. Descriptive changes are
// always mixed.
func Classify(changes []domain.Change) {
	for i := range changes {
		c := &changes[i]
		if c.IsNumeric() {
			c.ChangeType = ClassifyNumericChange(c.Stat, c.Before, c.After)
			continue
		}
		c.ChangeType = domain.ChangeMixed
	}
}
