package reconcile

import (
	"regexp"
	"strings"

	"er-patch-tracker/internal/domain"
)

// DescriptionPrefix bounds how much of a descriptive change takes part in its
// fingerprint, in runes.
const DescriptionPrefix = 80

var fingerprintNoise = regexp.MustCompile(`[\s():,]`)

func squash(s string) string {
	return fingerprintNoise.ReplaceAllString(strings.ToLower(s), "")
}

// Fingerprint identifies a change independently of whitespace, case and
// punctuation. Two distinct changes that squash to the same string are
// treated as one.
func Fingerprint(c domain.Change) string {
	if c.Stat != "" {
		return squash(c.Target + c.Stat + c.Before + c.After)
	}
	if c.Description != "" {
		r := []rune(squash(c.Target + c.Description))
		if len(r) > DescriptionPrefix {
			r = r[:DescriptionPrefix]
		}
		return string(r)
	}
	return ""
}

type Diff struct {
	// Missing are web changes absent from the store.
	Missing []domain.Change `json:"missingChanges"`
	// Extra are stored changes absent from the web document.
	Extra []domain.Change `json:"extraChanges"`
}

func (d Diff) Clean() bool {
	return len(d.Missing) == 0 && len(d.Extra) == 0
}

func fingerprintSet(changes []domain.Change) map[string]bool {
	set := make(map[string]bool, len(changes))
	for _, c := range changes {
		set[Fingerprint(c)] = true
	}
	return set
}

// Compare is a set difference by fingerprint in both directions.
func Compare(stored, web []domain.Change) Diff {
	storedSet := fingerprintSet(stored)
	webSet := fingerprintSet(web)

	var d Diff
	for _, c := range web {
		if !storedSet[Fingerprint(c)] {
			d.Missing = append(d.Missing, c)
		}
	}
	for _, c := range stored {
		if !webSet[Fingerprint(c)] {
			d.Extra = append(d.Extra, c)
		}
	}
	return d
}
