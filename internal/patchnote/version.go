package patchnote

import (
	"regexp"
	"strings"
	"time"
)

var (
	versionPattern = regexp.MustCompile(`(?i)(?:^|\s|-)(\d{1,2}\.\d{1,2}[a-z]?)(?:\s|$|-|패치)`)
	hotfixPattern  = regexp.MustCompile(`(\d+\.\d+[a-z]?)\s*핫픽스`)
)

// PatchVersion pulls "1.35" or "1.35a" out of a patch-note title, falling
// back to the trimmed title.
func PatchVersion(title string) string {
	if m := versionPattern.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	if m := hotfixPattern.FindStringSubmatch(title); m != nil {
		return m[1]
	}
	return strings.TrimSpace(title)
}

func PatchDate(createdAt time.Time) string {
	return createdAt.Format(time.DateOnly)
}
