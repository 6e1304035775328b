package patchnote

import (
	"regexp"

	"golang.org/x/net/html/atom"
)

// Options holds the variation points of the extraction pipeline. The zero
// value is not usable; start from DefaultOptions.
type Options struct {
	ContentSelector string
	HeadingTag      atom.Atom

	// A heading opens a character section when its text equals one of
	// StartLabels or contains one of StartSynonyms.
	StartLabels   []string
	StartSynonyms []string

	// With StrictEnd the section runs to the next heading containing one of
	// EndLabels instead of the next heading of any kind.
	StrictEnd bool
	EndLabels []string

	NameCharset   *regexp.Regexp
	MaxNameLength int
	ExcludedNames []string
	// Roster restricts accepted names when non-empty.
	Roster []string

	MinLineLength        int
	MinDescriptionLength int
	// A loose paragraph needs more text than the remainder of a marker
	// paragraph to count as a developer comment.
	MinDevCommentLength  int
	MinLeadCommentLength int
}

func DefaultOptions() Options {
	return Options{
		ContentSelector: ".er-article-detail__content",
		HeadingTag:      atom.H5,
		StartLabels:     []string{"실험체"},
		StartSynonyms:   []string{"실험체", "Character"},
		EndLabels:       []string{"무기", "아이템", "코발트 프로토콜", "론울프", "특성", "시스템"},
		NameCharset:     regexp.MustCompile(`^[가-힣&\s]+$`),
		MaxNameLength:   10,
		ExcludedNames: []string{
			"실험체", "무기", "아이템", "시스템", "특성", "코발트 프로토콜", "론울프",
			"옷", "팔/장식", "머리", "다리", "악세서리",
			"파괴", "저항", "지원", "영웅",
			"기존", "변경", "기타",
			"기본 스탯", "스킬", "무기 스킬", "공통",
		},
		MinLineLength:        5,
		MinDescriptionLength: 10,
		MinDevCommentLength:  15,
		MinLeadCommentLength: 10,
	}
}

// NameScanOptions is tuned for listing which characters a patch mentions:
// the roster filters out bold subheadings, so a looser length cap is safe.
func NameScanOptions() Options {
	opts := DefaultOptions()
	opts.MaxNameLength = 15
	opts.Roster = Roster()
	return opts
}
