package patchnote

import (
	"strings"

	"er-patch-tracker/internal/domain"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Status string

const (
	StatusFound             Status = "found"
	StatusSectionNotFound   Status = "section_not_found"
	StatusCharacterNotFound Status = "character_not_found"
)

// Extraction is everything recovered for one character block.
type Extraction struct {
	Name       string          `json:"name"`
	Shape      Shape           `json:"shape"`
	Changes    []domain.Change `json:"changes"`
	DevComment string          `json:"devComment,omitempty"`
}

// Result is the outcome of extracting a whole document. Characters keep the
// order of their first appearance; a name repeated in a later block or
// section is ignored.
type Result struct {
	Status     Status       `json:"status"`
	Sections   int          `json:"sections"`
	Characters []Extraction `json:"characters"`
}

func (r Result) Find(name string) (Extraction, bool) {
	name = NormalizeName(name)
	for _, c := range r.Characters {
		if c.Name == name {
			return c, true
		}
	}
	return Extraction{}, false
}

func (r Result) Names() []string {
	names := make([]string, len(r.Characters))
	for i, c := range r.Characters {
		names[i] = c.Name
	}
	return names
}

type Extractor struct {
	opts Options
}

func NewExtractor(opts Options) *Extractor {
	return &Extractor{opts: opts}
}

func (e *Extractor) Options() Options {
	return e.opts
}

func (e *Extractor) sections(doc *Document) []Section {
	return LocateSections(doc.Content(e.opts.ContentSelector), e.opts)
}

func (e *Extractor) Extract(doc *Document) Result {
	sections := e.sections(doc)
	if len(sections) == 0 {
		return Result{Status: StatusSectionNotFound}
	}

	res := Result{Status: StatusFound, Sections: len(sections)}
	seen := make(map[string]bool)
	for _, s := range sections {
		for _, b := range SplitBlocks(s, e.opts) {
			if seen[b.Name] {
				continue
			}
			seen[b.Name] = true
			res.Characters = append(res.Characters, e.ExtractBlock(b))
		}
	}
	return res
}

// ExtractCharacter searches each candidate section in order and stops at the
// first block for name.
func (e *Extractor) ExtractCharacter(doc *Document, name string) (Extraction, Status) {
	sections := e.sections(doc)
	if len(sections) == 0 {
		return Extraction{}, StatusSectionNotFound
	}

	name = NormalizeName(name)
	for _, s := range sections {
		for _, b := range SplitBlocks(s, e.opts) {
			if b.Name == name {
				return e.ExtractBlock(b), StatusFound
			}
		}
	}
	return Extraction{}, StatusCharacterNotFound
}

// blockWalker carries the running target across one block.
type blockWalker struct {
	opts     Options
	target   string
	changes  []domain.Change
	comments []string
}

func (e *Extractor) ExtractBlock(b Block) Extraction {
	w := &blockWalker{opts: e.opts, target: domain.BaseStatTarget}
	if b.Lead != "" {
		w.paragraph(b.Lead, w.opts.MinLeadCommentLength)
	}
	for _, item := range b.Items {
		switch {
		case isElement(item, atom.Li):
			w.topItem(item)
		case isElement(item, atom.P):
			w.paragraph(nodeText(item), w.opts.MinDevCommentLength)
		}
	}
	return Extraction{
		Name:       b.Name,
		Shape:      b.Shape,
		Changes:    w.changes,
		DevComment: strings.Join(w.comments, " "),
	}
}

// itemText is the text a list item contributes on its own: its first
// paragraph, else a direct span, else its text without nested lists.
func itemText(li *html.Node) string {
	if p := firstChildElement(li, atom.P); p != nil {
		return nodeText(p)
	}
	if span := firstChildElement(li, atom.Span); span != nil {
		return nodeText(span)
	}
	return ownText(li)
}

func (w *blockWalker) topItem(li *html.Node) {
	text := itemText(li)
	if header, ok := skillHeader(text); ok {
		w.target = header
	} else if runeLen(text) >= w.opts.MinLineLength {
		w.line(text)
	}

	for _, sub := range allMatchingDescendants(li, func(n *html.Node) bool { return isElement(n, atom.Li) }) {
		w.subItem(itemText(sub))
	}
}

func (w *blockWalker) subItem(text string) {
	if runeLen(text) < w.opts.MinLineLength {
		return
	}
	if header, ok := skillHeader(text); ok && header == text {
		w.target = header
		return
	}
	w.line(text)
}

// line applies the tie-break: skill header, then numeric, then descriptive.
func (w *blockWalker) line(text string) {
	if isBareSkillHeader(text) {
		return
	}
	if hasArrow(text) {
		if c, ok := parseNumeric(text, w.target); ok {
			w.changes = append(w.changes, c)
		}
		return
	}
	if runeLen(text) > w.opts.MinDescriptionLength {
		w.changes = append(w.changes, descriptive(text, w.target))
	}
}

// paragraph handles loose <p> content inside a block: headers and value
// lines are changes, other prose is the developer comment.
func (w *blockWalker) paragraph(text string, minComment int) {
	if text == "" {
		return
	}
	if header, ok := skillHeader(text); ok && header == text {
		w.target = header
		return
	}
	if hasArrow(text) {
		if c, ok := parseNumeric(text, w.target); ok {
			w.changes = append(w.changes, c)
		}
		return
	}
	if runeLen(text) > minComment && !startsWithDigit(text) && !isBareSkillHeader(text) {
		w.comments = append(w.comments, text)
	}
}
