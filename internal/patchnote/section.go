package patchnote

import (
	"strings"

	"golang.org/x/net/html"
)

// Section is one candidate character-changes range. End is nil when the
// section runs to the end of the content.
type Section struct {
	Heading  *html.Node
	End      *html.Node
	Elements []*html.Node
}

func (o Options) isStartHeading(text string) bool {
	for _, l := range o.StartLabels {
		if text == l {
			return true
		}
	}
	for _, s := range o.StartSynonyms {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

func (o Options) isEndHeading(text string) bool {
	if !o.StrictEnd {
		return true
	}
	for _, l := range o.EndLabels {
		if strings.Contains(text, l) {
			return true
		}
	}
	return false
}

// LocateSections returns every character section of content in document
// order. An empty result means the patch has no character section.
func LocateSections(content *html.Node, opts Options) []Section {
	if content == nil {
		return nil
	}

	children := elementChildren(content)
	var sections []Section
	for i, child := range children {
		if !isElement(child, opts.HeadingTag) || !opts.isStartHeading(nodeText(child)) {
			continue
		}

		var end *html.Node
		for _, next := range children[i+1:] {
			if isElement(next, opts.HeadingTag) && opts.isEndHeading(nodeText(next)) {
				end = next
				break
			}
		}

		sections = append(sections, Section{
			Heading:  child,
			End:      end,
			Elements: childrenBetween(content, child, end),
		})
	}
	return sections
}
