package patchnote

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type Shape string

const (
	ShapeRegular Shape = "regular"
	ShapeHotfix  Shape = "hotfix"
)

// Block is the content attributed to one character. Items are the <li> and
// <p> nodes to walk, in document order. Lead is any text that followed the
// name inside the marker paragraph.
type Block struct {
	Name  string
	Shape Shape
	Items []*html.Node
	Lead  string
}

func (o Options) acceptName(name string) bool {
	if name == "" || !o.NameCharset.MatchString(name) {
		return false
	}
	if utf8.RuneCountInString(name) > o.MaxNameLength {
		return false
	}
	for _, ex := range o.ExcludedNames {
		if name == ex {
			return false
		}
	}
	if len(o.Roster) > 0 && !inRoster(o.Roster, name) {
		return false
	}
	return true
}

func isEmphasis(n *html.Node) bool {
	return isElement(n, atom.Strong, atom.B)
}

// nameInParagraph finds an emphasized name that stands alone in p: either the
// wrapping span holds nothing else, or the emphasis is followed only by a
// line break. The remaining paragraph text is returned as lead.
func (o Options) nameInParagraph(p *html.Node, requireWholeSpan bool) (name, lead string, ok bool) {
	strong := firstMatchingDescendant(p, func(n *html.Node) bool {
		return isEmphasis(n) && (isElement(n.Parent, atom.Span) || n.Parent == p)
	})
	if strong == nil {
		return "", "", false
	}

	name = NormalizeName(nodeText(strong))
	if !o.acceptName(name) {
		return "", "", false
	}

	container := strong.Parent
	alone := NormalizeName(nodeText(container)) == name
	if !alone && !requireWholeSpan {
		alone = followedByBreakOrEnd(strong)
	}
	if !alone {
		return "", "", false
	}

	full := nodeText(p)
	if idx := strings.Index(full, nodeText(strong)); idx >= 0 {
		lead = strings.TrimSpace(full[idx+len(nodeText(strong)):])
	}
	return name, lead, true
}

func (o Options) regularMarker(n *html.Node) (string, string, bool) {
	if !isElement(n, atom.P) {
		return "", "", false
	}
	return o.nameInParagraph(n, false)
}

// hotfixMarker matches <li><p><span><strong>name</strong></span></p><ul>…</ul></li>.
func (o Options) hotfixMarker(li *html.Node) (string, bool) {
	p := firstChildElement(li, atom.P)
	if p == nil || firstChildElement(li, atom.Ul, atom.Ol) == nil {
		return "", false
	}
	name, _, ok := o.nameInParagraph(p, true)
	return name, ok
}

// SplitBlocks segments a section into per-character blocks. A new marker of
// either shape always closes the block before it.
func SplitBlocks(section Section, opts Options) []Block {
	var (
		blocks  []Block
		current *Block
	)
	flush := func() {
		if current != nil {
			blocks = append(blocks, *current)
			current = nil
		}
	}

	for _, el := range section.Elements {
		switch {
		case isElement(el, atom.P):
			if name, lead, ok := opts.regularMarker(el); ok {
				flush()
				current = &Block{Name: name, Shape: ShapeRegular, Lead: lead}
				continue
			}
			if current != nil {
				current.Items = append(current.Items, el)
			}

		case isList(el):
			for _, li := range childElements(el, atom.Li) {
				if name, ok := opts.hotfixMarker(li); ok {
					flush()
					current = &Block{Name: name, Shape: ShapeHotfix}
					for _, nested := range childElements(li, atom.Ul, atom.Ol) {
						current.Items = append(current.Items, childElements(nested, atom.Li)...)
					}
					continue
				}
				if current != nil {
					current.Items = append(current.Items, li)
				}
			}
		}
	}
	flush()
	return blocks
}
