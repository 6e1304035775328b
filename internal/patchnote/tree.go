package patchnote

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	whitespace     = regexp.MustCompile(`\s+`)
	arrowVariants  = strings.NewReplacer("->", "→", "⇒", "→", "➔", "→", "➜", "→", "⟶", "→")
	entityReplacer = strings.NewReplacer("&nbsp;", " ", "&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'")
)

// cleanText collapses whitespace, folds arrow variants and decodes entities
// that survived as literal text.
func cleanText(s string) string {
	s = entityReplacer.Replace(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = arrowVariants.Replace(s)
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

func isElement(n *html.Node, tags ...atom.Atom) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if len(tags) == 0 {
		return true
	}
	for _, t := range tags {
		if n.DataAtom == t {
			return true
		}
	}
	return false
}

func isList(n *html.Node) bool {
	return isElement(n, atom.Ul, atom.Ol)
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func childElements(n *html.Node, tags ...atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tags...) {
			out = append(out, c)
		}
	}
	return out
}

func firstChildElement(n *html.Node, tags ...atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tags...) {
			return c
		}
	}
	return nil
}

// childrenBetween returns the element children of parent strictly after start
// and before end. A nil end runs to the last child.
func childrenBetween(parent, start, end *html.Node) []*html.Node {
	var out []*html.Node
	inside := start == nil
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c == end {
			break
		}
		if c == start {
			inside = true
			continue
		}
		if inside && c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// firstMatchingDescendant walks n depth first in document order, excluding n.
func firstMatchingDescendant(n *html.Node, match func(*html.Node) bool) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if match(c) {
			return c
		}
		if found := firstMatchingDescendant(c, match); found != nil {
			return found
		}
	}
	return nil
}

func allMatchingDescendants(n *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func collectText(n *html.Node, b *strings.Builder, skip func(*html.Node) bool) {
	if n == nil {
		return
	}
	switch {
	case n.Type == html.TextNode:
		b.WriteString(n.Data)
		return
	case isElement(n, atom.Br):
		b.WriteByte(' ')
		return
	case skip != nil && skip(n):
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b, skip)
	}
}

// nodeText is the cleaned visible text of n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b, nil)
	return cleanText(b.String())
}

// ownText is nodeText without nested lists.
func ownText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, &b, isList)
	}
	return cleanText(b.String())
}

// followedByBreakOrEnd reports whether only a <br> or whitespace follows n
// inside its parent.
func followedByBreakOrEnd(n *html.Node) bool {
	next := n.NextSibling
	for next != nil && next.Type == html.TextNode && strings.TrimSpace(strings.ReplaceAll(next.Data, "\u00a0", " ")) == "" {
		next = next.NextSibling
	}
	return next == nil || isElement(next, atom.Br)
}
