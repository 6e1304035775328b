package patchnote

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a parsed patch-note page. It is never mutated after Parse.
type Document struct {
	doc *goquery.Document
}

func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	return &Document{doc: doc}, nil
}

func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Content returns the article body, or nil when the page has none.
func (d *Document) Content(selector string) *html.Node {
	sel := d.doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil
	}
	return sel.Get(0)
}

func (d *Document) Title() string {
	return cleanText(d.doc.Find("title").First().Text())
}
