package postings

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const blockElements = "br,p,div,li,ul,ol,tr,td,th,h1,h2,h3,h4,h5,h6,section,article"

// StripHTML returns the text content of an HTML fragment with whitespace
// collapsed. Block elements are separated by a space; script and style
// contents are dropped.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.Join(strings.Fields(fragment), " ")
	}

	doc.Find("script,style,noscript").Remove()
	doc.Find(blockElements).Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(&html.Node{Type: html.TextNode, Data: " "})
	})

	return strings.Join(strings.Fields(doc.Text()), " ")
}
