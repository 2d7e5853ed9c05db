package htmlutil

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		getTextRecursive(child, buffer)
	}
}

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// CleanText trims a display string and collapses runs of whitespace into a
// single space.
func CleanText(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

type Anchor struct {
	Name string
	Href string
}

// Query returns the parsed query string of the anchor's href.
func (a Anchor) Query() (url.Values, error) {
	link, err := url.Parse(a.Href)
	if err != nil {
		return nil, err
	}
	return link.Query(), nil
}

// FirstAnchor returns the first <a href> under sel.
func FirstAnchor(sel *goquery.Selection) (Anchor, bool) {
	a := sel.Find("a[href]").First()
	if a.Length() == 0 {
		return Anchor{}, false
	}
	href, _ := a.Attr("href")
	return Anchor{
		Name: CleanText(GetText(a.Nodes[0])),
		Href: href,
	}, true
}
