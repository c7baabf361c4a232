package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// normalizeHTML removes paragraphs that carry no text or markup and
// collapses whitespace runs to single spaces.
func normalizeHTML(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", err
	}

	doc.Find("p").Each(func(_ int, sel *goquery.Selection) {
		if strings.TrimSpace(sel.Text()) == "" && sel.Children().Length() == 0 {
			sel.Remove()
		}
	})

	body, err := doc.Find("body").Html()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(whitespaceRe.ReplaceAllString(body, " ")), nil
}

// htmlText returns the text content of an HTML fragment.
func htmlText(raw string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}
	return doc.Text()
}
