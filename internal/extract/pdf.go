package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

var paragraphBreakRe = regexp.MustCompile(`\n{2,}`)

// pdfToHTML extracts plain text page by page and converts it to HTML:
// blank lines become paragraph breaks, single newlines become <br>, and
// page boundaries count as paragraph breaks.
func pdfToHTML(data []byte) (Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("read pdf: %w", err)
	}

	totalPages := reader.NumPage()
	var pages []string
	var warnings []string
	for i := 1; i <= totalPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("page %d: %v", i, err))
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}

	return Result{
		Content:  textToHTML(strings.Join(pages, "\n\n")),
		Pages:    totalPages,
		Warnings: warnings,
	}, nil
}

func textToHTML(text string) string {
	text = html.EscapeString(text)
	text = paragraphBreakRe.ReplaceAllString(text, "</p><p>")
	text = strings.ReplaceAll(text, "\n", "<br>")
	return "<p>" + strings.TrimSpace(text) + "</p>"
}
