// Package extract converts uploaded PDF and Word documents into the HTML
// served to magazine readers.
package extract

import (
	"errors"
	"fmt"
	"strings"
)

// Supported file types, matched against the declared type of the upload.
const (
	TypePDF  = "pdf"
	TypeDOCX = "docx"
)

var (
	// ErrUnsupportedType is returned before any extraction work begins.
	ErrUnsupportedType = errors.New("unsupported file type")

	// ErrNoContent indicates extraction succeeded but produced no readable text.
	ErrNoContent = errors.New("no readable content found in the file")
)

// ExtractionError tags a failure inside an extractor, preserving the reason.
type ExtractionError struct {
	Err error
}

func (e *ExtractionError) Error() string {
	return "extraction failed: " + e.Err.Error()
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Result is a successful extraction.
type Result struct {
	Content  string
	Pages    int
	Warnings []string
}

// Process dispatches to the extractor for the declared file type and
// validates that the output carries readable text. Every failure comes back
// as ErrUnsupportedType, *ExtractionError, or ErrNoContent; extractor
// internals (including panics from malformed input) never escape.
func Process(data []byte, fileType string) (res Result, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			res = Result{}
			err = &ExtractionError{Err: fmt.Errorf("parser panic: %v", rec)}
		}
	}()

	switch fileType {
	case TypePDF:
		res, err = pdfToHTML(data)
	case TypeDOCX:
		res, err = wordToHTML(data)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnsupportedType, fileType)
	}
	if err != nil {
		return Result{}, &ExtractionError{Err: err}
	}

	if strings.TrimSpace(htmlText(res.Content)) == "" {
		return Result{}, ErrNoContent
	}
	return res, nil
}
