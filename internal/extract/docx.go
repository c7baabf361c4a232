package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"
)

// wordToHTML converts a DOCX payload to HTML preserving basic structure:
// headings, paragraphs, lists, and bold/italic runs. The document body lives
// in word/document.xml inside the OOXML zip archive.
func wordToHTML(data []byte) (Result, error) {
	if len(data) == 0 {
		return Result{}, errors.New("empty docx data")
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{}, fmt.Errorf("open docx archive: %w", err)
	}

	var docFile *zip.File
	for _, f := range zr.File {
		name := strings.ReplaceAll(f.Name, "\\", "/")
		if name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return Result{}, errors.New("document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return Result{}, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return Result{}, fmt.Errorf("read document.xml: %w", err)
	}

	rough, warnings, err := docxXMLToHTML(raw)
	if err != nil {
		return Result{}, err
	}

	cleaned, err := normalizeHTML(rough)
	if err != nil {
		return Result{}, err
	}

	return Result{Content: cleaned, Warnings: warnings}, nil
}

type docxWalker struct {
	out      strings.Builder
	para     strings.Builder
	warnings []string

	inParaProps bool
	inRun       bool
	inRunProps  bool
	inText      bool

	runBold   bool
	runItalic bool

	headingLevel int
	isListItem   bool
	listOpen     bool

	imageWarned bool
}

// docxXMLToHTML walks document.xml token by token. WordprocessingML nests
// paragraph properties (pPr) and run properties (rPr); only character data
// inside w:t elements is document text.
func docxXMLToHTML(raw []byte) (string, []string, error) {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	w := &docxWalker{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("parse document.xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			w.startElement(t)
		case xml.EndElement:
			w.endElement(t)
		case xml.CharData:
			if w.inText {
				w.writeRunText(string(t))
			}
		}
	}

	w.closeList()
	return w.out.String(), w.warnings, nil
}

func (w *docxWalker) startElement(t xml.StartElement) {
	switch t.Name.Local {
	case "p":
		w.para.Reset()
		w.headingLevel = 0
		w.isListItem = false
	case "pPr":
		w.inParaProps = true
	case "pStyle":
		if w.inParaProps {
			w.headingLevel = headingLevelFromStyle(attrValue(t, "val"))
		}
	case "numPr":
		if w.inParaProps {
			w.isListItem = true
		}
	case "r":
		w.inRun = true
		w.runBold = false
		w.runItalic = false
	case "rPr":
		if w.inRun {
			w.inRunProps = true
		}
	case "b":
		if w.inRunProps {
			w.runBold = toggleEnabled(t)
		}
	case "i":
		if w.inRunProps {
			w.runItalic = toggleEnabled(t)
		}
	case "t":
		if w.inRun {
			w.inText = true
		}
	case "br":
		if w.inRun {
			w.para.WriteString("<br>")
		}
	case "tab":
		if w.inRun {
			w.para.WriteString(" ")
		}
	case "drawing", "pict":
		if !w.imageWarned {
			w.warnings = append(w.warnings, "embedded images are not converted")
			w.imageWarned = true
		}
	}
}

func (w *docxWalker) endElement(t xml.EndElement) {
	switch t.Name.Local {
	case "pPr":
		w.inParaProps = false
	case "rPr":
		w.inRunProps = false
	case "r":
		w.inRun = false
	case "t":
		w.inText = false
	case "p":
		w.flushParagraph()
	}
}

func (w *docxWalker) writeRunText(text string) {
	escaped := html.EscapeString(text)
	switch {
	case w.runBold && w.runItalic:
		w.para.WriteString("<strong><em>" + escaped + "</em></strong>")
	case w.runBold:
		w.para.WriteString("<strong>" + escaped + "</strong>")
	case w.runItalic:
		w.para.WriteString("<em>" + escaped + "</em>")
	default:
		w.para.WriteString(escaped)
	}
}

func (w *docxWalker) flushParagraph() {
	text := w.para.String()
	w.para.Reset()

	switch {
	case w.headingLevel > 0:
		w.closeList()
		fmt.Fprintf(&w.out, "<h%d>%s</h%d>", w.headingLevel, text, w.headingLevel)
	case w.isListItem:
		if !w.listOpen {
			w.out.WriteString("<ul>")
			w.listOpen = true
		}
		w.out.WriteString("<li>" + text + "</li>")
	default:
		w.closeList()
		// Empty paragraphs are emitted here and dropped by normalizeHTML.
		w.out.WriteString("<p>" + text + "</p>")
	}
}

func (w *docxWalker) closeList() {
	if w.listOpen {
		w.out.WriteString("</ul>")
		w.listOpen = false
	}
}

func headingLevelFromStyle(style string) int {
	style = strings.ToLower(style)
	if style == "title" {
		return 1
	}
	if rest, ok := strings.CutPrefix(style, "heading"); ok {
		if level, err := strconv.Atoi(rest); err == nil && level >= 1 && level <= 6 {
			return level
		}
	}
	return 0
}

// toggleEnabled reports whether an on/off property element like w:b is on.
// Absence of w:val means enabled.
func toggleEnabled(t xml.StartElement) bool {
	val := attrValue(t, "val")
	return val != "false" && val != "0" && val != "none"
}

func attrValue(t xml.StartElement, local string) string {
	for _, attr := range t.Attr {
		if attr.Name.Local == local {
			return attr.Value
		}
	}
	return ""
}
