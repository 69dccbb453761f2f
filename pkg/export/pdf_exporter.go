package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const unicodeFamily = "board"

// PDFExporter renders datasets as a printable handout, one block per row.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. fontPath points at a UTF-8 TrueType
// font; without it the core Arial font is used and characters outside cp1252
// cannot be printed.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Render creates a PDF document with an optional title. The first header of the
// dataset is printed as the block heading and the remaining headers as labelled
// paragraphs.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 15)

	family := "Arial"
	text := func(s string) string { return s }
	if e.fontPath != "" {
		pdf.AddUTF8Font(unicodeFamily, "", e.fontPath)
		pdf.AddUTF8Font(unicodeFamily, "B", e.fontPath)
		family = unicodeFamily
	} else {
		text = pdf.UnicodeTranslatorFromDescriptor("")
	}
	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("load pdf font: %w", err)
	}
	pdf.AddPage()

	if title != "" {
		pdf.SetFont(family, "B", 14)
		pdf.CellFormat(0, 10, text(title), "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	heading := data.Headers[0]
	for _, row := range data.Rows {
		pdf.SetFont(family, "B", 11)
		pdf.MultiCell(0, 6, text(row[heading]), "B", "L", false)
		pdf.Ln(1)
		for _, header := range data.Headers[1:] {
			value := row[header]
			if value == "" {
				continue
			}
			pdf.SetFont(family, "B", 8)
			pdf.CellFormat(0, 5, text(header), "", 1, "L", false, 0, "")
			pdf.SetFont(family, "", 10)
			pdf.MultiCell(0, 5, text(value), "", "L", false)
		}
		pdf.Ln(5)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
