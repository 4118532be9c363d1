package export

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
)

const (
	utf8FontFamily = "body"
	coreFontFamily = "Arial"
	pageWidth      = 190.0
)

// PDFExporter renders documents into tabular A4 pages.
type PDFExporter struct {
	fontPath string
}

// NewPDFExporter constructs a PDF exporter. When fontPath names a UTF-8
// TrueType font it is embedded so non-Latin text renders; otherwise the
// core Arial font is used.
func NewPDFExporter(fontPath string) *PDFExporter {
	return &PDFExporter{fontPath: fontPath}
}

// Render creates a PDF document with a title and one table per section.
func (e *PDFExporter) Render(doc Document) ([]byte, error) {
	if err := doc.validate(); err != nil {
		return nil, err
	}
	// gofpdf resolves font files relative to its font directory.
	fontDir := ""
	if e.fontPath != "" {
		fontDir = filepath.Dir(e.fontPath)
	}
	pdf := gofpdf.New("P", "mm", "A4", fontDir)
	pdf.SetMargins(10, 15, 10)

	family := coreFontFamily
	if e.fontPath != "" {
		pdf.AddUTF8Font(utf8FontFamily, "", filepath.Base(e.fontPath))
		if err := pdf.Error(); err != nil {
			return nil, fmt.Errorf("load pdf font: %w", err)
		}
		family = utf8FontFamily
	}
	pdf.AddPage()

	if doc.Title != "" {
		pdf.SetFont(family, "", 14)
		pdf.CellFormat(0, 10, doc.Title, "", 1, "C", false, 0, "")
		pdf.Ln(4)
	}

	for i, section := range doc.Sections {
		if i > 0 {
			pdf.Ln(6)
		}
		if section.Title != "" {
			pdf.SetFont(family, "", 11)
			pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")
		}
		colWidth := pageWidth / float64(len(section.Headers))

		pdf.SetFont(family, "", 10)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range section.Headers {
			pdf.CellFormat(colWidth, 8, header, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(family, "", 9)
		for _, row := range section.Rows {
			for c := range section.Headers {
				align := "R"
				if c == 0 {
					align = "L"
				}
				pdf.CellFormat(colWidth, 7, cell(row, c), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
