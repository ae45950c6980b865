package export

import (
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin    = 14.0
	pdfRowHeight = 6.0
	pdfFont      = "Helvetica"
)

// WritePDF renders table as an A4 document with a title, a generated-on
// line and a grid table
func WritePDF(w io.Writer, table Table, generatedAt time.Time) error {
	l := layouts[table.Kind]

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(l.title, true)
	pdf.SetCreator("FocusOS", true)
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "", 18)
	pdf.Text(pdfMargin, 22, tr(l.title))
	pdf.SetFont(pdfFont, "", 11)
	pdf.Text(pdfMargin, 30, tr("Generated on: "+generatedAt.Format(displayLayout)))

	pdf.SetY(40)
	pdf.SetDrawColor(190, 190, 190)

	pdf.SetFont(pdfFont, "B", l.fontSize)
	pdf.SetFillColor(l.fill[0], l.fill[1], l.fill[2])
	pdf.SetTextColor(255, 255, 255)
	for i, h := range l.pdfHeaders {
		pdf.CellFormat(l.widths[i], pdfRowHeight, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont(pdfFont, "", l.fontSize)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range table.Rows {
		for i, c := range row.PDF() {
			pdf.CellFormat(l.widths[i], pdfRowHeight, tr(c), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return pdf.Output(w)
}
