package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/umputun/newsboard/pkg/domain"
)

const (
	pdfLineHeight   = 4.5
	pdfMaxCellLines = 10
	pdfFontSize     = 8
)

// column widths in mm for landscape A4 with 10mm margins
var pdfColumnWidths = [5]float64{60, 35, 92, 35, 55}

// WritePDF renders rows as a table under the title line
func WritePDF(w io.Writer, title string, rows []domain.ExportRow) error {
	pdf, err := renderPDF(title, rows)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

// renderPDF builds the document, header row repeats on every page
func renderPDF(title string, rows []domain.ExportRow) (*fpdf.Fpdf, error) {
	if title == "" {
		title = DefaultTitle
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 10)
	pdf.SetTitle(title, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("") // core fonts are cp1252

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	t := &pdfTable{pdf: pdf, tr: tr}
	t.header()
	for _, row := range rows {
		t.row(row)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

type pdfTable struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (t *pdfTable) header() {
	t.pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	t.pdf.SetFillColor(220, 220, 220)
	for i, h := range domain.ExportHeader {
		t.pdf.CellFormat(pdfColumnWidths[i], 7, t.tr(h), "1", 0, "L", true, 0, "")
	}
	t.pdf.Ln(-1)
	t.pdf.SetFont("Helvetica", "", pdfFontSize)
}

func (t *pdfTable) row(row domain.ExportRow) {
	var cells [5][]string
	lines := 1
	for i, val := range row {
		cells[i] = t.wrap(t.tr(val), pdfColumnWidths[i]-2)
		if len(cells[i]) > lines {
			lines = len(cells[i])
		}
	}
	height := float64(lines) * pdfLineHeight

	_, pageHeight := t.pdf.GetPageSize()
	_, _, _, bottom := t.pdf.GetMargins()
	if t.pdf.GetY()+height > pageHeight-bottom {
		t.pdf.AddPage()
		t.header()
	}

	x, y := t.pdf.GetXY()
	for i, cell := range cells {
		w := pdfColumnWidths[i]
		t.pdf.Rect(x, y, w, height, "D")
		t.pdf.SetXY(x, y)
		t.pdf.MultiCell(w, pdfLineHeight, strings.Join(cell, "\n"), "", "L", false)
		x += w
	}
	left, _, _, _ := t.pdf.GetMargins()
	t.pdf.SetXY(left, y+height)
}

// wrap splits cp1252 text to fit the column, long cells are cut at pdfMaxCellLines.
// SplitLines measures bytes, SplitText would decode them as utf-8.
func (t *pdfTable) wrap(text string, width float64) []string {
	if text == "" {
		return []string{""}
	}
	split := t.pdf.SplitLines([]byte(text), width)
	lines := make([]string, 0, len(split))
	for _, l := range split {
		lines = append(lines, string(l))
	}
	if len(lines) == 0 {
		return []string{""}
	}
	if len(lines) > pdfMaxCellLines {
		lines = lines[:pdfMaxCellLines]
		lines[pdfMaxCellLines-1] = strings.TrimRight(lines[pdfMaxCellLines-1], " ") + "..."
	}
	return lines
}
