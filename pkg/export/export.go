// Package export renders article rows as downloadable CSV and PDF documents.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/umputun/newsboard/pkg/domain"
)

// Format is a supported export format
type Format string

// enum of export formats
const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// DefaultTitle is the title line of PDF reports
const DefaultTitle = "Articles Report"

// ParseFormat converts a string to Format
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatPDF:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// ContentType returns MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Filename returns the download file name for the format
func (f Format) Filename() string {
	return "articles." + string(f)
}

// Write renders rows in the given format
func Write(w io.Writer, f Format, title string, rows []domain.ExportRow) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatPDF:
		return WritePDF(w, title, rows)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteCSV writes header and rows as CSV. Fields with commas, quotes or line breaks are quoted.
func WriteCSV(w io.Writer, rows []domain.ExportRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(domain.ExportHeader[:]); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range rows {
		if err := cw.Write(row[:]); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
