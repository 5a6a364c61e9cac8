package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/newsboard/pkg/domain"
)

func TestWriteCSV(t *testing.T) {
	t.Run("header and rows", func(t *testing.T) {
		rows := []domain.ExportRow{
			{"Title 1", "Author 1", "Desc 1", "2024-01-01T00:00:00Z", "https://example.com/1"},
			{"", "", "", "", ""},
		}
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, rows))

		expected := "Title,Author,Description,Published At,URL\n" +
			"Title 1,Author 1,Desc 1,2024-01-01T00:00:00Z,https://example.com/1\n" +
			",,,,\n"
		assert.Equal(t, expected, buf.String())
	})

	t.Run("comma in description is quoted", func(t *testing.T) {
		rows := []domain.ExportRow{{"t", "A", "one, two", "2024-01-01", "https://e.com"}}
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, rows))

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, `t,A,"one, two",2024-01-01,https://e.com`, lines[1])
	})

	t.Run("quotes and newlines", func(t *testing.T) {
		rows := []domain.ExportRow{{`say "hi"`, "A", "line1\nline2", "", ""}}
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, rows))
		assert.Contains(t, buf.String(), `"say ""hi""",A,"line1`+"\n"+`line2",,`)
	})

	t.Run("no rows", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, nil))
		assert.Equal(t, "Title,Author,Description,Published At,URL\n", buf.String())
	})
}

func TestWritePDF(t *testing.T) {
	rows := []domain.ExportRow{
		{"Title 1", "Author 1", "Description with, comma", "2024-01-01T00:00:00Z", "https://example.com/1"},
		{"Café news", "", "", "", ""},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, "", rows))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWritePDF_NonASCII(t *testing.T) {
	tests := []struct{ name, title string }{
		{"latin accent", "Café news"},
		{"typographic punctuation", "It’s here — now"},
		{"outside cp1252", "東京"},
		{"long wrapped", strings.Repeat("naïve résumé ", 80)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := []domain.ExportRow{{tt.title, "Zoë", tt.title, "", "https://example.com/é"}}
			var buf bytes.Buffer
			require.NoError(t, WritePDF(&buf, "Rapport – été", rows))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestPDFTable_Wrap(t *testing.T) {
	pdf, err := renderPDF("", nil)
	require.NoError(t, err)
	tbl := &pdfTable{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}

	assert.Equal(t, []string{""}, tbl.wrap("", 30))
	assert.Equal(t, []string{tbl.tr("Café")}, tbl.wrap(tbl.tr("Café"), 30))

	lines := tbl.wrap(tbl.tr(strings.Repeat("déjà vu ", 200)), 30)
	require.Len(t, lines, pdfMaxCellLines)
	assert.True(t, strings.HasSuffix(lines[pdfMaxCellLines-1], "..."))
}

func TestRenderPDF_Pages(t *testing.T) {
	pdf, err := renderPDF("Articles Report", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, pdf.PageNo())

	long := strings.Repeat("lorem ipsum dolor sit amet ", 60)
	rows := make([]domain.ExportRow, 40)
	for i := range rows {
		rows[i] = domain.ExportRow{"title", "author", long, "2024-01-01", "https://example.com"}
	}
	pdf, err = renderPDF("Articles Report", rows)
	require.NoError(t, err)
	assert.Greater(t, pdf.PageNo(), 1)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	assert.Equal(t, "text/csv; charset=utf-8", f.ContentType())
	assert.Equal(t, "articles.csv", f.Filename())

	f, err = ParseFormat("pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", f.ContentType())
	assert.Equal(t, "articles.pdf", f.Filename())

	_, err = ParseFormat("xlsx")
	require.Error(t, err)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, "", []domain.ExportRow{{"a", "b", "c", "d", "e"}}))
	assert.Contains(t, buf.String(), "a,b,c,d,e")

	buf.Reset()
	require.NoError(t, Write(&buf, FormatPDF, "Report", nil))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	require.Error(t, Write(&buf, Format("doc"), "", nil))
}
