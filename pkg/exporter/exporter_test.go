package exporter

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/importer"
)

const sample = `# Heading

Some **bold** text with ` + "`code`" + ` and [a link](https://example.com)

- a
- b

1. one
2. two

> quoted

| name | score |
| --- | --- |
| 张三 | 90 |
`

func TestGenerateCSV(t *testing.T) {
	t.Run("pads short rows", func(t *testing.T) {
		table := document.TableData{Headers: []string{"A", "B"}, Rows: [][]string{{"1"}}}
		assert.Equal(t, "\"A\",\"B\"\n\"1\",\"\"\n", GenerateCSV(table))
	})

	t.Run("doubles quotes", func(t *testing.T) {
		table := document.TableData{Headers: []string{"q"}, Rows: [][]string{{`say "hi", ok`}}}
		assert.Equal(t, "\"q\"\n\"say \"\"hi\"\", ok\"\n", GenerateCSV(table))
	})

	t.Run("truncates long rows", func(t *testing.T) {
		table := document.TableData{Headers: []string{"A"}, Rows: [][]string{{"1", "2"}}}
		assert.Equal(t, "\"A\"\n\"1\"\n", GenerateCSV(table))
	})
}

func TestColumnWidths(t *testing.T) {
	table := document.TableData{
		Headers: []string{"id", "名称", "desc"},
		Rows:    [][]string{{"1", "苹果", strings.Repeat("x", 120)}},
	}
	assert.Equal(t, []int{4, 6, 50}, ColumnWidths(table))
}

func TestSheetNames(t *testing.T) {
	names := sheetNames([]document.TableData{
		{SheetName: "Data"},
		{SheetName: ""},
		{SheetName: "data"},
		{SheetName: "a/b:c"},
		{SheetName: strings.Repeat("长", 40)},
	})
	assert.Equal(t, "Data", names[0])
	assert.Equal(t, "Sheet2", names[1])
	assert.Equal(t, "Sheet3", names[2])
	assert.Equal(t, "a_b_c", names[3])
	assert.Len(t, []rune(names[4]), maxSheetNameLength)
}

func TestGenerateXLSX(t *testing.T) {
	data, err := GenerateXLSX(
		document.TableData{Headers: []string{"name", "score"}, Rows: [][]string{{"a", "1"}, {"b"}}, SheetName: "Scores"},
		document.TableData{Headers: []string{"x"}, Rows: [][]string{{"y"}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Scores", "Sheet2"}, f.GetSheetList())

	rows, err := f.GetRows("Scores")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"name", "score"}, rows[0])
	assert.Equal(t, []string{"a", "1"}, rows[1])
	assert.Equal(t, "b", rows[2][0])

	styleID, err := f.GetCellStyle("Scores", "A1")
	require.NoError(t, err)
	assert.NotZero(t, styleID)
}

func TestExportHTML(t *testing.T) {
	e := New()
	out, err := e.Export(context.Background(), document.FormatHTML, sample, Options{Title: "A <b> Title"})
	require.NoError(t, err)

	html := string(out.Data)
	assert.Equal(t, "html", out.Extension)
	assert.Equal(t, MIMEHTML, out.MIMEType)
	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<meta charset="UTF-8">`)
	assert.Contains(t, html, "<title>A &lt;b&gt; Title</title>")
	assert.Contains(t, html, "<h1>Heading</h1>")
	assert.Contains(t, html, "<strong>bold</strong>")
	assert.Contains(t, html, "<th>name</th>")
}

func TestExportPrintable(t *testing.T) {
	e := New()
	out, err := e.Export(context.Background(), document.FormatPDF, sample, Options{})
	require.NoError(t, err)

	assert.Equal(t, "html", out.Extension)
	assert.Contains(t, string(out.Data), "@page")
	assert.Contains(t, string(out.Data), "<title>"+DefaultTitle+"</title>")
}

func TestExportMarkdown(t *testing.T) {
	e := New()

	out, err := e.Export(context.Background(), document.FormatMarkdown, sample, Options{})
	require.NoError(t, err)
	assert.Equal(t, sample, string(out.Data))
	assert.Equal(t, "md", out.Extension)

	out, err = e.Export(context.Background(), document.FormatMarkdown, "#   Title\n\n*  item\n", Options{Reformat: true})
	require.NoError(t, err)
	assert.Contains(t, string(out.Data), "# Title")
}

func TestExportDocx(t *testing.T) {
	e := New()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	out, err := e.Export(context.Background(), document.FormatDOCX, sample, Options{Title: "Report", Now: now})
	require.NoError(t, err)
	assert.Equal(t, "docx", out.Extension)
	assert.Equal(t, MIMEDOCX, out.MIMEType)

	zr, err := zip.NewReader(bytes.NewReader(out.Data), int64(len(out.Data)))
	require.NoError(t, err)

	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		parts[f.Name] = string(content)
	}

	doc := parts["word/document.xml"]
	require.NotEmpty(t, doc)
	assert.Contains(t, doc, `w:val="Title"`)
	assert.Contains(t, doc, `w:val="Heading1"`)
	assert.Contains(t, doc, dividerText)
	assert.Contains(t, doc, `w:val="CCCCCC"`)
	assert.Contains(t, doc, `w:ascii="Courier New"`)
	assert.Contains(t, doc, `w:val="0563C1"`)
	assert.Contains(t, parts["word/_rels/document.xml.rels"], "https://example.com")
	assert.Contains(t, parts["docProps/core.xml"], "2024-05-01T08:00:00Z")

	res, err := importer.New().Import(context.Background(), out.Data, "docx")
	require.NoError(t, err)
	assert.Contains(t, res.Text, "# Report")
	assert.Contains(t, res.Text, "# Heading")
	assert.Contains(t, res.Text, "**bold**")
	assert.Contains(t, res.Text, "[a link](https://example.com)")
	assert.Contains(t, res.Text, "- a\n- b")
	assert.Contains(t, res.Text, "1. one\n2. two")
}

func TestExportSpreadsheet(t *testing.T) {
	e := New()

	out, err := e.Export(context.Background(), document.FormatCSV, sample, Options{})
	require.NoError(t, err)
	assert.Equal(t, "\"name\",\"score\"\n\"张三\",\"90\"\n", string(out.Data))

	out, err = e.Export(context.Background(), document.FormatXLSX, sample, Options{SheetName: "成绩"})
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(out.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"成绩"}, f.GetSheetList())
}

func TestExportNoTable(t *testing.T) {
	e := New()
	_, err := e.Export(context.Background(), document.FormatXLSX, "just text", Options{})
	require.Error(t, err)
	assert.True(t, document.IsParseError(err))
	assert.ErrorIs(t, err, document.ErrNoTable)
}

func TestExportUnsupported(t *testing.T) {
	e := New()
	_, err := e.Export(context.Background(), document.Format("rtf"), "x", Options{})
	assert.True(t, document.IsUnsupported(err))
}

func TestExportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Export(ctx, document.FormatText, "x", Options{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNotesTable(t *testing.T) {
	updated := time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local)
	table := NotesTable([]Note{{Title: "n1", Content: "<p>hello <b>world</b></p>", UpdatedAt: updated}})

	assert.Equal(t, []string{"标题", "内容", "更新时间"}, table.Headers)
	assert.Equal(t, [][]string{{"n1", "hello world", "2024/1/2 03:04:05"}}, table.Rows)
}

func TestSuggestedFilename(t *testing.T) {
	out := &Output{Extension: "docx"}
	assert.Equal(t, "a_b.docx", SuggestedFilename("a/b", out))
	assert.Equal(t, "export.docx", SuggestedFilename("  ", out))
	assert.Equal(t, "report", SuggestedFilename("report", nil))
}
