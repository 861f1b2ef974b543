package importer

import (
	"fmt"
	"html"
	"strings"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/wordml"
)

// DocxToHTML 将 Word 容器转换为 HTML
//
// 识别标题样式、列表段落、粗体、斜体、删除线、超链接、表格与换行。
// 容器损坏时返回 ParseError。
func DocxToHTML(data []byte) (string, error) {
	pkg, err := wordml.Open(data)
	if err != nil {
		return "", document.NewParseError(document.FormatDOCX, "corrupt container", err)
	}

	w := &docxHTMLWriter{pkg: pkg}
	w.builder.WriteString("<html><body>\n")
	for _, block := range pkg.Document.Body.Blocks {
		switch {
		case block.Paragraph != nil:
			w.paragraph(block.Paragraph)
		case block.Table != nil:
			w.closeList()
			w.table(block.Table)
		}
	}
	w.closeList()
	w.builder.WriteString("</body></html>\n")

	return w.builder.String(), nil
}

type docxHTMLWriter struct {
	pkg     *wordml.Package
	builder strings.Builder
	listTag string
}

func (w *docxHTMLWriter) closeList() {
	if w.listTag == "" {
		return
	}
	w.builder.WriteString("</" + w.listTag + ">\n")
	w.listTag = ""
}

func (w *docxHTMLWriter) paragraph(p *wordml.Paragraph) {
	content := w.inlines(p.Content)

	var styleID string
	var numPr *wordml.NumberingProp
	if p.Properties != nil {
		if p.Properties.Style != nil {
			styleID = p.Properties.Style.Val
		}
		numPr = p.Properties.NumPr
	}

	if numPr != nil && numPr.NumID != nil && numPr.NumID.Val != "0" {
		level := ""
		if numPr.Level != nil {
			level = numPr.Level.Val
		}
		tag := "ul"
		if w.pkg.IsOrderedList(numPr.NumID.Val, level) {
			tag = "ol"
		}
		if w.listTag != tag {
			w.closeList()
			w.builder.WriteString("<" + tag + ">\n")
			w.listTag = tag
		}
		w.builder.WriteString("<li>" + content + "</li>\n")
		return
	}

	w.closeList()

	if strings.TrimSpace(content) == "" {
		return
	}
	if level := w.pkg.HeadingLevel(styleID); level > 0 {
		fmt.Fprintf(&w.builder, "<h%d>%s</h%d>\n", level, content, level)
		return
	}
	w.builder.WriteString("<p>" + content + "</p>\n")
}

func (w *docxHTMLWriter) inlines(items []wordml.Inline) string {
	var builder strings.Builder
	for _, item := range items {
		switch {
		case item.Run != nil:
			builder.WriteString(runHTML(item.Run))
		case item.Hyperlink != nil:
			var label strings.Builder
			for i := range item.Hyperlink.Runs {
				label.WriteString(runHTML(&item.Hyperlink.Runs[i]))
			}
			target := w.pkg.LinkTarget(item.Hyperlink.ID)
			if target == "" && item.Hyperlink.Anchor != "" {
				target = "#" + item.Hyperlink.Anchor
			}
			if target == "" {
				builder.WriteString(label.String())
				continue
			}
			builder.WriteString(`<a href="` + html.EscapeString(target) + `">` + label.String() + "</a>")
		}
	}
	return builder.String()
}

func runHTML(r *wordml.Run) string {
	text := html.EscapeString(r.PlainText())
	for range r.Breaks {
		text += "<br>"
	}
	if strings.TrimSpace(r.PlainText()) == "" || r.Properties == nil {
		return text
	}

	props := r.Properties
	if wordml.IsOn(props.Strike) || wordml.IsOn(props.DStrike) {
		text = "<s>" + text + "</s>"
	}
	if wordml.IsOn(props.Italic) {
		text = "<em>" + text + "</em>"
	}
	if wordml.IsOn(props.Bold) {
		text = "<strong>" + text + "</strong>"
	}
	return text
}

func (w *docxHTMLWriter) table(t *wordml.Table) {
	w.builder.WriteString("<table>\n")
	for _, row := range t.Rows {
		w.builder.WriteString("<tr>")
		for _, cell := range row.Cells {
			parts := make([]string, 0, len(cell.Paragraphs))
			for i := range cell.Paragraphs {
				parts = append(parts, w.inlines(cell.Paragraphs[i].Content))
			}
			w.builder.WriteString("<td>" + strings.Join(parts, "<br>") + "</td>")
		}
		w.builder.WriteString("</tr>\n")
	}
	w.builder.WriteString("</table>\n")
}
