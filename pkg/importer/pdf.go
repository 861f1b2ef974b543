package importer

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
)

// LineTolerance 纵坐标差超过该值时开始新的一行
const LineTolerance = 10.0

var (
	pdfBulletRegex  = regexp.MustCompile(`^[-•*]\s+`)
	pdfOrderedRegex = regexp.MustCompile(`^\d+[.)]\s`)
)

// TextRun PDF 页面中带坐标的文本片段
type TextRun struct {
	Text string
	X    float64
	Y    float64
}

// GroupLines 按纵坐标把文本片段分组成行
//
// 与上一个片段的 Y 相差超过 LineTolerance 时开始新行；同一行内的片段以空格连接。
func GroupLines(runs []TextRun) []string {
	lines := make([]string, 0)
	var current strings.Builder
	lastY := math.NaN()

	flush := func() {
		if line := strings.TrimSpace(current.String()); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	for _, run := range runs {
		if !math.IsNaN(lastY) && math.Abs(run.Y-lastY) > LineTolerance {
			flush()
		}
		current.WriteString(run.Text)
		current.WriteString(" ")
		lastY = run.Y
	}
	flush()

	return lines
}

// FormatPDFLines 将一页的行按启发式分类输出
//
// 短的大写开头行视为三级标题，这只是猜测；项目符号行改写为 "- "，有序项原样保留，其余为段落。
func FormatPDFLines(lines []string) string {
	var builder strings.Builder
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case markup.LooksLikeHeading(line):
			builder.WriteString("### " + line + "\n\n")
		case pdfBulletRegex.MatchString(line):
			builder.WriteString("- " + pdfBulletRegex.ReplaceAllString(line, "") + "\n")
		case pdfOrderedRegex.MatchString(line):
			builder.WriteString(line + "\n")
		default:
			builder.WriteString(line + "\n\n")
		}
	}
	return builder.String()
}

func (im *Importer) importPDF(ctx context.Context, data []byte) (result *Result, err error) {
	// pdf 库在遇到损坏的对象时会 panic
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = document.NewParseError(document.FormatPDF, "malformed document", fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, document.NewParseError(document.FormatPDF, "encrypted or corrupt document", err)
	}

	pageCount := reader.NumPage()

	var builder strings.Builder
	builder.WriteString("# PDF 文档内容\n\n")
	fmt.Fprintf(&builder, "> 共 %d 页\n\n", pageCount)

	for i := 1; i <= pageCount; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		fmt.Fprintf(&builder, "## 第 %d 页\n\n", i)

		page := reader.Page(i)
		if !page.V.IsNull() {
			runs := glyphsToRuns(page.Content().Text)
			builder.WriteString(FormatPDFLines(GroupLines(runs)))
		}

		builder.WriteString("\n---\n\n")
	}

	im.logger.Debug("pdf imported", zap.Int("pages", pageCount))

	return &Result{
		Text:  builder.String(),
		Title: strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text()),
	}, nil
}

// glyphsToRuns 合并同一基线上相邻的字形
//
// 字形间距超过字号的 0.2 倍时视为单词边界，开始新的片段。
func glyphsToRuns(glyphs []pdf.Text) []TextRun {
	runs := make([]TextRun, 0)
	var current *TextRun
	var endX float64

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}

		gap := g.X - endX
		sameLine := current != nil && math.Abs(g.Y-current.Y) < 0.5
		if sameLine && gap >= -0.5 && gap < g.FontSize*0.2 {
			current.Text += g.S
			endX = g.X + g.W
			continue
		}

		if current != nil {
			runs = append(runs, *current)
		}
		current = &TextRun{Text: g.S, X: g.X, Y: g.Y}
		endX = g.X + g.W
	}
	if current != nil {
		runs = append(runs, *current)
	}

	for i := range runs {
		runs[i].Text = strings.TrimSpace(runs[i].Text)
	}
	return runs
}
