// Package exporter 将规范文本与表格数据渲染为导出格式
package exporter

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
)

// MIME types
const (
	MIMEMarkdown = "text/markdown; charset=utf-8"
	MIMEHTML     = "text/html; charset=utf-8"
	MIMEDOCX     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMECSV      = "text/csv; charset=utf-8"
)

// DefaultTitle 未指定标题时使用
const DefaultTitle = "导出文档"

// Options 导出选项
type Options struct {
	// Title 文档标题，用于 HTML <title>、Word 标题段落与建议文件名
	Title string
	// Reformat 导出 Markdown 时使用 markdownfmt 重新格式化
	Reformat bool
	// SheetName 电子表格导出的工作表名
	SheetName string
	// Now Word 文档创建时间，零值取当前时间
	Now time.Time
}

// Output 导出结果
type Output struct {
	Data      []byte
	Extension string
	MIMEType  string
}

// Exporter 文档导出器
type Exporter struct {
	logger *zap.Logger
	blocks *markup.BlockConverter
	inline *markup.InlineFormatter
}

// Option 导出器选项
type Option func(*Exporter)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New 创建导出器
func New(opts ...Option) *Exporter {
	e := &Exporter{
		logger: zap.NewNop(),
		blocks: markup.NewBlockConverter(),
		inline: markup.NewInlineFormatter(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export 将规范文本导出为指定格式
//
// 电子表格格式会提取文本中的管道表格，没有表格时返回 ParseError。
func (e *Exporter) Export(ctx context.Context, format document.Format, canonical string, opts Options) (*Output, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	title := opts.Title
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	e.logger.Debug("exporting document",
		zap.String("format", string(format)),
		zap.Int("length", len(canonical)))

	switch format {
	case document.FormatMarkdown:
		return e.exportMarkdown(canonical, opts.Reformat)
	case document.FormatText:
		return &Output{Data: []byte(canonical), Extension: "txt", MIMEType: "text/plain; charset=utf-8"}, nil
	case document.FormatHTML:
		data, err := e.renderPage(documentTmpl, canonical, title)
		if err != nil {
			return nil, err
		}
		return &Output{Data: data, Extension: "html", MIMEType: MIMEHTML}, nil
	case document.FormatPDF:
		// 只生成可打印的 HTML，光栅化由宿主的打印管线完成
		data, err := e.renderPage(printTmpl, canonical, title)
		if err != nil {
			return nil, err
		}
		return &Output{Data: data, Extension: "html", MIMEType: MIMEHTML}, nil
	case document.FormatDOCX:
		now := opts.Now
		if now.IsZero() {
			now = time.Now()
		}
		data, err := e.exportDocx(canonical, title, now)
		if err != nil {
			return nil, err
		}
		return &Output{Data: data, Extension: "docx", MIMEType: MIMEDOCX}, nil
	case document.FormatXLSX, document.FormatCSV:
		tables := markup.ExtractTables(canonical)
		if len(tables) == 0 {
			return nil, document.NewParseError(format, "no table found in text", document.ErrNoTable)
		}
		if opts.SheetName != "" && len(tables) == 1 {
			tables[0].SheetName = opts.SheetName
		}
		return e.ExportTables(format, tables...)
	default:
		return nil, &document.UnsupportedFormatError{Extension: string(format)}
	}
}

// ExportTables 将表格导出为 xlsx 或 csv；CSV 只导出第一个表格
func (e *Exporter) ExportTables(format document.Format, tables ...document.TableData) (*Output, error) {
	if len(tables) == 0 {
		return nil, document.NewParseError(format, "no table to export", document.ErrNoTable)
	}

	switch format {
	case document.FormatCSV:
		return &Output{Data: []byte(GenerateCSV(tables[0])), Extension: "csv", MIMEType: MIMECSV}, nil
	case document.FormatXLSX:
		data, err := GenerateXLSX(tables...)
		if err != nil {
			return nil, err
		}
		return &Output{Data: data, Extension: "xlsx", MIMEType: MIMEXLSX}, nil
	case document.FormatMarkdown:
		var builder strings.Builder
		for i, table := range tables {
			if i > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(markup.GenerateTable(table))
		}
		return &Output{Data: []byte(builder.String()), Extension: "md", MIMEType: MIMEMarkdown}, nil
	default:
		return nil, &document.UnsupportedFormatError{Extension: string(format)}
	}
}

var unsafeFilenameRegex = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)

// SuggestedFilename 根据标题生成安全的文件名
func SuggestedFilename(title string, out *Output) string {
	name := strings.TrimSpace(unsafeFilenameRegex.ReplaceAllString(title, "_"))
	name = strings.Trim(name, ". ")
	if name == "" {
		name = "export"
	}
	if runes := []rune(name); len(runes) > 80 {
		name = string(runes[:80])
	}
	if out == nil || out.Extension == "" {
		return name
	}
	return name + "." + out.Extension
}
