package exporter

import (
	"github.com/Kunde21/markdownfmt/v3"
	"github.com/Kunde21/markdownfmt/v3/markdown"
	"go.uber.org/zap"
)

// exportMarkdown 规范文本本身就是 Markdown；reformat 时交给 markdownfmt，失败则原样导出
func (e *Exporter) exportMarkdown(canonical string, reformat bool) (*Output, error) {
	out := &Output{Data: []byte(canonical), Extension: "md", MIMEType: MIMEMarkdown}
	if !reformat {
		return out, nil
	}

	opts := []markdown.Option{
		markdown.WithCodeFormatters(markdown.GoCodeFormatter),
	}

	formatted, err := markdownfmt.Process("", []byte(canonical), opts...)
	if err != nil {
		e.logger.Warn("格式化 Markdown 失败，按原文导出", zap.Error(err))
		return out, nil
	}

	out.Data = formatted
	return out, nil
}
