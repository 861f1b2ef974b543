package exporter

import (
	"bytes"
	"fmt"
	"html/template"
)

const documentTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: "Microsoft YaHei", "PingFang SC", sans-serif; max-width: 800px; margin: 40px auto; padding: 20px; line-height: 1.8; color: #333; }
    h1 { color: #7c3aed; border-bottom: 2px solid #7c3aed; padding-bottom: 10px; }
    h2 { color: #1a1a2e; margin-top: 30px; }
    h3 { color: #4a5568; margin-top: 24px; }
    code { background: #f1f5f9; padding: 2px 8px; border-radius: 4px; font-family: Consolas, monospace; }
    pre { background: #1e293b; color: #e2e8f0; padding: 20px; border-radius: 8px; overflow-x: auto; }
    pre code { background: none; padding: 0; }
    blockquote { border-left: 4px solid #7c3aed; margin: 20px 0; padding: 10px 20px; background: #f8fafc; color: #64748b; }
    ul, ol { padding-left: 24px; }
    li { margin: 8px 0; }
    a { color: #7c3aed; }
    table { width: 100%; border-collapse: collapse; margin: 20px 0; }
    th, td { border: 1px solid #e2e8f0; padding: 12px; text-align: left; }
    th { background: #f8fafc; font-weight: 600; }
    hr { border: none; border-top: 1px solid #e2e8f0; margin: 30px 0; }
    img { max-width: 100%; height: auto; }
  </style>
</head>
<body>
{{.Body}}
</body>
</html>
`

const printTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    @page { size: A4; margin: 2cm; }
    body { font-family: "Microsoft YaHei", sans-serif; font-size: 12pt; line-height: 1.6; color: #333; max-width: 21cm; margin: 0 auto; }
    h1 { font-size: 24pt; color: #1a1a2e; border-bottom: 2px solid #7c3aed; }
    h2 { font-size: 18pt; margin-top: 24px; }
    h1, h2, h3 { page-break-after: avoid; }
    pre { background: #f7fafc; padding: 16px; border-radius: 8px; white-space: pre-wrap; page-break-inside: avoid; }
    code { background: #edf2f7; }
    blockquote { border-left: 4px solid #7c3aed; margin: 16px 0; padding-left: 16px; color: #666; }
    table { width: 100%; border-collapse: collapse; margin: 16px 0; page-break-inside: avoid; }
    th, td { border: 1px solid #e2e8f0; padding: 12px; }
    th { background: #f7fafc; }
    hr { border: none; border-top: 1px dashed #ccc; margin: 24px 0; }
    a { color: #7c3aed; }
  </style>
</head>
<body>
{{.Body}}
</body>
</html>
`

var (
	documentTmpl = template.Must(template.New("document").Parse(documentTemplate))
	printTmpl    = template.Must(template.New("print").Parse(printTemplate))
)

type pageData struct {
	Title string
	Body  template.HTML
}

// renderPage 将规范文本转换为 HTML 并套入模板，标题会被转义
func (e *Exporter) renderPage(tmpl *template.Template, canonical, title string) ([]byte, error) {
	data := pageData{
		Title: title,
		// 正文已由块转换器完成转义
		Body: template.HTML(e.blocks.ToHTML(canonical)),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s template: %w", tmpl.Name(), err)
	}
	return buf.Bytes(), nil
}
