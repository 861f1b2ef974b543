// Package document 定义导入、导出与 Markdown 转换共享的数据模型
package document

import (
	"path/filepath"
	"strings"
)

// Format 文档格式类型
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatText     Format = "text"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
	FormatXLSX     Format = "xlsx"
	FormatCSV      Format = "csv"
	FormatPDF      Format = "pdf"
	FormatJSON     Format = "json"
	FormatUnknown  Format = "unknown"
)

// extensionFormats 扩展名到格式的映射
var extensionFormats = map[string]Format{
	"md":       FormatMarkdown,
	"markdown": FormatMarkdown,
	"txt":      FormatText,
	"html":     FormatHTML,
	"htm":      FormatHTML,
	"docx":     FormatDOCX,
	"xlsx":     FormatXLSX,
	"csv":      FormatCSV,
	"pdf":      FormatPDF,
	"json":     FormatJSON,
}

// NormalizeExtension 去掉前导点并转为小写，接受 ".MD"、"md" 或 "notes.md"
func NormalizeExtension(ext string) string {
	ext = strings.TrimSpace(ext)
	if strings.Contains(ext, "/") || strings.Count(ext, ".") > 1 || (strings.Contains(ext, ".") && !strings.HasPrefix(ext, ".")) {
		ext = filepath.Ext(ext)
	}
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// FormatFromExtension 根据扩展名返回格式
func FormatFromExtension(ext string) Format {
	if f, ok := extensionFormats[NormalizeExtension(ext)]; ok {
		return f
	}
	return FormatUnknown
}

// SupportedExtensions 返回所有可导入的扩展名
func SupportedExtensions() []string {
	return []string{"md", "txt", "markdown", "html", "htm", "docx", "xlsx", "csv", "pdf", "json"}
}

// TableData 表格数据
//
// 生成 Markdown 时每行按 Headers 长度补齐或截断；解析时缺失的单元格补空字符串。
type TableData struct {
	Headers   []string   `json:"headers"`
	Rows      [][]string `json:"rows"`
	SheetName string     `json:"sheet_name,omitempty"`
}

// NormalizedRow 返回按表头长度补齐或截断后的第 i 行
func (t TableData) NormalizedRow(i int) []string {
	row := make([]string, len(t.Headers))
	if i < 0 || i >= len(t.Rows) {
		return row
	}
	copy(row, t.Rows[i])
	return row
}

// Width 返回列数
func (t TableData) Width() int {
	return len(t.Headers)
}
