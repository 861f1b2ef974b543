// Package markup 在规范 Markdown 子集与 HTML 之间转换
package markup

import (
	"strings"
)

// Span Word 导出使用的行内片段
type Span struct {
	Text   string
	Bold   bool
	Italic bool
	Code   bool
	Link   string
}

// InlineFormatter 行内格式转换器
//
// 从左到右扫描，每个位置的识别顺序为：代码、粗体、斜体、删除线、链接、图片。
// 未闭合的分隔符按字面文本输出。粗体/斜体/删除线内部只识别代码、链接和图片，不支持嵌套强调。
type InlineFormatter struct{}

// NewInlineFormatter 创建行内格式转换器
func NewInlineFormatter() *InlineFormatter {
	return &InlineFormatter{}
}

// ToHTML 将规范行内标记转换为 HTML
func (f *InlineFormatter) ToHTML(text string) string {
	var builder strings.Builder
	f.render(&builder, text, true)
	return builder.String()
}

// ToCanonical 将 HTML 片段转换回规范行内标记
func (f *InlineFormatter) ToCanonical(fragment string) string {
	return HTMLToCanonical(fragment)
}

func (f *InlineFormatter) render(b *strings.Builder, s string, emphasis bool) {
	for i := 0; i < len(s); {
		if n := f.renderToken(b, s[i:], emphasis); n > 0 {
			i += n
			continue
		}
		writeEscapedByte(b, s[i])
		i++
	}
}

// renderToken 尝试在 s 开头识别一个行内元素，返回消耗的字节数；0 表示按字面处理
func (f *InlineFormatter) renderToken(b *strings.Builder, s string, emphasis bool) int {
	switch {
	case s[0] == '`':
		if code, n, ok := scanDelimited(s, "`"); ok {
			b.WriteString("<code>")
			b.WriteString(escapeHTML(code))
			b.WriteString("</code>")
			return n
		}
	case emphasis && strings.HasPrefix(s, "**"):
		if inner, n, ok := scanDelimited(s, "**"); ok {
			b.WriteString("<strong>")
			f.render(b, inner, false)
			b.WriteString("</strong>")
			return n
		}
	case emphasis && s[0] == '*':
		if inner, n, ok := scanDelimited(s, "*"); ok {
			b.WriteString("<em>")
			f.render(b, inner, false)
			b.WriteString("</em>")
			return n
		}
	case emphasis && strings.HasPrefix(s, "~~"):
		if inner, n, ok := scanDelimited(s, "~~"); ok {
			b.WriteString("<del>")
			f.render(b, inner, false)
			b.WriteString("</del>")
			return n
		}
	case s[0] == '[':
		if label, url, n, ok := scanLink(s, false); ok {
			b.WriteString(`<a href="` + escapeHTML(url) + `">`)
			f.render(b, label, false)
			b.WriteString("</a>")
			return n
		}
	case s[0] == '!' && len(s) > 1 && s[1] == '[':
		if alt, url, n, ok := scanLink(s[1:], true); ok {
			b.WriteString(`<img src="` + escapeHTML(url) + `" alt="` + escapeHTML(alt) + `">`)
			return n + 1
		}
	}
	return 0
}

// Runs 将一行拆分为 Word 片段，只识别粗体、斜体、代码和链接
func (f *InlineFormatter) Runs(line string) []Span {
	spans := make([]Span, 0)
	var plain strings.Builder

	flush := func() {
		if plain.Len() > 0 {
			spans = append(spans, Span{Text: plain.String()})
			plain.Reset()
		}
	}

	for i := 0; i < len(line); {
		s := line[i:]

		if s[0] == '`' {
			if code, n, ok := scanDelimited(s, "`"); ok {
				flush()
				spans = append(spans, Span{Text: code, Code: true})
				i += n
				continue
			}
		}
		if strings.HasPrefix(s, "**") {
			if inner, n, ok := scanDelimited(s, "**"); ok {
				flush()
				spans = append(spans, Span{Text: inner, Bold: true})
				i += n
				continue
			}
		} else if s[0] == '*' {
			if inner, n, ok := scanDelimited(s, "*"); ok {
				flush()
				spans = append(spans, Span{Text: inner, Italic: true})
				i += n
				continue
			}
		}
		if s[0] == '[' {
			if label, url, n, ok := scanLink(s, false); ok {
				flush()
				spans = append(spans, Span{Text: label, Link: url})
				i += n
				continue
			}
		}

		plain.WriteByte(line[i])
		i++
	}
	flush()

	return spans
}

// scanDelimited 匹配 delim...delim，内容非空，返回内容与消耗的字节数
func scanDelimited(s, delim string) (string, int, bool) {
	if !strings.HasPrefix(s, delim) {
		return "", 0, false
	}
	rest := s[len(delim):]
	end := strings.Index(rest, delim)
	if end <= 0 {
		return "", 0, false
	}
	return rest[:end], len(delim)*2 + end, true
}

// scanLink 匹配 [label](url)，s 以 '[' 开头
func scanLink(s string, allowEmptyLabel bool) (string, string, int, bool) {
	if len(s) == 0 || s[0] != '[' {
		return "", "", 0, false
	}
	closeLabel := strings.IndexByte(s, ']')
	if closeLabel < 0 || closeLabel+1 >= len(s) || s[closeLabel+1] != '(' {
		return "", "", 0, false
	}
	label := s[1:closeLabel]
	if label == "" && !allowEmptyLabel {
		return "", "", 0, false
	}
	rest := s[closeLabel+2:]
	closeURL := strings.IndexByte(rest, ')')
	if closeURL <= 0 {
		return "", "", 0, false
	}
	url := rest[:closeURL]
	if strings.ContainsAny(url, " \n") {
		return "", "", 0, false
	}
	return label, url, closeLabel + 2 + closeURL + 1, true
}

func writeEscapedByte(b *strings.Builder, c byte) {
	switch c {
	case '<':
		b.WriteString("&lt;")
	case '>':
		b.WriteString("&gt;")
	case '&':
		b.WriteString("&amp;")
	case '"':
		b.WriteString("&quot;")
	case '\'':
		b.WriteString("&#39;")
	default:
		b.WriteByte(c)
	}
}

func escapeHTML(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		writeEscapedByte(&b, s[i])
	}
	return b.String()
}
