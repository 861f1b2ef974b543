package markup

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// BlockKind 行的结构角色
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockBlank
	BlockHeading
	BlockQuote
	BlockBullet
	BlockOrdered
	BlockFence
	BlockIndentedCode
	BlockRule
	BlockTableRow
)

// String 返回块类型名称
func (k BlockKind) String() string {
	switch k {
	case BlockBlank:
		return "blank"
	case BlockHeading:
		return "heading"
	case BlockQuote:
		return "quote"
	case BlockBullet:
		return "bullet"
	case BlockOrdered:
		return "ordered"
	case BlockFence:
		return "fence"
	case BlockIndentedCode:
		return "indented_code"
	case BlockRule:
		return "rule"
	case BlockTableRow:
		return "table_row"
	default:
		return "paragraph"
	}
}

var (
	headingRegex = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	quoteRegex   = regexp.MustCompile(`^>(?:\s+(.*))?$`)
	bulletRegex  = regexp.MustCompile(`^[-*+]\s+(.*)$`)
	orderedRegex = regexp.MustCompile(`^(\d+)[.)]\s+(.*)$`)
	ruleRegex    = regexp.MustCompile(`^[-*_]{3,}$`)
)

// Classify 判断一行的块类型
//
// 缩进少于 4 个空格的行先去掉前导空白再匹配；围栏内部的行由调用方自行处理。
func Classify(line string) BlockKind {
	if strings.TrimSpace(line) == "" {
		return BlockBlank
	}
	if strings.HasPrefix(line, "    ") || strings.HasPrefix(line, "\t") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			return BlockFence
		}
		return BlockIndentedCode
	}

	trimmed := strings.TrimSpace(line)
	switch {
	case headingRegex.MatchString(trimmed):
		return BlockHeading
	case quoteRegex.MatchString(trimmed):
		return BlockQuote
	case bulletRegex.MatchString(trimmed):
		return BlockBullet
	case orderedRegex.MatchString(trimmed):
		return BlockOrdered
	case strings.HasPrefix(trimmed, "```"):
		return BlockFence
	case ruleRegex.MatchString(trimmed):
		return BlockRule
	case strings.Contains(trimmed, "|"):
		return BlockTableRow
	}
	return BlockParagraph
}

// HeadingLevel 返回标题级别与文本，非标题返回 0
func HeadingLevel(line string) (int, string) {
	m := headingRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return 0, ""
	}
	return len(m[1]), strings.TrimSpace(m[2])
}

// QuoteText 返回引用行的内容
func QuoteText(line string) string {
	m := quoteRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ""
	}
	return m[1]
}

// BulletText 返回无序列表项的内容
func BulletText(line string) string {
	m := bulletRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return ""
	}
	return m[1]
}

// OrderedItem 返回有序列表项的序号与内容
func OrderedItem(line string) (string, string) {
	m := orderedRegex.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", ""
	}
	return m[1], m[2]
}

// IndentedCodeText 去掉缩进代码行的一级缩进
func IndentedCodeText(line string) string {
	if strings.HasPrefix(line, "\t") {
		return line[1:]
	}
	return strings.TrimPrefix(line, "    ")
}

// LooksLikeHeading PDF 导入使用的标题启发式
//
// 少于 50 个字符、以 ASCII 大写字母开头且不以 . ! ? 结尾。这只是尽力而为的猜测，
// 并不是结构信息。
func LooksLikeHeading(line string) bool {
	n := utf8.RuneCountInString(line)
	if n == 0 || n >= 50 {
		return false
	}
	if line[0] < 'A' || line[0] > 'Z' {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(line)
	return last != '.' && last != '!' && last != '?'
}

// BlockConverter 块级转换器
type BlockConverter struct {
	inline *InlineFormatter
}

// NewBlockConverter 创建块级转换器
func NewBlockConverter() *BlockConverter {
	return &BlockConverter{inline: NewInlineFormatter()}
}

// blockWriter 保存转换过程中打开的块
type blockWriter struct {
	out      []string
	list     BlockKind
	items    []string
	quote    []string
	indented []string
}

func (w *blockWriter) emit(s string) {
	w.out = append(w.out, s)
}

func (w *blockWriter) closeList() {
	if len(w.items) == 0 {
		return
	}
	tag := "ul"
	if w.list == BlockOrdered {
		tag = "ol"
	}
	w.emit("<" + tag + ">\n" + strings.Join(w.items, "\n") + "\n</" + tag + ">")
	w.items = nil
	w.list = BlockParagraph
}

func (w *blockWriter) closeQuote() {
	if len(w.quote) == 0 {
		return
	}
	w.emit("<blockquote>\n" + strings.Join(w.quote, "\n") + "\n</blockquote>")
	w.quote = nil
}

func (w *blockWriter) closeIndented() {
	if len(w.indented) == 0 {
		return
	}
	w.emit("<pre><code>" + escapeHTML(strings.Join(w.indented, "\n")) + "</code></pre>")
	w.indented = nil
}

// ToHTML 将规范文本逐行转换为 HTML
func (c *BlockConverter) ToHTML(canonical string) string {
	lines := splitLines(canonical)
	w := &blockWriter{}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		kind := Classify(line)

		if kind != BlockBullet && kind != BlockOrdered {
			w.closeList()
		}
		if kind != BlockQuote {
			w.closeQuote()
		}
		if kind != BlockIndentedCode {
			w.closeIndented()
		}

		switch kind {
		case BlockBlank:
		case BlockHeading:
			level, text := HeadingLevel(line)
			w.emit(fmt.Sprintf("<h%d>%s</h%d>", level, c.inline.ToHTML(text), level))
		case BlockQuote:
			w.quote = append(w.quote, "<p>"+c.inline.ToHTML(QuoteText(line))+"</p>")
		case BlockBullet, BlockOrdered:
			if w.list != kind {
				w.closeList()
				w.list = kind
			}
			text := BulletText(line)
			if kind == BlockOrdered {
				_, text = OrderedItem(line)
			}
			w.items = append(w.items, "<li>"+c.inline.ToHTML(text)+"</li>")
		case BlockFence:
			i = c.fence(w, lines, i)
		case BlockIndentedCode:
			w.indented = append(w.indented, IndentedCodeText(line))
		case BlockRule:
			w.emit("<hr>")
		case BlockTableRow:
			i = c.table(w, lines, i)
		default:
			w.emit("<p>" + c.inline.ToHTML(strings.TrimSpace(line)) + "</p>")
		}
	}

	w.closeList()
	w.closeQuote()
	w.closeIndented()

	return strings.Join(w.out, "\n")
}

// fence 输出围栏代码块，返回最后消耗的行号；未闭合的围栏延续到文本末尾
func (c *BlockConverter) fence(w *blockWriter, lines []string, start int) int {
	lang := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(lines[start]), "```"))
	code := make([]string, 0)

	i := start + 1
	for ; i < len(lines); i++ {
		if strings.HasPrefix(strings.TrimSpace(lines[i]), "```") {
			break
		}
		code = append(code, lines[i])
	}

	open := "<pre><code>"
	if lang != "" {
		open = `<pre><code class="language-` + escapeHTML(lang) + `">`
	}
	w.emit(open + escapeHTML(strings.Join(code, "\n")) + "</code></pre>")

	if i >= len(lines) {
		return len(lines) - 1
	}
	return i
}

// table 输出表格，返回最后消耗的行号
func (c *BlockConverter) table(w *blockWriter, lines []string, start int) int {
	headers := ParseRow(lines[start])

	var b strings.Builder
	b.WriteString("<table>\n<thead>\n<tr>")
	for _, cell := range headers {
		b.WriteString("<th>" + c.inline.ToHTML(cell) + "</th>")
	}
	b.WriteString("</tr>\n</thead>\n<tbody>\n")

	i := start + 1
	if i < len(lines) && IsSeparatorRow(lines[i]) {
		i++
	}
	for ; i < len(lines) && Classify(lines[i]) == BlockTableRow; i++ {
		b.WriteString("<tr>")
		for _, cell := range padRow(ParseRow(lines[i]), len(headers)) {
			b.WriteString("<td>" + c.inline.ToHTML(cell) + "</td>")
		}
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody>\n</table>")

	w.emit(b.String())
	return i - 1
}
