package markup

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// TablePlaceholder HTML 表格的占位文本，表格语义不从 HTML 重建
const TablePlaceholder = "[表格]"

var (
	whitespaceRegex = regexp.MustCompile(`[ \t\r\n\f]+`)
	blankLinesRegex = regexp.MustCompile(`\n{3,}`)
)

// HTMLToCanonical 将 HTML 转换为规范文本
//
// 基于 x/net/html 解析器，对任何输入都不会失败。
func HTMLToCanonical(source string) string {
	doc, err := html.Parse(strings.NewReader(source))
	if err != nil {
		return strings.TrimSpace(source)
	}
	return NodeToCanonical(doc)
}

// NodeToCanonical 将已解析的节点转换为规范文本，找到 body 时只转换 body
func NodeToCanonical(n *html.Node) string {
	c := &htmlConverter{}
	if body := findElement(n, atom.Body); body != nil {
		n = body
	}
	return cleanupCanonical(c.children(n))
}

type htmlConverter struct {
	inPre bool
}

func (c *htmlConverter) children(n *html.Node) string {
	var builder strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		builder.WriteString(c.node(child))
	}
	return builder.String()
}

func (c *htmlConverter) node(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		if c.inPre {
			return n.Data
		}
		return whitespaceRegex.ReplaceAllString(n.Data, " ")
	case html.ElementNode:
		return c.element(n)
	case html.CommentNode, html.DoctypeNode:
		return ""
	default:
		return c.children(n)
	}
}

func (c *htmlConverter) element(n *html.Node) string {
	switch n.DataAtom {
	// 标题
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		return "\n\n" + strings.Repeat("#", level) + " " + collapseLine(c.children(n)) + "\n\n"

	// 段落
	case atom.P, atom.Div, atom.Section, atom.Article, atom.Header, atom.Footer, atom.Main:
		return "\n\n" + strings.TrimSpace(c.children(n)) + "\n\n"

	// 强调
	case atom.Strong, atom.B:
		return wrapInline("**", c.children(n))
	case atom.Em, atom.I:
		return wrapInline("*", c.children(n))
	case atom.Del, atom.S, atom.Strike:
		return wrapInline("~~", c.children(n))
	case atom.Code:
		if c.inPre {
			return c.children(n)
		}
		return wrapInline("`", textContent(n))

	// 代码块
	case atom.Pre:
		lang := ""
		if code := findElement(n, atom.Code); code != nil {
			lang = classLanguage(getAttr(code, "class"))
		}
		c.inPre = true
		body := strings.Trim(c.children(n), "\n")
		c.inPre = false
		return "\n\n```" + lang + "\n" + body + "\n```\n\n"

	case atom.Br:
		return "\n"
	case atom.Hr:
		return "\n\n---\n\n"

	// 链接与图片
	case atom.A:
		href := getAttr(n, "href")
		text := collapseLine(c.children(n))
		if href == "" || text == "" {
			return text
		}
		return "[" + text + "](" + href + ")"
	case atom.Img:
		src := getAttr(n, "src")
		if src == "" {
			return ""
		}
		return "![" + getAttr(n, "alt") + "](" + src + ")"

	// 列表
	case atom.Ul:
		return "\n\n" + c.list(n, false) + "\n\n"
	case atom.Ol:
		return "\n\n" + c.list(n, true) + "\n\n"

	case atom.Blockquote:
		return "\n\n" + c.blockquote(n) + "\n\n"

	case atom.Table:
		return "\n\n" + TablePlaceholder + "\n\n"

	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Noscript, atom.Template:
		return ""
	}

	return c.children(n)
}

// list 处理列表，有序列表按出现顺序重新编号
func (c *htmlConverter) list(n *html.Node, ordered bool) string {
	items := make([]string, 0)
	counter := 1
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode || child.DataAtom != atom.Li {
			continue
		}

		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", counter)
			counter++
		}

		lines := nonEmptyLines(c.children(child))
		if len(lines) == 0 {
			items = append(items, strings.TrimSpace(marker))
			continue
		}
		items = append(items, marker+lines[0])
		items = append(items, lines[1:]...)
	}
	return strings.Join(items, "\n")
}

// blockquote 每一行加上 > 前缀
func (c *htmlConverter) blockquote(n *html.Node) string {
	inner := cleanupCanonical(c.children(n))
	lines := strings.Split(inner, "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + line
	}
	return strings.Join(lines, "\n")
}

// wrapInline 用分隔符包裹内容，前后空白移到分隔符外
func wrapInline(delim, content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return content
	}
	leading := content[:strings.Index(content, trimmed)]
	trailing := content[len(leading)+len(trimmed):]
	return leading + delim + trimmed + delim + trailing
}

func collapseLine(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

func nonEmptyLines(s string) []string {
	lines := make([]string, 0)
	for _, line := range strings.Split(s, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}
	return lines
}

// cleanupCanonical 清理多余的空白：围栏外的行去掉首尾空白，连续空行压缩为一行
func cleanupCanonical(s string) string {
	lines := strings.Split(s, "\n")
	inFence := false
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			lines[i] = strings.TrimSpace(line)
			continue
		}
		if !inFence {
			lines[i] = strings.TrimSpace(line)
		}
	}
	result := strings.Join(lines, "\n")
	result = blankLinesRegex.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

// findElement 深度优先查找第一个指定标签
func findElement(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findElement(child, a); found != nil {
			return found
		}
	}
	return nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// classLanguage 从 "language-go" 或 "lang-go" 中提取语言
func classLanguage(class string) string {
	for _, field := range strings.Fields(class) {
		if strings.HasPrefix(field, "language-") {
			return strings.TrimPrefix(field, "language-")
		}
		if strings.HasPrefix(field, "lang-") {
			return strings.TrimPrefix(field, "lang-")
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var builder strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			builder.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return builder.String()
}
