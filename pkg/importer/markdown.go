package importer

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
)

// importMarkdown Markdown 原样返回，只读取 front matter 与标题
func importMarkdown(data []byte) (*Result, error) {
	content, err := decodeText(data)
	if err != nil {
		return nil, err
	}

	result := &Result{Text: content}
	result.Meta = frontMatter(content)

	if title, ok := result.Meta["title"]; ok {
		result.Title = strings.TrimSpace(fmt.Sprint(title))
	}
	if result.Title == "" {
		result.Title = firstHeading(content)
	}

	return result, nil
}

// frontMatter 使用 goldmark-meta 解析 YAML front matter，格式错误时返回 nil
func frontMatter(content string) map[string]interface{} {
	if !strings.HasPrefix(content, "---") {
		return nil
	}

	md := goldmark.New(goldmark.WithExtensions(meta.Meta))
	ctx := parser.NewContext()
	md.Parser().Parse(text.NewReader([]byte(content)), parser.WithContext(ctx))

	values, err := meta.TryGet(ctx)
	if err != nil || len(values) == 0 {
		return nil
	}
	return values
}

// firstHeading 返回第一个一级标题的文本
func firstHeading(content string) string {
	inFence := false
	for _, line := range strings.Split(content, "\n") {
		kind := markup.Classify(line)
		if kind == markup.BlockFence {
			inFence = !inFence
			continue
		}
		if inFence || kind != markup.BlockHeading {
			continue
		}
		if level, title := markup.HeadingLevel(line); level == 1 {
			return title
		}
	}
	return ""
}
