package cli

import (
	"strings"

	"github.com/nerdneilsfield/notes-pipeline/pkg/markup"
)

// segment 文档中的一行；text 非空时参与翻译，其余部分原样保留
type segment struct {
	prefix string
	text   string
	suffix string
}

// splitSegments 按行拆分规范文本
//
// 标题、引用、列表项和段落只翻译正文，标记保留；代码、表格、分隔线和空行不翻译。
func splitSegments(canonical string) []segment {
	lines := strings.Split(strings.ReplaceAll(canonical, "\r\n", "\n"), "\n")
	segments := make([]segment, 0, len(lines))

	inFence := false
	for _, line := range lines {
		if inFence {
			if strings.HasPrefix(strings.TrimSpace(line), "```") {
				inFence = false
			}
			segments = append(segments, segment{prefix: line})
			continue
		}

		var text string
		switch markup.Classify(line) {
		case markup.BlockFence:
			inFence = true
		case markup.BlockHeading:
			_, text = markup.HeadingLevel(line)
		case markup.BlockQuote:
			text = markup.QuoteText(line)
		case markup.BlockBullet:
			text = markup.BulletText(line)
		case markup.BlockOrdered:
			_, text = markup.OrderedItem(line)
		case markup.BlockParagraph:
			text = strings.TrimSpace(line)
		}

		idx := strings.LastIndex(line, text)
		if strings.TrimSpace(text) == "" || idx < 0 {
			segments = append(segments, segment{prefix: line})
			continue
		}
		segments = append(segments, segment{
			prefix: line[:idx],
			text:   text,
			suffix: line[idx+len(text):],
		})
	}

	return segments
}

// segmentTexts 需要翻译的文本，顺序与 joinSegments 的 translations 对应
func segmentTexts(segments []segment) []string {
	var texts []string
	for _, s := range segments {
		if s.text != "" {
			texts = append(texts, s.text)
		}
	}
	return texts
}

// joinSegments 用译文替换正文后重新拼接
func joinSegments(segments []segment, translations []string) string {
	lines := make([]string, len(segments))
	next := 0
	for i, s := range segments {
		text := s.text
		if text != "" && next < len(translations) {
			text = translations[next]
			next++
		}
		lines[i] = s.prefix + text + s.suffix
	}
	return strings.Join(lines, "\n")
}
