package document

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// 占位符前后缀
const (
	PlaceholderPrefix = "@@PRESERVE_"
	PlaceholderSuffix = "@@"
)

// 翻译引擎可能在占位符内部插入空格或改变大小写，还原时放宽匹配
var placeholderRegex = regexp.MustCompile(`(?i)@@\s*PRESERVE_\s*(\d+)\s*@@`)

// protectedPatterns 按顺序应用；先处理行内代码，代码中的链接随代码整体保护
var protectedPatterns = []*regexp.Regexp{
	// 行内代码
	regexp.MustCompile("`[^`\n]+`"),
	// 图片与链接整体保留
	regexp.MustCompile(`!?\[[^\]\n]*\]\([^)\s]+\)`),
	// URL
	regexp.MustCompile(`(?i)(?:https?|ftp|file)://[^\s)]+`),
	regexp.MustCompile(`(?i)\bwww\.[^\s)]+`),
	// 邮箱地址
	regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	// HTML 实体
	regexp.MustCompile(`&(?:[a-zA-Z]+|#\d+);`),
	// 文献引用 [1]、[1-3]、[1,2]
	regexp.MustCompile(`\[[0-9]+(?:[-,][0-9]+)*\]`),
}

// Protector 翻译前用占位符替换不应翻译的片段，翻译后还原
//
// 同一个 Protector 可以处理整篇文档的多段文本，占位符编号全局递增。
// 不是并发安全的：先顺序调用 Protect，再对译文调用 Restore。
type Protector struct {
	replacements []string
}

// NewProtector 创建保护器
func NewProtector() *Protector {
	return &Protector{}
}

// Protect 替换文本中的代码、链接、URL 等片段
func (p *Protector) Protect(text string) string {
	for _, pattern := range protectedPatterns {
		text = pattern.ReplaceAllStringFunc(text, p.placeholder)
	}
	return text
}

func (p *Protector) placeholder(content string) string {
	p.replacements = append(p.replacements, content)
	return fmt.Sprintf("%s%d%s", PlaceholderPrefix, len(p.replacements)-1, PlaceholderSuffix)
}

// Restore 还原占位符；未知编号原样保留
//
// 占位符可能是在内容已被保护后生成的（例如链接中引用了更早的占位符），因此重复还原直到稳定。
func (p *Protector) Restore(text string) string {
	for i := 0; i <= len(p.replacements); i++ {
		restored := placeholderRegex.ReplaceAllStringFunc(text, func(m string) string {
			idx, err := strconv.Atoi(placeholderRegex.FindStringSubmatch(m)[1])
			if err != nil || idx >= len(p.replacements) {
				return m
			}
			return p.replacements[idx]
		})
		if restored == text {
			break
		}
		text = restored
	}
	return text
}

// Count 已保护的片段数
func (p *Protector) Count() int {
	return len(p.replacements)
}

// OnlyPlaceholders 文本除占位符外没有需要翻译的字母或数字
func OnlyPlaceholders(text string) bool {
	rest := placeholderRegex.ReplaceAllString(text, "")
	return strings.IndexFunc(rest, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) < 0
}
