package translation

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"golang.org/x/text/language"
)

// Language 支持的语言
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	NameCN string `json:"name_cn"`
}

// SupportedLanguages 支持的语言列表，第一项为自动检测
var SupportedLanguages = []Language{
	{Code: "auto", Name: "Auto Detect", NameCN: "自动检测"},
	{Code: "zh-CN", Name: "Chinese (Simplified)", NameCN: "简体中文"},
	{Code: "zh-TW", Name: "Chinese (Traditional)", NameCN: "繁体中文"},
	{Code: "en", Name: "English", NameCN: "英语"},
	{Code: "ja", Name: "Japanese", NameCN: "日语"},
	{Code: "ko", Name: "Korean", NameCN: "韩语"},
	{Code: "fr", Name: "French", NameCN: "法语"},
	{Code: "de", Name: "German", NameCN: "德语"},
	{Code: "es", Name: "Spanish", NameCN: "西班牙语"},
	{Code: "it", Name: "Italian", NameCN: "意大利语"},
	{Code: "ru", Name: "Russian", NameCN: "俄语"},
	{Code: "pt", Name: "Portuguese", NameCN: "葡萄牙语"},
	{Code: "nl", Name: "Dutch", NameCN: "荷兰语"},
	{Code: "pl", Name: "Polish", NameCN: "波兰语"},
	{Code: "tr", Name: "Turkish", NameCN: "土耳其语"},
	{Code: "ar", Name: "Arabic", NameCN: "阿拉伯语"},
	{Code: "hi", Name: "Hindi", NameCN: "印地语"},
	{Code: "th", Name: "Thai", NameCN: "泰语"},
	{Code: "vi", Name: "Vietnamese", NameCN: "越南语"},
	{Code: "id", Name: "Indonesian", NameCN: "印尼语"},
	{Code: "uk", Name: "Ukrainian", NameCN: "乌克兰语"},
	{Code: "cs", Name: "Czech", NameCN: "捷克语"},
	{Code: "sv", Name: "Swedish", NameCN: "瑞典语"},
	{Code: "da", Name: "Danish", NameCN: "丹麦语"},
	{Code: "fi", Name: "Finnish", NameCN: "芬兰语"},
	{Code: "no", Name: "Norwegian", NameCN: "挪威语"},
	{Code: "hu", Name: "Hungarian", NameCN: "匈牙利语"},
	{Code: "el", Name: "Greek", NameCN: "希腊语"},
	{Code: "he", Name: "Hebrew", NameCN: "希伯来语"},
	{Code: "ro", Name: "Romanian", NameCN: "罗马尼亚语"},
}

// LookupLanguage 按代码查找语言，大小写不敏感
func LookupLanguage(code string) (Language, bool) {
	for _, lang := range SupportedLanguages {
		if strings.EqualFold(lang.Code, code) {
			return lang, true
		}
	}
	return Language{}, false
}

// NormalizeCode 将 BCP 47 标签或常见写法转换为列表中的代码
//
// 例如 zh、zh-Hans、zh_CN 转为 zh-CN，zh-Hant、zh-HK 转为 zh-TW，en-US 转为 en，
// nb 转为 no。无法识别时返回 false。
func NormalizeCode(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	if lang, ok := LookupLanguage(code); ok {
		return lang.Code, true
	}

	tag, err := language.Parse(strings.ReplaceAll(code, "_", "-"))
	if err != nil {
		return "", false
	}

	base, _ := tag.Base()
	switch base.String() {
	case "zh":
		script, _ := tag.Script()
		region, _ := tag.Region()
		if script.String() == "Hant" || region.String() == "TW" || region.String() == "HK" || region.String() == "MO" {
			return "zh-TW", true
		}
		return "zh-CN", true
	case "nb", "nn":
		return "no", true
	case "iw":
		return "he", true
	case "in":
		return "id", true
	}

	if lang, ok := LookupLanguage(base.String()); ok {
		return lang.Code, true
	}
	return "", false
}

// SearchLanguages 按代码、英文名或中文名模糊搜索，结果按匹配距离排序
func SearchLanguages(query string) []Language {
	query = strings.TrimSpace(query)
	if query == "" {
		return append([]Language(nil), SupportedLanguages...)
	}

	type match struct {
		lang Language
		rank int
	}
	var matches []match
	for _, lang := range SupportedLanguages {
		best := -1
		for _, target := range []string{lang.Code, lang.Name, lang.NameCN} {
			if rank := fuzzy.RankMatchFold(query, target); rank >= 0 && (best < 0 || rank < best) {
				best = rank
			}
		}
		if best >= 0 {
			matches = append(matches, match{lang: lang, rank: best})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].rank < matches[j].rank })

	out := make([]Language, len(matches))
	for i, m := range matches {
		out[i] = m.lang
	}
	return out
}
