package translation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedLanguages(t *testing.T) {
	require.Len(t, SupportedLanguages, 30)
	assert.Equal(t, "auto", SupportedLanguages[0].Code)

	seen := make(map[string]bool)
	for _, lang := range SupportedLanguages {
		assert.False(t, seen[lang.Code], "duplicate %s", lang.Code)
		seen[lang.Code] = true
		assert.NotEmpty(t, lang.Name)
		assert.NotEmpty(t, lang.NameCN)
	}
}

func TestLookupLanguage(t *testing.T) {
	lang, ok := LookupLanguage("ZH-cn")
	require.True(t, ok)
	assert.Equal(t, "简体中文", lang.NameCN)

	_, ok = LookupLanguage("xx")
	assert.False(t, ok)
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"zh-CN", "zh-CN", true},
		{"zh", "zh-CN", true},
		{"zh_CN", "zh-CN", true},
		{"zh-Hans", "zh-CN", true},
		{"zh-Hant", "zh-TW", true},
		{"zh-HK", "zh-TW", true},
		{"en-US", "en", true},
		{"EN", "en", true},
		{"pt-BR", "pt", true},
		{"nb", "no", true},
		{"auto", "auto", true},
		{"", "", false},
		{"klingon!", "", false},
		{"sw", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeCode(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSearchLanguages(t *testing.T) {
	all := SearchLanguages("")
	assert.Len(t, all, len(SupportedLanguages))

	results := SearchLanguages("japanese")
	require.NotEmpty(t, results)
	assert.Equal(t, "ja", results[0].Code)

	results = SearchLanguages("韩语")
	require.NotEmpty(t, results)
	assert.Equal(t, "ko", results[0].Code)

	results = SearchLanguages("chin")
	codes := make([]string, 0, len(results))
	for _, r := range results {
		codes = append(codes, r.Code)
	}
	assert.Contains(t, codes, "zh-CN")
	assert.Contains(t, codes, "zh-TW")

	assert.Empty(t, SearchLanguages("qqqqqq"))
}
