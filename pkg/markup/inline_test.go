package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInlineToHTML(t *testing.T) {
	f := NewInlineFormatter()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world 123", "hello world 123"},
		{"bold", "a **b** c", "a <strong>b</strong> c"},
		{"italic", "*x*", "<em>x</em>"},
		{"strike", "~~gone~~", "<del>gone</del>"},
		{"code protects markers", "`a*b*c`", "<code>a*b*c</code>"},
		{"code escapes html", "`<br>`", "<code>&lt;br&gt;</code>"},
		{"link", "[Go](https://go.dev)", `<a href="https://go.dev">Go</a>`},
		{"image", "![logo](a.png)", `<img src="a.png" alt="logo">`},
		{"unmatched bold", "**open", "**open"},
		{"unmatched italic", "2 * 3", "2 * 3"},
		{"unmatched code", "`x", "`x"},
		{"broken link", "[text](", "[text]("},
		{"escape text", "a < b & c", "a &lt; b &amp; c"},
		{"no nested emphasis", "**a *b* c**", "<strong>a *b* c</strong>"},
		{"code inside bold", "**`x`**", "<strong><code>x</code></strong>"},
		{"cjk", "你好 **世界**", "你好 <strong>世界</strong>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.ToHTML(tt.input))
		})
	}
}

func TestInlineToCanonical(t *testing.T) {
	f := NewInlineFormatter()

	assert.Equal(t, "a **b** c", f.ToCanonical("a <strong>b</strong> c"))
	assert.Equal(t, "*x* and ~~y~~", f.ToCanonical("<em>x</em> and <del>y</del>"))
	assert.Equal(t, "[Go](https://go.dev)", f.ToCanonical(`<a href="https://go.dev">Go</a>`))
	assert.Equal(t, "`a<b`", f.ToCanonical("<code>a&lt;b</code>"))
}

func TestInlineASCIIIdempotent(t *testing.T) {
	f := NewInlineFormatter()
	inputs := []string{"hello", "abc123", "Hello World 42", "x"}

	for _, input := range inputs {
		assert.Equal(t, input, f.ToCanonical(f.ToHTML(input)))
	}
}

func TestInlineRuns(t *testing.T) {
	f := NewInlineFormatter()

	spans := f.Runs("plain **bold** *it* `code` [link](http://x) ~~s~~")

	assert.Equal(t, []Span{
		{Text: "plain "},
		{Text: "bold", Bold: true},
		{Text: " "},
		{Text: "it", Italic: true},
		{Text: " "},
		{Text: "code", Code: true},
		{Text: " "},
		{Text: "link", Link: "http://x"},
		{Text: " ~~s~~"},
	}, spans)

	assert.Equal(t, []Span{{Text: "**open"}}, f.Runs("**open"))
	assert.Empty(t, f.Runs(""))
}
