package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtector(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		protected string
	}{
		{
			name:      "inline code",
			text:      "Run `make test` now",
			protected: "Run @@PRESERVE_0@@ now",
		},
		{
			name:      "link and url",
			text:      "See [docs](https://example.com) or https://go.dev/doc",
			protected: "See @@PRESERVE_0@@ or @@PRESERVE_1@@",
		},
		{
			name:      "image",
			text:      "![chart](img/a.png) above",
			protected: "@@PRESERVE_0@@ above",
		},
		{
			name:      "email and citation",
			text:      "Mail dev@example.org about [1-3]",
			protected: "Mail @@PRESERVE_0@@ about @@PRESERVE_1@@",
		},
		{
			name:      "plain text untouched",
			text:      "Nothing to protect here",
			protected: "Nothing to protect here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProtector()
			protected := p.Protect(tt.text)
			assert.Equal(t, tt.protected, protected)
			assert.Equal(t, tt.text, p.Restore(protected))
		})
	}
}

func TestProtectorNested(t *testing.T) {
	p := NewProtector()
	text := "[`cfg`](https://example.com/cfg)"

	protected := p.Protect(text)
	assert.Equal(t, "@@PRESERVE_1@@", protected)
	assert.Equal(t, 2, p.Count())
	assert.Equal(t, text, p.Restore(protected))
}

func TestProtectorTolerantRestore(t *testing.T) {
	p := NewProtector()
	protected := p.Protect("运行 `go test` 即可")
	assert.Equal(t, "运行 @@PRESERVE_0@@ 即可", protected)

	// 引擎改动了占位符的大小写与空格
	translated := strings.Replace(protected, "@@PRESERVE_0@@", "@@ preserve_0 @@", 1)
	assert.Equal(t, "运行 `go test` 即可", p.Restore(translated))

	// 未知编号保留
	assert.Equal(t, "x @@PRESERVE_9@@", p.Restore("x @@PRESERVE_9@@"))
}

func TestProtectorSharedAcrossSegments(t *testing.T) {
	p := NewProtector()
	first := p.Protect("a `one`")
	second := p.Protect("b `two`")

	assert.Equal(t, "a @@PRESERVE_0@@", first)
	assert.Equal(t, "b @@PRESERVE_1@@", second)
	assert.Equal(t, "B `two`", p.Restore("B @@PRESERVE_1@@"))
}

func TestOnlyPlaceholders(t *testing.T) {
	assert.True(t, OnlyPlaceholders("@@PRESERVE_0@@"))
	assert.True(t, OnlyPlaceholders(" @@PRESERVE_0@@, @@PRESERVE_1@@ "))
	assert.False(t, OnlyPlaceholders("see @@PRESERVE_0@@"))
	assert.False(t, OnlyPlaceholders("你好"))
	assert.True(t, OnlyPlaceholders(""))
}
