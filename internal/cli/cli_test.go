package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
	"github.com/nerdneilsfield/notes-pipeline/pkg/translation"
)

// execute 运行根命令并返回标准输出
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	cmd := NewRootCommand("1.2.3", "abc123", "2024-05-01")
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// newGoogleConfig 启动模拟的 Google 接口并写入指向它的配置文件
func newGoogleConfig(t *testing.T) string {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")
		body, err := json.Marshal([]interface{}{
			[]interface{}{[]interface{}{"T:" + q, q, nil, nil}},
			nil,
			"en",
		})
		assert.NoError(t, err)
		_, _ = w.Write(body)
	}))
	t.Cleanup(server.Close)

	return writeFile(t, t.TempDir(), "notepipe.yaml", "engine: google\n"+
		"engines:\n  google:\n    base_url: "+server.URL+"\n"+
		"max_retries: 0\n")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "notepipe 1.2.3 (commit abc123, built 2024-05-01)\n", out)
}

func TestLanguagesCommand(t *testing.T) {
	out, err := execute(t, "languages", "japanese")
	require.NoError(t, err)
	assert.Contains(t, out, "ja")
	assert.Contains(t, out, "日语")

	out, err = execute(t, "languages")
	require.NoError(t, err)
	assert.Contains(t, out, "zh-TW")
	assert.Contains(t, out, "Romanian")

	_, err = execute(t, "languages", "qqqqqq")
	assert.Error(t, err)
}

func TestImportCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "page.html",
		"<html><head><title>Page</title></head><body><h1>Hello</h1><p>Some <b>bold</b> text</p></body></html>")

	out, err := execute(t, "import", input)
	require.NoError(t, err)
	assert.Contains(t, out, "# Hello")
	assert.Contains(t, out, "Some **bold** text")

	target := filepath.Join(dir, "page.md")
	_, err = execute(t, "import", input, "-o", target)
	require.NoError(t, err)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# Hello")

	out, err = execute(t, "import", input, "--info")
	require.NoError(t, err)
	assert.Contains(t, out, "Page")
	assert.Contains(t, out, "html")
}

func TestImportCommandErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := execute(t, "import", filepath.Join(dir, "missing.md"))
	assert.Error(t, err)

	_, err = execute(t, "import", writeFile(t, dir, "slides.pptx", "x"))
	assert.Error(t, err)
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	input := writeFile(t, dir, "notes.md", "# Notes\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n")

	htmlPath := filepath.Join(dir, "notes.html")
	out, err := execute(t, "export", input, "--format", "html", "-o", htmlPath)
	require.NoError(t, err)
	assert.Equal(t, htmlPath+"\n", out)
	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<h1>Notes</h1>")

	csvPath := filepath.Join(dir, "notes.csv")
	_, err = execute(t, "export", input, "--format", "csv", "-o", csvPath)
	require.NoError(t, err)
	data, err = os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "\"a\",\"b\"\n\"1\",\"2\"\n", string(data))

	_, err = execute(t, "export", input, "--format", "pptx", "-o", filepath.Join(dir, "x"))
	assert.Error(t, err)
}

func TestTranslateCommand(t *testing.T) {
	cfg := newGoogleConfig(t)

	out, err := execute(t, "translate", "--config", cfg, "--quiet", "--to", "zh", "Hello", "world")
	require.NoError(t, err)
	assert.Equal(t, "T:Hello world\n", out)

	out, err = execute(t, "translate", "--config", cfg, "--quiet", "--json", "Hello")
	require.NoError(t, err)
	var result translation.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "T:Hello", result.Text)
	assert.Equal(t, "zh-CN", result.TargetLang)
	assert.Equal(t, providers.EngineGoogle, result.Engine)
}

func TestTranslateCommandStats(t *testing.T) {
	cfg := newGoogleConfig(t)

	out, err := execute(t, "translate", "--config", cfg, "--quiet", "--stats", "Hello")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "T:Hello\n"))
	assert.Contains(t, out, "google")
	assert.Contains(t, out, "100.0%")
}

func TestTranslateCommandDocument(t *testing.T) {
	cfg := newGoogleConfig(t)
	dir := t.TempDir()
	input := writeFile(t, dir, "doc.md",
		"# Title\n\nSome text\n\n- item\n- Run `make` now\n- [docs](https://example.com)\n\n```\ncode\n```\n\n| a | b |\n")

	out, err := execute(t, "translate", "--config", cfg, "--quiet", "--file", input)
	require.NoError(t, err)
	assert.Equal(t, "# T:Title\n\nT:Some text\n\n- T:item\n- T:Run `make` now\n- [docs](https://example.com)\n\n"+
		"```\ncode\n```\n\n| a | b |\n", out)
}

func TestTranslateCommandErrors(t *testing.T) {
	cfg := newGoogleConfig(t)

	_, err := execute(t, "translate", "--config", cfg, "--quiet")
	assert.Error(t, err)

	_, err = execute(t, "translate", "--config", cfg, "--quiet", "--to", "klingon!", "Hello")
	assert.ErrorContains(t, err, "不支持的语言")

	_, err = execute(t, "translate", "--config", cfg, "--quiet", "--to", "auto", "Hello")
	assert.Error(t, err)

	_, err = execute(t, "translate", "--config", cfg, "--quiet", "--engine", "deepl", "Hello")
	require.Error(t, err)
	assert.True(t, providers.IsConfigurationError(err))

	_, err = execute(t, "translate", "--config", cfg, "--quiet", "--engine", "bing", "Hello")
	require.Error(t, err)
	assert.True(t, providers.IsConfigurationError(err))
}

func TestDetectCommand(t *testing.T) {
	cfg := newGoogleConfig(t)

	out, err := execute(t, "detect", "--config", cfg, "你好世界")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "zh-CN\t"))
	assert.Contains(t, out, "简体中文")

	// 探测结果不参与返回值
	out, err = execute(t, "detect", "--config", cfg, "bonjour")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "en\t"))

	_, err = execute(t, "detect", "--config", cfg)
	assert.Error(t, err)
}

func TestEnginesCommand(t *testing.T) {
	cfg := newGoogleConfig(t)

	out, err := execute(t, "engines", "--config", cfg)
	require.NoError(t, err)
	for _, name := range []string{"ai", "baidu", "deepl", "google", "youdao"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "可用")
	assert.Contains(t, out, "未配置")
}

func TestSegments(t *testing.T) {
	doc := "## Heading\n> quoted\n1. first\n    indented code\n---\nplain  \n"
	segments := splitSegments(doc)

	texts := segmentTexts(segments)
	assert.Equal(t, []string{"Heading", "quoted", "first", "plain"}, texts)

	translated := make([]string, len(texts))
	for i, text := range texts {
		translated[i] = strings.ToUpper(text)
	}
	assert.Equal(t, "## HEADING\n> QUOTED\n1. FIRST\n    indented code\n---\nPLAIN  \n",
		joinSegments(segments, translated))

	assert.Equal(t, doc, joinSegments(segments, texts))
}

func TestTablesCommand(t *testing.T) {
	dir := t.TempDir()
	jan := writeFile(t, dir, "jan.csv", "name,score\nann,1\n")
	feb := writeFile(t, dir, "feb.csv", "name,score\nbob,2\n")
	report := writeFile(t, dir, "report.md", "# Report\n\n| name | score |\n| --- | --- |\n| cat |\n\n| other |\n| --- |\n| x |\n")

	out, err := execute(t, "tables", jan, feb, report, "--merge")
	require.NoError(t, err)
	assert.Equal(t, "\"name\",\"score\"\n\"ann\",\"1\"\n\"bob\",\"2\"\n\"cat\",\"\"\n", out)

	out, err = execute(t, "tables", report, "-f", "markdown")
	require.NoError(t, err)
	assert.Equal(t, "| name | score |\n| --- | --- |\n| cat |  |\n\n| other |\n| --- |\n| x |\n", out)

	target := filepath.Join(dir, "all.xlsx")
	out, err = execute(t, "tables", jan, feb, "-f", "xlsx", "-o", target)
	require.NoError(t, err)
	assert.Empty(t, out)
	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))

	_, err = execute(t, "tables", writeFile(t, dir, "plain.md", "no tables here\n"))
	assert.Error(t, err)
}

func TestNotesCommand(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.md", "---\ntitle: Weekly\n---\nDone <b>items</b>\n")
	second := writeFile(t, dir, "second.txt", "plain body\n")

	out, err := execute(t, "notes", first, second, "-f", "csv")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, `"标题","内容","更新时间"`, lines[0])
	assert.Contains(t, out, `"Weekly"`)
	assert.Contains(t, out, "Done items")
	assert.Contains(t, out, `"second","plain body`)

	// xlsx 默认写入文件
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	out, err = execute(t, "notes", first)
	require.NoError(t, err)
	assert.Equal(t, "notes.xlsx\n", out)
	_, err = os.Stat(filepath.Join(dir, "notes.xlsx"))
	assert.NoError(t, err)
}

// TestBridgeHelperProcess 被测试当作外部转发命令启动
func TestBridgeHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_BRIDGE_HELPER") != "1" {
		return
	}

	var req bridgeRequest
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if req.Query == "fail" {
		fmt.Fprintln(os.Stderr, "relay unavailable")
		os.Exit(1)
	}
	fmt.Fprintf(os.Stdout, "bridged:%s:%s:%s:%s\n", req.Query, req.From, req.To, req.AppID)
	os.Exit(0)
}

func TestTranslateCommandBaiduBridge(t *testing.T) {
	t.Setenv("GO_WANT_BRIDGE_HELPER", "1")

	cfg := writeFile(t, t.TempDir(), "notepipe.yaml", "engine: baidu\n"+
		"engines:\n  baidu:\n    app_id: app\n    secret_key: secret\n"+
		"    bridge_command: '"+os.Args[0]+" -test.run=^TestBridgeHelperProcess$'\n"+
		"max_retries: 0\n")

	out, err := execute(t, "translate", "--config", cfg, "--quiet", "--from", "en", "--to", "fr", "Hello")
	require.NoError(t, err)
	assert.Equal(t, "bridged:Hello:en:fra:app\n", out)

	_, err = execute(t, "translate", "--config", cfg, "--quiet", "--from", "en", "--to", "fr", "fail")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bridge translation failed")
}
