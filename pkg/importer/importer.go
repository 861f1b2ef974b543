// Package importer 将外部文档转换为规范 Markdown 文本
package importer

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nerdneilsfield/notes-pipeline/pkg/document"
)

// ErrInvalidUTF8 文本不是合法的 UTF-8
var ErrInvalidUTF8 = errors.New("invalid UTF-8 text")

// Result 导入结果
type Result struct {
	// Text 规范文本
	Text string
	// Extension 识别出的扩展名（小写，不带点）
	Extension string
	Format    document.Format
	// Title 从 front matter、<title> 或首个一级标题中识别出的标题
	Title string
	// Meta Markdown front matter
	Meta map[string]interface{}
}

// Importer 文档导入器
type Importer struct {
	logger *zap.Logger
}

// Option 导入器选项
type Option func(*Importer)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(im *Importer) {
		if logger != nil {
			im.logger = logger
		}
	}
}

// New 创建导入器
func New(opts ...Option) *Importer {
	im := &Importer{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// ImportFile 从磁盘读取文件并导入，扩展名取自路径
func (im *Importer) ImportFile(ctx context.Context, path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &document.FileIOError{Path: path, Cause: err}
	}

	result, err := im.Import(ctx, data, filepath.Ext(path))
	if err != nil {
		var ioErr *document.FileIOError
		if errors.As(err, &ioErr) && ioErr.Path == "" {
			ioErr.Path = path
		}
		return nil, err
	}
	return result, nil
}

// Import 按扩展名导入文档字节
func (im *Importer) Import(ctx context.Context, data []byte, ext string) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := document.NormalizeExtension(ext)
	format := document.FormatFromExtension(normalized)

	im.logger.Debug("importing document",
		zap.String("extension", normalized),
		zap.String("format", string(format)),
		zap.Int("size", len(data)))

	var (
		result *Result
		err    error
	)

	switch format {
	case document.FormatMarkdown:
		result, err = importMarkdown(data)
	case document.FormatText:
		result, err = importText(data)
	case document.FormatHTML:
		result, err = importHTML(data)
	case document.FormatDOCX:
		result, err = importDocx(data)
	case document.FormatXLSX:
		result, err = importXLSX(data)
	case document.FormatCSV:
		result, err = importCSV(data)
	case document.FormatPDF:
		result, err = im.importPDF(ctx, data)
	case document.FormatJSON:
		result, err = importJSON(data)
	default:
		return nil, &document.UnsupportedFormatError{Extension: normalized}
	}

	if err != nil {
		im.logger.Warn("import failed",
			zap.String("extension", normalized),
			zap.Error(err))
		return nil, err
	}

	result.Extension = normalized
	result.Format = format
	return result, nil
}

// ImportTables 导入电子表格或 CSV 的表格数据
func (im *Importer) ImportTables(ctx context.Context, data []byte, ext string) ([]document.TableData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	normalized := document.NormalizeExtension(ext)
	switch document.FormatFromExtension(normalized) {
	case document.FormatXLSX:
		return readXLSX(data)
	case document.FormatCSV:
		table, err := readCSV(data)
		if err != nil {
			return nil, err
		}
		return []document.TableData{*table}, nil
	default:
		return nil, &document.UnsupportedFormatError{Extension: normalized}
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decodeText 去掉 BOM，带 UTF-16 BOM 的文本先转码；其余内容必须是合法的 UTF-8
func decodeText(data []byte) (string, error) {
	if bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF}) {
		decoder := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		decoded, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return "", &document.FileIOError{Cause: err}
		}
		return string(decoded), nil
	}

	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", &document.FileIOError{Cause: ErrInvalidUTF8}
	}
	return string(data), nil
}

func importText(data []byte) (*Result, error) {
	text, err := decodeText(data)
	if err != nil {
		return nil, err
	}
	return &Result{Text: text}, nil
}
