package document

import (
	"errors"
	"fmt"
)

// 预定义错误
var (
	// ErrNoTable 文本中没有可识别的表格
	ErrNoTable = errors.New("no table found")

	// ErrEmptyInput 输入为空
	ErrEmptyInput = errors.New("empty input")
)

// UnsupportedFormatError 不支持的导入或导出格式
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("不支持的文件格式: .%s", e.Extension)
}

// ParseError 表格格式错误或二进制容器损坏
type ParseError struct {
	Format Format
	Reason string
	Cause  error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Format, e.Reason, e.Cause)
	}
	return fmt.Sprintf("parse %s: %s", e.Format, e.Reason)
}

// Unwrap 返回原因错误
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError 创建解析错误
func NewParseError(format Format, reason string, cause error) *ParseError {
	return &ParseError{Format: format, Reason: reason, Cause: cause}
}

// FileIOError 无法读取的字节或文件
type FileIOError struct {
	Path  string
	Cause error
}

func (e *FileIOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("文件读取失败 %s: %v", e.Path, e.Cause)
	}
	return fmt.Sprintf("文件读取失败: %v", e.Cause)
}

// Unwrap 返回原因错误
func (e *FileIOError) Unwrap() error {
	return e.Cause
}

// IsUnsupported 判断是否为不支持的格式错误
func IsUnsupported(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}

// IsParseError 判断是否为解析错误
func IsParseError(err error) bool {
	var target *ParseError
	return errors.As(err, &target)
}
