package translation

import "errors"

// 预定义错误
var (
	// ErrEmptyText 空文本，不会发起请求
	ErrEmptyText = errors.New("empty text")
)
