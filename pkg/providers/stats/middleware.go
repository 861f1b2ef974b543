package stats

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// Middleware 记录统计信息的引擎包装
type Middleware struct {
	next    providers.Engine
	manager *Manager
}

var _ providers.Engine = (*Middleware)(nil)

// Wrap 包装引擎；manager 为空时原样返回
func Wrap(next providers.Engine, manager *Manager) providers.Engine {
	if manager == nil {
		return next
	}
	return &Middleware{next: next, manager: manager}
}

// Name 引擎标识
func (m *Middleware) Name() providers.EngineName {
	return m.next.Name()
}

// Translate 带统计的翻译方法
func (m *Middleware) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	start := time.Now()
	resp, err := m.next.Translate(ctx, req)

	result := RequestResult{
		Success:    err == nil,
		Latency:    time.Since(start),
		Characters: utf8.RuneCountInString(req.Text),
	}
	if err != nil {
		result.ErrorType = classifyError(err)
	}
	m.manager.RecordRequest(m.next.Name(), result)

	return resp, err
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
