// Package ai 把翻译委托给调用方注入的 LLM 回调
package ai

import (
	"context"
	"strings"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// Provider AI 翻译引擎
type Provider struct {
	translate providers.AITranslateFunc
}

var _ providers.Engine = (*Provider)(nil)

// New 创建 AI 引擎；未注入回调时返回配置错误
func New(fn providers.AITranslateFunc) (*Provider, error) {
	if fn == nil {
		return nil, providers.NewConfigurationError(providers.EngineAI, "AI translation function not configured")
	}
	return &Provider{translate: fn}, nil
}

// Constructor 返回注册表使用的构造函数
func Constructor(fn providers.AITranslateFunc) providers.Constructor {
	return func(providers.EngineConfig) (providers.Engine, error) {
		p, err := New(fn)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
}

// Name 引擎标识
func (p *Provider) Name() providers.EngineName {
	return providers.EngineAI
}

// Translate 执行翻译
func (p *Provider) Translate(ctx context.Context, req *providers.Request) (*providers.Response, error) {
	text, err := p.translate(ctx, req.Text, req.SourceLang, req.TargetLang)
	if err != nil {
		return nil, providers.NewProviderError(providers.EngineAI, "AI translation failed", err)
	}
	return &providers.Response{Text: strings.TrimSpace(text)}, nil
}
