// Package factory 根据依赖构建包含全部内置引擎的注册表
package factory

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/ai"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/baidu"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/deepl"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/google"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/retry"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/stats"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/youdao"
)

// Deps 引擎共享的依赖
type Deps struct {
	// HTTPClient 为空时创建带超时的默认客户端
	HTTPClient *http.Client
	Timeout    time.Duration
	Retry      retry.RetryConfig

	AIFunc      providers.AITranslateFunc
	BaiduBridge baidu.Bridge

	// Stats 非空时所有引擎的请求都会被统计
	Stats  *stats.Manager
	Logger *zap.Logger
}

// DefaultDeps 返回默认依赖
func DefaultDeps() Deps {
	return Deps{
		Timeout: 30 * time.Second,
		Retry:   retry.DefaultRetryConfig(),
	}
}

// NewRegistry 注册 baidu、youdao、google、deepl、ai 五个引擎
func NewRegistry(deps Deps) *providers.Registry {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	httpClient := deps.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: deps.Timeout}
	}
	client := retry.NewNetworkRetrier(deps.Retry, deps.Logger).WrapHTTPClient(httpClient)

	base := func(cfg providers.EngineConfig) providers.BaseConfig {
		b := providers.DefaultConfig()
		b.APIKey = cfg.APIKey
		b.APIEndpoint = cfg.BaseURL
		if deps.Timeout > 0 {
			b.Timeout = deps.Timeout
		}
		return b
	}

	registry := providers.NewRegistry()

	registry.Set(providers.EngineBaidu, func(cfg providers.EngineConfig) (providers.Engine, error) {
		p, err := baidu.New(baidu.Config{
			BaseConfig: base(cfg),
			AppID:      cfg.AppID,
			SecretKey:  cfg.SecretKey,
			Client:     client,
			Bridge:     deps.BaiduBridge,
		})
		if err != nil {
			return nil, err
		}
		return stats.Wrap(p, deps.Stats), nil
	})

	registry.Set(providers.EngineYoudao, func(cfg providers.EngineConfig) (providers.Engine, error) {
		p, err := youdao.New(youdao.Config{
			BaseConfig: base(cfg),
			AppKey:     cfg.AppID,
			SecretKey:  cfg.SecretKey,
			Client:     client,
		})
		if err != nil {
			return nil, err
		}
		return stats.Wrap(p, deps.Stats), nil
	})

	registry.Set(providers.EngineGoogle, func(cfg providers.EngineConfig) (providers.Engine, error) {
		return stats.Wrap(google.New(google.Config{BaseConfig: base(cfg), Client: client}), deps.Stats), nil
	})

	registry.Set(providers.EngineDeepL, func(cfg providers.EngineConfig) (providers.Engine, error) {
		p, err := deepl.New(deepl.Config{BaseConfig: base(cfg), Client: client})
		if err != nil {
			return nil, err
		}
		return stats.Wrap(p, deps.Stats), nil
	})

	SetAIFunc(registry, deps.AIFunc, deps.Stats)

	return registry
}

// SetAIFunc 替换注册表中的 AI 引擎回调
func SetAIFunc(registry *providers.Registry, fn providers.AITranslateFunc, manager *stats.Manager) {
	ctor := ai.Constructor(fn)
	registry.Set(providers.EngineAI, func(cfg providers.EngineConfig) (providers.Engine, error) {
		engine, err := ctor(cfg)
		if err != nil {
			return nil, err
		}
		return stats.Wrap(engine, manager), nil
	})
}
