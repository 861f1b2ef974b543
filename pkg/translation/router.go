package translation

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/factory"
	"github.com/nerdneilsfield/notes-pipeline/pkg/providers/stats"
)

// Router 翻译引擎路由器，并发安全
type Router struct {
	mu     sync.RWMutex
	config Config

	registry *providers.Registry
	cache    *Cache
	group    singleflight.Group
	detector *Detector
	stats    *stats.Manager
	logger   *zap.Logger

	detectorOpts []DetectorOption
}

// Option 路由器选项
type Option func(*Router)

// WithLogger 设置日志记录器
func WithLogger(logger *zap.Logger) Option {
	return func(r *Router) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithRegistry 使用自定义的引擎注册表
func WithRegistry(registry *providers.Registry) Option {
	return func(r *Router) {
		r.registry = registry
	}
}

// WithStats 统计引擎请求；只对默认注册表生效
func WithStats(manager *stats.Manager) Option {
	return func(r *Router) {
		r.stats = manager
	}
}

// WithDetectorOptions 设置语言检测器选项
func WithDetectorOptions(opts ...DetectorOption) Option {
	return func(r *Router) {
		r.detectorOpts = append(r.detectorOpts, opts...)
	}
}

// NewRouter 创建路由器；未指定注册表时使用 factory.NewRegistry 构建内置引擎
func NewRouter(config Config, opts ...Option) *Router {
	r := &Router{
		config: config,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.registry == nil {
		deps := factory.DefaultDeps()
		if config.RequestTimeout > 0 {
			deps.Timeout = config.RequestTimeout
		}
		deps.Stats = r.stats
		deps.Logger = r.logger
		r.registry = factory.NewRegistry(deps)
	}
	if r.config.Concurrency <= 0 {
		r.config.Concurrency = 1
	}
	r.cache = NewCache(config.CacheSize, config.CacheTTL)

	// 当前引擎就是 Google 时探测沿用同一个接口地址
	detectConfig := providers.EngineConfig{Engine: providers.EngineGoogle}
	if config.Engine.Engine == providers.EngineGoogle {
		detectConfig = config.Engine
	}
	var sampler providers.Engine
	if engine, err := r.registry.New(detectConfig); err == nil {
		sampler = engine
	}
	detectorOpts := append([]DetectorOption{WithDetectorLogger(r.logger)}, r.detectorOpts...)
	r.detector = NewDetector(sampler, detectorOpts...)

	return r
}

// UpdateConfig 合并引擎配置，只覆盖非空字段
func (r *Router) UpdateConfig(cfg providers.EngineConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.config.Engine = r.config.Engine.Merge(cfg)
}

// SetAITranslateFunc 设置 AI 引擎的翻译回调
func (r *Router) SetAITranslateFunc(fn providers.AITranslateFunc) {
	factory.SetAIFunc(r.registry, fn, r.stats)
}

// ClearCache 清空缓存
func (r *Router) ClearCache() {
	r.cache.Purge()
}

// CacheStats 返回缓存统计
func (r *Router) CacheStats() CacheStats {
	return r.cache.Stats()
}

// Engine 当前引擎
func (r *Router) Engine() providers.EngineName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.config.Engine.Engine
}

// Engines 已注册的引擎
func (r *Router) Engines() []providers.EngineName {
	return r.registry.List()
}

// DetectLanguage 检测文本语言
func (r *Router) DetectLanguage(ctx context.Context, text string) string {
	return r.detector.Detect(ctx, text)
}

// Translate 使用当前引擎翻译
func (r *Router) Translate(ctx context.Context, text, sourceLang, targetLang string) (*Result, error) {
	return r.TranslateRequest(ctx, Request{Text: text, SourceLang: sourceLang, TargetLang: targetLang})
}

// TranslateRequest 执行翻译
//
// 只有配置问题（未知引擎、缺少凭据、未设置 AI 回调）会返回 error；
// 网络与接口失败以 Success=false 的结果返回，失败结果不进入缓存。
//
// 空白文本最先检查：直接返回 Success=false，不校验引擎配置，因此即使引擎未知也不会返回 error。
//
// 相同请求合并为一次调用，该调用不随任何一个调用方取消，只受 RequestTimeout 约束；
// 调用方自己的 ctx 结束时立即返回 Success=false，其他等待者不受影响。
func (r *Router) TranslateRequest(ctx context.Context, req Request) (*Result, error) {
	r.mu.RLock()
	cfg := r.config.Engine
	timeout := r.config.RequestTimeout
	detectSource := r.config.DetectSource
	r.mu.RUnlock()

	if req.Engine != "" && req.Engine != cfg.Engine {
		// 沿用当前凭据，BaseURL 只属于原引擎
		cfg.Engine = req.Engine
		cfg.BaseURL = ""
	}

	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = providers.AutoLanguage
	}

	result := &Result{
		SourceLang: sourceLang,
		TargetLang: req.TargetLang,
		Engine:     cfg.Engine,
	}

	if strings.TrimSpace(req.Text) == "" {
		result.Error = ErrEmptyText.Error()
		return result, nil
	}

	engine, err := r.registry.New(cfg)
	if err != nil {
		return nil, err
	}

	if detectSource && sourceLang == providers.AutoLanguage {
		sourceLang = r.detector.Detect(ctx, req.Text)
		result.SourceLang = sourceLang
	}

	key := CacheKey(cfg.Engine, sourceLang, req.TargetLang, req.Text)
	if cached, ok := r.cache.Get(key); ok {
		cached.Cached = true
		return &cached, nil
	}

	flight := *result
	ch := r.group.DoChan(key, func() (interface{}, error) {
		return r.dispatch(context.WithoutCancel(ctx), engine, key, timeout, flight, req.Text), nil
	})

	select {
	case res := <-ch:
		out := res.Val.(Result)
		return &out, nil
	case <-ctx.Done():
		result.Error = ctx.Err().Error()
		return result, nil
	}
}

func (r *Router) dispatch(ctx context.Context, engine providers.Engine, key string, timeout time.Duration, result Result, text string) Result {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := engine.Translate(ctx, &providers.Request{
		Text:       text,
		SourceLang: result.SourceLang,
		TargetLang: result.TargetLang,
	})
	if err != nil {
		r.logger.Warn("translation failed",
			zap.String("engine", string(result.Engine)),
			zap.String("source", result.SourceLang),
			zap.String("target", result.TargetLang),
			zap.Error(err))
		result.Error = err.Error()
		return result
	}

	r.logger.Debug("translation finished",
		zap.String("engine", string(result.Engine)),
		zap.Int("length", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	result.Success = true
	result.Text = resp.Text
	result.DetectedSource = resp.DetectedSource
	r.cache.Add(key, result)
	return result
}

// TranslateBatch 并行翻译多段文本，结果顺序与输入一致
//
// 并发数受 Concurrency 限制；遇到配置错误时取消其余请求并返回该错误。
func (r *Router) TranslateBatch(ctx context.Context, texts []string, sourceLang, targetLang string) ([]*Result, error) {
	r.mu.RLock()
	limit := r.config.Concurrency
	r.mu.RUnlock()

	results := make([]*Result, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, text := range texts {
		i, text := i, text
		g.Go(func() error {
			res, err := r.Translate(gctx, text, sourceLang, targetLang)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
