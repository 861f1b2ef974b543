package providers

import (
	"fmt"
	"sort"
	"sync"
)

// Constructor 根据配置创建引擎；缺少凭据时返回 *ConfigurationError
type Constructor func(cfg EngineConfig) (Engine, error)

// Registry 引擎注册表，按引擎标识查找构造函数
type Registry struct {
	mu           sync.RWMutex
	constructors map[EngineName]Constructor
}

// NewRegistry 创建新的注册表
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[EngineName]Constructor),
	}
}

// Register 注册引擎
func (r *Registry) Register(name EngineName, ctor Constructor) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.constructors[name]; exists {
		return fmt.Errorf("engine %s already registered", name)
	}

	r.constructors[name] = ctor
	return nil
}

// Set 注册或替换引擎
func (r *Registry) Set(name EngineName, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.constructors[name] = ctor
}

// Has 是否已注册
func (r *Registry) Has(name EngineName) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.constructors[name]
	return ok
}

// New 按 cfg.Engine 创建引擎；未注册的引擎返回 *ConfigurationError
func (r *Registry) New(cfg EngineConfig) (Engine, error) {
	r.mu.RLock()
	ctor, exists := r.constructors[cfg.Engine]
	r.mu.RUnlock()

	if !exists {
		return nil, NewConfigurationError(cfg.Engine, fmt.Sprintf("unknown translation engine: %q", cfg.Engine))
	}

	return ctor(cfg)
}

// List 列出已注册的引擎，按名称排序
func (r *Registry) List() []EngineName {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]EngineName, 0, len(r.constructors))
	for name := range r.constructors {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}

// Remove 移除引擎
func (r *Registry) Remove(name EngineName) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.constructors, name)
}
