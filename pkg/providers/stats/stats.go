// Package stats 统计各翻译引擎的请求次数、失败原因与延迟
package stats

import (
	"errors"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// EngineStats 单个引擎的统计快照
type EngineStats struct {
	Engine             providers.EngineName `json:"engine"`
	TotalRequests      int64                `json:"total_requests"`
	SuccessfulRequests int64                `json:"successful_requests"`
	FailedRequests     int64                `json:"failed_requests"`
	TotalCharacters    int64                `json:"total_characters"`

	AverageLatency time.Duration `json:"average_latency"`
	MinLatency     time.Duration `json:"min_latency"`
	MaxLatency     time.Duration `json:"max_latency"`
	TotalLatency   time.Duration `json:"total_latency"`

	// ErrorTypes 按错误码或 HTTP 状态统计
	ErrorTypes map[string]int64 `json:"error_types"`

	FirstRequestTime time.Time `json:"first_request_time"`
	LastRequestTime  time.Time `json:"last_request_time"`
}

// SuccessRate 成功率，没有请求时为 0
func (s EngineStats) SuccessRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	return float64(s.SuccessfulRequests) / float64(s.TotalRequests)
}

// RequestResult 单次请求结果
type RequestResult struct {
	Success    bool
	Latency    time.Duration
	Characters int
	ErrorType  string
}

// Manager 统计管理器，并发安全
type Manager struct {
	mu    sync.Mutex
	stats map[providers.EngineName]*EngineStats
	now   func() time.Time
}

// NewManager 创建统计管理器
func NewManager() *Manager {
	return &Manager{
		stats: make(map[providers.EngineName]*EngineStats),
		now:   time.Now,
	}
}

// RecordRequest 记录请求结果
func (m *Manager) RecordRequest(engine providers.EngineName, result RequestResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stats[engine]
	if !ok {
		s = &EngineStats{Engine: engine, ErrorTypes: make(map[string]int64)}
		m.stats[engine] = s
	}

	now := m.now()
	if s.FirstRequestTime.IsZero() {
		s.FirstRequestTime = now
	}
	s.LastRequestTime = now

	s.TotalRequests++
	s.TotalCharacters += int64(result.Characters)
	if result.Success {
		s.SuccessfulRequests++
	} else {
		s.FailedRequests++
		if result.ErrorType != "" {
			s.ErrorTypes[result.ErrorType]++
		}
	}

	s.TotalLatency += result.Latency
	if s.MinLatency == 0 || result.Latency < s.MinLatency {
		s.MinLatency = result.Latency
	}
	if result.Latency > s.MaxLatency {
		s.MaxLatency = result.Latency
	}
	s.AverageLatency = s.TotalLatency / time.Duration(s.TotalRequests)
}

// Get 返回指定引擎的统计快照
func (m *Manager) Get(engine providers.EngineName) (EngineStats, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.stats[engine]
	if !ok {
		return EngineStats{}, false
	}
	return s.clone(), true
}

// Snapshot 返回所有引擎的统计快照，按引擎名排序
func (m *Manager) Snapshot() []EngineStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]EngineStats, 0, len(m.stats))
	for _, s := range m.stats {
		out = append(out, s.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Engine < out[j].Engine })
	return out
}

// Reset 清空统计
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats = make(map[providers.EngineName]*EngineStats)
}

func (s *EngineStats) clone() EngineStats {
	c := *s
	c.ErrorTypes = make(map[string]int64, len(s.ErrorTypes))
	for k, v := range s.ErrorTypes {
		c.ErrorTypes[k] = v
	}
	return c
}

// classifyError 错误分类：优先使用接口错误码，其次 HTTP 状态
func classifyError(err error) string {
	var perr *providers.ProviderError
	if errors.As(err, &perr) {
		switch {
		case perr.Code != "":
			return "code_" + perr.Code
		case perr.StatusCode != 0:
			return "http_" + strconv.Itoa(perr.StatusCode)
		case perr.Cause != nil && isTimeout(perr.Cause):
			return "timeout"
		default:
			return "provider"
		}
	}
	if isTimeout(err) {
		return "timeout"
	}
	return "unknown"
}
