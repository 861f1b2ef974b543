package translation

import (
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/nerdneilsfield/notes-pipeline/pkg/providers"
)

// CacheStats 缓存统计
type CacheStats struct {
	Hits   int64 `json:"hits"`
	Misses int64 `json:"misses"`
	Size   int   `json:"size"`
}

// Cache 有容量上限并按 TTL 过期的翻译结果缓存，并发安全
type Cache struct {
	lru    *expirable.LRU[string, Result]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache 创建缓存；size<=0 时不限容量，ttl<=0 时不过期
func NewCache(size int, ttl time.Duration) *Cache {
	if size < 0 {
		size = 0
	}
	if ttl < 0 {
		ttl = 0
	}
	return &Cache{lru: expirable.NewLRU[string, Result](size, nil, ttl)}
}

// CacheKey 缓存键 engine:sourceLang:targetLang:text
func CacheKey(engine providers.EngineName, sourceLang, targetLang, text string) string {
	return string(engine) + ":" + sourceLang + ":" + targetLang + ":" + text
}

// Get 获取缓存
func (c *Cache) Get(key string) (Result, bool) {
	result, ok := c.lru.Get(key)
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return result, ok
}

// Add 写入缓存
func (c *Cache) Add(key string, result Result) {
	c.lru.Add(key, result)
}

// Purge 清空缓存
func (c *Cache) Purge() {
	c.lru.Purge()
}

// Len 当前条目数
func (c *Cache) Len() int {
	return c.lru.Len()
}

// Stats 返回缓存统计
func (c *Cache) Stats() CacheStats {
	return CacheStats{
		Hits:   c.hits.Load(),
		Misses: c.misses.Load(),
		Size:   c.lru.Len(),
	}
}
