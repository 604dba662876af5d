package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// RateLimiter 速率限制器接口
type RateLimiter interface {
	Wait(ctx context.Context) error
	Allow() bool
}

// Limit 每秒请求数与突发量
type Limit struct {
	PerSecond float64
	Burst     int
}

// RateLimitManager 按 key 区分的速率限制管理器，未单独配置的 key 共用默认限制器
type RateLimitManager struct {
	mu       sync.RWMutex
	limiters map[string]RateLimiter
	fallback RateLimiter
}

// NewRateLimitManager 创建管理器；def.PerSecond <= 0 表示不限速
func NewRateLimitManager(def Limit) *RateLimitManager {
	return &RateLimitManager{
		limiters: make(map[string]RateLimiter),
		fallback: newLimiter(def),
	}
}

func newLimiter(l Limit) *rate.Limiter {
	if l.PerSecond <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := l.Burst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(l.PerSecond), burst)
}

// Set 为某个 key 单独配置限制
func (rlm *RateLimitManager) Set(key string, l Limit) {
	rlm.mu.Lock()
	defer rlm.mu.Unlock()
	rlm.limiters[key] = newLimiter(l)
}

// GetLimiter 获取指定 key 的速率限制器
func (rlm *RateLimitManager) GetLimiter(key string) RateLimiter {
	rlm.mu.RLock()
	defer rlm.mu.RUnlock()
	if limiter, ok := rlm.limiters[key]; ok {
		return limiter
	}
	return rlm.fallback
}

// Wait 等待直到允许请求
func (rlm *RateLimitManager) Wait(ctx context.Context, key string) error {
	return rlm.GetLimiter(key).Wait(ctx)
}

// Allow 检查是否允许请求
func (rlm *RateLimitManager) Allow(key string) bool {
	return rlm.GetLimiter(key).Allow()
}
