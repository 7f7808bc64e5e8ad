package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// MemoryLimiter implementa rate limiting em janela fixa mantida em memória.
// Serve para instâncias únicas; com várias réplicas use o RedisLimiter.
type MemoryLimiter struct {
	counters *cache.Cache
	mu       sync.Mutex
	logger   *zap.Logger
	now      func() time.Time
}

// NewMemoryLimiter cria um novo limitador em memória
func NewMemoryLimiter(cleanupInterval time.Duration, logger *zap.Logger) *MemoryLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &MemoryLimiter{
		counters: cache.New(cache.NoExpiration, cleanupInterval),
		logger:   logger,
		now:      time.Now,
	}
}

// Allow verifica se a requisição é permitida dentro do limite de taxa
func (m *MemoryLimiter) Allow(_ context.Context, config LimitConfig) (bool, int, int, time.Duration, error) {
	config, err := normalize(config)
	if err != nil {
		return true, 0, 0, 0, err
	}

	now := m.now()
	windowStart := now.Truncate(config.Period)
	resetAfter := windowStart.Add(config.Period).Sub(now)
	key := fmt.Sprintf("ratelimit:%s:%d", config.Key, windowStart.UnixNano())

	m.mu.Lock()
	count, err := m.counters.IncrementInt(key, 1)
	if err != nil {
		// Primeira requisição da janela
		m.counters.Set(key, 1, resetAfter)
		count = 1
	}
	m.mu.Unlock()

	burst := burstLimit(config)
	allowed := count <= burst

	if !allowed {
		m.logger.Debug("limite de requisições excedido",
			zap.String("key", config.Key),
			zap.Int("count", count),
			zap.Int("burstLimit", burst))
	}

	return allowed, config.Limit, burst - count, resetAfter, nil
}
