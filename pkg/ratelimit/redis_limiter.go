package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// windowScript incrementa o contador da janela e define sua expiração na primeira chamada
var windowScript = redis.NewScript(`
	local key = KEYS[1]
	local expireAt = tonumber(ARGV[1])
	local ttl = expireAt - tonumber(ARGV[2])

	local count = redis.call('INCR', key)
	if count == 1 then
		redis.call('EXPIREAT', key, expireAt)
	end

	return {count, ttl}
`)

// RedisLimiter implementa rate limiting compartilhado usando Redis
type RedisLimiter struct {
	client *redis.Client
	logger *zap.Logger
	tracer trace.Tracer
}

// NewRedisLimiter cria um novo limitador baseado em Redis
func NewRedisLimiter(client *redis.Client, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		logger: logger,
		tracer: otel.GetTracerProvider().Tracer("usuarios-api.ratelimit"),
	}
}

// Allow verifica se a requisição é permitida dentro do limite de taxa
func (r *RedisLimiter) Allow(ctx context.Context, config LimitConfig) (bool, int, int, time.Duration, error) {
	ctx, span := r.tracer.Start(ctx, "RedisLimiter.Allow",
		trace.WithAttributes(
			attribute.String("ratelimit.key", config.Key),
			attribute.Int("ratelimit.limit", config.Limit),
			attribute.Int64("ratelimit.period_ms", config.Period.Milliseconds()),
		),
	)
	defer span.End()

	config, err := normalize(config)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return true, 0, 0, 0, err
	}

	periodSeconds := int64(config.Period.Seconds())
	if periodSeconds < 1 {
		periodSeconds = 1
	}

	now := time.Now().Unix()
	expireAt := now - (now % periodSeconds) + periodSeconds
	resetAfter := time.Duration(expireAt-now) * time.Second
	key := fmt.Sprintf("ratelimit:%s", config.Key)

	result, err := windowScript.Run(ctx, r.client, []string{key}, expireAt, now).Result()
	if err != nil {
		r.logger.Error("erro ao executar script de rate limit", zap.Error(err))
		span.SetStatus(codes.Error, "redis script error")
		span.RecordError(err)
		return true, config.Limit, config.Limit, resetAfter, err
	}

	values, ok := result.([]interface{})
	if !ok || len(values) != 2 {
		r.logger.Error("resultado inesperado do script de rate limit", zap.Any("result", result))
		span.SetStatus(codes.Error, "unexpected result")
		return true, config.Limit, config.Limit, resetAfter, errors.New("resultado inválido do Redis")
	}

	count, _ := strconv.Atoi(fmt.Sprintf("%v", values[0]))
	ttl, _ := strconv.ParseInt(fmt.Sprintf("%v", values[1]), 10, 64)

	burst := burstLimit(config)
	allowed := count <= burst

	span.SetAttributes(
		attribute.Int("ratelimit.count", count),
		attribute.Int("ratelimit.burst_limit", burst),
		attribute.Bool("ratelimit.allowed", allowed),
	)
	if !allowed {
		span.SetStatus(codes.Error, "rate limit exceeded")
	} else {
		span.SetStatus(codes.Ok, "")
	}

	return allowed, config.Limit, burst - count, time.Duration(ttl) * time.Second, nil
}

// Ping verifica a conectividade com o Redis
func (r *RedisLimiter) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
