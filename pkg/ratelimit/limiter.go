package ratelimit

import (
	"context"
	"errors"
	"time"
)

// LimitConfig configura o comportamento do limitador
type LimitConfig struct {
	Key         string        // Chave única para identificar o limite
	Limit       int           // Número máximo de requisições
	Period      time.Duration // Período de tempo para o limite
	BurstFactor float64       // Fator para permitir rajadas (1.0 = sem rajada)
}

// Limiter decide se uma requisição cabe na janela atual.
// Retorna: permitido, limite, restante, tempo de reset, erro
type Limiter interface {
	Allow(ctx context.Context, config LimitConfig) (bool, int, int, time.Duration, error)
}

var (
	errInvalidLimit  = errors.New("limite deve ser maior que zero")
	errInvalidPeriod = errors.New("período deve ser maior que zero")
)

// normalize valida a configuração e aplica o fator de rajada padrão
func normalize(config LimitConfig) (LimitConfig, error) {
	if config.Limit <= 0 {
		return config, errInvalidLimit
	}
	if config.Period <= 0 {
		return config, errInvalidPeriod
	}
	if config.BurstFactor < 1 {
		config.BurstFactor = 1.0
	}
	return config, nil
}

// burstLimit calcula o teto efetivo da janela
func burstLimit(config LimitConfig) int {
	return int(float64(config.Limit) * config.BurstFactor)
}
