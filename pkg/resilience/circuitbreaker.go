package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrCircuitOpen é retornado quando o circuit breaker está aberto
	ErrCircuitOpen = errors.New("circuit breaker is open")
)

// CircuitState representa os estados possíveis do circuit breaker
type CircuitState int

const (
	StateClose CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClose:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// StateObserver recebe notificações de abertura e fechamento do circuito
type StateObserver interface {
	CircuitBreakerStateChanged(name string, isOpen bool)
}

// CircuitBreakerConfig contém a configuração do circuit breaker
type CircuitBreakerConfig struct {
	Name            string
	MaxRequestsFail int           // Número máximo de falhas consecutivas antes de abrir o circuito
	Timeout         time.Duration // Tempo que o circuito fica aberto antes de tentar half-open
	MaxRequests     int           // Número máximo de requisições no estado half-open
	// IsFailure decide quais erros contam como falha. Nil conta qualquer erro.
	IsFailure func(error) bool
}

// CircuitBreaker implementa o pattern Circuit Breaker
type CircuitBreaker struct {
	name        string
	maxFails    int
	timeout     time.Duration
	maxRequests int
	isFailure   func(error) bool

	mutex               sync.Mutex
	state               CircuitState
	failCount           int
	lastStateChangeTime time.Time
	nextAttemptTime     time.Time
	halfOpenRequests    int

	logger   *zap.Logger
	observer StateObserver
	now      func() time.Time
}

// NewCircuitBreaker cria um novo circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig, logger *zap.Logger, observer StateObserver) *CircuitBreaker {
	// Valores padrão se não especificados
	if config.MaxRequestsFail <= 0 {
		config.MaxRequestsFail = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxRequests <= 0 {
		config.MaxRequests = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		name:                config.Name,
		maxFails:            config.MaxRequestsFail,
		timeout:             config.Timeout,
		maxRequests:         config.MaxRequests,
		isFailure:           config.IsFailure,
		state:               StateClose,
		lastStateChangeTime: time.Now(),
		logger:              logger,
		observer:            observer,
		now:                 time.Now,
	}
}

// Execute executa a função com circuit breaker. Um panic em fn conta como falha e é propagado.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if !cb.allowRequest() {
		return ErrCircuitOpen
	}

	recorded := false
	defer func() {
		if recorded {
			return
		}
		p := recover()
		cb.recordResult(false)
		if p == nil {
			// runtime.Goexit
			return
		}
		cb.logger.Error("panic durante execução protegida", zap.String("name", cb.name), zap.Any("panic", p))
		panic(p)
	}()

	err := fn(ctx)

	cb.recordResult(!cb.isFailure(err))
	recorded = true

	return err
}

// allowRequest verifica se a requisição deve ser permitida com base no estado atual
func (cb *CircuitBreaker) allowRequest() bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	now := cb.now()

	switch cb.state {
	case StateClose:
		return true

	case StateOpen:
		if !now.After(cb.nextAttemptTime) {
			return false
		}
		cb.toHalfOpen(now)
		cb.halfOpenRequests++
		return true

	case StateHalfOpen:
		if cb.halfOpenRequests >= cb.maxRequests {
			return false
		}
		cb.halfOpenRequests++
		return true
	}

	return false
}

// recordResult atualiza o estado do circuit breaker com base no resultado da requisição
func (cb *CircuitBreaker) recordResult(success bool) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	now := cb.now()

	switch cb.state {
	case StateClose:
		if !success {
			cb.failCount++
			cb.logger.Debug("circuit breaker registrou falha",
				zap.String("name", cb.name),
				zap.Int("failCount", cb.failCount),
				zap.Int("maxFails", cb.maxFails))

			if cb.failCount >= cb.maxFails {
				cb.toOpen(now)
			}
		} else {
			cb.failCount = 0
		}

	case StateHalfOpen:
		if success {
			cb.toClose(now)
		} else {
			cb.toOpen(now)
		}
	}
}

// toOpen muda o estado para open
func (cb *CircuitBreaker) toOpen(now time.Time) {
	cb.state = StateOpen
	cb.lastStateChangeTime = now
	cb.nextAttemptTime = now.Add(cb.timeout)

	if cb.observer != nil {
		cb.observer.CircuitBreakerStateChanged(cb.name, true)
	}

	cb.logger.Warn("circuit breaker mudou para estado aberto",
		zap.String("name", cb.name),
		zap.Time("nextAttempt", cb.nextAttemptTime))
}

// toHalfOpen muda o estado para half-open
func (cb *CircuitBreaker) toHalfOpen(now time.Time) {
	cb.state = StateHalfOpen
	cb.lastStateChangeTime = now
	cb.halfOpenRequests = 0
	cb.logger.Info("circuit breaker mudou para estado meio-aberto", zap.String("name", cb.name))
}

// toClose muda o estado para close
func (cb *CircuitBreaker) toClose(now time.Time) {
	cb.state = StateClose
	cb.lastStateChangeTime = now
	cb.failCount = 0

	if cb.observer != nil {
		cb.observer.CircuitBreakerStateChanged(cb.name, false)
	}

	cb.logger.Info("circuit breaker mudou para estado fechado", zap.String("name", cb.name))
}

// GetState retorna o estado atual do circuit breaker
func (cb *CircuitBreaker) GetState() CircuitState {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.state
}

// Reset reseta o circuit breaker para o estado fechado
func (cb *CircuitBreaker) Reset() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	cb.toClose(cb.now())
}
