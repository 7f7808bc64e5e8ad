package http

import (
	"context"
	"net/http"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DatabaseChecker define a interface para verificar o banco de dados
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// UsuarioCounter conta os usuários cadastrados
type UsuarioCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Dependency representa um componente do qual o sistema depende
type Dependency struct {
	Name     string
	Check    func(context.Context) error
	Critical bool // Se true, falha deste componente faz o health check falhar
}

// HealthChecker implementa endpoints de health check
type HealthChecker struct {
	counter      UsuarioCounter
	logger       *zap.Logger
	dependencies []Dependency
}

// NewHealthChecker cria um novo health checker com o banco como dependência crítica
func NewHealthChecker(db DatabaseChecker, counter UsuarioCounter, logger *zap.Logger, extra ...Dependency) *HealthChecker {
	deps := []Dependency{{Name: "database", Check: db.Ping, Critical: true}}
	return &HealthChecker{
		counter:      counter,
		logger:       logger,
		dependencies: append(deps, extra...),
	}
}

// RegisterRoutes registra os endpoints de saúde
func (h *HealthChecker) RegisterRoutes(router gin.IRoutes) {
	router.GET("/health", h.DetailedHealth)
	router.GET("/health/liveness", h.LivenessCheck)
	router.GET("/health/readiness", h.ReadinessCheck)
}

// LivenessCheck verifica se o aplicativo está vivo (execução básica)
func (h *HealthChecker) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "UP",
		"time":   time.Now(),
	})
}

// ReadinessCheck verifica se o aplicativo está pronto para receber tráfego
func (h *HealthChecker) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	status, checks := h.runChecks(ctx, false)

	c.JSON(status, gin.H{
		"status": statusLabel(status),
		"time":   time.Now(),
		"checks": checks,
	})
}

// DetailedHealth fornece informações detalhadas sobre o sistema
func (h *HealthChecker) DetailedHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	status, checks := h.runChecks(ctx, true)

	details := gin.H{
		"status":      statusLabel(status),
		"time":        time.Now(),
		"version":     getVersion(),
		"environment": getEnvironment(),
		"checks":      checks,
		"system":      getSystemInfo(),
	}

	if h.counter != nil && status == http.StatusOK {
		if total, err := h.counter.Count(ctx); err == nil {
			details["usuarios"] = total
		}
	}

	c.JSON(status, details)
}

// runChecks verifica cada dependência em paralelo
func (h *HealthChecker) runChecks(ctx context.Context, withErrors bool) (int, map[string]gin.H) {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		status = http.StatusOK
		checks = make(map[string]gin.H, len(h.dependencies))
	)

	for _, dep := range h.dependencies {
		wg.Add(1)
		go func(d Dependency) {
			defer wg.Done()

			start := time.Now()
			err := d.Check(ctx)
			duration := time.Since(start)

			result := gin.H{
				"status":   "UP",
				"time":     duration.String(),
				"critical": d.Critical,
			}
			if err != nil {
				result["status"] = "DOWN"
				if withErrors {
					result["error"] = err.Error()
				}
				h.logger.Error("health check falhou",
					zap.String("dependency", d.Name),
					zap.Error(err))
			}

			mu.Lock()
			defer mu.Unlock()
			checks[d.Name] = result
			if err != nil && d.Critical {
				status = http.StatusServiceUnavailable
			}
		}(dep)
	}

	wg.Wait()
	return status, checks
}

func statusLabel(status int) string {
	if status != http.StatusOK {
		return "DOWN"
	}
	return "UP"
}

// getVersion retorna a versão do aplicativo
func getVersion() string {
	return os.Getenv("APP_VERSION")
}

// getEnvironment retorna o ambiente atual
func getEnvironment() string {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		return "development"
	}
	return env
}

// getSystemInfo retorna informações sobre o sistema
func getSystemInfo() gin.H {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return gin.H{
		"go_version":    runtime.Version(),
		"num_cpu":       runtime.NumCPU(),
		"num_goroutine": runtime.NumGoroutine(),
		"memory": gin.H{
			"alloc_mb": float64(m.Alloc) / 1024 / 1024,
			"sys_mb":   float64(m.Sys) / 1024 / 1024,
			"num_gc":   m.NumGC,
		},
	}
}
