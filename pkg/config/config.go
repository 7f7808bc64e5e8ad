package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config representa a configuração completa da aplicação
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	RateLimit  RateLimitConfig
	Resilience ResilienceConfig
	Pagination PaginationConfig
	Metrics    MetricsConfig
	Logging    LoggingConfig
	Tracing    TracingConfig
	Security   SecurityConfig
}

// ServerConfig contém configurações do servidor HTTP
type ServerConfig struct {
	Port           int
	Host           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxHeaderBytes int
	TLS            bool
	CertFile       string
	KeyFile        string
	Domains        []string
}

// DatabaseConfig contém configurações do banco de dados
type DatabaseConfig struct {
	Driver          string
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
	SlowThreshold   time.Duration
	MigrationDir    string
	SkipMigrations  bool
}

// RedisOptions contém configurações específicas para Redis
type RedisOptions struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RateLimitConfig contém configurações do limitador de requisições por IP
type RateLimitConfig struct {
	Enabled     bool
	Backend     string // memory, redis
	Limit       int
	Period      time.Duration
	BurstFactor float64
	Redis       RedisOptions
}

// ResilienceConfig contém configurações do circuit breaker do banco de dados
type ResilienceConfig struct {
	CircuitBreaker  bool
	MaxFailures     int
	OpenTimeout     time.Duration
	HalfOpenMaxReqs int
}

// PaginationConfig contém os padrões de paginação da listagem
type PaginationConfig struct {
	DefaultSize int
	MaxSize     int
	DefaultSort string
}

// MetricsConfig contém configurações de métricas
type MetricsConfig struct {
	Enabled        bool
	PrometheusPath string
}

// LoggingConfig contém configurações de logging
type LoggingConfig struct {
	Level      string
	Format     string // json, console
	OutputPath string // stdout, file path
	ErrorPath  string
	Production bool
}

// TracingConfig contém configurações de rastreamento
type TracingConfig struct {
	Enabled       bool
	Endpoint      string
	ServiceName   string
	SamplingRatio float64
}

// SecurityConfig contém a política de CORS e HSTS da API
type SecurityConfig struct {
	AllowedOrigins []string
	HSTSMaxAge     time.Duration // 0 desliga o HSTS
}

// LoadConfig carrega a configuração de diversas fontes (arquivos, env, defaults)
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.AddConfigPath(configPath)
	}
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/usuarios-api")

	if err := v.ReadInConfig(); err != nil {
		// Ignorar se o arquivo não for encontrado
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("erro ao ler arquivo de configuração: %w", err)
		}
	}

	// Variáveis de ambiente com prefixo UA_ (ex: UA_DATABASE_DSN)
	v.SetEnvPrefix("UA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("erro ao mapear configuração: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Default retorna a configuração com todos os valores padrão aplicados
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var config Config
	// Os defaults são sempre mapeáveis
	_ = v.Unmarshal(&config)
	return &config
}

// setDefaults define valores padrão para a configuração
func setDefaults(v *viper.Viper) {
	// Servidor
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.readTimeout", "5s")
	v.SetDefault("server.writeTimeout", "10s")
	v.SetDefault("server.idleTimeout", "30s")
	v.SetDefault("server.maxHeaderBytes", 1<<20) // 1 MB
	v.SetDefault("server.tls", false)

	// Banco de dados
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./usuarios.db")
	v.SetDefault("database.maxIdleConns", 10)
	v.SetDefault("database.maxOpenConns", 50)
	v.SetDefault("database.connMaxLifetime", "1h")
	v.SetDefault("database.logLevel", "warn")
	v.SetDefault("database.slowThreshold", "200ms")
	v.SetDefault("database.migrationDir", "")
	v.SetDefault("database.skipMigrations", false)

	// Rate limit
	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.backend", "memory")
	v.SetDefault("rateLimit.limit", 100)
	v.SetDefault("rateLimit.period", "1m")
	v.SetDefault("rateLimit.burstFactor", 1.5)
	v.SetDefault("rateLimit.redis.address", "localhost:6379")
	v.SetDefault("rateLimit.redis.db", 0)
	v.SetDefault("rateLimit.redis.poolSize", 10)
	v.SetDefault("rateLimit.redis.dialTimeout", "5s")
	v.SetDefault("rateLimit.redis.readTimeout", "3s")
	v.SetDefault("rateLimit.redis.writeTimeout", "3s")

	// Resiliência
	v.SetDefault("resilience.circuitBreaker", true)
	v.SetDefault("resilience.maxFailures", 5)
	v.SetDefault("resilience.openTimeout", "30s")
	v.SetDefault("resilience.halfOpenMaxReqs", 1)

	// Paginação
	v.SetDefault("pagination.defaultSize", 10)
	v.SetDefault("pagination.maxSize", 2000)
	v.SetDefault("pagination.defaultSort", "id,asc")

	// Métricas
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.prometheusPath", "/metrics")

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.outputPath", "stdout")
	v.SetDefault("logging.errorPath", "stderr")
	v.SetDefault("logging.production", true)

	// Tracing
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.endpoint", "localhost:4317")
	v.SetDefault("tracing.samplingRatio", 0.1) // 10% das requisições
	v.SetDefault("tracing.serviceName", "usuarios-api")

	// Segurança
	v.SetDefault("security.allowedOrigins", []string{"*"})
	v.SetDefault("security.hstsMaxAge", "8760h")
}

// validateConfig valida a configuração
func validateConfig(config *Config) error {
	if config.Server.TLS && len(config.Server.Domains) == 0 {
		if config.Server.CertFile == "" || config.Server.KeyFile == "" {
			return fmt.Errorf("TLS habilitado, mas CertFile/KeyFile ou Domains não estão definidos")
		}
	}

	validDrivers := map[string]bool{"sqlite": true, "mysql": true, "postgres": true}
	if !validDrivers[config.Database.Driver] {
		return fmt.Errorf("driver de banco de dados inválido: %s", config.Database.Driver)
	}

	if config.RateLimit.Enabled {
		validBackends := map[string]bool{"memory": true, "redis": true}
		if !validBackends[config.RateLimit.Backend] {
			return fmt.Errorf("backend de rate limit inválido: %s", config.RateLimit.Backend)
		}
		if config.RateLimit.Backend == "redis" && config.RateLimit.Redis.Address == "" {
			return fmt.Errorf("backend de rate limit redis requer um endereço")
		}
		if config.RateLimit.Limit <= 0 || config.RateLimit.Period <= 0 {
			return fmt.Errorf("rate limit requer limit e period maiores que zero")
		}
	}

	if config.Pagination.DefaultSize <= 0 {
		return fmt.Errorf("tamanho de página padrão inválido: %d", config.Pagination.DefaultSize)
	}
	if config.Pagination.MaxSize < config.Pagination.DefaultSize {
		return fmt.Errorf("tamanho máximo de página (%d) menor que o padrão (%d)",
			config.Pagination.MaxSize, config.Pagination.DefaultSize)
	}

	for _, origin := range config.Security.AllowedOrigins {
		if origin != "*" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return fmt.Errorf("origem CORS inválida: %s", origin)
		}
	}

	return nil
}
