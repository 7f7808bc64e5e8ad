package main

import (
	"context"
	"crypto/tls"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diillson/usuarios-api/internal/app"
	"github.com/diillson/usuarios-api/pkg/config"
	"github.com/diillson/usuarios-api/pkg/logging"
	"github.com/diillson/usuarios-api/pkg/telemetry"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/crypto/acme/autocert"
)

var tlsConfig = &tls.Config{
	MinVersion: tls.VersionTLS13,
	CipherSuites: []uint16{
		tls.TLS_AES_128_GCM_SHA256,
		tls.TLS_AES_256_GCM_SHA384,
		tls.TLS_CHACHA20_POLY1305_SHA256,
	},
}

// setupServer configura o servidor HTTP ou HTTPS conforme a configuração
func setupServer(router *gin.Engine, cfg *config.Config, logger *zap.Logger) *http.Server {
	server := &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	if !cfg.Server.TLS {
		logger.Info("Iniciando em modo HTTP", zap.String("addr", server.Addr))
		return server
	}

	// Certificados fornecidos pelo usuário têm prioridade
	if cfg.Server.CertFile != "" && cfg.Server.KeyFile != "" {
		if fileExists(cfg.Server.CertFile) && fileExists(cfg.Server.KeyFile) {
			logger.Info("Usando certificados TLS fornecidos pelo usuário",
				zap.String("certFile", cfg.Server.CertFile),
				zap.String("keyFile", cfg.Server.KeyFile))
			server.TLSConfig = tlsConfig.Clone()
			return server
		}
		logger.Error("Certificado ou chave não encontrados",
			zap.String("certFile", cfg.Server.CertFile),
			zap.String("keyFile", cfg.Server.KeyFile))
	}

	domains := validDomains(cfg.Server.Domains)
	if len(domains) == 0 {
		logger.Warn("Nenhum domínio válido configurado para Let's Encrypt. Usando HTTP.",
			zap.Strings("domains", cfg.Server.Domains))
		return server
	}

	certManager := &autocert.Manager{
		Prompt:     autocert.AcceptTOS,
		HostPolicy: autocert.HostWhitelist(domains...),
		Cache:      autocert.DirCache("./certs"),
		Email:      os.Getenv("LETSENCRYPT_EMAIL"),
	}

	server.Addr = ":443"
	server.TLSConfig = tlsConfig.Clone()
	server.TLSConfig.GetCertificate = certManager.GetCertificate

	// Desafios HTTP-01 e redirecionamento para HTTPS
	go func() {
		httpServer := &http.Server{
			Addr:              ":80",
			Handler:           certManager.HTTPHandler(http.HandlerFunc(redirectHTTPS)),
			ReadHeaderTimeout: 5 * time.Second,
		}
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Erro no servidor HTTP para Let's Encrypt", zap.Error(err))
		}
	}()

	logger.Info("Servidor HTTPS com Let's Encrypt configurado", zap.Strings("domains", domains))
	return server
}

func validDomains(domains []string) []string {
	if env := os.Getenv("SERVER_DOMAINS"); env != "" {
		domains = strings.Split(env, ",")
	}

	valid := make([]string, 0, len(domains))
	for _, domain := range domains {
		domain = strings.TrimSpace(domain)
		if domain != "" && domain != "localhost" && domain != "127.0.0.1" {
			valid = append(valid, domain)
		}
	}
	return valid
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// redirectHTTPS redireciona HTTP -> HTTPS
func redirectHTTPS(w http.ResponseWriter, r *http.Request) {
	target := "https://" + r.Host + r.URL.Path
	if len(r.URL.RawQuery) > 0 {
		target += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, target, http.StatusMovedPermanently)
}

func main() {
	configPath := flag.String("config", "./config", "Diretório do arquivo config.yaml")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Falha ao carregar configuração: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewLoggerWithConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Logging.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Tracing.Enabled {
		tp, err := telemetry.NewTracerProvider(context.Background(), cfg.Tracing, logger)
		if err != nil {
			logger.Error("Falha ao inicializar tracer", zap.Error(err))
		} else {
			logger.Info("Tracer inicializado com sucesso", zap.String("endpoint", cfg.Tracing.Endpoint))
			defer tp.Shutdown(context.Background())
		}
	}

	ctx, span := otel.Tracer("usuarios-api.main").Start(context.Background(), "Server Initialization")

	application, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.End()
		logger.Fatal("Falha ao inicializar aplicação", zap.Error(err))
	}
	span.End()

	router := gin.New()
	application.RegisterRoutes(router)

	server := setupServer(router, cfg, logger)

	go func() {
		var err error
		switch {
		case server.TLSConfig != nil && server.TLSConfig.GetCertificate != nil:
			logger.Info("Iniciando servidor HTTPS (Let's Encrypt)", zap.String("addr", server.Addr))
			err = server.ListenAndServeTLS("", "")
		case server.TLSConfig != nil:
			logger.Info("Iniciando servidor HTTPS", zap.String("addr", server.Addr))
			err = server.ListenAndServeTLS(cfg.Server.CertFile, cfg.Server.KeyFile)
		default:
			logger.Info("Iniciando servidor HTTP", zap.String("addr", server.Addr))
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Erro ao iniciar servidor", zap.Error(err))
		}
	}()

	// Esperar por sinal de interrupção para shutdown gracioso
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Erro ao encerrar servidor", zap.Error(err))
	}
	if err := application.Close(); err != nil {
		logger.Error("Erro ao liberar recursos", zap.Error(err))
	}

	logger.Info("Servidor encerrado com sucesso")
}
