package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/diillson/usuarios-api/internal/adapter/database"
	"github.com/diillson/usuarios-api/internal/app/usuario"
	"github.com/diillson/usuarios-api/internal/domain/model"
	apperrors "github.com/diillson/usuarios-api/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm/logger"
)

func main() {
	var (
		count    int
		prefix   string
		dbDriver string
		dbDSN    string
		verbose  bool
	)

	flag.IntVar(&count, "count", 20, "Quantidade de usuários a criar")
	flag.StringVar(&prefix, "prefix", "usuario", "Prefixo de nome e email")
	flag.StringVar(&dbDriver, "driver", "sqlite", "Driver do banco de dados (sqlite, mysql, postgres)")
	flag.StringVar(&dbDSN, "dsn", "./usuarios.db", "DSN do banco de dados")
	flag.BoolVar(&verbose, "verbose", false, "Mostrar logs detalhados")
	flag.Parse()

	if count <= 0 {
		fmt.Println("Erro: count deve ser maior que zero.")
		flag.Usage()
		os.Exit(1)
	}

	cfg := zap.NewProductionConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.ErrorLevel)
		cfg.OutputPaths = []string{"stderr"}
	}

	log, err := cfg.Build()
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	db, err := database.NewDatabase(ctx, database.Config{
		Driver:          dbDriver,
		DSN:             dbDSN,
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		LogLevel:        logger.Silent,
		SlowThreshold:   200 * time.Millisecond,
	}, log)
	if err != nil {
		fmt.Printf("Erro ao conectar ao banco de dados: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	service := usuario.NewService(database.NewUsuarioRepository(db.DB(), log), log)

	created, skipped := 0, 0
	for i := 1; i <= count; i++ {
		nome := fmt.Sprintf("%s %03d", prefix, i)
		email := fmt.Sprintf("%s%03d@example.com", prefix, i)

		_, err := service.Create(ctx, model.UsuarioDTO{Nome: &nome, Email: &email})
		switch {
		case err == nil:
			created++
		case apperrors.IsValidation(err):
			// Email já cadastrado em execução anterior
			skipped++
		default:
			fmt.Printf("Erro ao criar usuário %s: %v\n", email, err)
			os.Exit(1)
		}
	}

	fmt.Printf("Usuários criados: %d, ignorados: %d\n", created, skipped)
}
