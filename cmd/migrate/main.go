package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/diillson/usuarios-api/internal/adapter/database"
	"github.com/diillson/usuarios-api/pkg/logging"
	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

func main() {
	var (
		action       string
		name         string
		driver       string
		dsn          string
		migrationDir string
	)

	flag.StringVar(&action, "action", "migrate", "Ação (migrate, create, status)")
	flag.StringVar(&name, "name", "", "Nome da migração (apenas para action=create)")
	flag.StringVar(&driver, "driver", "sqlite", "Driver de banco de dados (sqlite, mysql, postgres)")
	flag.StringVar(&dsn, "dsn", "./usuarios.db", "DSN do banco de dados")
	flag.StringVar(&migrationDir, "dir", "", "Diretório de migrações (vazio usa as embutidas)")
	flag.Parse()

	log, err := logging.NewLogger()
	if err != nil {
		fmt.Printf("Erro ao inicializar logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbConfig := database.Config{
		Driver:          driver,
		DSN:             dsn,
		MaxIdleConns:    5,
		MaxOpenConns:    10,
		ConnMaxLifetime: 5 * time.Minute,
		LogLevel:        logger.Info,
		SlowThreshold:   200 * time.Millisecond,
		MigrationDir:    migrationDir,
	}

	ctx := context.Background()

	switch action {
	case "migrate":
		// NewDatabase aplica as migrações pendentes
		db, err := database.NewDatabase(ctx, dbConfig, log)
		if err != nil {
			log.Fatal("Falha ao aplicar migrações", zap.Error(err))
		}
		defer db.Close()

		log.Info("Migrações aplicadas com sucesso")

	case "create":
		if name == "" {
			log.Fatal("Nome da migração é obrigatório para action=create")
		}
		if migrationDir == "" {
			migrationDir = fmt.Sprintf("internal/adapter/database/migrations/%s", driver)
		}

		m, err := database.NewMigrationManager(nil, log, driver, migrationDir)
		if err != nil {
			log.Fatal("Falha ao inicializar gerenciador de migrações", zap.Error(err))
		}

		path, err := m.CreateMigration(name)
		if err != nil {
			log.Fatal("Falha ao criar migração", zap.Error(err))
		}

		log.Info("Migração criada", zap.String("path", path))

	case "status":
		dbConfig.SkipMigrations = true
		db, err := database.NewDatabase(ctx, dbConfig, log)
		if err != nil {
			log.Fatal("Falha ao conectar ao banco de dados", zap.Error(err))
		}
		defer db.Close()

		statuses, err := db.Migrations().Status(ctx)
		if err != nil {
			log.Fatal("Falha ao obter status das migrações", zap.Error(err))
		}

		for _, s := range statuses {
			state := "pendente"
			if s.Applied {
				state = "aplicada em " + s.AppliedAt.Format(time.RFC3339)
			}
			fmt.Printf("%d_%s\t%s\n", s.Version, s.Name, state)
		}

	default:
		log.Fatal("Ação desconhecida", zap.String("action", action))
	}
}
