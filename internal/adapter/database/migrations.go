package database

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed migrations
var embeddedMigrations embed.FS

// ErrNoMigrations indica que a origem não contém arquivos .sql
var ErrNoMigrations = errors.New("nenhum arquivo de migração encontrado")

// Migration representa uma migração aplicada
type Migration struct {
	ID        uint  `gorm:"primaryKey"`
	Version   int64 `gorm:"uniqueIndex"`
	Name      string
	AppliedAt time.Time
}

// TableName define o nome da tabela de controle
func (Migration) TableName() string {
	return "schema_migrations"
}

// MigrationFile representa um arquivo de migração
type MigrationFile struct {
	Version int64
	Name    string
	Path    string
}

// MigrationStatus descreve uma migração conhecida e se já foi aplicada
type MigrationStatus struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

// MigrationManager gerencia migrações de banco de dados
type MigrationManager struct {
	db        *gorm.DB
	logger    *zap.Logger
	source    fs.FS
	directory string
}

// NewMigrationManager cria um novo gerenciador de migrações.
// Sem diretório explícito usa os arquivos embutidos do dialeto.
func NewMigrationManager(db *gorm.DB, logger *zap.Logger, driver, directory string) (*MigrationManager, error) {
	m := &MigrationManager{
		db:        db,
		logger:    logger,
		directory: directory,
	}

	if directory != "" {
		m.source = os.DirFS(directory)
		return m, nil
	}

	sub, err := fs.Sub(embeddedMigrations, path.Join("migrations", driver))
	if err != nil {
		return nil, fmt.Errorf("migrações embutidas indisponíveis para %s: %w", driver, err)
	}
	m.source = sub
	m.directory = filepath.Join("internal", "adapter", "database", "migrations", driver)
	return m, nil
}

// Initialize inicializa a tabela de migrações
func (m *MigrationManager) Initialize(ctx context.Context) error {
	if err := m.db.WithContext(ctx).AutoMigrate(&Migration{}); err != nil {
		return fmt.Errorf("falha ao criar tabela de migrações: %w", err)
	}
	return nil
}

// ApplyMigrations aplica todas as migrações pendentes, cada uma em sua transação
func (m *MigrationManager) ApplyMigrations(ctx context.Context) error {
	migrationFiles, err := m.findMigrationFiles()
	if err != nil {
		return err
	}

	if err := m.Initialize(ctx); err != nil {
		return err
	}

	appliedVersions, err := m.appliedVersions(ctx)
	if err != nil {
		return err
	}

	for _, file := range migrationFiles {
		if _, ok := appliedVersions[file.Version]; ok {
			m.logger.Debug("Migração já aplicada", zap.Int64("version", file.Version), zap.String("name", file.Name))
			continue
		}

		m.logger.Info("Aplicando migração", zap.Int64("version", file.Version), zap.String("name", file.Name))

		content, err := fs.ReadFile(m.source, file.Path)
		if err != nil {
			return fmt.Errorf("falha ao ler arquivo de migração: %w", err)
		}

		tx := m.db.WithContext(ctx).Begin()
		if tx.Error != nil {
			return fmt.Errorf("falha ao iniciar transação: %w", tx.Error)
		}

		for _, sqlCmd := range splitSQLCommands(string(content)) {
			sqlCmd = strings.TrimSpace(sqlCmd)
			if sqlCmd == "" {
				continue
			}

			if err := tx.Exec(sqlCmd).Error; err != nil {
				tx.Rollback()
				return fmt.Errorf("falha ao executar migração %d_%s: %w", file.Version, file.Name, err)
			}
		}

		if err := tx.Create(&Migration{
			Version:   file.Version,
			Name:      file.Name,
			AppliedAt: time.Now(),
		}).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("falha ao registrar migração: %w", err)
		}

		if err := tx.Commit().Error; err != nil {
			return fmt.Errorf("falha ao confirmar transação: %w", err)
		}

		m.logger.Info("Migração aplicada com sucesso", zap.Int64("version", file.Version), zap.String("name", file.Name))
	}

	return nil
}

// Status lista as migrações conhecidas e seu estado de aplicação
func (m *MigrationManager) Status(ctx context.Context) ([]MigrationStatus, error) {
	migrationFiles, err := m.findMigrationFiles()
	if err != nil {
		return nil, err
	}

	if err := m.Initialize(ctx); err != nil {
		return nil, err
	}

	applied, err := m.appliedVersions(ctx)
	if err != nil {
		return nil, err
	}

	statuses := make([]MigrationStatus, 0, len(migrationFiles))
	for _, file := range migrationFiles {
		status := MigrationStatus{Version: file.Version, Name: file.Name}
		if migration, ok := applied[file.Version]; ok {
			status.Applied = true
			status.AppliedAt = migration.AppliedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (m *MigrationManager) appliedVersions(ctx context.Context) (map[int64]Migration, error) {
	var appliedMigrations []Migration
	if err := m.db.WithContext(ctx).Order("version").Find(&appliedMigrations).Error; err != nil {
		return nil, fmt.Errorf("falha ao buscar migrações aplicadas: %w", err)
	}

	applied := make(map[int64]Migration, len(appliedMigrations))
	for _, migration := range appliedMigrations {
		applied[migration.Version] = migration
	}
	return applied, nil
}

// findMigrationFiles encontra todos os arquivos de migração .sql ordenados por versão
func (m *MigrationManager) findMigrationFiles() ([]MigrationFile, error) {
	var files []MigrationFile

	err := fs.WalkDir(m.source, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || !strings.HasSuffix(d.Name(), ".sql") {
			return nil
		}

		// Formato: YYYYMMDDHHMMSS_nome.sql
		parts := strings.SplitN(d.Name(), "_", 2)
		if len(parts) != 2 {
			m.logger.Warn("Formato de arquivo de migração inválido", zap.String("file", d.Name()))
			return nil
		}

		version, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			m.logger.Warn("Versão de migração inválida", zap.String("file", d.Name()))
			return nil
		}

		files = append(files, MigrationFile{
			Version: version,
			Name:    strings.TrimSuffix(parts[1], ".sql"),
			Path:    p,
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoMigrations
		}
		return nil, fmt.Errorf("falha ao listar arquivos de migração: %w", err)
	}

	if len(files) == 0 {
		return nil, ErrNoMigrations
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Version < files[j].Version
	})

	return files, nil
}

// CreateMigration cria um novo arquivo de migração vazio no diretório configurado
func (m *MigrationManager) CreateMigration(name string) (string, error) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if name == "" {
		return "", errors.New("nome da migração é obrigatório")
	}

	timestamp := time.Now().Format("20060102150405")

	if err := os.MkdirAll(m.directory, 0755); err != nil {
		return "", fmt.Errorf("falha ao criar diretório: %w", err)
	}

	filename := filepath.Join(m.directory, fmt.Sprintf("%s_%s.sql", timestamp, name))

	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("falha ao criar arquivo: %w", err)
	}

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("falha ao fechar arquivo: %w", err)
	}

	return filename, nil
}

// splitSQLCommands divide o SQL em comandos, ignorando ';' em strings e comentários
func splitSQLCommands(sql string) []string {
	var commands []string
	var currentCommand strings.Builder
	inString := false
	inLineComment := false
	inBlockComment := false

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		if !inString && !inBlockComment && !inLineComment && i < len(sql)-1 && ch == '-' && sql[i+1] == '-' {
			inLineComment = true
			currentCommand.WriteByte(ch)
			continue
		}

		if inLineComment && ch == '\n' {
			inLineComment = false
			currentCommand.WriteByte(ch)
			continue
		}

		if !inString && !inLineComment && !inBlockComment && i < len(sql)-1 && ch == '/' && sql[i+1] == '*' {
			inBlockComment = true
			currentCommand.WriteByte(ch)
			continue
		}

		if inBlockComment && i < len(sql)-1 && ch == '*' && sql[i+1] == '/' {
			inBlockComment = false
			currentCommand.WriteString("*/")
			i++
			continue
		}

		if !inLineComment && !inBlockComment && ch == '\'' {
			inString = !inString
		}

		if !inString && !inLineComment && !inBlockComment && ch == ';' {
			currentCommand.WriteByte(ch)
			commands = append(commands, currentCommand.String())
			currentCommand.Reset()
			continue
		}

		currentCommand.WriteByte(ch)
	}

	if last := strings.TrimSpace(currentCommand.String()); last != "" {
		commands = append(commands, last)
	}

	return commands
}
