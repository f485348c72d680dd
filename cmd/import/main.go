// Command import loads the "Dados" and "FuncaoExames" CSV exports into the
// Postgres snapshot tables read by SOURCE_KIND=postgres.
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/spec-kit/exam-compliance/internal/config"
	"github.com/spec-kit/exam-compliance/internal/observability"
	"github.com/spec-kit/exam-compliance/internal/persistence"
	"github.com/spec-kit/exam-compliance/internal/repository"
	"github.com/spec-kit/exam-compliance/internal/source"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required for import")
	}
	if err := persistence.RunMigrations(ctx, pool, persistence.DefaultMigrationsDir, logger); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	csv := source.NewCSVSource(cfg.Source.RecordsCSVPath, cfg.Source.RolesCSVPath)

	records, err := csv.ExamRecords(ctx)
	if err != nil {
		logger.Fatal("failed to read exam records", zap.Error(err))
	}
	roles, err := csv.RoleRequirements(ctx)
	if err != nil {
		logger.Fatal("failed to read role requirements", zap.Error(err))
	}

	copiedRecords, err := repository.NewExamRecordRepository(pool).ReplaceAll(ctx, records)
	if err != nil {
		logger.Fatal("failed to store exam records", zap.Error(err))
	}
	copiedRoles, err := repository.NewRoleRequirementRepository(pool).ReplaceAll(ctx, roles)
	if err != nil {
		logger.Fatal("failed to store role requirements", zap.Error(err))
	}

	logger.Info("import finished",
		zap.Int64("exam_records", copiedRecords),
		zap.Int64("role_requirements", copiedRoles))
}
