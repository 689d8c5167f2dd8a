package services

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/crime-report-service/internal/events"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
)

type testEnv struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	publisher *events.MockEventPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every caller on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, postgres.AutoMigrate(db))

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	require.NoError(t, repo.ReportCounter().Ensure(context.Background(), nil, models.ReportCounterName))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testEnv{
		db:        db,
		repo:      repo,
		logger:    log,
		validator: validator.New(),
		publisher: events.NewMockEventPublisher(log),
	}
}

func (e *testEnv) reportService(opts ...ReportServiceOption) ReportService {
	return NewReportService(e.repo, e.db, e.logger, e.validator, e.publisher, opts...)
}

func strPtr(s string) *string { return &s }

func validCreateRequest() *CreateReportRequest {
	return &CreateReportRequest{
		Title:        "Car window smashed",
		Description:  "Rear window of a parked car was broken overnight",
		Location:     strPtr("Marina Road"),
		Type:         models.ReportTypeNonEmergency,
		SpecificType: models.SpecificVandalism,
	}
}

var (
	adminActor     = &Actor{ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin}
	moderatorActor = &Actor{ID: "mod-1", Email: "mod@example.com", Role: models.RoleModerator}
	userActor      = &Actor{ID: "user-1", Email: "user@example.com", Role: models.RoleUser}
)
