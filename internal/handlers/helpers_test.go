package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/crime-report-service/internal/config"
	"github.com/SAP-F-2025/crime-report-service/internal/events"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories/postgres"
	"github.com/SAP-F-2025/crime-report-service/internal/services"
	"github.com/SAP-F-2025/crime-report-service/internal/utils"
	"github.com/SAP-F-2025/crime-report-service/internal/validator"
	"github.com/SAP-F-2025/crime-report-service/internal/vision"
)

const testSecret = "handler-test-secret"

type testServer struct {
	router    *gin.Engine
	services  services.ServiceManager
	publisher *events.MockEventPublisher

	adminToken     string
	moderatorToken string
	userToken      string
	adminID        string
}

func newTestServer(t *testing.T, allowAnonymous bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, postgres.AutoMigrate(db))

	repo := postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
	require.NoError(t, repo.ReportCounter().Ensure(context.Background(), nil, models.ReportCounterName))

	slogger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher := events.NewMockEventPublisher(slogger)

	sm := services.NewServiceManager(db, repo, slogger, validator.New(),
		services.Dependencies{Publisher: publisher, Vision: vision.NewStubClient("")},
		services.ServiceManagerConfig{
			AuthProvider: config.AuthProviderLocal,
			Auth: config.AuthConfig{
				Provider:  config.AuthProviderLocal,
				JWTSecret: testSecret,
				JWTTTL:    time.Hour,
			},
		})
	require.NoError(t, sm.Initialize(context.Background()))

	log := utils.NewSlogLogger(slogger)
	router := gin.New()
	SetupMiddleware(router, log)
	NewHandlerManager(sm, log, allowAnonymous).SetupRoutes(router)

	ts := &testServer{router: router, services: sm, publisher: publisher}
	ts.adminID, ts.adminToken = ts.account(t, "admin@example.com", models.RoleAdmin)
	_, ts.moderatorToken = ts.account(t, "mod@example.com", models.RoleModerator)
	_, ts.userToken = ts.account(t, "user@example.com", models.RoleUser)
	return ts
}

func (ts *testServer) account(t *testing.T, email string, role models.UserRole) (string, string) {
	t.Helper()
	user, err := ts.services.User().Create(context.Background(), &services.CreateUserRequest{
		Name:     string(role) + " account",
		Email:    email,
		Password: "password123",
		Role:     role,
	})
	require.NoError(t, err)

	token, _, err := ts.services.Auth().IssueToken(user)
	require.NoError(t, err)
	return user.ID, token
}

// do sends body as JSON when it is not nil
func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func reportBody() map[string]interface{} {
	return map[string]interface{}{
		"title":         "Car window smashed",
		"description":   "Rear window of a parked car was broken overnight",
		"location":      "Marina Road",
		"type":          models.ReportTypeNonEmergency,
		"specific_type": models.SpecificVandalism,
	}
}

func requireStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, w.Code, "body: %s", w.Body.String())
}
