package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
)

// setupTestDB opens an in-memory SQLite database with the full schema.
// A single connection keeps every caller on the same in-memory database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "could not open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

func setupTestRepository(t *testing.T) repositories.Repository {
	t.Helper()
	repo := NewPostgreSQLRepository(RepositoryConfig{DB: setupTestDB(t)})
	require.NoError(t, repo.ReportCounter().Ensure(context.Background(), nil, models.ReportCounterName))
	return repo
}

func newTestReport(reportID string, typ models.ReportType, specific models.SpecificType) *models.Report {
	return &models.Report{
		ReportID:     reportID,
		Title:        "Report " + reportID,
		Description:  "Something happened near the market",
		Type:         typ,
		SpecificType: specific,
		Status:       models.ReportStatusPending,
	}
}

func TestReportRepository_CreateAndGet(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	report := newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificVandalism)
	require.NoError(t, repo.Report().Create(ctx, nil, report))
	require.NotEmpty(t, report.ID)

	byID, err := repo.Report().GetByID(ctx, nil, report.ID)
	require.NoError(t, err)
	assert.Equal(t, "REP001", byID.ReportID)
	assert.Equal(t, models.ReportStatusPending, byID.Status)

	byReportID, err := repo.Report().GetByReportID(ctx, nil, "REP001")
	require.NoError(t, err)
	assert.Equal(t, report.ID, byReportID.ID)

	_, err = repo.Report().GetByID(ctx, nil, "missing")
	assert.True(t, repositories.IsNotFoundError(err), "expected not found, got %v", err)

	_, err = repo.Report().GetByReportID(ctx, nil, "REP999")
	assert.True(t, repositories.IsNotFoundError(err), "expected not found, got %v", err)
}

func TestReportRepository_DuplicateReportID(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Report().Create(ctx, nil, newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificVandalism)))
	err := repo.Report().Create(ctx, nil, newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificPublicDisturbance))
	assert.Error(t, err)
}

func TestReportRepository_List(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	fixtures := []*models.Report{
		newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificVandalism),
		newTestReport("REP002", models.ReportTypeEmergency, models.SpecificFireOutbreak),
		newTestReport("REP003", models.ReportTypeNonEmergency, models.SpecificPublicDisturbance),
	}
	base := time.Now().Add(-time.Hour)
	for i, r := range fixtures {
		r.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Report().Create(ctx, nil, r))
	}
	_, err := repo.Report().CompareAndSetStatus(ctx, nil, fixtures[2].ID, models.ReportStatusPending, models.ReportStatusResolved)
	require.NoError(t, err)

	nonEmergency := models.ReportTypeNonEmergency
	resolved := models.ReportStatusResolved
	fire := models.SpecificFireOutbreak

	tests := []struct {
		name    string
		filters repositories.ReportFilters
		want    []string
	}{
		{name: "all newest first", want: []string{"REP003", "REP002", "REP001"}},
		{name: "by type", filters: repositories.ReportFilters{Type: &nonEmergency}, want: []string{"REP003", "REP001"}},
		{name: "by status", filters: repositories.ReportFilters{Status: &resolved}, want: []string{"REP003"}},
		{name: "by specific type", filters: repositories.ReportFilters{SpecificType: &fire}, want: []string{"REP002"}},
		{name: "combined no match", filters: repositories.ReportFilters{Type: &nonEmergency, SpecificType: &fire}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reports, err := repo.Report().List(ctx, nil, tt.filters)
			require.NoError(t, err)
			got := make([]string, 0, len(reports))
			for _, r := range reports {
				got = append(got, r.ReportID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReportRepository_CompareAndSetStatus(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	report := newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificVandalism)
	require.NoError(t, repo.Report().Create(ctx, nil, report))

	ok, err := repo.Report().CompareAndSetStatus(ctx, nil, report.ID, models.ReportStatusPending, models.ReportStatusInProgress)
	require.NoError(t, err)
	assert.True(t, ok)

	// stale expectation loses
	ok, err = repo.Report().CompareAndSetStatus(ctx, nil, report.ID, models.ReportStatusPending, models.ReportStatusDismissed)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.Report().GetByID(ctx, nil, report.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusInProgress, got.Status)

	ok, err = repo.Report().CompareAndSetStatus(ctx, nil, "missing", models.ReportStatusPending, models.ReportStatusResolved)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestReportRepository_Delete(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	report := newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificVandalism)
	require.NoError(t, repo.Report().Create(ctx, nil, report))

	require.NoError(t, repo.Report().Delete(ctx, nil, report.ID))
	_, err := repo.Report().GetByID(ctx, nil, report.ID)
	assert.True(t, repositories.IsNotFoundError(err))

	err = repo.Report().Delete(ctx, nil, report.ID)
	assert.True(t, repositories.IsNotFoundError(err), "second delete should be not found, got %v", err)
}

func TestReportCounterRepository_Next(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.ReportCounter().Next(ctx, nil, models.ReportCounterName)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	// a counter that was never ensured is created on first use
	got, err := repo.ReportCounter().Next(ctx, nil, "other")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestReportCounterRepository_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	ids := make(chan string, workers)
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
				n, err := tx.ReportCounter().Next(ctx, nil, models.ReportCounterName)
				if err != nil {
					return err
				}
				report := newTestReport(models.FormatReportID(n), models.ReportTypeNonEmergency, models.SpecificVandalism)
				if err := tx.Report().Create(ctx, nil, report); err != nil {
					return err
				}
				ids <- report.ReportID
				return nil
			})
			if err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(ids)
	close(errs)

	for err := range errs {
		t.Errorf("create failed: %v", err)
	}

	seen := make(map[string]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate report id %s", id)
		seen[id] = true
	}
	assert.Len(t, seen, workers)
	for i := 1; i <= workers; i++ {
		assert.True(t, seen[models.FormatReportID(int64(i))], "missing %s", models.FormatReportID(int64(i)))
	}
}

func TestWithTransaction_Rollback(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := repo.WithTransaction(ctx, func(tx repositories.Repository) error {
		if _, err := tx.ReportCounter().Next(ctx, nil, models.ReportCounterName); err != nil {
			return err
		}
		if err := tx.Report().Create(ctx, nil, newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificVandalism)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	count, err := repo.Report().Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	// the counter increment rolled back as well
	n, err := repo.ReportCounter().Next(ctx, nil, models.ReportCounterName)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReportTransitionRepository(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	report := newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificVandalism)
	require.NoError(t, repo.Report().Create(ctx, nil, report))

	pending := models.ReportStatusPending
	base := time.Now()
	entries := []*models.ReportStatusTransition{
		{ReportID: report.ID, ToStatus: models.ReportStatusPending, CreatedAt: base},
		{ReportID: report.ID, FromStatus: &pending, ToStatus: models.ReportStatusResolved, CreatedAt: base.Add(time.Second)},
	}
	for _, e := range entries {
		require.NoError(t, repo.ReportTransition().Create(ctx, nil, e))
	}

	history, err := repo.ReportTransition().ListByReport(ctx, nil, report.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Nil(t, history[0].FromStatus)
	assert.Equal(t, models.ReportStatusResolved, history[1].ToStatus)

	require.NoError(t, repo.ReportTransition().DeleteByReport(ctx, nil, report.ID))
	history, err = repo.ReportTransition().ListByReport(ctx, nil, report.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestUserRepository(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	user := &models.User{Name: "Ana", Email: " Ana@Example.com ", PasswordHash: "hash"}
	require.NoError(t, repo.User().Create(ctx, nil, user))
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)

	got, err := repo.User().GetByEmail(ctx, nil, "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	exists, err := repo.User().ExistsByEmail(ctx, nil, "ana@example.com", "")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.User().ExistsByEmail(ctx, nil, "ana@example.com", user.ID)
	require.NoError(t, err)
	assert.False(t, exists, "own email must not count as taken")

	user.Role = models.RoleModerator
	user.Name = "Ana Maria"
	require.NoError(t, repo.User().Update(ctx, nil, user))

	got, err = repo.User().GetByID(ctx, nil, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", got.Name)
	assert.Equal(t, models.RoleModerator, got.Role)

	moderators, err := repo.User().CountByRole(ctx, nil, models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, int64(1), moderators)

	require.NoError(t, repo.User().Delete(ctx, nil, user.ID))
	err = repo.User().Delete(ctx, nil, user.ID)
	assert.True(t, repositories.IsNotFoundError(err))

	err = repo.User().Update(ctx, nil, &models.User{ID: "missing", Email: "x@example.com"})
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestNotificationRepository(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 3; i++ {
		n := &models.Notification{
			Type:      models.NotificationInfo,
			Title:     fmt.Sprintf("Notice %d", i),
			Message:   "New report submitted",
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, repo.Notification().Create(ctx, nil, n))
	}

	list, err := repo.Notification().List(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Notice 2", list[0].Title)
	assert.False(t, list[0].Read)

	require.NoError(t, repo.Notification().SetRead(ctx, nil, list[0].ID, true))
	got, err := repo.Notification().GetByID(ctx, nil, list[0].ID)
	require.NoError(t, err)
	assert.True(t, got.Read)

	assert.True(t, repositories.IsNotFoundError(repo.Notification().SetRead(ctx, nil, "missing", true)))

	require.NoError(t, repo.Notification().Delete(ctx, nil, list[1].ID))
	assert.True(t, repositories.IsNotFoundError(repo.Notification().Delete(ctx, nil, list[1].ID)))

	deleted, err := repo.Notification().DeleteAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestDashboardRepository(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.Report().Create(ctx, nil, newTestReport("REP001", models.ReportTypeNonEmergency, models.SpecificVandalism)))
	require.NoError(t, repo.Report().Create(ctx, nil, newTestReport("REP002", models.ReportTypeNonEmergency, models.SpecificVandalism)))
	old := newTestReport("REP003", models.ReportTypeEmergency, models.SpecificFireOutbreak)
	old.CreatedAt = time.Now().AddDate(-2, 0, 0)
	require.NoError(t, repo.Report().Create(ctx, nil, old))
	require.NoError(t, repo.User().Create(ctx, nil, &models.User{Name: "A", Email: "a@example.com", Role: models.RoleAdmin}))

	byStatus, err := repo.Dashboard().CountReportsByStatus(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), byStatus[models.ReportStatusPending])

	byType, err := repo.Dashboard().CountReportsByType(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), byType[models.ReportTypeNonEmergency])
	assert.Equal(t, int64(1), byType[models.ReportTypeEmergency])

	bySpecific, err := repo.Dashboard().CountReportsBySpecificType(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), bySpecific[models.SpecificVandalism])

	byRole, err := repo.Dashboard().CountUsersByRole(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), byRole[models.RoleAdmin])

	times, err := repo.Dashboard().ReportCreationTimes(ctx, nil, time.Now().AddDate(-1, 0, 0))
	require.NoError(t, err)
	assert.Len(t, times, 2)
}
