package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SAP-F-2025/crime-report-service/internal/cache"
	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
)

const (
	dashboardCacheKey = "dashboard"
	dashboardMonths   = 12
	monthLayout       = "2006-01"
)

type dashboardService struct {
	repo   repositories.Repository
	cache  *cache.CacheManager
	logger *slog.Logger
	now    func() time.Time
}

func NewDashboardService(repo repositories.Repository, cacheManager *cache.CacheManager, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		cache:  cacheManager,
		logger: logger,
		now:    time.Now,
	}
}

// Stats is served from the stats cache; report and user writes drop the entry
func (s *dashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	err := s.cache.Stats.CacheOrExecute(ctx, dashboardCacheKey, &stats, cache.StatsCacheConfig.TTL, func() (interface{}, error) {
		return s.compute(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get dashboard stats: %w", err)
	}
	return &stats, nil
}

func (s *dashboardService) compute(ctx context.Context) (*models.DashboardStats, error) {
	dashboard := s.repo.Dashboard()
	now := s.now().UTC()

	byStatus, err := dashboard.CountReportsByStatus(ctx, nil)
	if err != nil {
		return nil, err
	}
	byType, err := dashboard.CountReportsByType(ctx, nil)
	if err != nil {
		return nil, err
	}
	bySpecificType, err := dashboard.CountReportsBySpecificType(ctx, nil)
	if err != nil {
		return nil, err
	}
	byRole, err := dashboard.CountUsersByRole(ctx, nil)
	if err != nil {
		return nil, err
	}

	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(dashboardMonths - 1), 0)
	created, err := dashboard.ReportCreationTimes(ctx, nil, start)
	if err != nil {
		return nil, err
	}

	stats := &models.DashboardStats{
		ByStatus: models.StatusCounts{
			Pending:    byStatus[models.ReportStatusPending],
			InProgress: byStatus[models.ReportStatusInProgress],
			Resolved:   byStatus[models.ReportStatusResolved],
			Dismissed:  byStatus[models.ReportStatusDismissed],
		},
		ByType:         make(map[models.ReportType]int64),
		BySpecificType: make(map[models.SpecificType]int64),
		UsersByRole:    make(map[models.UserRole]int64),
		Monthly:        monthlyBuckets(start, created),
		GeneratedAt:    now,
	}

	// zero-filled so every enumeration value is present
	for _, t := range models.ReportTypes() {
		stats.ByType[t] = byType[t]
	}
	for _, t := range models.SpecificTypes() {
		stats.BySpecificType[t] = bySpecificType[t]
	}
	for _, role := range []models.UserRole{models.RoleAdmin, models.RoleModerator, models.RoleUser} {
		stats.UsersByRole[role] = byRole[role]
		stats.TotalUsers += byRole[role]
	}
	for _, count := range byStatus {
		stats.TotalReports += count
	}
	if stats.TotalReports > 0 {
		stats.ResolutionRate = float64(stats.ByStatus.Resolved) / float64(stats.TotalReports)
	}

	s.logger.Debug("Dashboard stats computed", "total_reports", stats.TotalReports, "total_users", stats.TotalUsers)
	return stats, nil
}

// monthlyBuckets counts timestamps into consecutive YYYY-MM buckets starting at start
func monthlyBuckets(start time.Time, created []time.Time) []models.MonthlyCount {
	buckets := make([]models.MonthlyCount, dashboardMonths)
	index := make(map[string]int, dashboardMonths)
	for i := range buckets {
		month := start.AddDate(0, i, 0).Format(monthLayout)
		buckets[i].Month = month
		index[month] = i
	}

	for _, ts := range created {
		if i, ok := index[ts.UTC().Format(monthLayout)]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}
