package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SAP-F-2025/crime-report-service/internal/models"
	"github.com/SAP-F-2025/crime-report-service/internal/repositories"
)

const (
	seedAdminPassword = "cherean"
	seedUserPassword  = "password123"
	seedUserCount     = 8
	seedReportCount   = 10
)

// Seeder fills an empty database with demo accounts and reports
type Seeder struct {
	repo    repositories.Repository
	reports ReportService
	logger  *slog.Logger
}

func NewSeeder(repo repositories.Repository, reports ReportService, logger *slog.Logger) *Seeder {
	return &Seeder{repo: repo, reports: reports, logger: logger}
}

// Seed returns false without writing anything when users already exist
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	count, err := s.repo.User().Count(ctx, nil)
	if err != nil {
		return false, err
	}
	if count > 0 {
		s.logger.Info("Skipping seed, users already exist", "users", count)
		return false, nil
	}

	s.logger.Info("Seeding database")

	admin, err := createAccount(ctx, s.repo, "Admin User", "cherean@admin.com", seedAdminPassword, models.RoleAdmin, adminPasswordCost)
	if err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}
	if _, err := createAccount(ctx, s.repo, "Second Admin", "admin2@admin.com", seedAdminPassword, models.RoleAdmin, adminPasswordCost); err != nil {
		return false, fmt.Errorf("failed to seed admin: %w", err)
	}

	for i := 1; i <= seedUserCount; i++ {
		email := fmt.Sprintf("user%d@example.com", i)
		if _, err := createAccount(ctx, s.repo, fmt.Sprintf("User %d", i), email, seedUserPassword, models.RoleUser, adminPasswordCost); err != nil {
			return false, fmt.Errorf("failed to seed user %s: %w", email, err)
		}
	}

	actor := ActorFromUser(admin)
	statuses := models.ReportStatuses()
	for i := 1; i <= seedReportCount; i++ {
		report, err := s.reports.Create(ctx, seedReport(i), actor)
		if err != nil {
			return false, fmt.Errorf("failed to seed report %d: %w", i, err)
		}

		if status := statuses[(i-1)%len(statuses)]; status != models.ReportStatusPending {
			if _, err := s.reports.UpdateStatus(ctx, report.ID, &UpdateReportStatusRequest{Status: status}, actor); err != nil {
				return false, fmt.Errorf("failed to seed status of %s: %w", report.ReportID, err)
			}
		}
	}

	s.logger.Info("Database seeded", "admins", 2, "users", seedUserCount, "reports", seedReportCount)
	return true, nil
}

func seedReport(i int) *CreateReportRequest {
	emergency := i%2 == 1
	lat := 9.0 + float64(i)*0.04
	lng := 38.7 + float64(i)*0.04
	location := fmt.Sprintf("Location %d, City Area", i)

	req := &CreateReportRequest{
		Title:        fmt.Sprintf("Non-Emergency Report %d", i),
		Description:  fmt.Sprintf("This is a non-critical incident report number %d. Please review when possible.", i),
		Location:     &location,
		Latitude:     &lat,
		Longitude:    &lng,
		Type:         models.ReportTypeNonEmergency,
		SpecificType: models.SpecificSuspiciousActivity,
	}
	if emergency {
		req.Title = fmt.Sprintf("Emergency Report %d", i)
		req.Description = fmt.Sprintf("This is a critical incident report number %d. Immediate attention required.", i)
		req.Type = models.ReportTypeEmergency
		req.SpecificType = models.SpecificViolence
	}
	if i%3 == 1 {
		image := "https://example.com/sample-image.jpg"
		req.Image = &image
	}
	return req
}
