package service

import (
	"context"
	"errors"
	"strings"

	"campusboard/internal/models"
	"campusboard/internal/observability"
	"campusboard/internal/repository"

	"gorm.io/gorm"
)

// ReportService handles abuse-report intake and the admin review surface.
type ReportService struct {
	reportRepo  repository.ReportRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	isAdmin     func(ctx context.Context, userID uint) (bool, error)
}

type SubmitReportInput struct {
	ReporterID uint
	TargetType models.ReportTargetType
	TargetID   uint
	Reason     string
}

type ListReportsInput struct {
	UserID   uint
	Resolved *bool
	Limit    int
	Offset   int
}

// ReportPage is one page of the admin report queue.
type ReportPage struct {
	Reports []*models.Report `json:"reports"`
	Total   int64            `json:"total"`
}

func NewReportService(
	reportRepo repository.ReportRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	isAdmin func(ctx context.Context, userID uint) (bool, error),
) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		isAdmin:     isAdmin,
	}
}

// SubmitReport validates and stores a report against a post or comment.
// The same user reporting the same target twice is rejected; the unique
// index backs up the pre-check under concurrent duplicate submissions.
func (s *ReportService) SubmitReport(ctx context.Context, in SubmitReportInput) (*models.Report, error) {
	if !in.TargetType.Valid() {
		return nil, models.NewValidationError("Target type must be 'post' or 'comment'")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, models.NewValidationError("Reason is required")
	}
	if len(reason) > models.MaxReportReasonLen {
		return nil, models.NewValidationError("Reason too long (max 500 characters)")
	}

	target := models.ReportTarget{Type: in.TargetType, ID: in.TargetID}
	if err := s.targetExists(ctx, target); err != nil {
		return nil, err
	}

	dup, err := s.reportRepo.Exists(ctx, in.ReporterID, target)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, models.NewConflictError("You have already reported this content")
	}

	report := &models.Report{
		ReporterID: in.ReporterID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Reason:     reason,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		if errors.Is(err, repository.ErrDuplicateReport) {
			return nil, models.NewConflictError("You have already reported this content")
		}
		return nil, err
	}

	observability.ReportsSubmitted.WithLabelValues(string(in.TargetType)).Inc()
	return s.reportRepo.GetByID(ctx, report.ID)
}

// ListReports returns the report queue for admin review, optionally
// filtered by resolution state.
func (s *ReportService) ListReports(ctx context.Context, in ListReportsInput) (*ReportPage, error) {
	if err := s.requireAdmin(ctx, in.UserID); err != nil {
		return nil, err
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Offset < 0 {
		in.Offset = 0
	}

	reports, total, err := s.reportRepo.List(ctx, in.Resolved, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	return &ReportPage{Reports: reports, Total: total}, nil
}

// ResolveReport marks a report handled (or reopens it). Admin only.
func (s *ReportService) ResolveReport(ctx context.Context, userID, reportID uint, resolved bool) (*models.Report, error) {
	if err := s.requireAdmin(ctx, userID); err != nil {
		return nil, err
	}

	if _, err := s.reportRepo.GetByID(ctx, reportID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Report", reportID)
		}
		return nil, err
	}

	if err := s.reportRepo.SetResolved(ctx, reportID, resolved); err != nil {
		return nil, err
	}
	return s.reportRepo.GetByID(ctx, reportID)
}

func (s *ReportService) requireAdmin(ctx context.Context, userID uint) error {
	if s.isAdmin == nil {
		return models.NewUnauthorizedError("Admin access required")
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return models.NewUnauthorizedError("Admin access required")
	}
	return nil
}

// targetExists confirms the reported content is real. Reports against
// deleted or fabricated ids are rejected rather than stored for
// moderators to chase.
func (s *ReportService) targetExists(ctx context.Context, target models.ReportTarget) error {
	var err error
	switch target.Type {
	case models.ReportTargetPost:
		_, err = s.postRepo.GetByID(ctx, target.ID, 0)
	case models.ReportTargetComment:
		_, err = s.commentRepo.GetByID(ctx, target.ID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Reported content", target.ID)
		}
		return err
	}
	return nil
}
