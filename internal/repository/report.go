package repository

import (
	"context"
	"errors"

	"campusboard/internal/models"

	"gorm.io/gorm"
)

// ErrDuplicateReport is returned when the (reporter, target) pair already
// has a report, whether caught by pre-lookup or by the unique index under
// a concurrent duplicate submission.
var ErrDuplicateReport = errors.New("duplicate report")

// ReportRepository defines interface for abuse report operations
type ReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	Exists(ctx context.Context, reporterID uint, target models.ReportTarget) (bool, error)
	GetByID(ctx context.Context, id uint) (*models.Report, error)
	List(ctx context.Context, resolved *bool, limit, offset int) ([]*models.Report, int64, error)
	SetResolved(ctx context.Context, id uint, resolved bool) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Create(ctx context.Context, report *models.Report) error {
	err := r.db.WithContext(ctx).Create(report).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateReport
	}
	return err
}

func (r *reportRepository) Exists(ctx context.Context, reporterID uint, target models.ReportTarget) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("reporter_id = ? AND target_type = ? AND target_id = ?", reporterID, target.Type, target.ID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reportRepository) GetByID(ctx context.Context, id uint) (*models.Report, error) {
	var report models.Report
	if err := r.db.WithContext(ctx).Preload("Reporter").First(&report, id).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) List(ctx context.Context, resolved *bool, limit, offset int) ([]*models.Report, int64, error) {
	base := r.db.WithContext(ctx).Model(&models.Report{})
	if resolved != nil {
		base = base.Where("resolved = ?", *resolved)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []*models.Report
	err := base.Preload("Reporter").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&reports).Error
	if err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *reportRepository) SetResolved(ctx context.Context, id uint, resolved bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Report{}).
		Where("id = ?", id).
		UpdateColumn("resolved", resolved).Error
}
