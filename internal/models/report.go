package models

import "time"

// ReportTargetType discriminates what a report points at.
type ReportTargetType string

// Report target types.
const (
	ReportTargetPost    ReportTargetType = "post"
	ReportTargetComment ReportTargetType = "comment"
)

// Valid reports whether t is a known target type.
func (t ReportTargetType) Valid() bool {
	return t == ReportTargetPost || t == ReportTargetComment
}

// ReportTarget is a tagged reference to either a post or a comment.
// Carrying the pair as one value keeps resolution type-checked instead of
// dispatching on a loose id at read time.
type ReportTarget struct {
	Type ReportTargetType `json:"type"`
	ID   uint             `json:"id"`
}

// MaxReportReasonLen bounds the free-text reason on a report.
const MaxReportReasonLen = 500

// Report is a flag raised by a user against a post or comment for
// moderator review. The composite unique index enforces at most one
// report per (reporter, target type, target id) tuple, including under
// concurrent duplicate submissions.
type Report struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	ReporterID uint             `gorm:"not null;uniqueIndex:idx_report_unique" json:"reporter_id"`
	Reporter   User             `gorm:"foreignKey:ReporterID" json:"reporter"`
	TargetType ReportTargetType `gorm:"not null;uniqueIndex:idx_report_unique" json:"target_type"`
	TargetID   uint             `gorm:"not null;uniqueIndex:idx_report_unique" json:"target_id"`
	Reason     string           `gorm:"size:500;not null" json:"reason"`
	Resolved   bool             `gorm:"not null;default:false" json:"resolved"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
}

// Target returns the report's tagged target reference.
func (r *Report) Target() ReportTarget {
	return ReportTarget{Type: r.TargetType, ID: r.TargetID}
}
