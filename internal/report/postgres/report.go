package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/community-ops/internal/report"
)

// ReportRecord is the persistence shape. The layout serializes to one JSON
// document via the Layout Valuer/Scanner so component order survives the
// round-trip.
type ReportRecord struct {
	ID           string `gorm:"primaryKey"`
	Name         string
	Description  string
	CreatedBy    string
	LastModified time.Time
	IsTemplate   bool
	IsPublic     bool
	Layout       report.Layout `gorm:"type:jsonb"`
	Revision     int64
}

func (ReportRecord) TableName() string {
	return "reports"
}

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) List(isTemplate bool) ([]*report.Report, error) {
	var records []*ReportRecord
	err := r.db.Where("is_template = ?", isTemplate).
		Order("last_modified DESC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	reports := make([]*report.Report, len(records))
	for i, rec := range records {
		reports[i] = toDomain(rec)
	}
	return reports, nil
}

func (r *ReportRepository) Get(id string) (*report.Report, error) {
	var rec ReportRecord
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&rec), nil
}

func (r *ReportRepository) Create(rpt *report.Report) error {
	return r.db.Create(toRecord(rpt)).Error
}

// UpdateWithRevision is the optimistic-concurrency write: the row is only
// touched when the stored revision still matches what the caller read.
func (r *ReportRepository) UpdateWithRevision(rpt *report.Report, expectedRevision int64) (bool, error) {
	result := r.db.Model(&ReportRecord{}).
		Where("id = ? AND revision = ?", rpt.ID, expectedRevision).
		Updates(map[string]interface{}{
			"name":          rpt.Name,
			"description":   rpt.Description,
			"is_public":     rpt.Permissions.IsPublic,
			"layout":        rpt.Layout,
			"revision":      rpt.Revision,
			"last_modified": rpt.LastModified,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *ReportRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&ReportRecord{}).Error
}

func toDomain(rec *ReportRecord) *report.Report {
	return &report.Report{
		ID:           rec.ID,
		Name:         rec.Name,
		Description:  rec.Description,
		CreatedBy:    rec.CreatedBy,
		LastModified: rec.LastModified,
		IsTemplate:   rec.IsTemplate,
		Permissions:  report.Permissions{IsPublic: rec.IsPublic},
		Layout:       rec.Layout,
		Revision:     rec.Revision,
	}
}

func toRecord(rpt *report.Report) *ReportRecord {
	return &ReportRecord{
		ID:           rpt.ID,
		Name:         rpt.Name,
		Description:  rpt.Description,
		CreatedBy:    rpt.CreatedBy,
		LastModified: rpt.LastModified,
		IsTemplate:   rpt.IsTemplate,
		IsPublic:     rpt.Permissions.IsPublic,
		Layout:       rpt.Layout,
		Revision:     rpt.Revision,
	}
}
