package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/community-ops/internal/dashboard"
)

type MetricSnapshotRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	CommunityID string `gorm:"index"`
	MetricID    string
	Value       float64
	Unit        string
	AsOf        time.Time
}

func (MetricSnapshotRecord) TableName() string {
	return "metric_snapshots"
}

type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) dashboard.RepositoryAPI {
	return &SnapshotRepository{db: db}
}

func (r *SnapshotRepository) GetByCommunity(communityID string) ([]*dashboard.MetricSnapshot, error) {
	var records []*MetricSnapshotRecord
	err := r.db.Where("community_id = ?", communityID).
		Order("metric_id ASC").Find(&records).Error
	if err != nil {
		return nil, err
	}

	out := make([]*dashboard.MetricSnapshot, len(records))
	for i, rec := range records {
		out[i] = &dashboard.MetricSnapshot{
			CommunityID: rec.CommunityID,
			MetricID:    rec.MetricID,
			Value:       rec.Value,
			Unit:        rec.Unit,
			AsOf:        rec.AsOf,
		}
	}
	return out, nil
}
