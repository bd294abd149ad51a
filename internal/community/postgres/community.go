package postgres

import (
	"gorm.io/gorm"

	"github.com/frahmantamala/community-ops/internal/community"
)

type CommunityRecord struct {
	ID       string `gorm:"primaryKey"`
	Name     string
	Operator string
	Region   string
	State    string
}

func (CommunityRecord) TableName() string {
	return "communities"
}

type CommunityRepository struct {
	db *gorm.DB
}

func NewCommunityRepository(db *gorm.DB) community.RepositoryAPI {
	return &CommunityRepository{db: db}
}

func (r *CommunityRepository) GetAll() ([]*community.Community, error) {
	var records []*CommunityRecord
	if err := r.db.Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}

	out := make([]*community.Community, len(records))
	for i, rec := range records {
		out[i] = toDomain(rec)
	}
	return out, nil
}

func (r *CommunityRepository) GetByID(id string) (*community.Community, error) {
	var rec CommunityRecord
	err := r.db.Where("id = ?", id).First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return toDomain(&rec), nil
}

func (r *CommunityRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&CommunityRecord{}).Count(&n).Error
	return n, err
}

func toDomain(rec *CommunityRecord) *community.Community {
	return &community.Community{
		ID:       rec.ID,
		Name:     rec.Name,
		Operator: rec.Operator,
		Region:   rec.Region,
		State:    rec.State,
	}
}
