package postgres

import (
	"encoding/json"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/community-ops/internal"
	"github.com/frahmantamala/community-ops/internal/accesscontrol"
	"github.com/frahmantamala/community-ops/internal/session"
)

// UserRecord is the persistence shape for dashboard users. The custom access
// config and the community assignment are stored as JSON documents so the
// closed-record decode in accesscontrol applies on every load.
type UserRecord struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex"`
	Name         string
	PasswordHash string
	Role         string
	TemplateID   *string
	CustomConfig []byte `gorm:"type:jsonb"`
	Communities  []byte `gorm:"type:jsonb"`
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserRecord) TableName() string {
	return "users"
}

type UserRepository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewUserRepository(db *gorm.DB, logger *slog.Logger) *UserRepository {
	return &UserRepository{db: db, logger: logger}
}

func (r *UserRepository) GetByEmail(email string) (*session.User, string, error) {
	var rec UserRecord
	if err := r.db.Where("email = ?", email).First(&rec).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", internal.ErrUserNotFound
		}
		return nil, "", err
	}

	user, err := r.toDomain(&rec)
	if err != nil {
		return nil, "", err
	}
	return user, rec.PasswordHash, nil
}

func (r *UserRepository) GetByID(id string) (*session.User, error) {
	var rec UserRecord
	if err := r.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return r.toDomain(&rec)
}

func (r *UserRepository) GetByRole(role accesscontrol.Role) (*session.User, error) {
	var rec UserRecord
	err := r.db.Where("role = ? AND is_active = ?", string(role), true).
		Order("email ASC").First(&rec).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, internal.ErrUserNotFound
		}
		return nil, err
	}
	return r.toDomain(&rec)
}

func (r *UserRepository) Create(user *session.User, passwordHash string) error {
	rec, err := r.toRecord(user, passwordHash)
	if err != nil {
		return err
	}
	return r.db.Create(rec).Error
}

func (r *UserRepository) toDomain(rec *UserRecord) (*session.User, error) {
	user := &session.User{
		ID:       rec.ID,
		Email:    rec.Email,
		Name:     rec.Name,
		Role:     accesscontrol.Role(rec.Role),
		IsActive: rec.IsActive,
	}

	if rec.TemplateID != nil {
		user.TemplateID = *rec.TemplateID
	}

	if len(rec.Communities) > 0 {
		if err := json.Unmarshal(rec.Communities, &user.Communities); err != nil {
			return nil, err
		}
	}

	if len(rec.CustomConfig) > 0 {
		cfg, err := accesscontrol.ParseConfig(rec.CustomConfig, r.logger)
		if err != nil {
			// A malformed stored config is a data-integrity error; surface it
			// at load time rather than letting resolution run on a partial record.
			return nil, err
		}
		user.CustomConfig = &cfg
	}

	return user, nil
}

func (r *UserRepository) toRecord(user *session.User, passwordHash string) (*UserRecord, error) {
	rec := &UserRecord{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: passwordHash,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
	}

	if user.TemplateID != "" {
		tid := user.TemplateID
		rec.TemplateID = &tid
	}

	if len(user.Communities) > 0 {
		data, err := json.Marshal(user.Communities)
		if err != nil {
			return nil, err
		}
		rec.Communities = data
	}

	if user.CustomConfig != nil {
		data, err := json.Marshal(user.CustomConfig)
		if err != nil {
			return nil, err
		}
		rec.CustomConfig = data
	}

	return rec, nil
}
