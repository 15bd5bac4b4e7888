// File: internal/projectmode/repository.go
package projectmode

import (
	"context"
	"errors"

	"scholar_directory_backend/internal/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for application setting persistence.
type Repository interface {
	Get(ctx context.Context, key string) (*AppSetting, error)
	Upsert(ctx context.Context, setting *AppSetting) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM app settings repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Get(ctx context.Context, key string) (*AppSetting, error) {
	var setting AppSetting
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Setting not found.")
		}
		return nil, err
	}
	return &setting, nil
}

func (r *gormRepository) Upsert(ctx context.Context, setting *AppSetting) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(setting).Error
}
