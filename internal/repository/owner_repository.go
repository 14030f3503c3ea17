package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	ownerDomain "github.com/patiklub/service-pets/internal/domain/owner"
)

// OwnerProfileModel is the GORM model for the owner_profiles table. The
// primary key is the verified subject id from the identity provider.
type OwnerProfileModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DefaultPetID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt    time.Time  `gorm:"type:timestamptz;not null;default:now()"`
}

func (OwnerProfileModel) TableName() string { return "owner_profiles" }

// GormOwnerRepository implements ProfileRepository using GORM.
type GormOwnerRepository struct {
	db *gorm.DB
}

func NewGormOwnerRepository(db *gorm.DB) *GormOwnerRepository {
	return &GormOwnerRepository{db: db}
}

func (r *GormOwnerRepository) GetOrCreate(ctx context.Context, id uuid.UUID) (*ownerDomain.Profile, error) {
	var model OwnerProfileModel
	now := time.Now().UTC()
	err := r.db.WithContext(ctx).
		Where(OwnerProfileModel{ID: id}).
		Attrs(OwnerProfileModel{CreatedAt: now, UpdatedAt: now}).
		FirstOrCreate(&model).Error
	if err != nil {
		return nil, err
	}
	return ownerDomain.Reconstruct(model.ID, model.DefaultPetID, model.CreatedAt, model.UpdatedAt), nil
}

func (r *GormOwnerRepository) SetDefaultPet(ctx context.Context, ownerID, petID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&OwnerProfileModel{}).
		Where("id = ?", ownerID).
		Updates(map[string]interface{}{
			"default_pet_id": petID,
			"updated_at":     time.Now().UTC(),
		}).Error
}

// SetDefaultPetIfUnset is the guarded first-pet assignment: the null check
// lives in the statement itself so two concurrent creations cannot both win.
func (r *GormOwnerRepository) SetDefaultPetIfUnset(ctx context.Context, ownerID, petID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&OwnerProfileModel{}).
		Where("id = ? AND default_pet_id IS NULL", ownerID).
		Updates(map[string]interface{}{
			"default_pet_id": petID,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ClearDefaultPet nulls the reference only while it still points at petID,
// so a concurrent reassignment is never clobbered.
func (r *GormOwnerRepository) ClearDefaultPet(ctx context.Context, ownerID, petID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&OwnerProfileModel{}).
		Where("id = ? AND default_pet_id = ?", ownerID, petID).
		Updates(map[string]interface{}{
			"default_pet_id": nil,
			"updated_at":     time.Now().UTC(),
		}).Error
}
