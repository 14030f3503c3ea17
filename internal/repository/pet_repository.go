package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/patiklub/service-pets/internal/domain"
	petDomain "github.com/patiklub/service-pets/internal/domain/pet"
)

// PetModel is the GORM model for the pets table.
type PetModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	OwnerID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name       string     `gorm:"type:varchar(100);not null"`
	Species    string     `gorm:"type:varchar(50);not null"`
	Breed      string     `gorm:"type:varchar(100)"`
	Gender     string     `gorm:"type:varchar(20)"`
	BirthDate  *time.Time `gorm:"type:date"`
	Weight     *float64   `gorm:"type:decimal(5,2)"`
	ChipNumber string     `gorm:"type:varchar(30)"`
	AvatarURL  string     `gorm:"type:text"`
	Version    int64      `gorm:"not null;default:1"`
	CreatedAt  time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt  time.Time  `gorm:"type:timestamptz;not null;default:now()"`
	DeletedAt  *time.Time `gorm:"type:timestamptz;index"`
}

func (PetModel) TableName() string { return "pets" }

// GormPetRepository implements PetRepository using GORM.
type GormPetRepository struct {
	db *gorm.DB
}

func NewGormPetRepository(db *gorm.DB) *GormPetRepository {
	return &GormPetRepository{db: db}
}

func (r *GormPetRepository) Save(ctx context.Context, p *petDomain.Pet) error {
	model := toPetModel(p)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindOwnedActive looks up a pet by id, owner and liveness in one predicate
// so a foreign or soft-deleted pet is indistinguishable from a missing one.
func (r *GormPetRepository) FindOwnedActive(ctx context.Context, id, ownerID uuid.UUID) (*petDomain.Pet, error) {
	var model PetModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", id, ownerID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("pet", id.String())
		}
		return nil, err
	}
	return toPetDomain(&model), nil
}

func (r *GormPetRepository) FindActiveByOwner(ctx context.Context, ownerID uuid.UUID) ([]*petDomain.Pet, error) {
	var models []PetModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	pets := make([]*petDomain.Pet, len(models))
	for i, m := range models {
		pets[i] = toPetDomain(&m)
	}
	return pets, nil
}

func (r *GormPetRepository) CountActiveByOwner(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&PetModel{}).
		Where("owner_id = ? AND deleted_at IS NULL", ownerID).
		Count(&count).Error
	return count, err
}

func (r *GormPetRepository) Update(ctx context.Context, p *petDomain.Pet) error {
	model := toPetModel(p)
	previousVersion := p.Version() - 1

	result := r.db.WithContext(ctx).
		Model(&PetModel{}).
		Where("id = ? AND version = ? AND deleted_at IS NULL", model.ID, previousVersion).
		Select("name", "species", "breed", "gender", "birth_date", "weight",
			"chip_number", "avatar_url", "version", "updated_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("pet was modified by another transaction")
	}
	return nil
}

// SoftDelete stamps deleted_at in a single conditional statement. An
// already-deleted or foreign pet matches no row and reports not found.
func (r *GormPetRepository) SoftDelete(ctx context.Context, id, ownerID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&PetModel{}).
		Where("id = ? AND owner_id = ? AND deleted_at IS NULL", id, ownerID).
		Updates(map[string]interface{}{"deleted_at": at, "updated_at": at})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("pet", id.String())
	}
	return nil
}

// --- Conversions ---

func toPetModel(p *petDomain.Pet) *PetModel {
	return &PetModel{
		ID:         p.ID(),
		OwnerID:    p.OwnerID(),
		Name:       p.Name(),
		Species:    p.Species(),
		Breed:      p.Breed(),
		Gender:     p.Gender(),
		BirthDate:  p.BirthDate(),
		Weight:     p.Weight(),
		ChipNumber: p.ChipNumber(),
		AvatarURL:  p.AvatarURL(),
		Version:    p.Version(),
		CreatedAt:  p.CreatedAt(),
		UpdatedAt:  p.UpdatedAt(),
		DeletedAt:  p.DeletedAt(),
	}
}

func toPetDomain(m *PetModel) *petDomain.Pet {
	return petDomain.Reconstruct(
		m.ID, m.OwnerID,
		m.Name, m.Species, m.Breed, m.Gender,
		m.BirthDate, m.Weight,
		m.ChipNumber, m.AvatarURL,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
		m.DeletedAt,
	)
}
