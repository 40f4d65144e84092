package repository

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"stadium/internal/domain"
)

// ReorganizationRepository stores section rewrites together with the last
// snapshot per facility.
type ReorganizationRepository struct {
	db *gorm.DB
}

func NewReorganizationRepository(db *gorm.DB) *ReorganizationRepository {
	return &ReorganizationRepository{db: db}
}

// Apply replaces the facility snapshot and rewrites the sections in one
// transaction.
func (r *ReorganizationRepository) Apply(ctx context.Context, snapshot domain.ReorganizationSnapshot, updates []domain.SectionChange) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("facility_type = ?", string(snapshot.FacilityType)).Delete(&reorganizationModel{}).Error; err != nil {
			return err
		}
		m := reorganizationModel{
			FacilityType: string(snapshot.FacilityType),
			Changes:      datatypes.JSONSlice[domain.SectionChange](snapshot.Changes),
			CreatedAt:    snapshot.CreatedAt,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		_, err := rewriteSections(tx, updates)
		return err
	})
}

// Latest returns the facility snapshot, or nil when there is none.
func (r *ReorganizationRepository) Latest(ctx context.Context, facility domain.FacilityType) (*domain.ReorganizationSnapshot, error) {
	var m reorganizationModel
	err := r.db.WithContext(ctx).
		Where("facility_type = ?", string(facility)).
		Order("id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.ReorganizationSnapshot{
		ID:           m.ID,
		FacilityType: domain.FacilityType(m.FacilityType),
		Changes:      []domain.SectionChange(m.Changes),
		CreatedAt:    m.CreatedAt,
	}, nil
}

// Restore writes the saved sections back and drops the snapshot. It
// returns how many bookings still existed.
func (r *ReorganizationRepository) Restore(ctx context.Context, snapshot domain.ReorganizationSnapshot) (int, error) {
	var n int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if n, err = rewriteSections(tx, snapshot.Changes); err != nil {
			return err
		}
		return tx.Delete(&reorganizationModel{}, snapshot.ID).Error
	})
	return n, err
}
