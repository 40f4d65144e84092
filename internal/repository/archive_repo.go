package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stadium/internal/domain"
)

type ArchiveRepository struct {
	db *gorm.DB
}

func NewArchiveRepository(db *gorm.DB) *ArchiveRepository {
	return &ArchiveRepository{db: db}
}

// List returns snapshots newest week first, for one facility or all of them
// when facility is empty.
func (r *ArchiveRepository) List(ctx context.Context, facility domain.FacilityType) ([]domain.ArchiveSnapshot, error) {
	q := r.db.WithContext(ctx).Order("week_start DESC, facility_type")
	if facility != "" {
		q = q.Where("facility_type = ?", string(facility))
	}
	var rows []archiveModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.ArchiveSnapshot, 0, len(rows))
	for _, m := range rows {
		a, err := toDomainArchive(m)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// Save upserts the snapshot keyed by (week start, facility).
func (r *ArchiveRepository) Save(ctx context.Context, a domain.ArchiveSnapshot) (*domain.ArchiveSnapshot, error) {
	payload, err := json.Marshal(a.Bookings)
	if err != nil {
		return nil, err
	}
	if a.SavedAt.IsZero() {
		a.SavedAt = time.Now().UTC()
	}
	m := archiveModel{
		ID:           uuid.NewString(),
		WeekStart:    a.WeekStart,
		WeekEnd:      a.WeekEnd,
		FacilityType: string(a.FacilityType),
		Bookings:     datatypes.JSON(payload),
		SavedAt:      a.SavedAt,
	}

	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "week_start"}, {Name: "facility_type"}},
		DoUpdates: clause.AssignmentColumns([]string{"week_end", "bookings", "saved_at"}),
	}).Create(&m).Error
	if err != nil {
		return nil, err
	}

	var saved archiveModel
	err = r.db.WithContext(ctx).
		Where("week_start = ? AND facility_type = ?", m.WeekStart, m.FacilityType).
		First(&saved).Error
	if err != nil {
		return nil, err
	}
	out, err := toDomainArchive(saved)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete reports false when no snapshot has id.
func (r *ArchiveRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&archiveModel{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ArchiveRepository) GetByID(ctx context.Context, id string) (*domain.ArchiveSnapshot, error) {
	var m archiveModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out, err := toDomainArchive(m)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func toDomainArchive(m archiveModel) (domain.ArchiveSnapshot, error) {
	var bookings []domain.Booking
	if len(m.Bookings) > 0 {
		if err := json.Unmarshal(m.Bookings, &bookings); err != nil {
			return domain.ArchiveSnapshot{}, err
		}
	}
	return domain.ArchiveSnapshot{
		ID:           m.ID,
		WeekStart:    m.WeekStart,
		WeekEnd:      m.WeekEnd,
		FacilityType: domain.FacilityType(m.FacilityType),
		Bookings:     bookings,
		SavedAt:      m.SavedAt,
	}, nil
}
