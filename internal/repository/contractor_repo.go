package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"stadium/internal/domain"
)

type ContractorRepository struct {
	db *gorm.DB
}

func NewContractorRepository(db *gorm.DB) *ContractorRepository {
	return &ContractorRepository{db: db}
}

func (r *ContractorRepository) List(ctx context.Context) ([]domain.Contractor, error) {
	var rows []contractorModel
	if err := r.db.WithContext(ctx).Order("name").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Contractor, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainContractor(m))
	}
	return out, nil
}

func (r *ContractorRepository) GetByID(ctx context.Context, id string) (*domain.Contractor, error) {
	var m contractorModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	c := toDomainContractor(m)
	return &c, nil
}

func (r *ContractorRepository) Create(ctx context.Context, c *domain.Contractor) error {
	m := toContractorModel(*c)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*c = toDomainContractor(m)
	return nil
}

func (r *ContractorRepository) Update(ctx context.Context, c *domain.Contractor) error {
	m := toContractorModel(*c)
	return r.db.WithContext(ctx).Model(&contractorModel{}).Where("id = ?", c.ID).Updates(map[string]any{
		"name":       m.Name,
		"category":   m.Category,
		"color":      m.Color,
		"updated_at": m.UpdatedAt,
	}).Error
}

func (r *ContractorRepository) Delete(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&contractorModel{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func toDomainContractor(m contractorModel) domain.Contractor {
	return domain.Contractor{
		ID:        m.ID,
		Name:      m.Name,
		Category:  domain.ContractorCategory(m.Category),
		Color:     m.Color,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func toContractorModel(c domain.Contractor) contractorModel {
	return contractorModel{
		ID:        c.ID,
		Name:      c.Name,
		Category:  string(c.Category),
		Color:     c.Color,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
