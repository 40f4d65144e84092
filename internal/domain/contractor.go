package domain

import "time"

type ContractorCategory string

const (
	CategoryRunningGroup   ContractorCategory = "running-group"
	CategorySportsTraining ContractorCategory = "sports-training"
	CategoryClosed         ContractorCategory = "closed"
)

// Contractor is a party that books sections. Color is a "#rrggbb" hex string.
type Contractor struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Category  ContractorCategory `json:"category"`
	Color     string             `json:"color"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

func ValidCategory(c ContractorCategory) bool {
	return c == CategoryRunningGroup || c == CategorySportsTraining
}
