package model

import "time"

// Recipe is a named route through a project's stations.
type Recipe struct {
	ID              int64  `gorm:"primaryKey"`
	ProjectID       string `gorm:"size:64;not null;index"`
	Name            string `gorm:"size:128;not null"`
	Description     string `gorm:"type:text"`
	ProductionRatio int    `gorm:"not null"`
	IsActive        bool   `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Associations
	Steps []RecipeStep `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// RecipeStep is one station visit within a recipe.
type RecipeStep struct {
	ID            int64  `gorm:"primaryKey"`
	RecipeID      int64  `gorm:"not null;index"`
	StationNumber string `gorm:"size:32;not null"`
	StepOrder     int    `gorm:"not null"`
	DwellTime     *float64
	MinDwellTime  *float64
	MaxDwellTime  *float64
	DripTime      float64 `gorm:"not null;default:0"`
	Notes         string  `gorm:"type:text"`
}
