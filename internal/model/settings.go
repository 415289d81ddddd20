package model

import "time"

// SimulationParameters is the project's single parameters record.
type SimulationParameters struct {
	ProjectID            string `gorm:"primaryKey;size:64"`
	ProcessLines         int    `gorm:"not null"`
	HasTransferShuttle   bool   `gorm:"not null"`
	CalculatedHoistCount int    `gorm:"not null;default:0"`
	ManualHoistCount     *int
	MaxHoistCount        *int
	HoistSpeedHorizontal float64 `gorm:"not null"`
	HoistSpeedVertical   float64 `gorm:"not null"`
	HoistAcceleration    float64 `gorm:"not null"`
	LiftHeight           *float64
	TransferTime         float64 `gorm:"not null"`
	PartsPerRack         int     `gorm:"not null"`
	RackSpacing          float64 `gorm:"not null"`
	WorkingHoursPerDay   float64 `gorm:"not null"`
	WorkingDaysPerWeek   int     `gorm:"not null"`
	PartLoadTime         float64 `gorm:"not null"`
	PartUnloadTime       float64 `gorm:"not null"`
	OptimizationTarget   string  `gorm:"size:16;not null"`
	UpdatedAt            time.Time
}

// ProductionGoal is the project's single production target record.
type ProductionGoal struct {
	ProjectID           string `gorm:"primaryKey;size:64"`
	PrimaryTarget       string `gorm:"size:8;not null"`
	TargetPartsPerHour  *float64
	TargetPartsPerDay   *float64
	TargetPartsPerWeek  *float64
	TargetPartsPerMonth *float64
	TargetPartsPerYear  *float64
	UpdatedAt           time.Time
}
