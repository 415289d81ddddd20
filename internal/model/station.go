package model

import "time"

// Station is a tank on a project's plating line.
type Station struct {
	ID                     int64   `gorm:"primaryKey"`
	ProjectID              string  `gorm:"size:64;not null;uniqueIndex:idx_station_project_number"`
	StationNumber          string  `gorm:"size:32;not null;uniqueIndex:idx_station_project_number"`
	PositionIndex          int     `gorm:"not null"`
	ProcessName            string  `gorm:"size:128"`
	TankLength             float64 `gorm:"not null;default:0"`
	TankWidth              float64 `gorm:"not null;default:0"`
	DistanceToNext         float64 `gorm:"not null;default:0"`
	IsLoadingStation       bool    `gorm:"not null;default:false"`
	IsUnloadingStation     bool    `gorm:"not null;default:false"`
	RequiresManualHandling bool    `gorm:"not null;default:false"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// ProcessMapEntry is a row of the legacy flat process map, used by projects
// that predate recipes.
type ProcessMapEntry struct {
	ID                     int64    `gorm:"primaryKey"`
	ProjectID              string   `gorm:"size:64;not null;index"`
	StationNumber          string   `gorm:"size:32;not null"`
	ProcessStep            int      `gorm:"not null"`
	Process                string   `gorm:"size:128"`
	DwellTime              *float64
	MinDwellTime           *float64
	MaxDwellTime           *float64
	DripTime               float64 `gorm:"not null;default:0"`
	TankLength             float64 `gorm:"not null;default:0"`
	TankWidth              float64 `gorm:"not null;default:0"`
	DistanceToNext         float64 `gorm:"not null;default:0"`
	IsLoadingStation       bool    `gorm:"not null;default:false"`
	IsUnloadingStation     bool    `gorm:"not null;default:false"`
	RequiresManualHandling bool    `gorm:"not null;default:false"`
}
