package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SimulationResult is an append-only snapshot of one simulation run.
type SimulationResult struct {
	ID                    int64     `gorm:"primaryKey"`
	RunID                 uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	ProjectID             string    `gorm:"size:64;not null;index:idx_result_project_date,priority:1"`
	Name                  string    `gorm:"size:200;not null"`
	Notes                 string    `gorm:"type:text"`
	Feasible              bool      `gorm:"not null"`
	Error                 string    `gorm:"type:text"`
	OptimizationTarget    string    `gorm:"size:16"`
	CycleTime             float64
	SuperCycleTime        float64
	TotalProcessTime      float64
	TotalTransferTime     float64
	TotalDripTime         float64
	HoistCount            int
	CalculatedHoistCount  int
	HoistUtilization      float64
	PartsPerHour          float64
	PartsPerDay           float64
	PartsPerWeek          float64
	PartsPerMonth         float64
	PartsPerYear          float64
	BottleneckStation     string `gorm:"size:64"`
	BottleneckKind        string `gorm:"size:16"`
	BottleneckDescription string `gorm:"type:text"`
	MeetsProductionGoal   bool
	RacksPerSuperCycle    int
	MovesPerCycle         int
	TotalRatio            int
	RecipeCount           int
	RatioApproximated     bool
	Recommendations       datatypes.JSON
	RecipeResults         datatypes.JSON
	StationUtilization    datatypes.JSON
	HoistZones            datatypes.JSON
	SimulationDate        time.Time `gorm:"not null;index:idx_result_project_date,priority:2,sort:desc"`
	CreatedAt             time.Time
}
