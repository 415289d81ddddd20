package simulation

import (
	"time"

	"github.com/google/uuid"

	"plating-line-backend/internal/line"
)

// Result is the immutable outcome of one simulation run. The first block of
// fields is the record consumed by the front end.
type Result struct {
	Name                  string    `json:"name"`
	Notes                 string    `json:"notes,omitempty"`
	CycleTime             float64   `json:"cycle_time"`
	TotalProcessTime      float64   `json:"total_process_time"`
	TotalTransferTime     float64   `json:"total_transfer_time"`
	TotalDripTime         float64   `json:"total_drip_time"`
	HoistCount            int       `json:"hoist_count"`
	HoistUtilization      float64   `json:"hoist_utilization"`
	PartsPerHour          float64   `json:"parts_per_hour"`
	PartsPerDay           float64   `json:"parts_per_day"`
	PartsPerWeek          float64   `json:"parts_per_week"`
	PartsPerMonth         float64   `json:"parts_per_month"`
	PartsPerYear          float64   `json:"parts_per_year"`
	BottleneckStation     string    `json:"bottleneck_station"`
	BottleneckDescription string    `json:"bottleneck_description"`
	Recommendations       []string  `json:"recommendations"`
	MeetsProductionGoal   bool      `json:"meets_production_goal"`
	SimulationDate        time.Time `json:"simulation_date"`

	RunID                uuid.UUID               `json:"run_id"`
	Feasible             bool                    `json:"feasible"`
	Error                string                  `json:"error,omitempty"`
	Issues               []line.ValidationError  `json:"issues,omitempty"`
	OptimizationTarget   line.OptimizationTarget `json:"optimization_target"`
	CalculatedHoistCount int                     `json:"calculated_hoist_count"`
	BottleneckKind       string                  `json:"bottleneck_kind,omitempty"`
	SuperCycleTime       float64                 `json:"super_cycle_time"`
	RacksPerSuperCycle   int                     `json:"racks_per_super_cycle"`
	MovesPerCycle        int                     `json:"moves_per_cycle"`
	TotalRatio           int                     `json:"total_ratio"`
	RecipeCount          int                     `json:"recipe_count"`
	RatioApproximated    bool                    `json:"ratio_approximated"`
	RecipeResults        []RecipeResult          `json:"recipe_results,omitempty"`
	StationUtilization   []StationUtilization    `json:"station_utilization,omitempty"`
	HoistZones           []HoistZone             `json:"hoist_zones,omitempty"`
}

// RecipeResult is one recipe's share of the run.
type RecipeResult struct {
	RecipeID           int64   `json:"recipe_id,omitempty"`
	Name               string  `json:"name"`
	ProductionRatio    int     `json:"production_ratio"`
	RacksPerSuperCycle int     `json:"racks_per_super_cycle"`
	Steps              int     `json:"steps"`
	FlowTime           float64 `json:"flow_time"`
	PartsPerHour       float64 `json:"parts_per_hour"`
	PartsPerDay        float64 `json:"parts_per_day"`
}

// StationUtilization is how much of the super-cycle a tank is occupied.
type StationUtilization struct {
	StationNumber string  `json:"station_number"`
	ProcessName   string  `json:"process_name"`
	Occupied      float64 `json:"occupied_seconds"`
	Utilization   float64 `json:"utilization"`
}

// HoistZone is the stretch of line one hoist serves.
type HoistZone struct {
	Hoist       int      `json:"hoist"`
	Stations    []string `json:"stations"`
	Moves       int      `json:"moves"`
	Busy        float64  `json:"busy_seconds"`
	Utilization float64  `json:"utilization"`
}
