package line

// Station is a physical tank on the plating line. Stations are ordered along
// the hoist track by PositionIndex.
type Station struct {
	StationNumber          string  `json:"station_number" yaml:"station_number"`
	PositionIndex          int     `json:"position_index" yaml:"position_index"`
	ProcessName            string  `json:"process_name" yaml:"process_name"`
	TankLength             float64 `json:"tank_length" yaml:"tank_length"`
	TankWidth              float64 `json:"tank_width" yaml:"tank_width"`
	DistanceToNext         float64 `json:"distance_to_next" yaml:"distance_to_next"`
	IsLoadingStation       bool    `json:"is_loading_station" yaml:"is_loading_station"`
	IsUnloadingStation     bool    `json:"is_unloading_station" yaml:"is_unloading_station"`
	RequiresManualHandling bool    `json:"requires_manual_handling" yaml:"requires_manual_handling"`
}

// Label renders a station the way operators refer to it, e.g. "Station 3 (Rinse)".
func (s Station) Label() string {
	if s.ProcessName == "" {
		return "Station " + s.StationNumber
	}
	return "Station " + s.StationNumber + " (" + s.ProcessName + ")"
}

// RecipeStep is one visit of a recipe to a station. Nil timing fields are unset,
// which is distinct from zero.
type RecipeStep struct {
	Station      string   `json:"station" yaml:"station"`
	StepOrder    int      `json:"step_order" yaml:"step_order"`
	DwellTime    *float64 `json:"dwell_time" yaml:"dwell_time"`
	MinDwellTime *float64 `json:"min_dwell_time" yaml:"min_dwell_time"`
	MaxDwellTime *float64 `json:"max_dwell_time" yaml:"max_dwell_time"`
	DripTime     float64  `json:"drip_time" yaml:"drip_time"`
	Notes        string   `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// Recipe is a named ordered route through the stations.
type Recipe struct {
	ID              int64        `json:"id,omitempty" yaml:"id,omitempty"`
	Name            string       `json:"name" yaml:"name"`
	Description     string       `json:"description" yaml:"description"`
	ProductionRatio int          `json:"production_ratio" yaml:"production_ratio"`
	IsActive        bool         `json:"is_active" yaml:"is_active"`
	Steps           []RecipeStep `json:"steps" yaml:"steps"`
}

// ProcessMapEntry is the legacy flat process map: each entry carries both the
// station geometry and the step timing of a single implicit recipe.
type ProcessMapEntry struct {
	StationNumber          string   `json:"station_number" yaml:"station_number"`
	ProcessStep            int      `json:"process_step" yaml:"process_step"`
	Process                string   `json:"process" yaml:"process"`
	DwellTime              *float64 `json:"dwell_time" yaml:"dwell_time"`
	MinDwellTime           *float64 `json:"min_dwell_time" yaml:"min_dwell_time"`
	MaxDwellTime           *float64 `json:"max_dwell_time" yaml:"max_dwell_time"`
	DripTime               float64  `json:"drip_time" yaml:"drip_time"`
	TankLength             float64  `json:"tank_length" yaml:"tank_length"`
	TankWidth              float64  `json:"tank_width" yaml:"tank_width"`
	DistanceToNext         float64  `json:"distance_to_next" yaml:"distance_to_next"`
	IsLoadingStation       bool     `json:"is_loading_station" yaml:"is_loading_station"`
	IsUnloadingStation     bool     `json:"is_unloading_station" yaml:"is_unloading_station"`
	RequiresManualHandling bool     `json:"requires_manual_handling" yaml:"requires_manual_handling"`
}

// Line is the project's process map: stations plus the recipes that visit them.
// ProcessMap is only consulted when Recipes is empty.
type Line struct {
	Stations   []Station         `json:"stations" yaml:"stations"`
	Recipes    []Recipe          `json:"recipes" yaml:"recipes"`
	ProcessMap []ProcessMapEntry `json:"process_map,omitempty" yaml:"process_map,omitempty"`
}

// OptimizationTarget selects how the hoist count is chosen.
type OptimizationTarget string

const (
	TargetThroughput OptimizationTarget = "throughput"
	TargetHoists     OptimizationTarget = "hoists"
	TargetBalanced   OptimizationTarget = "balanced"
)

// Valid reports whether t is one of the known targets.
func (t OptimizationTarget) Valid() bool {
	switch t {
	case TargetThroughput, TargetHoists, TargetBalanced:
		return true
	}
	return false
}

// Parameters holds the physical and schedule constraints of a simulation.
type Parameters struct {
	ProcessLines         int                `json:"process_lines" yaml:"process_lines"`
	HasTransferShuttle   bool               `json:"has_transfer_shuttle" yaml:"has_transfer_shuttle"`
	CalculatedHoistCount int                `json:"calculated_hoist_count" yaml:"calculated_hoist_count"`
	ManualHoistCount     *int               `json:"manual_hoist_count" yaml:"manual_hoist_count"`
	MaxHoistCount        *int               `json:"max_hoist_count" yaml:"max_hoist_count"`
	HoistSpeedHorizontal float64            `json:"hoist_speed_horizontal" yaml:"hoist_speed_horizontal"`
	HoistSpeedVertical   float64            `json:"hoist_speed_vertical" yaml:"hoist_speed_vertical"`
	HoistAcceleration    float64            `json:"hoist_acceleration" yaml:"hoist_acceleration"`
	LiftHeight           *float64           `json:"lift_height" yaml:"lift_height"`
	TransferTime         float64            `json:"transfer_time" yaml:"transfer_time"`
	PartsPerRack         int                `json:"parts_per_rack" yaml:"parts_per_rack"`
	RackSpacing          float64            `json:"rack_spacing" yaml:"rack_spacing"`
	WorkingHoursPerDay   float64            `json:"working_hours_per_day" yaml:"working_hours_per_day"`
	WorkingDaysPerWeek   int                `json:"working_days_per_week" yaml:"working_days_per_week"`
	PartLoadTime         float64            `json:"part_load_time" yaml:"part_load_time"`
	PartUnloadTime       float64            `json:"part_unload_time" yaml:"part_unload_time"`
	OptimizationTarget   OptimizationTarget `json:"optimization_target" yaml:"optimization_target"`
}

// DefaultParameters returns the parameters a new project starts with.
func DefaultParameters() Parameters {
	return Parameters{
		ProcessLines:         1,
		HoistSpeedHorizontal: 0.5,
		HoistSpeedVertical:   0.2,
		HoistAcceleration:    0.1,
		TransferTime:         10,
		PartsPerRack:         1,
		RackSpacing:          0.5,
		WorkingHoursPerDay:   8,
		WorkingDaysPerWeek:   5,
		PartLoadTime:         60,
		PartUnloadTime:       60,
		OptimizationTarget:   TargetBalanced,
	}
}

// TargetUnit is the time base of a production goal.
type TargetUnit string

const (
	UnitHour  TargetUnit = "hour"
	UnitDay   TargetUnit = "day"
	UnitWeek  TargetUnit = "week"
	UnitMonth TargetUnit = "month"
	UnitYear  TargetUnit = "year"
)

// Units lists the goal units from shortest to longest.
var Units = []TargetUnit{UnitHour, UnitDay, UnitWeek, UnitMonth, UnitYear}

// Valid reports whether u is one of the five goal units.
func (u TargetUnit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

// Goal is the project's production target. Only the field selected by
// PrimaryTarget is authoritative; the others are derived from it.
type Goal struct {
	PrimaryTarget       TargetUnit `json:"primary_target" yaml:"primary_target"`
	TargetPartsPerHour  *float64   `json:"target_parts_per_hour" yaml:"target_parts_per_hour"`
	TargetPartsPerDay   *float64   `json:"target_parts_per_day" yaml:"target_parts_per_day"`
	TargetPartsPerWeek  *float64   `json:"target_parts_per_week" yaml:"target_parts_per_week"`
	TargetPartsPerMonth *float64   `json:"target_parts_per_month" yaml:"target_parts_per_month"`
	TargetPartsPerYear  *float64   `json:"target_parts_per_year" yaml:"target_parts_per_year"`
}

// DefaultGoal returns an unset goal keyed on parts per day.
func DefaultGoal() Goal {
	return Goal{PrimaryTarget: UnitDay}
}

// Target returns the target for unit u, or nil when it is unset.
func (g Goal) Target(u TargetUnit) *float64 {
	switch u {
	case UnitHour:
		return g.TargetPartsPerHour
	case UnitDay:
		return g.TargetPartsPerDay
	case UnitWeek:
		return g.TargetPartsPerWeek
	case UnitMonth:
		return g.TargetPartsPerMonth
	case UnitYear:
		return g.TargetPartsPerYear
	}
	return nil
}

// SetTarget stores v as the target for unit u.
func (g *Goal) SetTarget(u TargetUnit, v float64) {
	switch u {
	case UnitHour:
		g.TargetPartsPerHour = &v
	case UnitDay:
		g.TargetPartsPerDay = &v
	case UnitWeek:
		g.TargetPartsPerWeek = &v
	case UnitMonth:
		g.TargetPartsPerMonth = &v
	case UnitYear:
		g.TargetPartsPerYear = &v
	}
}

// Primary returns the authoritative target value and whether it is set to a
// positive number.
func (g Goal) Primary() (float64, bool) {
	v := g.Target(g.PrimaryTarget)
	if v == nil || *v <= 0 {
		return 0, false
	}
	return *v, true
}

// Float returns a pointer to v. Handy for populating optional fields.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v.
func Int(v int) *int { return &v }
