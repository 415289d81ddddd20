package line

import (
	"fmt"
	"sort"
)

// Validate checks a line definition once at the boundary and returns every
// problem found as ValidationErrors, or nil.
func Validate(l Line) error {
	var es ValidationErrors

	if len(l.Recipes) == 0 {
		if len(l.ProcessMap) == 0 {
			es.add("recipes", "process map is empty: at least one active recipe with steps is required")
			return es
		}
		validateProcessMap(&es, l.ProcessMap)
		return es.orNil()
	}

	known := validateStations(&es, l.Stations)
	active := 0
	for i, r := range l.Recipes {
		prefix := fmt.Sprintf("recipes[%d]", i)
		if !r.IsActive {
			continue
		}
		active++
		if r.ProductionRatio < 1 {
			es.add(prefix+".production_ratio", "must be a positive integer, got %d", r.ProductionRatio)
		}
		if len(r.Steps) == 0 {
			es.add(prefix+".steps", "active recipe %q has no steps", r.Name)
			continue
		}
		validateSteps(&es, prefix, r.Steps, known)
	}
	if active == 0 {
		es.add("recipes", "process map is empty: no active recipe")
	}
	return es.orNil()
}

func validateStations(es *ValidationErrors, stations []Station) map[string]Station {
	known := make(map[string]Station, len(stations))
	positions := make(map[int]string, len(stations))
	for i, s := range stations {
		prefix := fmt.Sprintf("stations[%d]", i)
		if s.StationNumber == "" {
			es.add(prefix+".station_number", "is required")
			continue
		}
		if _, dup := known[s.StationNumber]; dup {
			es.add(prefix+".station_number", "duplicate station %q", s.StationNumber)
			continue
		}
		if other, dup := positions[s.PositionIndex]; dup {
			es.add(prefix+".position_index", "position %d already used by station %q", s.PositionIndex, other)
		}
		checkNonNegative(es, prefix+".tank_length", s.TankLength)
		checkNonNegative(es, prefix+".tank_width", s.TankWidth)
		checkNonNegative(es, prefix+".distance_to_next", s.DistanceToNext)
		known[s.StationNumber] = s
		positions[s.PositionIndex] = s.StationNumber
	}
	return known
}

func validateSteps(es *ValidationErrors, prefix string, steps []RecipeStep, known map[string]Station) {
	orders := make(map[int]int, len(steps))
	for j, st := range steps {
		sp := fmt.Sprintf("%s.steps[%d]", prefix, j)
		if _, ok := known[st.Station]; !ok {
			es.add(sp+".station", "references unknown station %q", st.Station)
		}
		if prev, dup := orders[st.StepOrder]; dup {
			es.add(sp+".step_order", "step_order %d collides with steps[%d]", st.StepOrder, prev)
		} else {
			orders[st.StepOrder] = j
		}
		checkWindow(es, sp, st.DwellTime, st.MinDwellTime, st.MaxDwellTime)
		checkNonNegative(es, sp+".drip_time", st.DripTime)
	}

	// A recipe moves down the line: positions must not decrease in step order.
	idx := make([]int, len(steps))
	for j := range idx {
		idx[j] = j
	}
	sort.SliceStable(idx, func(a, b int) bool { return steps[idx[a]].StepOrder < steps[idx[b]].StepOrder })
	for k := 1; k < len(idx); k++ {
		prev, ok1 := known[steps[idx[k-1]].Station]
		cur, ok2 := known[steps[idx[k]].Station]
		if ok1 && ok2 && cur.PositionIndex < prev.PositionIndex {
			es.add(fmt.Sprintf("%s.steps[%d].station", prefix, idx[k]),
				"station %q (position %d) is behind the previous step's station %q (position %d)",
				cur.StationNumber, cur.PositionIndex, prev.StationNumber, prev.PositionIndex)
		}
	}
}

func validateProcessMap(es *ValidationErrors, entries []ProcessMapEntry) {
	steps := make(map[int]int, len(entries))
	for i, e := range entries {
		prefix := fmt.Sprintf("process_map[%d]", i)
		if e.StationNumber == "" {
			es.add(prefix+".station_number", "is required")
		}
		if prev, dup := steps[e.ProcessStep]; dup {
			es.add(prefix+".process_step", "process_step %d collides with process_map[%d]", e.ProcessStep, prev)
		} else {
			steps[e.ProcessStep] = i
		}
		checkWindow(es, prefix, e.DwellTime, e.MinDwellTime, e.MaxDwellTime)
		checkNonNegative(es, prefix+".drip_time", e.DripTime)
		checkNonNegative(es, prefix+".tank_length", e.TankLength)
		checkNonNegative(es, prefix+".tank_width", e.TankWidth)
		checkNonNegative(es, prefix+".distance_to_next", e.DistanceToNext)
	}
}

// checkWindow enforces min <= target <= max on whichever bounds are present.
func checkWindow(es *ValidationErrors, prefix string, dwell, lo, hi *float64) {
	if dwell == nil && lo == nil && hi == nil {
		es.add(prefix+".dwell_time", "one of dwell_time, min_dwell_time or max_dwell_time is required")
		return
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{{"dwell_time", dwell}, {"min_dwell_time", lo}, {"max_dwell_time", hi}} {
		if f.v != nil {
			checkNonNegative(es, prefix+"."+f.name, *f.v)
		}
	}
	if lo != nil && hi != nil && *lo > *hi {
		es.add(prefix+".min_dwell_time", "min_dwell_time %g exceeds max_dwell_time %g", *lo, *hi)
		return
	}
	if dwell == nil {
		return
	}
	if lo != nil && *dwell < *lo {
		es.add(prefix+".dwell_time", "dwell_time %g is below min_dwell_time %g", *dwell, *lo)
	}
	if hi != nil && *dwell > *hi {
		es.add(prefix+".dwell_time", "dwell_time %g is above max_dwell_time %g", *dwell, *hi)
	}
}

func checkNonNegative(es *ValidationErrors, field string, v float64) {
	if v < 0 {
		es.add(field, "must not be negative, got %g", v)
	}
}

// ValidateParameters checks the simulation parameters record.
func ValidateParameters(p Parameters) error {
	var es ValidationErrors
	if p.ProcessLines < 1 {
		es.add("process_lines", "must be at least 1, got %d", p.ProcessLines)
	}
	if p.HoistSpeedHorizontal <= 0 {
		es.add("hoist_speed_horizontal", "must be positive, got %g", p.HoistSpeedHorizontal)
	}
	if p.HoistSpeedVertical <= 0 {
		es.add("hoist_speed_vertical", "must be positive, got %g", p.HoistSpeedVertical)
	}
	checkNonNegative(&es, "hoist_acceleration", p.HoistAcceleration)
	checkNonNegative(&es, "transfer_time", p.TransferTime)
	checkNonNegative(&es, "part_load_time", p.PartLoadTime)
	checkNonNegative(&es, "part_unload_time", p.PartUnloadTime)
	checkNonNegative(&es, "rack_spacing", p.RackSpacing)
	if p.LiftHeight != nil {
		checkNonNegative(&es, "lift_height", *p.LiftHeight)
	}
	if p.PartsPerRack < 1 {
		es.add("parts_per_rack", "must be at least 1, got %d", p.PartsPerRack)
	}
	if p.WorkingHoursPerDay <= 0 || p.WorkingHoursPerDay > 24 {
		es.add("working_hours_per_day", "must be within (0, 24], got %g", p.WorkingHoursPerDay)
	}
	if p.WorkingDaysPerWeek < 1 || p.WorkingDaysPerWeek > 7 {
		es.add("working_days_per_week", "must be within 1..7, got %d", p.WorkingDaysPerWeek)
	}
	if p.ManualHoistCount != nil && *p.ManualHoistCount < 1 {
		es.add("manual_hoist_count", "must be at least 1 when set, got %d", *p.ManualHoistCount)
	}
	if p.MaxHoistCount != nil && *p.MaxHoistCount < 1 {
		es.add("max_hoist_count", "must be at least 1 when set, got %d", *p.MaxHoistCount)
	}
	if !p.OptimizationTarget.Valid() {
		es.add("optimization_target", "unknown target %q (want throughput, hoists or balanced)", p.OptimizationTarget)
	}
	return es.orNil()
}

// ValidateGoal checks that the goal names a known unit and carries no
// negative targets. An unset target is valid.
func ValidateGoal(g Goal) error {
	var es ValidationErrors
	if !g.PrimaryTarget.Valid() {
		es.add("primary_target", "unknown unit %q (want hour, day, week, month or year)", g.PrimaryTarget)
	}
	for _, u := range Units {
		if v := g.Target(u); v != nil {
			checkNonNegative(&es, "target_parts_per_"+string(u), *v)
		}
	}
	return es.orNil()
}
