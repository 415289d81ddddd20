package analysis

import "plating-line-backend/internal/line"

// Calendar constants shared by projections and goal conversion.
const (
	WeeksPerMonth = 4.33
	WeeksPerYear  = 52
)

// Calendar converts hourly rates to longer periods using the shift schedule.
type Calendar struct {
	HoursPerDay float64
	DaysPerWeek int
}

// CalendarOf returns the shift calendar configured in p.
func CalendarOf(p line.Parameters) Calendar {
	return Calendar{HoursPerDay: p.WorkingHoursPerDay, DaysPerWeek: p.WorkingDaysPerWeek}
}

// Hours is the number of working hours in one unit.
func (c Calendar) Hours(u line.TargetUnit) float64 {
	week := c.HoursPerDay * float64(c.DaysPerWeek)
	switch u {
	case line.UnitDay:
		return c.HoursPerDay
	case line.UnitWeek:
		return week
	case line.UnitMonth:
		return week * WeeksPerMonth
	case line.UnitYear:
		return week * WeeksPerYear
	}
	return 1
}

// Rates is output in parts over each goal unit.
type Rates struct {
	PerHour  float64 `json:"parts_per_hour"`
	PerDay   float64 `json:"parts_per_day"`
	PerWeek  float64 `json:"parts_per_week"`
	PerMonth float64 `json:"parts_per_month"`
	PerYear  float64 `json:"parts_per_year"`
}

// Get returns the rate for unit u.
func (r Rates) Get(u line.TargetUnit) float64 {
	switch u {
	case line.UnitDay:
		return r.PerDay
	case line.UnitWeek:
		return r.PerWeek
	case line.UnitMonth:
		return r.PerMonth
	case line.UnitYear:
		return r.PerYear
	}
	return r.PerHour
}

// FromHourly spreads an hourly rate over the calendar.
func (c Calendar) FromHourly(perHour float64) Rates {
	return Rates{
		PerHour:  perHour,
		PerDay:   perHour * c.Hours(line.UnitDay),
		PerWeek:  perHour * c.Hours(line.UnitWeek),
		PerMonth: perHour * c.Hours(line.UnitMonth),
		PerYear:  perHour * c.Hours(line.UnitYear),
	}
}

// Project turns a per-rack cycle time into output rates across all parallel
// lines. A non-positive cycle produces nothing.
func Project(cycleTime float64, p line.Parameters) Rates {
	if cycleTime <= 0 {
		return Rates{}
	}
	perHour := 3600 / cycleTime * float64(p.PartsPerRack) * float64(p.ProcessLines)
	return CalendarOf(p).FromHourly(perHour)
}

// PerHour converts the goal's primary target to parts per hour. ok is false
// when the goal has no positive primary target.
func PerHour(g line.Goal, c Calendar) (float64, bool) {
	v, ok := g.Primary()
	if !ok {
		return 0, false
	}
	hours := c.Hours(g.PrimaryTarget)
	if hours <= 0 {
		return 0, false
	}
	return v / hours, true
}

// DeriveGoal fills the four non-primary targets from the primary one. A goal
// without a primary target is returned unchanged.
func DeriveGoal(g line.Goal, c Calendar) line.Goal {
	perHour, ok := PerHour(g, c)
	if !ok {
		return g
	}
	rates := c.FromHourly(perHour)
	out := line.Goal{PrimaryTarget: g.PrimaryTarget}
	for _, u := range line.Units {
		if u == g.PrimaryTarget {
			out.SetTarget(u, *g.Target(u))
			continue
		}
		out.SetTarget(u, rates.Get(u))
	}
	return out
}
