package analysis

import "plating-line-backend/internal/line"

// Comparison is projected output measured against the primary goal unit.
type Comparison struct {
	HasGoal   bool            `json:"has_goal"`
	Unit      line.TargetUnit `json:"unit"`
	Target    float64         `json:"target"`
	Projected float64         `json:"projected"`
	// Gap is how far short the projection falls; zero when the goal is met.
	Gap   float64 `json:"gap"`
	Meets bool    `json:"meets"`
}

// CompareGoal checks the projection against the goal's primary unit. An
// unset goal is never met.
func CompareGoal(r Rates, g line.Goal) Comparison {
	c := Comparison{Unit: g.PrimaryTarget}
	target, ok := g.Primary()
	if !ok {
		return c
	}
	c.HasGoal = true
	c.Target = target
	c.Projected = r.Get(g.PrimaryTarget)
	c.Meets = c.Projected >= c.Target
	if !c.Meets {
		c.Gap = c.Target - c.Projected
	}
	return c
}

// Headroom is the projected surplus as a fraction of the target.
func (c Comparison) Headroom() float64 {
	if !c.HasGoal || c.Target <= 0 {
		return 0
	}
	return (c.Projected - c.Target) / c.Target
}
