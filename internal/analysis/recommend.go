package analysis

import (
	"fmt"
	"math"
)

// Situation is everything the recommendation rules look at.
type Situation struct {
	Feasible        bool
	Reason          string
	Bottleneck      Bottleneck
	Goal            Comparison
	HoistCount      int
	MinHoists       int
	ProcessLines    int
	Utilization     float64
	Approximated    bool
	StationsOnTrack int
}

// Recommend derives operator advice from a run. The rules are evaluated in a
// fixed order so the same run always yields the same advice.
func Recommend(s Situation) []string {
	var recs []string

	if !s.Feasible {
		recs = append(recs, fmt.Sprintf("No feasible hoist schedule: %s.", s.Reason))
		recs = append(recs, "Widen the tightest dwell windows or reduce transfer overhead so moves can share a hoist.")
		if s.MinHoists > s.HoistCount && s.HoistCount > 0 {
			recs = append(recs, fmt.Sprintf("Allow at least %d hoists.", s.MinHoists))
		}
		return recs
	}

	switch {
	case !s.Goal.HasGoal:
		recs = append(recs, "Set a production goal to compare the projection against a target.")
	case s.Goal.Meets:
		recs = append(recs, fmt.Sprintf("Projected output meets the %s goal with %.0f%% headroom.", s.Goal.Unit, s.Goal.Headroom()*100))
	default:
		recs = append(recs, fmt.Sprintf("Projected %.1f parts per %s falls %.1f short of the %.1f goal.",
			s.Goal.Projected, s.Goal.Unit, s.Goal.Gap, s.Goal.Target))
		recs = append(recs, leverFor(s.Bottleneck, s.HoistCount, s.StationsOnTrack))
		if s.Goal.Projected > 0 && s.ProcessLines > 0 {
			needed := int(math.Ceil(s.Goal.Target / s.Goal.Projected * float64(s.ProcessLines)))
			if needed > s.ProcessLines {
				recs = append(recs, fmt.Sprintf("Alternatively run %d parallel process lines instead of %d.", needed, s.ProcessLines))
			}
		}
	}

	switch {
	case s.Utilization > 90:
		recs = append(recs, fmt.Sprintf("Hoist utilization is %.0f%%; little margin is left for disturbances.", s.Utilization))
	case s.Utilization < 30 && s.HoistCount > s.MinHoists:
		recs = append(recs, fmt.Sprintf("Hoist utilization is only %.0f%%; %d hoist(s) would run the line.", s.Utilization, s.MinHoists))
	}

	if s.Approximated {
		recs = append(recs, "Production ratios were scaled down to fit the super-cycle limit; per-recipe shares are approximate.")
	}
	return recs
}

func leverFor(b Bottleneck, hoists, stations int) string {
	switch b.Kind {
	case KindStation:
		return fmt.Sprintf("Reduce dwell time at Station %s or add a parallel tank; its occupancy sets the cycle.", b.Station)
	case KindDwellWindow:
		return fmt.Sprintf("Widen the dwell window at Station %s so its move can share a hoist.", b.Station)
	}
	if hoists < stations {
		return fmt.Sprintf("Add a hoist to split the zone of Hoist %d.", b.Hoist)
	}
	return "Shorten transfer overhead; every station already has its own hoist."
}
