// Package analysis interprets a cycle plan: what limits it, how much it
// produces and how that compares with the production goal.
package analysis

import (
	"fmt"
	"math"

	"plating-line-backend/internal/line"
	"plating-line-backend/internal/schedule"
)

// Kind names the resource class of a bottleneck.
type Kind string

const (
	KindStation     Kind = "station"
	KindDwellWindow Kind = "dwell_window"
	KindHoist       Kind = "hoist"
)

func (k Kind) rank() int {
	switch k {
	case KindStation:
		return 0
	case KindDwellWindow:
		return 1
	}
	return 2
}

const saturated = 1e-6

// Bottleneck is the resource with the least slack in a plan.
type Bottleneck struct {
	Kind        Kind    `json:"kind"`
	Station     string  `json:"station,omitempty"`
	Hoist       int     `json:"hoist,omitempty"`
	Slack       float64 `json:"slack"`
	Description string  `json:"description"`
}

// Label is what the result record shows as the bottleneck identifier.
func (b Bottleneck) Label() string {
	if b.Kind == KindHoist {
		return fmt.Sprintf("Hoist %d", b.Hoist)
	}
	return b.Station
}

// FindBottleneck returns the station, dwell window or hoist that leaves the
// least idle margin in the plan. Ties prefer stations, then windows, then
// hoists, then track order.
func FindBottleneck(plan schedule.Plan, moves []schedule.Move, layout *line.Layout) Bottleneck {
	var best Bottleneck
	found := false
	consider := func(b Bottleneck) {
		if !found || b.Slack < best.Slack-saturated ||
			(math.Abs(b.Slack-best.Slack) <= saturated && b.Kind.rank() < best.Kind.rank()) {
			best, found = b, true
		}
	}

	T := plan.CycleTime
	for i, load := range plan.Loads {
		if load <= 0 {
			continue
		}
		st := layout.Stations[i]
		b := Bottleneck{Kind: KindStation, Station: st.StationNumber, Slack: T - load}
		if b.Slack <= saturated {
			b.Description = fmt.Sprintf("%s occupancy saturated: %.1fs occupied per %.1fs super-cycle", st.Label(), load, T)
		} else {
			b.Description = fmt.Sprintf("%s is the busiest tank: %.1fs occupied per %.1fs super-cycle (%.1fs idle)", st.Label(), load, T, b.Slack)
		}
		consider(b)
	}

	for _, sl := range plan.Slots {
		if sl.Hoist == 0 || sl.Wait <= saturated {
			continue
		}
		mv := moves[sl.Move]
		if math.IsInf(mv.Window, 1) {
			continue
		}
		st := layout.Stations[mv.From]
		b := Bottleneck{Kind: KindDwellWindow, Station: st.StationNumber, Slack: mv.Window - sl.Wait}
		if b.Slack <= saturated {
			b.Description = fmt.Sprintf("%s dwell window fully saturated", st.Label())
		} else {
			b.Description = fmt.Sprintf("%s dwell window has %.1fs of margin after waiting %.1fs for hoist %d", st.Label(), b.Slack, sl.Wait, sl.Hoist)
		}
		consider(b)
	}

	for _, z := range plan.Zones {
		b := Bottleneck{Kind: KindHoist, Hoist: z.Hoist, Slack: T - z.Busy}
		if b.Slack <= saturated {
			b.Description = fmt.Sprintf("Hoist %d fully utilized: %.1fs busy per %.1fs super-cycle", z.Hoist, z.Busy, T)
		} else {
			b.Description = fmt.Sprintf("Hoist %d is the busiest hoist: %.1fs busy per %.1fs super-cycle (%.1fs idle)", z.Hoist, z.Busy, T, b.Slack)
		}
		if len(z.Moves) > 0 {
			b.Station = layout.Stations[moves[z.Moves[0]].From].StationNumber
		}
		consider(b)
	}
	return best
}
