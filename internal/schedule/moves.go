package schedule

import (
	"math"

	"plating-line-backend/internal/hoist"
	"plating-line-backend/internal/line"
)

// MoveKind tells what part of a rack's journey a move covers.
type MoveKind string

const (
	MoveEntry MoveKind = "entry"
	MoveStep  MoveKind = "step"
	MoveExit  MoveKind = "exit"
)

// Move is one loaded hoist trip required once per super-cycle.
type Move struct {
	Kind  MoveKind
	Route int
	// Rack is the rack's slot in the super-cycle order.
	Rack int
	// Step indexes the route step the rack leaves; -1 for entry moves.
	Step     int
	From, To int
	Cost     hoist.Breakdown
	// MinDwell and Window describe the source step's dwell window. Window is
	// how late past MinDwell the pickup may happen, +Inf when unbounded.
	MinDwell float64
	Window   float64
	// Shuttle moves run on the transfer shuttle instead of a hoist.
	Shuttle bool
}

// Duration is the hoist time the move occupies.
func (m Move) Duration() float64 { return m.Cost.Total }

// BuildMoves expands every rack of the super-cycle into its hoist moves: an
// entry move from the loading station when the route starts elsewhere, one
// move per step, and a final move to the unloading station (or a lift out in
// place when the line has none). With a transfer shuttle, entry and exit
// moves are carried by the shuttle.
func BuildMoves(m *hoist.Model, routes []line.Route, sc SuperCycle, shuttle bool) []Move {
	layout := m.Layout()
	var moves []Move
	for rack, ri := range sc.Order {
		steps := routes[ri].Steps
		if len(steps) == 0 {
			continue
		}
		first := steps[0].Station
		if layout.Loading >= 0 && layout.Loading != first {
			moves = append(moves, Move{
				Kind:    MoveEntry,
				Route:   ri,
				Rack:    rack,
				Step:    -1,
				From:    layout.Loading,
				To:      first,
				Cost:    m.MoveDuration(layout.Loading, first, 0),
				Window:  math.Inf(1),
				Shuttle: shuttle,
			})
		}
		for i, st := range steps {
			mv := Move{
				Kind:     MoveStep,
				Route:    ri,
				Rack:     rack,
				Step:     i,
				From:     st.Station,
				MinDwell: st.MinDwell,
				Window:   st.Slack(),
			}
			switch {
			case i+1 < len(steps):
				mv.To = steps[i+1].Station
			case layout.Unloading >= 0:
				mv.To = layout.Unloading
				mv.Kind, mv.Shuttle = MoveExit, shuttle
			default:
				mv.To = st.Station
				mv.Kind, mv.Shuttle = MoveExit, shuttle
			}
			mv.Cost = m.MoveDuration(mv.From, mv.To, st.Drip)
			moves = append(moves, mv)
		}
	}
	return moves
}

// StationLoads sums the time each station holds a rack per super-cycle: the
// minimum dwell plus lowering the rack in and lifting it out. Drip happens
// above the tank and does not count.
func StationLoads(m *hoist.Model, routes []line.Route, sc SuperCycle) []float64 {
	loads := make([]float64, len(m.Layout().Stations))
	for _, ri := range sc.Order {
		for _, st := range routes[ri].Steps {
			loads[st.Station] += st.MinDwell + 2*m.Stroke(st.Station)
		}
	}
	return loads
}
