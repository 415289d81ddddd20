// Package schedule finds the shortest cycle at which a set of hoists can serve
// every move of a plating line's super-cycle without violating dwell windows.
//
// Hoists share one track, so each hoist serves a contiguous zone of the line.
// Moves are ordered along the track and packed greedily into zones. A zone is
// accepted when every rack of the super-cycle can be walked through the line
// with each move placed on its hoist's cyclic timeline at the earliest free
// moment after its minimum dwell, and no later than its maximum dwell allows,
// while no tank holds two racks at once.
package schedule

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"plating-line-backend/internal/hoist"
)

const eps = 1e-9

// DefaultTolerance is the cycle-time search resolution in seconds.
const DefaultTolerance = 0.1

// Zone is the set of moves one hoist performs each super-cycle.
type Zone struct {
	Hoist int
	// Moves are indexes into Planner.Moves, in track order.
	Moves []int
	// Busy is the time the hoist spends moving each cycle: its loaded moves
	// plus the empty runs between them.
	Busy float64
}

// Slot is one move's place in a plan. Start and End are measured on the
// rack's own timeline from the start of the super-cycle and may run past the
// cycle time; the hoist repeats the move at Start modulo the cycle time.
type Slot struct {
	// Move indexes Planner.Moves, or Planner.ShuttleMoves when Hoist is 0.
	Move  int
	Hoist int
	Rack  int
	Start float64
	End   float64
	// Wait is how long the move started after its source step's minimum
	// dwell had elapsed.
	Wait float64
}

// Phase is the slot's start within a cycle of length T.
func (s Slot) Phase(T float64) float64 { return wrap(s.Start, T) }

// Plan is a feasible assignment of moves to hoists at a given cycle time.
type Plan struct {
	CycleTime float64
	Hoists    int
	Zones     []Zone
	// Slots lists every move of the super-cycle rack by rack, each rack's
	// moves in the order the rack makes them.
	Slots []Slot
	// Loads is the time each station holds a rack per cycle.
	Loads []float64
}

// Planner evaluates cycle times for one line configuration. It is immutable
// after construction and safe for concurrent use.
type Planner struct {
	model    *hoist.Model
	moves    []Move
	shuttled []Move
	loads    []float64
	paths    [][]moveRef
	strokes  []float64

	maxLoad  float64
	sumMoves float64
	maxSolo  float64
	// lane is the longest a single rack needs the line to itself, including
	// the hoist's run back to wherever the next rack starts.
	lane float64

	tolerance float64
	workers   int
	log       *zap.Logger
}

// Option configures a Planner.
type Option func(*Planner)

// WithTolerance sets the cycle-time search resolution.
func WithTolerance(tol float64) Option {
	return func(p *Planner) {
		if tol > 0 {
			p.tolerance = tol
		}
	}
}

// WithWorkers bounds how many hoist counts a sweep evaluates at once.
func WithWorkers(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger used for search diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(p *Planner) {
		if l != nil {
			p.log = l
		}
	}
}

// NewPlanner prepares the hoist moves for searching. Shuttle moves are kept
// aside: they take their place in a rack's journey but never occupy a hoist.
func NewPlanner(m *hoist.Model, moves []Move, loads []float64, opts ...Option) *Planner {
	p := &Planner{
		model:     m,
		loads:     loads,
		tolerance: DefaultTolerance,
		workers:   4,
		log:       zap.NewNop(),
	}
	for _, o := range opts {
		o(p)
	}

	for _, mv := range moves {
		if mv.Shuttle {
			p.shuttled = append(p.shuttled, mv)
			continue
		}
		p.moves = append(p.moves, mv)
	}
	sort.SliceStable(p.moves, func(i, j int) bool {
		a, b := p.moves[i], p.moves[j]
		if a.From != b.From {
			return a.From < b.From
		}
		if a.To != b.To {
			return a.To < b.To
		}
		if a.Rack != b.Rack {
			return a.Rack < b.Rack
		}
		return a.Step < b.Step
	})

	p.strokes = make([]float64, p.Stations())
	for s := range p.strokes {
		p.strokes[s] = m.Stroke(s)
	}
	p.paths = buildPaths(p.moves, p.shuttled)

	for _, l := range loads {
		p.maxLoad = math.Max(p.maxLoad, l)
	}
	for _, mv := range p.moves {
		p.sumMoves += mv.Duration()
		p.maxSolo = math.Max(p.maxSolo, mv.Duration()+m.EmptyTravel(mv.To, mv.From))
	}

	var maxStroke float64
	for _, s := range p.strokes {
		maxStroke = math.Max(maxStroke, s)
	}
	traverse := 0.0
	if n := p.Stations(); n > 0 {
		traverse = m.EmptyTravel(0, n-1)
	}
	for _, path := range p.paths {
		var journey float64
		for _, ref := range path {
			mv := p.move(ref)
			if mv.Kind != MoveEntry {
				journey += mv.MinDwell
			}
			journey += mv.Duration()
		}
		p.lane = math.Max(p.lane, journey+traverse+maxStroke)
	}
	return p
}

// Moves returns the hoist moves in track order. Zone and slot indexes refer
// to this slice.
func (p *Planner) Moves() []Move { return p.moves }

// ShuttleMoves returns the moves carried by the transfer shuttle.
func (p *Planner) ShuttleMoves() []Move { return p.shuttled }

// Loads returns the time each station holds a rack per cycle.
func (p *Planner) Loads() []float64 { return p.loads }

// Stations is the number of stations on the line.
func (p *Planner) Stations() int { return len(p.model.Layout().Stations) }

// Feasible reports whether hoists hoists can run the line at cycle time T
// and returns the resulting plan.
func (p *Planner) Feasible(T float64, hoists int) (Plan, bool) {
	if hoists < 1 || T <= 0 || T+eps < p.maxLoad {
		return Plan{}, false
	}
	zones, slots, ok := p.pack(T, hoists)
	if !ok {
		return Plan{}, false
	}
	return Plan{
		CycleTime: T,
		Hoists:    hoists,
		Zones:     zones,
		Slots:     slots,
		Loads:     p.loads,
	}, true
}

// pack assigns moves to zones next-fit in track order. A move joins the last
// zone when the whole super-cycle still places with it there; otherwise it
// opens a new zone. Moves not yet assigned are placed as if a hoist were
// waiting for them. pack fails once more than limit zones are needed.
func (p *Planner) pack(T float64, limit int) ([]Zone, []Slot, bool) {
	assign := make([]int, len(p.moves))
	for i := range assign {
		assign[i] = -1
	}
	if len(p.moves) == 0 {
		slots, ok := p.place(T, assign, 0)
		return nil, slots, ok
	}

	zones := 0
	var slots []Slot
	for i, mv := range p.moves {
		if mv.Duration()+p.model.EmptyTravel(mv.To, mv.From) > T+eps {
			return nil, nil, false
		}
		placed := false
		if zones > 0 {
			assign[i] = zones - 1
			slots, placed = p.place(T, assign, zones)
		}
		if placed {
			continue
		}
		if zones == limit {
			return nil, nil, false
		}
		zones++
		assign[i] = zones - 1
		if slots, placed = p.place(T, assign, zones); !placed {
			return nil, nil, false
		}
	}
	return p.zonesOf(T, assign, zones, slots), slots, true
}

// zonesOf groups the placed moves by hoist and measures each hoist's busy
// time around the cycle.
func (p *Planner) zonesOf(T float64, assign []int, n int, slots []Slot) []Zone {
	zones := make([]Zone, n)
	for z := range zones {
		zones[z].Hoist = z + 1
	}
	for i, z := range assign {
		zones[z].Moves = append(zones[z].Moves, i)
	}

	perHoist := make([][]Slot, n)
	for _, s := range slots {
		if s.Hoist > 0 {
			perHoist[s.Hoist-1] = append(perHoist[s.Hoist-1], s)
		}
	}
	for z, ss := range perHoist {
		sort.Slice(ss, func(i, j int) bool { return ss[i].Phase(T) < ss[j].Phase(T) })
		for k, s := range ss {
			next := p.moves[ss[(k+1)%len(ss)].Move]
			zones[z].Busy += s.End - s.Start + p.model.EmptyTravel(p.moves[s.Move].To, next.From)
		}
	}
	return zones
}

// bounds brackets the minimal cycle time for the given hoist count. The
// lower bound is the busiest station, the longest single move round trip and
// an even split of all move time across the hoists. At the upper bound every
// rack has the line to itself for a full lane, which one hoist can always
// serve.
func (p *Planner) bounds(hoists int) (lo, hi float64) {
	lo = math.Max(p.maxLoad, p.maxSolo)
	lo = math.Max(lo, p.sumMoves/float64(hoists))
	lo = math.Max(lo, p.tolerance)

	hi = p.lane * float64(len(p.paths))
	return lo, math.Max(hi, lo)
}
