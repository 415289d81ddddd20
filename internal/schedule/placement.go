package schedule

import (
	"math"
	"sort"
)

// moveRef points at a move in Planner.moves, or Planner.shuttled when
// shuttle is set.
type moveRef struct {
	idx     int
	shuttle bool
}

func (p *Planner) move(r moveRef) Move {
	if r.shuttle {
		return p.shuttled[r.idx]
	}
	return p.moves[r.idx]
}

// buildPaths lists each rack's moves in the order the rack makes them.
func buildPaths(moves, shuttled []Move) [][]moveRef {
	racks := 0
	for _, mv := range moves {
		racks = max(racks, mv.Rack+1)
	}
	for _, mv := range shuttled {
		racks = max(racks, mv.Rack+1)
	}
	paths := make([][]moveRef, racks)
	for i, mv := range moves {
		paths[mv.Rack] = append(paths[mv.Rack], moveRef{idx: i})
	}
	for i, mv := range shuttled {
		paths[mv.Rack] = append(paths[mv.Rack], moveRef{idx: i, shuttle: true})
	}
	for _, path := range paths {
		sort.SliceStable(path, func(i, j int) bool {
			return stepOf(moves, shuttled, path[i]) < stepOf(moves, shuttled, path[j])
		})
	}
	return paths
}

func stepOf(moves, shuttled []Move, r moveRef) int {
	if r.shuttle {
		return shuttled[r.idx].Step
	}
	return moves[r.idx].Step
}

// booking is a move committed to a hoist's cyclic timeline.
type booking struct {
	start, end float64
	from, to   int
}

// span is a rack's stay in a tank, from the start of lowering it in to the
// end of lifting it out.
type span struct {
	start, length float64
}

// timelines holds what one placement attempt has committed so far.
type timelines struct {
	T      float64
	hoists [][]booking
	tanks  [][]span
	slots  []Slot
}

type checkpoint struct {
	hoists []int
	tanks  []int
	slots  int
}

func (tl *timelines) mark() checkpoint {
	m := checkpoint{hoists: make([]int, len(tl.hoists)), tanks: make([]int, len(tl.tanks)), slots: len(tl.slots)}
	for h, b := range tl.hoists {
		m.hoists[h] = len(b)
	}
	for s, sp := range tl.tanks {
		m.tanks[s] = len(sp)
	}
	return m
}

func (tl *timelines) rollback(m checkpoint) {
	for h := range tl.hoists {
		tl.hoists[h] = tl.hoists[h][:m.hoists[h]]
	}
	for s := range tl.tanks {
		tl.tanks[s] = tl.tanks[s][:m.tanks[s]]
	}
	tl.slots = tl.slots[:m.slots]
}

// place walks every rack of the super-cycle through the line at cycle time
// T. assign maps each hoist move to its zone, or -1 when the move is not
// assigned yet.
func (p *Planner) place(T float64, assign []int, zones int) ([]Slot, bool) {
	tl := &timelines{
		T:      T,
		hoists: make([][]booking, zones),
		tanks:  make([][]span, p.Stations()),
		slots:  make([]Slot, 0, len(p.moves)+len(p.shuttled)),
	}
	for r := range p.paths {
		if !p.placeRack(tl, r, assign) {
			return nil, false
		}
	}
	return tl.slots, true
}

// placeRack releases rack r at its share of the cycle. When that fails it
// tries later releases, one for each moment its first hoist move could
// start, and commits the first release the whole journey fits.
func (p *Planner) placeRack(tl *timelines, r int, assign []int) bool {
	path := p.paths[r]
	release := float64(r) * tl.T / float64(len(p.paths))

	lead, offset := -1, 0.0
	for k, ref := range path {
		mv := p.move(ref)
		if mv.Kind != MoveEntry {
			offset += mv.MinDwell
		}
		if !ref.shuttle && assign[ref.idx] >= 0 {
			lead = k
			break
		}
		offset += mv.Duration()
	}

	releases := []float64{release}
	if lead >= 0 {
		mv := p.move(path[lead])
		ready := release + offset
		releases = releases[:0]
		for _, c := range p.candidates(tl, assign[path[lead].idx], mv, ready, ready+tl.T) {
			releases = append(releases, c-offset)
		}
	}

	for _, rel := range releases {
		m := tl.mark()
		if p.walk(tl, r, rel, assign) {
			return true
		}
		tl.rollback(m)
	}
	return false
}

// walk places rack r's moves in journey order starting at release. Each
// move starts at the earliest moment after its minimum dwell at which its
// hoist is free, and fails the walk if that would overrun the dwell window or
// keep the tank from the next rack.
func (p *Planner) walk(tl *timelines, r int, release float64, assign []int) bool {
	drop := release
	for _, ref := range p.paths[r] {
		mv := p.move(ref)
		ready, latest := drop, drop+tl.T
		var stay span
		if mv.Kind != MoveEntry {
			ready = drop + mv.MinDwell
			latest = ready + mv.Window
			stay.start = drop - p.strokes[mv.From]
			limit, ok := tl.tankLimit(mv.From, stay.start)
			if !ok {
				return false
			}
			latest = math.Min(latest, limit-p.strokes[mv.From])
		}

		hoist := -1
		if !ref.shuttle {
			hoist = assign[ref.idx]
		}
		start := ready
		if hoist >= 0 {
			var ok bool
			if start, ok = p.earliest(tl, hoist, mv, ready, latest); !ok {
				return false
			}
			tl.hoists[hoist] = append(tl.hoists[hoist], booking{start: start, end: start + mv.Duration(), from: mv.From, to: mv.To})
		} else if ready > latest+eps {
			return false
		}

		if mv.Kind != MoveEntry {
			stay.length = start + p.strokes[mv.From] - stay.start
			tl.tanks[mv.From] = append(tl.tanks[mv.From], stay)
		}
		tl.slots = append(tl.slots, Slot{
			Move:  ref.idx,
			Hoist: hoist + 1,
			Rack:  r,
			Start: start,
			End:   start + mv.Duration(),
			Wait:  start - ready,
		})
		drop = start + mv.Duration()
	}
	return true
}

// candidates lists the moments in [ready, latest] at which mv could start on
// hoist h: ready itself and the end of every committed booking plus the empty
// run from it. The earliest feasible start is always one of them.
func (p *Planner) candidates(tl *timelines, h int, mv Move, ready, latest float64) []float64 {
	out := []float64{ready}
	for _, b := range tl.hoists[h] {
		free := b.end + p.model.EmptyTravel(b.to, mv.From)
		if c := ready + wrap(free-ready, tl.T); c <= latest+eps {
			out = append(out, c)
		}
	}
	sort.Float64s(out)
	return out
}

// earliest is the first candidate start for mv on hoist h that clears every
// booking on the hoist's timeline.
func (p *Planner) earliest(tl *timelines, h int, mv Move, ready, latest float64) (float64, bool) {
	if mv.Duration()+p.model.EmptyTravel(mv.To, mv.From) > tl.T+eps {
		return 0, false
	}
	for _, c := range p.candidates(tl, h, mv, ready, latest) {
		if c > latest+eps {
			break
		}
		if p.fits(tl, h, mv, c) {
			return c, true
		}
	}
	return 0, false
}

// fits reports whether mv can start at s without the hoist needing to be in
// two places at once. Every booking must leave room for the hoist to get
// from mv to it and from it back to mv, going round the cycle.
func (p *Planner) fits(tl *timelines, h int, mv Move, s float64) bool {
	d := mv.Duration()
	for _, b := range tl.hoists[h] {
		x := wrap(b.start-s, tl.T)
		if d+p.model.EmptyTravel(mv.To, b.from) > x+eps {
			return false
		}
		if b.end-b.start+p.model.EmptyTravel(b.to, mv.From) > tl.T-x+eps {
			return false
		}
	}
	return true
}

// tankLimit is the latest moment a stay at station s starting at start may
// end, so that it neither overlaps itself a cycle later nor runs into the
// next committed stay. ok is false when the tank is already taken at start.
func (tl *timelines) tankLimit(s int, start float64) (float64, bool) {
	limit := start + tl.T
	for _, k := range tl.tanks[s] {
		x := wrap(k.start-start, tl.T)
		if k.length > tl.T-x+eps {
			return 0, false
		}
		limit = math.Min(limit, start+x)
	}
	return limit, true
}

// wrap reduces v into [0, T).
func wrap(v, T float64) float64 {
	r := math.Mod(v, T)
	if r < 0 {
		r += T
	}
	return r
}
