package schedule

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"plating-line-backend/internal/line"
)

// MinCycle binary-searches the smallest cycle time at which the placement
// succeeds for a fixed hoist count. The upper bound always places, so the
// search keeps a feasible plan throughout and stops once the gap to a failed
// cycle time is within the tolerance. ok is false when no cycle time works
// with this many hoists.
func (p *Planner) MinCycle(ctx context.Context, hoists int) (Plan, bool, error) {
	if err := ctx.Err(); err != nil {
		return Plan{}, false, err
	}
	if hoists < 1 {
		return Plan{}, false, nil
	}
	lo, hi := p.bounds(hoists)
	plan, ok := p.Feasible(hi, hoists)
	if !ok {
		p.log.Debug("no feasible cycle", zap.Int("hoists", hoists), zap.Float64("upper_bound", hi))
		return Plan{}, false, nil
	}

	iterations := 0
	if lp, ok := p.Feasible(lo, hoists); ok {
		plan = lp
	} else {
		for hi-lo > p.tolerance {
			if err := ctx.Err(); err != nil {
				return Plan{}, false, err
			}
			iterations++
			mid := lo + (hi-lo)/2
			if mp, ok := p.Feasible(mid, hoists); ok {
				hi, plan = mid, mp
			} else {
				lo = mid
			}
		}
	}

	p.log.Debug("cycle search",
		zap.Int("hoists", hoists),
		zap.Int("iterations", iterations),
		zap.Float64("cycle_time", plan.CycleTime),
		zap.Int("zones", len(plan.Zones)))
	return plan, true, nil
}

// MinHoists is the fewest hoists that can run the line at any cycle time,
// the zone count at the upper bound of the search. ok is false when that
// count exceeds the number of stations.
func (p *Planner) MinHoists() (int, bool) {
	_, hi := p.bounds(1)
	zones, _, _ := p.pack(hi, len(p.moves)+1)
	n := max(len(zones), 1)
	return n, n <= max(p.Stations(), 1)
}

// Candidate is the outcome of the cycle search at one hoist count.
type Candidate struct {
	Hoists    int
	CycleTime float64
	Feasible  bool
	Plan      Plan
}

// Sweep runs MinCycle for every hoist count in [from, to] concurrently. The
// result is ordered by hoist count regardless of completion order. A plan
// that works with fewer hoists also works with more, so a count never
// reports a longer cycle than the count below it.
func (p *Planner) Sweep(ctx context.Context, from, to int) ([]Candidate, error) {
	if from < 1 {
		from = 1
	}
	if to < from {
		return nil, nil
	}
	cands := make([]Candidate, to-from+1)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i := range cands {
		i := i
		hoists := from + i
		g.Go(func() error {
			plan, ok, err := p.MinCycle(gCtx, hoists)
			if err != nil {
				return fmt.Errorf("hoists=%d: %w", hoists, err)
			}
			cands[i] = Candidate{Hoists: hoists, CycleTime: plan.CycleTime, Feasible: ok, Plan: plan}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := 1; i < len(cands); i++ {
		prev := cands[i-1]
		if prev.Feasible && (!cands[i].Feasible || prev.CycleTime < cands[i].CycleTime-eps) {
			plan := prev.Plan
			plan.Hoists = cands[i].Hoists
			cands[i] = Candidate{Hoists: cands[i].Hoists, CycleTime: prev.CycleTime, Feasible: true, Plan: plan}
		}
	}
	return cands, nil
}

// Best picks the feasible candidate with the shortest cycle, preferring fewer
// hoists on ties.
func Best(cands []Candidate) (Candidate, bool) {
	var best Candidate
	found := false
	for _, c := range cands {
		if !c.Feasible {
			continue
		}
		if !found || c.CycleTime < best.CycleTime-eps ||
			(math.Abs(c.CycleTime-best.CycleTime) <= eps && c.Hoists < best.Hoists) {
			best, found = c, true
		}
	}
	return best, found
}

// Solution is the hoist count and plan chosen for an optimization target.
type Solution struct {
	Plan       Plan
	Hoists     int
	MinHoists  int
	Feasible   bool
	Reason     string
	Candidates []Candidate
}

// Solve chooses the hoist count for the target and finds its minimal cycle.
// A manual hoist count overrides the target. Infeasibility is reported in
// the solution, not as an error; errors only come from ctx.
func (p *Planner) Solve(ctx context.Context, target line.OptimizationTarget, manual, maxHoists *int) (Solution, error) {
	minHoists, ok := p.MinHoists()
	sol := Solution{MinHoists: minHoists}

	if manual != nil {
		sol.Hoists = *manual
		plan, ok, err := p.MinCycle(ctx, *manual)
		if err != nil {
			return Solution{}, err
		}
		if !ok {
			sol.Reason = fmt.Sprintf("%d manual hoist(s) cannot serve the line: dwell windows need at least %d", *manual, minHoists)
			return sol, nil
		}
		sol.Plan, sol.Feasible = plan, true
		return sol, nil
	}

	if !ok {
		sol.Hoists = minHoists
		sol.Reason = fmt.Sprintf("dwell windows need %d hoists, more than the %d stations on the line", minHoists, p.Stations())
		return sol, nil
	}

	switch target {
	case line.TargetThroughput:
		limit := max(p.Stations(), minHoists)
		if maxHoists != nil {
			limit = *maxHoists
		}
		if limit < minHoists {
			sol.Hoists = limit
			sol.Reason = fmt.Sprintf("max_hoist_count %d is below the %d hoists the dwell windows need", limit, minHoists)
			return sol, nil
		}
		cands, err := p.Sweep(ctx, minHoists, limit)
		if err != nil {
			return Solution{}, err
		}
		sol.Candidates = cands
		best, found := Best(cands)
		if !found {
			sol.Hoists = limit
			sol.Reason = "no hoist count up to the limit yields a feasible schedule"
			return sol, nil
		}
		sol.Hoists, sol.Plan, sol.Feasible = best.Hoists, best.Plan, true
	default:
		// Fewest hoists, then the shortest cycle they can run.
		sol.Hoists = minHoists
		plan, ok, err := p.MinCycle(ctx, minHoists)
		if err != nil {
			return Solution{}, err
		}
		if !ok {
			sol.Reason = fmt.Sprintf("no feasible cycle with %d hoists", minHoists)
			return sol, nil
		}
		sol.Plan, sol.Feasible = plan, true
	}
	return sol, nil
}
