// Package simulation runs the full pipeline from a line definition to a
// result record: resolve, interleave, schedule, analyse, project.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"plating-line-backend/internal/analysis"
	"plating-line-backend/internal/hoist"
	"plating-line-backend/internal/line"
	"plating-line-backend/internal/schedule"
)

// ErrTimeout is returned when a run does not finish within its budget. The
// caller may retry.
var ErrTimeout = errors.New("simulation timed out")

// DefaultName is used for results that were not given a name.
const DefaultName = "Simulation Run"

// Options tune the engine.
type Options struct {
	Tolerance          float64
	MaxSuperCycleRacks int
	Workers            int
	Timeout            time.Duration
}

// DefaultOptions returns the engine settings used when none are configured.
func DefaultOptions() Options {
	return Options{
		Tolerance:          schedule.DefaultTolerance,
		MaxSuperCycleRacks: schedule.DefaultMaxSuperCycleRacks,
		Workers:            4,
		Timeout:            2 * time.Second,
	}
}

// Input is the immutable snapshot one run works on.
type Input struct {
	Line       line.Line
	Parameters line.Parameters
	Goal       line.Goal
	Name       string
	Notes      string
}

// Engine runs simulations. It keeps no state between runs.
type Engine struct {
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

// NewEngine creates an engine with the given options and logger.
func NewEngine(opts Options, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{opts: opts, logger: logger, now: time.Now}
}

// Run performs a full simulation. Invalid input yields line.ValidationErrors;
// an infeasible line yields a result with Feasible false, not an error.
func (e *Engine) Run(ctx context.Context, in Input) (Result, error) {
	return e.bounded(ctx, in, false)
}

// Quick is the inline preview: it always schedules with the fewest hoists
// (or the manual count), skips the per-recipe, per-station and per-hoist
// breakdowns, and reports invalid input in Result.Error instead of failing.
// The result names balanced as its target.
func (e *Engine) Quick(ctx context.Context, in Input) (Result, error) {
	res, err := e.bounded(ctx, in, true)
	var es line.ValidationErrors
	if errors.As(err, &es) {
		return Result{
			Name:            nameOr(in.Name),
			RunID:           uuid.New(),
			Error:           es.Error(),
			Issues:          es,
			Recommendations: []string{},
			SimulationDate:  e.now(),
		}, nil
	}
	return res, err
}

// bounded applies the timeout. The computation runs on its own goroutine so
// that an expired budget returns promptly even between search checkpoints.
func (e *Engine) bounded(ctx context.Context, in Input, quick bool) (Result, error) {
	if ctx.Err() != nil {
		return Result{}, ErrTimeout
	}
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	type outcome struct {
		res Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := e.simulate(ctx, in, quick)
		done <- outcome{res, err}
	}()

	select {
	case <-ctx.Done():
		return Result{}, ErrTimeout
	case o := <-done:
		if errors.Is(o.err, context.DeadlineExceeded) || errors.Is(o.err, context.Canceled) {
			return Result{}, ErrTimeout
		}
		return o.res, o.err
	}
}

func (e *Engine) simulate(ctx context.Context, in Input, quick bool) (Result, error) {
	started := time.Now()
	p := in.Parameters

	layout, routes, err := validate(in)
	if err != nil {
		return Result{}, err
	}

	planner, sc, moves := e.plan(layout, routes, p)

	target := p.OptimizationTarget
	if quick {
		target = line.TargetBalanced
	}
	sol, err := planner.Solve(ctx, target, p.ManualHoistCount, p.MaxHoistCount)
	if err != nil {
		return Result{}, fmt.Errorf("solve: %w", err)
	}

	res := Result{
		Name:                 nameOr(in.Name),
		Notes:                in.Notes,
		RunID:                uuid.New(),
		SimulationDate:       e.now(),
		OptimizationTarget:   target,
		Feasible:             sol.Feasible,
		HoistCount:           sol.Hoists,
		CalculatedHoistCount: sol.MinHoists,
		RacksPerSuperCycle:   sc.Racks(),
		MovesPerCycle:        len(moves),
		RecipeCount:          len(routes),
		RatioApproximated:    sc.Approximated,
	}
	for _, r := range routes {
		res.TotalRatio += r.Ratio
	}
	res.TotalProcessTime, res.TotalTransferTime, res.TotalDripTime = totals(routes, sc, moves)

	situation := analysis.Situation{
		Feasible:        sol.Feasible,
		Reason:          sol.Reason,
		HoistCount:      sol.Hoists,
		MinHoists:       sol.MinHoists,
		ProcessLines:    p.ProcessLines,
		Approximated:    sc.Approximated,
		StationsOnTrack: len(layout.Stations),
	}

	if !sol.Feasible {
		res.Error = "infeasible configuration: " + sol.Reason
		res.BottleneckDescription = "Infeasible configuration: " + sol.Reason
		res.Recommendations = analysis.Recommend(situation)
		e.logRun(res, started)
		return res, nil
	}

	plan := sol.Plan
	res.SuperCycleTime = plan.CycleTime
	res.CycleTime = plan.CycleTime / float64(sc.Racks())

	var busy float64
	for _, z := range plan.Zones {
		busy += z.Busy
	}
	res.HoistUtilization = 100 * busy / (float64(sol.Hoists) * plan.CycleTime)

	rates := analysis.Project(res.CycleTime, p)
	res.PartsPerHour, res.PartsPerDay, res.PartsPerWeek = rates.PerHour, rates.PerDay, rates.PerWeek
	res.PartsPerMonth, res.PartsPerYear = rates.PerMonth, rates.PerYear

	bottleneck := analysis.FindBottleneck(plan, planner.Moves(), layout)
	res.BottleneckStation = bottleneck.Label()
	res.BottleneckDescription = bottleneck.Description
	res.BottleneckKind = string(bottleneck.Kind)

	cmp := analysis.CompareGoal(rates, in.Goal)
	res.MeetsProductionGoal = cmp.Meets

	situation.Bottleneck = bottleneck
	situation.Goal = cmp
	situation.Utilization = res.HoistUtilization
	res.Recommendations = analysis.Recommend(situation)

	if !quick {
		res.RecipeResults = recipeResults(routes, sc, moves, rates)
		res.StationUtilization = stationUtilization(layout, plan)
		res.HoistZones = hoistZones(layout, plan, planner.Moves())
	}
	e.logRun(res, started)
	return res, nil
}

// plan interleaves the routes into a super-cycle and prepares its moves for
// the cycle search.
func (e *Engine) plan(layout *line.Layout, routes []line.Route, p line.Parameters) (*schedule.Planner, schedule.SuperCycle, []schedule.Move) {
	model := hoist.NewModel(layout, p)
	sc := schedule.Interleave(routes, e.opts.MaxSuperCycleRacks)
	moves := schedule.BuildMoves(model, routes, sc, p.HasTransferShuttle)
	planner := schedule.NewPlanner(model, moves, schedule.StationLoads(model, routes, sc),
		schedule.WithTolerance(e.opts.Tolerance),
		schedule.WithWorkers(e.opts.Workers),
		schedule.WithLogger(e.logger))
	return planner, sc, moves
}

func (e *Engine) logRun(res Result, started time.Time) {
	e.logger.Info("simulation finished",
		zap.String("run_id", res.RunID.String()),
		zap.String("target", string(res.OptimizationTarget)),
		zap.Bool("feasible", res.Feasible),
		zap.Int("hoists", res.HoistCount),
		zap.Float64("cycle_time", res.CycleTime),
		zap.Duration("elapsed", time.Since(started)))
}

// Validate reports every problem with the input without scheduling.
func Validate(in Input) error {
	_, _, err := validate(in)
	return err
}

// validate checks parameters, goal and line together so one response lists
// every problem.
func validate(in Input) (*line.Layout, []line.Route, error) {
	var es line.ValidationErrors
	collect := func(prefix string, err error) {
		var found line.ValidationErrors
		if errors.As(err, &found) {
			for _, f := range found {
				f.Field = prefix + f.Field
				es = append(es, f)
			}
		}
	}
	collect("parameters.", line.ValidateParameters(in.Parameters))
	collect("goal.", line.ValidateGoal(in.Goal))
	layout, routes, err := line.Resolve(in.Line)
	collect("", err)
	if len(es) > 0 {
		return nil, nil, es
	}
	return layout, routes, nil
}

func nameOr(name string) string {
	if name == "" {
		return DefaultName
	}
	return name
}

// totals averages dwell, transfer and drip time per rack over a super-cycle.
func totals(routes []line.Route, sc schedule.SuperCycle, moves []schedule.Move) (process, transfer, drip float64) {
	if sc.Racks() == 0 {
		return 0, 0, 0
	}
	for _, ri := range sc.Order {
		for _, st := range routes[ri].Steps {
			process += st.Dwell
		}
	}
	for _, mv := range moves {
		transfer += mv.Cost.Total - mv.Cost.Drip
		drip += mv.Cost.Drip
	}
	n := float64(sc.Racks())
	return process / n, transfer / n, drip / n
}

func recipeResults(routes []line.Route, sc schedule.SuperCycle, moves []schedule.Move, rates analysis.Rates) []RecipeResult {
	flow := make([]float64, len(routes))
	firstRack := make([]int, len(routes))
	for i := range firstRack {
		firstRack[i] = -1
	}
	for rack, ri := range sc.Order {
		if firstRack[ri] < 0 {
			firstRack[ri] = rack
		}
	}
	for _, mv := range moves {
		if mv.Rack == firstRack[mv.Route] {
			flow[mv.Route] += mv.Duration()
		}
	}

	out := make([]RecipeResult, len(routes))
	racks := float64(sc.Racks())
	for i, r := range routes {
		for _, st := range r.Steps {
			flow[i] += st.Dwell
		}
		share := float64(sc.Counts[i]) / racks
		out[i] = RecipeResult{
			RecipeID:           r.RecipeID,
			Name:               r.Name,
			ProductionRatio:    r.Ratio,
			RacksPerSuperCycle: sc.Counts[i],
			Steps:              len(r.Steps),
			FlowTime:           flow[i],
			PartsPerHour:       rates.PerHour * share,
			PartsPerDay:        rates.PerDay * share,
		}
	}
	return out
}

func stationUtilization(layout *line.Layout, plan schedule.Plan) []StationUtilization {
	out := make([]StationUtilization, 0, len(layout.Stations))
	for i, st := range layout.Stations {
		out = append(out, StationUtilization{
			StationNumber: st.StationNumber,
			ProcessName:   st.ProcessName,
			Occupied:      plan.Loads[i],
			Utilization:   100 * plan.Loads[i] / plan.CycleTime,
		})
	}
	return out
}

func hoistZones(layout *line.Layout, plan schedule.Plan, moves []schedule.Move) []HoistZone {
	out := make([]HoistZone, 0, len(plan.Zones))
	for _, z := range plan.Zones {
		seen := map[int]bool{}
		for _, mi := range z.Moves {
			seen[moves[mi].From] = true
			seen[moves[mi].To] = true
		}
		idx := make([]int, 0, len(seen))
		for s := range seen {
			idx = append(idx, s)
		}
		sort.Ints(idx)
		stations := make([]string, len(idx))
		for k, s := range idx {
			stations[k] = layout.Stations[s].StationNumber
		}
		out = append(out, HoistZone{
			Hoist:       z.Hoist,
			Stations:    stations,
			Moves:       len(z.Moves),
			Busy:        z.Busy,
			Utilization: 100 * z.Busy / plan.CycleTime,
		})
	}
	return out
}

// SweepPoint is the projected output at one hoist count.
type SweepPoint struct {
	Hoists       int     `json:"hoists"`
	Feasible     bool    `json:"feasible"`
	CycleTime    float64 `json:"cycle_time"`
	PartsPerHour float64 `json:"parts_per_hour"`
}

// Sweep reports cycle time and hourly output for every hoist count from 1 to
// maxHoists. It shares Run's validation and timeout rules.
func (e *Engine) Sweep(ctx context.Context, in Input, maxHoists int) ([]SweepPoint, error) {
	if ctx.Err() != nil {
		return nil, ErrTimeout
	}
	if e.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.opts.Timeout)
		defer cancel()
	}

	layout, routes, err := validate(in)
	if err != nil {
		return nil, err
	}
	p := in.Parameters
	planner, sc, _ := e.plan(layout, routes, p)

	cands, err := planner.Sweep(ctx, 1, maxHoists)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, ErrTimeout
		}
		return nil, err
	}
	points := make([]SweepPoint, len(cands))
	for i, c := range cands {
		points[i] = SweepPoint{Hoists: c.Hoists, Feasible: c.Feasible}
		if c.Feasible {
			points[i].CycleTime = c.CycleTime / float64(sc.Racks())
			points[i].PartsPerHour = analysis.Project(points[i].CycleTime, p).PerHour
		}
	}
	return points, nil
}
