package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"plating-line-backend/internal/hoist"
	"plating-line-backend/internal/line"
)

func newTestEngine() *Engine {
	return NewEngine(DefaultOptions(), zap.NewNop())
}

func bareParams() line.Parameters {
	p := line.DefaultParameters()
	p.TransferTime = 0
	p.PartLoadTime = 0
	p.PartUnloadTime = 0
	return p
}

func etchLine(recipes int, lo, hi float64) line.Line {
	l := line.Line{Stations: []line.Station{{StationNumber: "1", PositionIndex: 1, ProcessName: "Etch"}}}
	for i := 0; i < recipes; i++ {
		l.Recipes = append(l.Recipes, line.Recipe{
			Name: string(rune('A' + i)), ProductionRatio: 1, IsActive: true,
			Steps: []line.RecipeStep{{Station: "1", StepOrder: 1, MinDwellTime: line.Float(lo), MaxDwellTime: line.Float(hi)}},
		})
	}
	return l
}

func nickelLine() line.Line {
	tank := func(n, name string, pos int) line.Station {
		return line.Station{StationNumber: n, PositionIndex: pos, ProcessName: name, TankLength: 1.2, TankWidth: 0.6, DistanceToNext: 1.5}
	}
	stations := []line.Station{
		tank("1", "Load", 1), tank("2", "Degrease", 2), tank("3", "Rinse", 3),
		tank("4", "Nickel", 4), tank("5", "Rinse", 5), tank("6", "Unload", 6),
	}
	stations[0].IsLoadingStation = true
	stations[5].IsUnloadingStation = true
	step := func(st string, order int, dwell, lo, hi, drip float64) line.RecipeStep {
		return line.RecipeStep{Station: st, StepOrder: order, DwellTime: line.Float(dwell),
			MinDwellTime: line.Float(lo), MaxDwellTime: line.Float(hi), DripTime: drip}
	}
	return line.Line{
		Stations: stations,
		Recipes: []line.Recipe{
			{
				ID: 1, Name: "Bright nickel", ProductionRatio: 2, IsActive: true,
				Steps: []line.RecipeStep{
					step("2", 1, 300, 240, 420, 10),
					step("3", 2, 60, 30, 120, 5),
					step("4", 3, 900, 840, 1200, 15),
					step("5", 4, 60, 30, 180, 5),
				},
			},
			{
				ID: 2, Name: "Satin nickel", ProductionRatio: 1, IsActive: true,
				Steps: []line.RecipeStep{
					step("2", 1, 300, 240, 420, 10),
					step("4", 2, 1200, 1100, 1500, 15),
					step("5", 3, 60, 30, 180, 5),
				},
			},
		},
	}
}

func TestRunSingleStation(t *testing.T) {
	l := etchLine(1, 10, 10)
	l.Stations[0].TankLength, l.Stations[0].TankWidth = 1, 0.6
	layout, _, err := line.Resolve(l)
	require.NoError(t, err)
	move := hoist.NewModel(layout, bareParams()).MoveDuration(0, 0, 0).Total
	require.InDelta(t, 10, move, 1e-9)

	res, err := newTestEngine().Run(context.Background(), Input{Line: l, Parameters: bareParams(), Goal: line.DefaultGoal()})
	require.NoError(t, err)

	assert.True(t, res.Feasible)
	assert.InDelta(t, 20, res.CycleTime, 1e-9)
	assert.Equal(t, 1, res.HoistCount)
	assert.Equal(t, 1, res.MovesPerCycle)
	assert.InDelta(t, 180, res.PartsPerHour, 1e-9)
	assert.InDelta(t, 100*move/res.CycleTime, res.HoistUtilization, 1e-9)
	assert.Equal(t, "1", res.BottleneckStation)
	assert.Equal(t, "Station 1 (Etch) occupancy saturated: 20.0s occupied per 20.0s super-cycle", res.BottleneckDescription)
	assert.Equal(t, DefaultName, res.Name)
	assert.False(t, res.MeetsProductionGoal)
}

func TestRunOneToOneRecipes(t *testing.T) {
	res, err := newTestEngine().Run(context.Background(), Input{Line: etchLine(2, 10, 10), Parameters: bareParams(), Goal: line.DefaultGoal()})
	require.NoError(t, err)

	assert.Equal(t, 2, res.RacksPerSuperCycle)
	assert.Equal(t, 2, res.MovesPerCycle)
	assert.InDelta(t, 20, res.SuperCycleTime, 1e-9)
	assert.InDelta(t, res.SuperCycleTime/2, res.CycleTime, 1e-9)
	require.Len(t, res.RecipeResults, 2)
	assert.InDelta(t, res.PartsPerHour/2, res.RecipeResults[0].PartsPerHour, 1e-9)
}

func TestRunRejectsInvalidInput(t *testing.T) {
	testCases := []struct {
		name  string
		in    Input
		field string
	}{
		{
			name:  "Inverted dwell window",
			in:    Input{Line: etchLine(1, 20, 10), Parameters: bareParams(), Goal: line.DefaultGoal()},
			field: "recipes[0].steps[0].min_dwell_time",
		},
		{
			name:  "Empty process map",
			in:    Input{Line: line.Line{}, Parameters: bareParams(), Goal: line.DefaultGoal()},
			field: "recipes",
		},
		{
			name: "Bad parameters",
			in: Input{Line: etchLine(1, 10, 10), Goal: line.DefaultGoal(), Parameters: func() line.Parameters {
				p := bareParams()
				p.PartsPerRack = 0
				return p
			}()},
			field: "parameters.parts_per_rack",
		},
		{
			name:  "Bad goal",
			in:    Input{Line: etchLine(1, 10, 10), Parameters: bareParams(), Goal: line.Goal{PrimaryTarget: "shift"}},
			field: "goal.primary_target",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := newTestEngine().Run(context.Background(), tc.in)
			var es line.ValidationErrors
			require.ErrorAs(t, err, &es)
			assert.Equal(t, tc.field, es[0].Field)
			assert.Zero(t, res.CycleTime)
		})
	}
}

func TestRunWithCancelledContextTimesOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestEngine().Run(ctx, Input{Line: nickelLine(), Parameters: line.DefaultParameters(), Goal: line.DefaultGoal()})
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestRunZeroSlackRecipesShareOneHoist(t *testing.T) {
	fixed := func(st string, order int) line.RecipeStep {
		return line.RecipeStep{Station: st, StepOrder: order, MinDwellTime: line.Float(30), MaxDwellTime: line.Float(30)}
	}
	l := line.Line{
		Stations: []line.Station{
			{StationNumber: "A", PositionIndex: 1, DistanceToNext: 3},
			{StationNumber: "B", PositionIndex: 2},
		},
		Recipes: []line.Recipe{
			{Name: "Chrome", ProductionRatio: 1, IsActive: true, Steps: []line.RecipeStep{fixed("A", 1), fixed("B", 2)}},
			{Name: "Brass", ProductionRatio: 1, IsActive: true, Steps: []line.RecipeStep{fixed("A", 1), fixed("B", 2)}},
		},
	}
	goal := line.Goal{PrimaryTarget: line.UnitHour, TargetPartsPerHour: line.Float(1)}

	res, err := newTestEngine().Run(context.Background(), Input{Line: l, Parameters: line.DefaultParameters(), Goal: goal})
	require.NoError(t, err)

	require.True(t, res.Feasible, res.Error)
	assert.Empty(t, res.Error)
	assert.Equal(t, 1, res.CalculatedHoistCount)
	assert.Equal(t, 1, res.HoistCount)
	assert.GreaterOrEqual(t, res.SuperCycleTime, 60.0)
	assert.Greater(t, res.PartsPerHour, 0.0)
	assert.True(t, res.MeetsProductionGoal)
}

func TestRunMultiRecipeLine(t *testing.T) {
	params := line.DefaultParameters()
	params.PartsPerRack = 12
	params.OptimizationTarget = line.TargetThroughput
	goal := line.Goal{PrimaryTarget: line.UnitDay, TargetPartsPerDay: line.Float(100)}

	res, err := newTestEngine().Run(context.Background(), Input{Line: nickelLine(), Parameters: params, Goal: goal, Name: "Nickel shift"})
	require.NoError(t, err)
	require.True(t, res.Feasible, res.Error)

	assert.Equal(t, "Nickel shift", res.Name)
	assert.Equal(t, 3, res.RacksPerSuperCycle)
	assert.Equal(t, 3, res.TotalRatio)
	assert.Equal(t, 2, res.RecipeCount)
	assert.GreaterOrEqual(t, res.HoistCount, res.CalculatedHoistCount)
	assert.InDelta(t, res.SuperCycleTime/3, res.CycleTime, 1e-9)
	assert.InDelta(t, res.PartsPerHour*params.WorkingHoursPerDay, res.PartsPerDay, 1e-6)
	assert.InDelta(t, res.PartsPerDay*float64(params.WorkingDaysPerWeek), res.PartsPerWeek, 1e-6)
	assert.Equal(t, res.PartsPerDay >= 100, res.MeetsProductionGoal)
	assert.Greater(t, res.TotalProcessTime, 0.0)
	assert.Greater(t, res.TotalTransferTime, 0.0)
	assert.Greater(t, res.TotalDripTime, 0.0)
	assert.NotEmpty(t, res.BottleneckStation)
	assert.NotEmpty(t, res.Recommendations)

	require.Len(t, res.RecipeResults, 2)
	assert.Equal(t, 2, res.RecipeResults[0].RacksPerSuperCycle)
	assert.Equal(t, 1, res.RecipeResults[1].RacksPerSuperCycle)
	assert.Greater(t, res.RecipeResults[1].FlowTime, 1200.0)
	require.Len(t, res.StationUtilization, 6)
	for _, su := range res.StationUtilization {
		assert.LessOrEqual(t, su.Utilization, 100+1e-9)
	}
	assert.NotEmpty(t, res.HoistZones)
	assert.LessOrEqual(t, len(res.HoistZones), res.HoistCount)
}

func TestQuick(t *testing.T) {
	t.Run("Invalid input is reported inline", func(t *testing.T) {
		res, err := newTestEngine().Quick(context.Background(), Input{Line: line.Line{}, Parameters: bareParams(), Goal: line.DefaultGoal()})
		require.NoError(t, err)
		assert.Contains(t, res.Error, "process map is empty")
		require.Len(t, res.Issues, 1)
		assert.False(t, res.Feasible)
	})

	t.Run("Preview omits breakdowns", func(t *testing.T) {
		params := line.DefaultParameters()
		params.OptimizationTarget = line.TargetThroughput
		res, err := newTestEngine().Quick(context.Background(), Input{Line: nickelLine(), Parameters: params, Goal: line.DefaultGoal()})
		require.NoError(t, err)
		assert.True(t, res.Feasible)
		assert.Equal(t, res.CalculatedHoistCount, res.HoistCount)
		assert.Equal(t, line.TargetBalanced, res.OptimizationTarget)
		assert.Nil(t, res.RecipeResults)
		assert.Nil(t, res.HoistZones)
	})
}

func TestSweep(t *testing.T) {
	points, err := newTestEngine().Sweep(context.Background(), Input{Line: nickelLine(), Parameters: line.DefaultParameters(), Goal: line.DefaultGoal()}, 4)
	require.NoError(t, err)
	require.Len(t, points, 4)

	var prev float64
	for _, pt := range points {
		if !pt.Feasible {
			continue
		}
		if prev > 0 {
			assert.LessOrEqual(t, pt.CycleTime, prev+1e-9)
		}
		prev = pt.CycleTime
	}
	assert.Greater(t, prev, 0.0)
}
