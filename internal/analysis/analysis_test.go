package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plating-line-backend/internal/hoist"
	"plating-line-backend/internal/line"
	"plating-line-backend/internal/schedule"
)

func TestProjectCalendarChain(t *testing.T) {
	testCases := []struct {
		name   string
		cycle  float64
		mutate func(p *line.Parameters)
		hour   float64
	}{
		{name: "One part per minute", cycle: 60, hour: 60},
		{name: "Racks and lines multiply", cycle: 90, mutate: func(p *line.Parameters) { p.PartsPerRack = 4; p.ProcessLines = 2 }, hour: 320},
		{name: "Three shifts, six days", cycle: 45, mutate: func(p *line.Parameters) { p.WorkingHoursPerDay = 24; p.WorkingDaysPerWeek = 6 }, hour: 80},
		{name: "No cycle", cycle: 0, hour: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := line.DefaultParameters()
			if tc.mutate != nil {
				tc.mutate(&p)
			}
			r := Project(tc.cycle, p)
			assert.InDelta(t, tc.hour, r.PerHour, 1e-9)
			assert.InDelta(t, r.PerHour*p.WorkingHoursPerDay, r.PerDay, 1e-9)
			assert.InDelta(t, r.PerDay*float64(p.WorkingDaysPerWeek), r.PerWeek, 1e-9)
			assert.InDelta(t, r.PerWeek*WeeksPerMonth, r.PerMonth, 1e-9)
			assert.InDelta(t, r.PerWeek*WeeksPerYear, r.PerYear, 1e-9)
		})
	}
}

func TestGoalConversionRoundTrips(t *testing.T) {
	cal := Calendar{HoursPerDay: 8, DaysPerWeek: 5}
	for _, u := range line.Units {
		t.Run(string(u), func(t *testing.T) {
			g := line.Goal{PrimaryTarget: u}
			g.SetTarget(u, 1000)

			perHour, ok := PerHour(g, cal)
			require.True(t, ok)
			assert.InDelta(t, 1000, cal.FromHourly(perHour).Get(u), 1e-6)

			derived := DeriveGoal(g, cal)
			for _, other := range line.Units {
				require.NotNil(t, derived.Target(other), "unit %s", other)
				assert.InDelta(t, perHour*cal.Hours(other), *derived.Target(other), 1e-6)
			}
			assert.Equal(t, 1000.0, *derived.Target(u))
		})
	}
}

func TestDeriveGoalLeavesUnsetGoalAlone(t *testing.T) {
	g := line.DefaultGoal()
	assert.Equal(t, g, DeriveGoal(g, Calendar{HoursPerDay: 8, DaysPerWeek: 5}))
}

func TestCompareGoal(t *testing.T) {
	rates := Rates{PerHour: 10, PerDay: 80, PerWeek: 400, PerMonth: 1732, PerYear: 20800}
	testCases := []struct {
		name  string
		goal  line.Goal
		meets bool
		gap   float64
		has   bool
	}{
		{name: "Unset goal", goal: line.DefaultGoal()},
		{name: "Zero target", goal: line.Goal{PrimaryTarget: line.UnitDay, TargetPartsPerDay: line.Float(0)}},
		{name: "Exactly met", goal: line.Goal{PrimaryTarget: line.UnitDay, TargetPartsPerDay: line.Float(80)}, meets: true, has: true},
		{name: "Short by a week", goal: line.Goal{PrimaryTarget: line.UnitWeek, TargetPartsPerWeek: line.Float(500)}, gap: 100, has: true},
		{
			name:  "Only the primary unit counts",
			goal:  line.Goal{PrimaryTarget: line.UnitHour, TargetPartsPerHour: line.Float(5), TargetPartsPerDay: line.Float(1e6)},
			meets: true, has: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c := CompareGoal(rates, tc.goal)
			assert.Equal(t, tc.meets, c.Meets)
			assert.Equal(t, tc.has, c.HasGoal)
			assert.InDelta(t, tc.gap, c.Gap, 1e-9)
		})
	}
}

func bottleneckLayout() *line.Layout {
	return line.NewLayout([]line.Station{
		{StationNumber: "1", PositionIndex: 1, ProcessName: "Clean"},
		{StationNumber: "3", PositionIndex: 2, ProcessName: "Rinse"},
	})
}

func TestFindBottleneck(t *testing.T) {
	moves := []schedule.Move{
		{From: 0, To: 1, Cost: costOf(20), Window: 50},
		{From: 1, To: 1, Cost: costOf(20), Window: 30},
	}
	testCases := []struct {
		name  string
		plan  schedule.Plan
		kind  Kind
		label string
		desc  string
	}{
		{
			name: "Saturated tank",
			plan: schedule.Plan{CycleTime: 100, Loads: []float64{40, 100}, Zones: []schedule.Zone{
				{Hoist: 1, Moves: []int{0}, Busy: 20},
				{Hoist: 2, Moves: []int{1}, Busy: 20},
			}},
			kind: KindStation, label: "3",
			desc: "Station 3 (Rinse) occupancy saturated: 100.0s occupied per 100.0s super-cycle",
		},
		{
			name: "Window squeezed by shared hoist",
			plan: schedule.Plan{CycleTime: 100, Loads: []float64{40, 60}, Zones: []schedule.Zone{
				{Hoist: 1, Moves: []int{0, 1}, Busy: 45},
			}, Slots: []schedule.Slot{
				{Move: 0, Hoist: 1, Start: 0, End: 20},
				{Move: 1, Hoist: 1, Start: 50, End: 70, Wait: 30},
			}},
			kind: KindDwellWindow, label: "3",
			desc: "Station 3 (Rinse) dwell window fully saturated",
		},
		{
			name: "Window with margin left",
			plan: schedule.Plan{CycleTime: 100, Loads: []float64{40, 60}, Zones: []schedule.Zone{
				{Hoist: 1, Moves: []int{0, 1}, Busy: 45},
			}, Slots: []schedule.Slot{
				{Move: 0, Hoist: 1, Start: 0, End: 20, Wait: 45},
			}},
			kind: KindDwellWindow, label: "1",
			desc: "Station 1 (Clean) dwell window has 5.0s of margin after waiting 45.0s for hoist 1",
		},
		{
			name: "Busy hoist",
			plan: schedule.Plan{CycleTime: 100, Loads: []float64{40, 60}, Zones: []schedule.Zone{
				{Hoist: 1, Moves: []int{0, 1}, Busy: 95},
			}, Slots: []schedule.Slot{
				{Move: 0, Hoist: 1, Start: 0, End: 20, Wait: 20},
				{Move: 1, Hoist: 1, Start: 50, End: 70, Wait: 20},
			}},
			kind: KindHoist, label: "Hoist 1",
			desc: "Hoist 1 is the busiest hoist: 95.0s busy per 100.0s super-cycle (5.0s idle)",
		},
		{
			name: "Tie prefers the station",
			plan: schedule.Plan{CycleTime: 100, Loads: []float64{40, 100}, Zones: []schedule.Zone{
				{Hoist: 1, Moves: []int{0, 1}, Busy: 100},
			}, Slots: []schedule.Slot{
				{Move: 1, Hoist: 1, Start: 50, End: 70, Wait: 30},
			}},
			kind: KindStation, label: "3",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b := FindBottleneck(tc.plan, moves, bottleneckLayout())
			assert.Equal(t, tc.kind, b.Kind)
			assert.Equal(t, tc.label, b.Label())
			if tc.desc != "" {
				assert.Equal(t, tc.desc, b.Description)
			}
		})
	}
}

func costOf(total float64) hoist.Breakdown { return hoist.Breakdown{Total: total} }

func TestRecommend(t *testing.T) {
	t.Run("Infeasible", func(t *testing.T) {
		recs := Recommend(Situation{Reason: "dwell windows need 4 hoists", HoistCount: 2, MinHoists: 4})
		require.Len(t, recs, 3)
		assert.Contains(t, recs[0], "No feasible hoist schedule")
		assert.Equal(t, "Allow at least 4 hoists.", recs[2])
	})

	t.Run("No goal", func(t *testing.T) {
		recs := Recommend(Situation{Feasible: true, HoistCount: 1, MinHoists: 1, Utilization: 50})
		assert.Equal(t, []string{"Set a production goal to compare the projection against a target."}, recs)
	})

	t.Run("Short of goal behind a station", func(t *testing.T) {
		recs := Recommend(Situation{
			Feasible:     true,
			Bottleneck:   Bottleneck{Kind: KindStation, Station: "3"},
			Goal:         Comparison{HasGoal: true, Unit: line.UnitDay, Target: 500, Projected: 200, Gap: 300},
			HoistCount:   2,
			MinHoists:    2,
			ProcessLines: 1,
			Utilization:  95,
		})
		assert.Equal(t, []string{
			"Projected 200.0 parts per day falls 300.0 short of the 500.0 goal.",
			"Reduce dwell time at Station 3 or add a parallel tank; its occupancy sets the cycle.",
			"Alternatively run 3 parallel process lines instead of 1.",
			"Hoist utilization is 95%; little margin is left for disturbances.",
		}, recs)
	})

	t.Run("Idle hoists", func(t *testing.T) {
		recs := Recommend(Situation{
			Feasible: true, HoistCount: 4, MinHoists: 1, Utilization: 12, Approximated: true,
			Goal: Comparison{HasGoal: true, Unit: line.UnitHour, Target: 10, Projected: 15, Meets: true},
		})
		require.Len(t, recs, 3)
		assert.Equal(t, "Projected output meets the hour goal with 50% headroom.", recs[0])
		assert.Contains(t, recs[1], "1 hoist(s) would run the line")
		assert.Contains(t, recs[2], "approximate")
	})
}

func TestBottleneckSlackIsFinite(t *testing.T) {
	moves := []schedule.Move{{From: 0, To: 0, Cost: costOf(5), Window: math.Inf(1)}}
	plan := schedule.Plan{CycleTime: 10, Loads: []float64{10, 0}, Zones: []schedule.Zone{{Hoist: 1, Moves: []int{0}, Busy: 5}},
		Slots: []schedule.Slot{{Move: 0, Hoist: 1, Start: 3, End: 8, Wait: 3}}}
	b := FindBottleneck(plan, moves, bottleneckLayout())
	assert.False(t, math.IsInf(b.Slack, 0))
	assert.Equal(t, KindStation, b.Kind)
}
