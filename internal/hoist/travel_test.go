package hoist

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plating-line-backend/internal/line"
)

func TestAxisTime(t *testing.T) {
	testCases := []struct {
		name     string
		d, v, a  float64
		expected float64
	}{
		{name: "Zero distance", d: 0, v: 0.5, a: 0.1, expected: 0},
		{name: "No acceleration limit", d: 4, v: 0.5, a: 0, expected: 8},
		// v²/a = 2.5 m needed to reach and leave cruise speed.
		{name: "Reaches cruise", d: 10, v: 0.5, a: 0.1, expected: 25},
		{name: "Exactly reaches cruise", d: 2.5, v: 0.5, a: 0.1, expected: 10},
		{name: "Triangular profile", d: 0.4, v: 0.5, a: 0.1, expected: 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, AxisTime(tc.d, tc.v, tc.a), 1e-9)
		})
	}
}

func TestAxisTimeIsSubadditive(t *testing.T) {
	for _, d1 := range []float64{0.1, 0.5, 2, 7} {
		for _, d2 := range []float64{0.2, 1, 3.3, 12} {
			assert.LessOrEqual(t, AxisTime(d1+d2, 0.5, 0.1), AxisTime(d1, 0.5, 0.1)+AxisTime(d2, 0.5, 0.1)+1e-9)
		}
	}
}

func TestMoveTimeTakesSlowerAxis(t *testing.T) {
	k := Kinematics{HorizontalSpeed: 1, VerticalSpeed: 0.5, Acceleration: 0}
	assert.InDelta(t, 10, k.MoveTime(10, 1, 1), 1e-9)
	assert.InDelta(t, 8, k.MoveTime(2, 2, 2), 1e-9)
}

func testLayout() *line.Layout {
	return line.NewLayout([]line.Station{
		{StationNumber: "L", PositionIndex: 0, DistanceToNext: 4, TankLength: 1, TankWidth: 1, IsLoadingStation: true},
		{StationNumber: "P", PositionIndex: 1, DistanceToNext: 6, TankLength: 3, TankWidth: 2},
		{StationNumber: "U", PositionIndex: 2, TankLength: 1, TankWidth: 1, IsUnloadingStation: true},
	})
}

func TestMoveDuration(t *testing.T) {
	p := line.DefaultParameters()
	p.HoistSpeedHorizontal = 1
	p.HoistSpeedVertical = 0.5
	p.HoistAcceleration = 0
	p.TransferTime = 10
	p.PartLoadTime = 60
	p.PartUnloadTime = 45
	m := NewModel(testLayout(), p)

	testCases := []struct {
		name     string
		from, to int
		drip     float64
		expected Breakdown
	}{
		{
			// Horizontal 4 s, vertical (1 + 2) / 0.5 = 6 s.
			name: "From loading station", from: 0, to: 1,
			expected: Breakdown{Travel: 6, Transfer: 10, Load: 60, Total: 76},
		},
		{
			name: "Into unloading station with drip", from: 1, to: 2, drip: 15,
			expected: Breakdown{Travel: 6, Transfer: 10, Unload: 45, Drip: 15, Total: 76},
		},
		{
			name: "Long run dominated by horizontal", from: 0, to: 2,
			expected: Breakdown{Travel: 10, Transfer: 10, Load: 60, Unload: 45, Total: 125},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := m.MoveDuration(tc.from, tc.to, tc.drip)
			assert.InDelta(t, tc.expected.Travel, got.Travel, 1e-9)
			assert.InDelta(t, tc.expected.Total, got.Total, 1e-9)
			assert.Equal(t, tc.expected.Load, got.Load)
			assert.Equal(t, tc.expected.Unload, got.Unload)
			assert.Equal(t, tc.expected.Drip, got.Drip)
		})
	}

	assert.InDelta(t, 10, m.EmptyTravel(2, 0), 1e-9)
	assert.Zero(t, m.EmptyTravel(1, 1))
}

func TestStroke(t *testing.T) {
	p := line.DefaultParameters()
	p.HoistSpeedVertical = 0.5
	p.HoistAcceleration = 0
	m := NewModel(testLayout(), p)

	assert.InDelta(t, 2, m.Stroke(0), 1e-9)
	assert.InDelta(t, 4, m.Stroke(1), 1e-9)

	// The stroke is part of every move touching the tank.
	assert.GreaterOrEqual(t, m.MoveDuration(1, 1, 0).Travel, 2*m.Stroke(1))
}

func TestLiftHeightOverride(t *testing.T) {
	p := line.DefaultParameters()
	m := NewModel(testLayout(), p)
	assert.Equal(t, 2.0, m.Lift(1))

	p.LiftHeight = line.Float(1.2)
	m = NewModel(testLayout(), p)
	assert.Equal(t, 1.2, m.Lift(1))
}
