// Package hoist models how long a transfer hoist takes to carry a rack
// between two stations of a line.
package hoist

import (
	"math"

	"plating-line-backend/internal/line"
)

// AxisTime returns the duration of a symmetric trapezoidal velocity profile
// covering distance d with cruise speed v and acceleration a. When d is too
// short to reach cruise speed the profile is triangular. A non-positive
// acceleration means the axis reaches cruise speed instantly.
func AxisTime(d, v, a float64) float64 {
	if d <= 0 {
		return 0
	}
	if a <= 0 {
		return d / v
	}
	if d >= v*v/a {
		return d/v + v/a
	}
	return 2 * math.Sqrt(d/a)
}

// Kinematics are the hoist's motion limits.
type Kinematics struct {
	HorizontalSpeed float64
	VerticalSpeed   float64
	Acceleration    float64
}

// MoveTime is the travel time for a horizontal run of h metres while the
// vertical axis performs the given strokes in sequence. Both axes move at
// once, so the slower one decides.
func (k Kinematics) MoveTime(h float64, strokes ...float64) float64 {
	horizontal := AxisTime(h, k.HorizontalSpeed, k.Acceleration)
	var vertical float64
	for _, s := range strokes {
		vertical += AxisTime(s, k.VerticalSpeed, k.Acceleration)
	}
	return math.Max(horizontal, vertical)
}

// Breakdown itemises one loaded hoist move.
type Breakdown struct {
	Travel   float64 `json:"travel"`
	Transfer float64 `json:"transfer"`
	Load     float64 `json:"load"`
	Unload   float64 `json:"unload"`
	Drip     float64 `json:"drip"`
	Total    float64 `json:"total"`
}

// Model prices hoist moves on one line layout.
type Model struct {
	layout     *line.Layout
	kin        Kinematics
	transfer   float64
	load       float64
	unload     float64
	liftHeight *float64
}

// NewModel builds a travel model from the layout and simulation parameters.
func NewModel(layout *line.Layout, p line.Parameters) *Model {
	return &Model{
		layout: layout,
		kin: Kinematics{
			HorizontalSpeed: p.HoistSpeedHorizontal,
			VerticalSpeed:   p.HoistSpeedVertical,
			Acceleration:    p.HoistAcceleration,
		},
		transfer:   p.TransferTime,
		load:       p.PartLoadTime,
		unload:     p.PartUnloadTime,
		liftHeight: p.LiftHeight,
	}
}

// Layout returns the layout the model was built for.
func (m *Model) Layout() *line.Layout { return m.layout }

// Lift is the vertical stroke needed to clear station s. Without an explicit
// lift height it is taken from the tank's smaller footprint dimension.
func (m *Model) Lift(s int) float64 {
	if m.liftHeight != nil {
		return *m.liftHeight
	}
	st := m.layout.Stations[s]
	return math.Min(st.TankLength, st.TankWidth)
}

// Stroke is the time to lift a rack clear of station s, or to lower one
// into it.
func (m *Model) Stroke(s int) float64 {
	return AxisTime(m.Lift(s), m.kin.VerticalSpeed, m.kin.Acceleration)
}

// MoveDuration prices a loaded move from station index from to station index
// to, with drip seconds held above the source tank before departure.
func (m *Model) MoveDuration(from, to int, drip float64) Breakdown {
	b := Breakdown{
		Travel:   m.kin.MoveTime(m.layout.Distance(from, to), m.Lift(from), m.Lift(to)),
		Transfer: m.transfer,
		Drip:     drip,
	}
	if from == m.layout.Loading {
		b.Load = m.load
	}
	if to == m.layout.Unloading {
		b.Unload = m.unload
	}
	b.Total = b.Travel + b.Transfer + b.Load + b.Unload + b.Drip
	return b
}

// EmptyTravel is the time for an unloaded hoist to reposition between two
// stations. The hoist travels with its grippers raised, so only the
// horizontal axis counts.
func (m *Model) EmptyTravel(from, to int) float64 {
	return AxisTime(m.layout.Distance(from, to), m.kin.HorizontalSpeed, m.kin.Acceleration)
}
