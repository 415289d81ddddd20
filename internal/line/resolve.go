package line

import (
	"fmt"
	"math"
	"sort"
)

// Layout is the physical track: stations sorted by position with the cumulative
// track offset of each one.
type Layout struct {
	Stations []Station
	Offsets  []float64
	// Loading and Unloading are indexes into Stations, -1 when the line has none.
	Loading   int
	Unloading int

	index map[string]int
}

// NewLayout sorts stations by position and precomputes track offsets.
func NewLayout(stations []Station) *Layout {
	sorted := make([]Station, len(stations))
	copy(sorted, stations)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PositionIndex < sorted[j].PositionIndex })

	l := &Layout{
		Stations:  sorted,
		Offsets:   make([]float64, len(sorted)),
		Loading:   -1,
		Unloading: -1,
		index:     make(map[string]int, len(sorted)),
	}
	for i, s := range sorted {
		if i > 0 {
			l.Offsets[i] = l.Offsets[i-1] + sorted[i-1].DistanceToNext
		}
		l.index[s.StationNumber] = i
		if s.IsLoadingStation && l.Loading < 0 {
			l.Loading = i
		}
		if s.IsUnloadingStation {
			l.Unloading = i
		}
	}
	return l
}

// Index returns the sorted index of a station number.
func (l *Layout) Index(number string) (int, bool) {
	i, ok := l.index[number]
	return i, ok
}

// Distance is the horizontal track distance between two stations, the sum of
// distance_to_next over the stations between them.
func (l *Layout) Distance(a, b int) float64 {
	return math.Abs(l.Offsets[b] - l.Offsets[a])
}

// ResolvedStep is a recipe step bound to its station with its dwell window
// made explicit. MaxDwell is +Inf when the step has no upper bound.
type ResolvedStep struct {
	Order    int
	Station  int
	Dwell    float64
	MinDwell float64
	MaxDwell float64
	Drip     float64
}

// Slack is the width of the dwell window.
func (s ResolvedStep) Slack() float64 { return s.MaxDwell - s.MinDwell }

// Route is one active recipe resolved against the layout, in step order.
type Route struct {
	RecipeID int64
	Name     string
	Ratio    int
	Steps    []ResolvedStep
}

// Resolve validates the line and binds every active recipe's steps to the
// layout. A line with no recipes falls back to its legacy process map.
func Resolve(l Line) (*Layout, []Route, error) {
	if err := Validate(l); err != nil {
		return nil, nil, err
	}
	stations, recipes := l.Stations, l.Recipes
	if len(recipes) == 0 {
		var legacy Recipe
		var err error
		stations, legacy, err = FromProcessMap(l.ProcessMap)
		if err != nil {
			return nil, nil, err
		}
		recipes = []Recipe{legacy}
	}

	layout := NewLayout(stations)
	var routes []Route
	for _, r := range recipes {
		if !r.IsActive || len(r.Steps) == 0 {
			continue
		}
		steps := make([]RecipeStep, len(r.Steps))
		copy(steps, r.Steps)
		sort.SliceStable(steps, func(i, j int) bool { return steps[i].StepOrder < steps[j].StepOrder })

		route := Route{RecipeID: r.ID, Name: r.Name, Ratio: r.ProductionRatio, Steps: make([]ResolvedStep, 0, len(steps))}
		for _, st := range steps {
			idx, _ := layout.Index(st.Station)
			route.Steps = append(route.Steps, resolveStep(st.StepOrder, idx, st.DwellTime, st.MinDwellTime, st.MaxDwellTime, st.DripTime))
		}
		routes = append(routes, route)
	}
	return layout, routes, nil
}

func resolveStep(order, station int, dwell, lo, hi *float64, drip float64) ResolvedStep {
	rs := ResolvedStep{Order: order, Station: station, Drip: drip, MaxDwell: math.Inf(1)}
	switch {
	case dwell != nil:
		rs.Dwell = *dwell
	case lo != nil:
		rs.Dwell = *lo
	case hi != nil:
		rs.Dwell = *hi
	}
	rs.MinDwell = rs.Dwell
	if lo != nil {
		rs.MinDwell = *lo
	}
	if hi != nil {
		rs.MaxDwell = *hi
	}
	return rs
}

// FromProcessMap converts the legacy flat process map into stations and a
// single active recipe. Station positions follow process_step order; a station
// listed more than once keeps the geometry of its first entry.
func FromProcessMap(entries []ProcessMapEntry) ([]Station, Recipe, error) {
	if len(entries) == 0 {
		return nil, Recipe{}, ValidationErrors{{Field: "process_map", Message: "process map is empty"}}
	}
	sorted := make([]ProcessMapEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ProcessStep < sorted[j].ProcessStep })

	recipe := Recipe{Name: "Process Map", ProductionRatio: 1, IsActive: true}
	seen := make(map[string]bool, len(sorted))
	var stations []Station
	for i, e := range sorted {
		if e.StationNumber == "" {
			return nil, Recipe{}, ValidationErrors{{Field: fmt.Sprintf("process_map[%d].station_number", i), Message: "is required"}}
		}
		if !seen[e.StationNumber] {
			seen[e.StationNumber] = true
			stations = append(stations, Station{
				StationNumber:          e.StationNumber,
				PositionIndex:          len(stations),
				ProcessName:            e.Process,
				TankLength:             e.TankLength,
				TankWidth:              e.TankWidth,
				DistanceToNext:         e.DistanceToNext,
				IsLoadingStation:       e.IsLoadingStation,
				IsUnloadingStation:     e.IsUnloadingStation,
				RequiresManualHandling: e.RequiresManualHandling,
			})
		}
		recipe.Steps = append(recipe.Steps, RecipeStep{
			Station:      e.StationNumber,
			StepOrder:    e.ProcessStep,
			DwellTime:    e.DwellTime,
			MinDwellTime: e.MinDwellTime,
			MaxDwellTime: e.MaxDwellTime,
			DripTime:     e.DripTime,
		})
	}
	return stations, recipe, nil
}
