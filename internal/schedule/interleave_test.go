package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"plating-line-backend/internal/line"
)

func routesWithRatios(ratios ...int) []line.Route {
	routes := make([]line.Route, len(ratios))
	for i, r := range ratios {
		routes[i] = line.Route{Name: string(rune('A' + i)), Ratio: r}
	}
	return routes
}

func TestInterleave(t *testing.T) {
	testCases := []struct {
		name         string
		ratios       []int
		maxRacks     int
		counts       []int
		order        []int
		approximated bool
	}{
		{name: "Single recipe", ratios: []int{3}, counts: []int{1}, order: []int{0}},
		{name: "One to one", ratios: []int{1, 1}, counts: []int{1, 1}, order: []int{0, 1}},
		{name: "Two to one", ratios: []int{2, 1}, counts: []int{2, 1}, order: []int{0, 1, 0}},
		{name: "Reduced by common divisor", ratios: []int{4, 2}, counts: []int{2, 1}, order: []int{0, 1, 0}},
		{name: "Three way", ratios: []int{1, 2, 1}, counts: []int{1, 2, 1}, order: []int{1, 0, 2, 1}},
		{
			name: "Co-prime ratios over the cap", ratios: []int{7, 11}, maxRacks: 10,
			counts: []int{4, 6}, order: []int{1, 0, 1, 0, 1, 1, 0, 1, 0, 1}, approximated: true,
		},
		{
			name: "Every recipe keeps a rack", ratios: []int{1, 1, 100}, maxRacks: 10,
			counts: []int{1, 1, 9}, approximated: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			sc := Interleave(routesWithRatios(tc.ratios...), tc.maxRacks)
			assert.Equal(t, tc.counts, sc.Counts)
			assert.Equal(t, tc.approximated, sc.Approximated)
			if tc.order != nil {
				assert.Equal(t, tc.order, sc.Order)
			}

			seen := make([]int, len(tc.counts))
			for _, ri := range sc.Order {
				seen[ri]++
			}
			assert.Equal(t, sc.Counts, seen)
		})
	}
}

func TestInterleaveDefaultCap(t *testing.T) {
	sc := Interleave(routesWithRatios(63, 64), 0)
	assert.True(t, sc.Approximated)
	assert.Equal(t, DefaultMaxSuperCycleRacks, sc.Racks())
}
