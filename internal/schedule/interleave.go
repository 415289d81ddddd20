package schedule

import (
	"sort"

	"plating-line-backend/internal/line"
)

// DefaultMaxSuperCycleRacks caps how many racks one super-cycle may contain.
const DefaultMaxSuperCycleRacks = 64

// SuperCycle is the repeating unit of production when several recipes share
// the line. Counts[i] racks of route i run per super-cycle, entering the line
// in Order (route indexes).
type SuperCycle struct {
	Counts []int
	Order  []int
	// Approximated is set when the exact ratio needed more racks than the cap
	// and Counts were scaled down.
	Approximated bool
}

// Racks is the number of racks produced per super-cycle.
func (sc SuperCycle) Racks() int { return len(sc.Order) }

// Interleave reduces the routes' production ratios to their smallest integer
// form and spreads the resulting racks evenly across the super-cycle.
func Interleave(routes []line.Route, maxRacks int) SuperCycle {
	if maxRacks <= 0 {
		maxRacks = DefaultMaxSuperCycleRacks
	}
	ratios := make([]int, len(routes))
	g := 0
	for i, r := range routes {
		ratios[i] = max(r.Ratio, 1)
		g = gcd(g, ratios[i])
	}

	sc := SuperCycle{Counts: make([]int, len(routes))}
	total := 0
	for i, r := range ratios {
		sc.Counts[i] = r / g
		total += sc.Counts[i]
	}
	if total > maxRacks {
		sc.Counts = scaleCounts(sc.Counts, total, maxRacks)
		sc.Approximated = true
	}
	sc.Order = spread(sc.Counts)
	return sc
}

// scaleCounts shrinks counts to sum to limit by largest remainder, keeping
// every route at least one rack.
func scaleCounts(counts []int, total, limit int) []int {
	type share struct {
		idx int
		rem float64
	}
	scaled := make([]int, len(counts))
	shares := make([]share, len(counts))
	sum := 0
	for i, c := range counts {
		exact := float64(c) * float64(limit) / float64(total)
		scaled[i] = max(int(exact), 1)
		shares[i] = share{idx: i, rem: exact - float64(int(exact))}
		sum += scaled[i]
	}
	sort.SliceStable(shares, func(a, b int) bool { return shares[a].rem > shares[b].rem })
	for k := 0; sum < limit && k < len(shares); k++ {
		scaled[shares[k].idx]++
		sum++
	}
	return scaled
}

// spread orders racks with smooth weighted round-robin so that each route's
// racks are as evenly spaced as possible. Ties go to the lower route index.
func spread(counts []int) []int {
	total := 0
	for _, c := range counts {
		total += c
	}
	order := make([]int, 0, total)
	current := make([]int, len(counts))
	for n := 0; n < total; n++ {
		best := -1
		for i, c := range counts {
			current[i] += c
			if best < 0 || current[i] > current[best] {
				best = i
			}
		}
		current[best] -= total
		order = append(order, best)
	}
	return order
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
