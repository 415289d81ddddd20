package main

import (
	"errors"
	"fmt"
	"strings"

	"plating-line-backend/internal/analysis"
	"plating-line-backend/internal/line"
	"plating-line-backend/internal/simulation"
)

func printValidation(err error) {
	var es line.ValidationErrors
	if !errors.As(err, &es) {
		fmt.Printf("ERROR: %v\n", err)
		return
	}
	fmt.Printf("ERRORS (%d):\n", len(es))
	for _, e := range es {
		fmt.Printf("  %s\n", e.Field)
		fmt.Printf("    -> %s\n", e.Message)
	}
	fmt.Println()
	fmt.Println("Result: INVALID")
}

func printResult(r simulation.Result) {
	title := fmt.Sprintf("%s (%s)", r.Name, r.OptimizationTarget)
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))
	fmt.Println()

	if !r.Feasible {
		fmt.Println("INFEASIBLE")
		fmt.Printf("  %s\n", r.BottleneckDescription)
		fmt.Printf("  Hoists needed:          %d\n", r.CalculatedHoistCount)
		printRecommendations(r.Recommendations)
		return
	}

	fmt.Printf("  Cycle time per rack:    %s\n", seconds(r.CycleTime))
	fmt.Printf("  Super-cycle:            %s for %d racks", seconds(r.SuperCycleTime), r.RacksPerSuperCycle)
	if r.RatioApproximated {
		fmt.Print(" (ratio approximated)")
	}
	fmt.Println()
	fmt.Printf("  Hoists:                 %d (minimum %d, %.1f%% busy)\n", r.HoistCount, r.CalculatedHoistCount, r.HoistUtilization)
	fmt.Printf("  Per rack:               %s process, %s transfer, %s drip\n",
		seconds(r.TotalProcessTime), seconds(r.TotalTransferTime), seconds(r.TotalDripTime))
	fmt.Println()

	fmt.Println("Throughput")
	fmt.Println("----------")
	for _, u := range line.Units {
		fmt.Printf("  per %-6s %12.1f\n", u, rateOf(r, u))
	}
	fmt.Println()

	fmt.Println("Bottleneck")
	fmt.Println("----------")
	fmt.Printf("  %s\n", r.BottleneckDescription)
	if r.MeetsProductionGoal {
		fmt.Println("  Production goal: MET")
	} else {
		fmt.Println("  Production goal: NOT MET")
	}

	if len(r.RecipeResults) > 1 {
		fmt.Println()
		fmt.Println("Recipes")
		fmt.Println("-------")
		fmt.Printf("  %-24s %6s %10s %12s\n", "Name", "Racks", "Flow", "Parts/h")
		for _, rr := range r.RecipeResults {
			fmt.Printf("  %-24s %6d %10s %12.1f\n", rr.Name, rr.RacksPerSuperCycle, seconds(rr.FlowTime), rr.PartsPerHour)
		}
	}

	if len(r.HoistZones) > 0 {
		fmt.Println()
		fmt.Println("Hoist zones")
		fmt.Println("-----------")
		for _, z := range r.HoistZones {
			fmt.Printf("  Hoist %d: stations %s, %d moves, %.1f%% busy\n",
				z.Hoist, strings.Join(z.Stations, ","), z.Moves, z.Utilization)
		}
	}

	printRecommendations(r.Recommendations)
}

func printRecommendations(recs []string) {
	if len(recs) == 0 {
		return
	}
	fmt.Println()
	fmt.Println("Recommendations")
	fmt.Println("---------------")
	for _, rec := range recs {
		fmt.Printf("  * %s\n", rec)
	}
}

func printSweep(points []simulation.SweepPoint, p line.Parameters) {
	cal := analysis.CalendarOf(p)
	fmt.Printf("%6s  %12s  %12s  %12s\n", "Hoists", "Cycle", "Parts/h", "Parts/day")
	for _, pt := range points {
		if !pt.Feasible {
			fmt.Printf("%6d  %12s  %12s  %12s\n", pt.Hoists, "infeasible", "-", "-")
			continue
		}
		fmt.Printf("%6d  %12s  %12.1f  %12.1f\n", pt.Hoists, seconds(pt.CycleTime), pt.PartsPerHour,
			cal.FromHourly(pt.PartsPerHour).PerDay)
	}
}

func rateOf(r simulation.Result, u line.TargetUnit) float64 {
	return analysis.Rates{
		PerHour:  r.PartsPerHour,
		PerDay:   r.PartsPerDay,
		PerWeek:  r.PartsPerWeek,
		PerMonth: r.PartsPerMonth,
		PerYear:  r.PartsPerYear,
	}.Get(u)
}

func seconds(v float64) string {
	if v >= 120 {
		return fmt.Sprintf("%.1fs (%.1f min)", v, v/60)
	}
	return fmt.Sprintf("%.1fs", v)
}
