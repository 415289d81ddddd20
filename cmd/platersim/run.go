package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"plating-line-backend/internal/line"
	"plating-line-backend/internal/linefile"
	"plating-line-backend/internal/simulation"
)

type simulateOptions struct {
	json      bool
	hoists    int
	hoistsSet bool
	target    string
	timeout   time.Duration
}

func newEngine(verbose bool, timeout time.Duration) *simulation.Engine {
	logger := zap.NewNop()
	if verbose {
		if l, err := zap.NewDevelopment(); err == nil {
			logger = l
		}
	}
	opts := simulation.DefaultOptions()
	opts.Timeout = timeout
	return simulation.NewEngine(opts, logger)
}

// loadAndValidate loads the line file and prints any validation problems.
func loadAndValidate(path string) (*linefile.File, error) {
	f, err := linefile.Load(path)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		printValidation(err)
		return nil, fmt.Errorf("line file has validation errors")
	}
	return f, nil
}

func runValidate(path string) error {
	f, err := loadAndValidate(path)
	if err != nil {
		return err
	}
	recipes := len(f.Line.Recipes)
	if recipes == 0 {
		recipes = 1
	}
	fmt.Printf("Result: VALID (%d stations, %d recipes)\n", stationCount(f), recipes)
	return nil
}

func runSimulate(ctx context.Context, path string, opts simulateOptions, verbose bool) error {
	f, err := linefile.Load(path)
	if err != nil {
		return err
	}
	if opts.hoistsSet {
		f.Parameters.ManualHoistCount = line.Int(opts.hoists)
	}
	if opts.target != "" {
		f.Parameters.OptimizationTarget = line.OptimizationTarget(opts.target)
	}

	res, err := newEngine(verbose, opts.timeout).Run(ctx, f.Input())
	var es line.ValidationErrors
	switch {
	case errors.As(err, &es):
		printValidation(es)
		return fmt.Errorf("line file has validation errors")
	case err != nil:
		return err
	}

	if opts.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	printResult(res)
	return nil
}

func runSweep(ctx context.Context, path string, maxHoists int, verbose bool) error {
	f, err := loadAndValidate(path)
	if err != nil {
		return err
	}
	if maxHoists <= 0 {
		maxHoists = stationCount(f)
	}

	points, err := newEngine(verbose, time.Minute).Sweep(ctx, f.Input(), maxHoists)
	if err != nil {
		return err
	}
	printSweep(points, f.Parameters)
	return nil
}

func stationCount(f *linefile.File) int {
	if len(f.Line.Recipes) > 0 {
		return len(f.Line.Stations)
	}
	seen := make(map[string]bool)
	for _, e := range f.Line.ProcessMap {
		seen[e.StationNumber] = true
	}
	return len(seen)
}
