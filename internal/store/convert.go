package store

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"plating-line-backend/internal/line"
	"plating-line-backend/internal/model"
	"plating-line-backend/internal/simulation"
)

func toLine(stations []model.Station, recipes []model.Recipe, entries []model.ProcessMapEntry) line.Line {
	var l line.Line
	for _, s := range stations {
		l.Stations = append(l.Stations, line.Station{
			StationNumber:          s.StationNumber,
			PositionIndex:          s.PositionIndex,
			ProcessName:            s.ProcessName,
			TankLength:             s.TankLength,
			TankWidth:              s.TankWidth,
			DistanceToNext:         s.DistanceToNext,
			IsLoadingStation:       s.IsLoadingStation,
			IsUnloadingStation:     s.IsUnloadingStation,
			RequiresManualHandling: s.RequiresManualHandling,
		})
	}
	for _, r := range recipes {
		rec := line.Recipe{
			ID:              r.ID,
			Name:            r.Name,
			Description:     r.Description,
			ProductionRatio: r.ProductionRatio,
			IsActive:        r.IsActive,
		}
		for _, st := range r.Steps {
			rec.Steps = append(rec.Steps, line.RecipeStep{
				Station:      st.StationNumber,
				StepOrder:    st.StepOrder,
				DwellTime:    st.DwellTime,
				MinDwellTime: st.MinDwellTime,
				MaxDwellTime: st.MaxDwellTime,
				DripTime:     st.DripTime,
				Notes:        st.Notes,
			})
		}
		l.Recipes = append(l.Recipes, rec)
	}
	for _, e := range entries {
		l.ProcessMap = append(l.ProcessMap, line.ProcessMapEntry{
			StationNumber:          e.StationNumber,
			ProcessStep:            e.ProcessStep,
			Process:                e.Process,
			DwellTime:              e.DwellTime,
			MinDwellTime:           e.MinDwellTime,
			MaxDwellTime:           e.MaxDwellTime,
			DripTime:               e.DripTime,
			TankLength:             e.TankLength,
			TankWidth:              e.TankWidth,
			DistanceToNext:         e.DistanceToNext,
			IsLoadingStation:       e.IsLoadingStation,
			IsUnloadingStation:     e.IsUnloadingStation,
			RequiresManualHandling: e.RequiresManualHandling,
		})
	}
	return l
}

// fromLine builds fresh rows; incoming recipe IDs are not trusted.
func fromLine(projectID string, l line.Line) ([]model.Station, []model.Recipe, []model.ProcessMapEntry) {
	stations := make([]model.Station, 0, len(l.Stations))
	for _, s := range l.Stations {
		stations = append(stations, model.Station{
			ProjectID:              projectID,
			StationNumber:          s.StationNumber,
			PositionIndex:          s.PositionIndex,
			ProcessName:            s.ProcessName,
			TankLength:             s.TankLength,
			TankWidth:              s.TankWidth,
			DistanceToNext:         s.DistanceToNext,
			IsLoadingStation:       s.IsLoadingStation,
			IsUnloadingStation:     s.IsUnloadingStation,
			RequiresManualHandling: s.RequiresManualHandling,
		})
	}

	recipes := make([]model.Recipe, 0, len(l.Recipes))
	for _, r := range l.Recipes {
		rec := model.Recipe{
			ProjectID:       projectID,
			Name:            r.Name,
			Description:     r.Description,
			ProductionRatio: r.ProductionRatio,
			IsActive:        r.IsActive,
		}
		for _, st := range r.Steps {
			rec.Steps = append(rec.Steps, model.RecipeStep{
				StationNumber: st.Station,
				StepOrder:     st.StepOrder,
				DwellTime:     st.DwellTime,
				MinDwellTime:  st.MinDwellTime,
				MaxDwellTime:  st.MaxDwellTime,
				DripTime:      st.DripTime,
				Notes:         st.Notes,
			})
		}
		recipes = append(recipes, rec)
	}

	entries := make([]model.ProcessMapEntry, 0, len(l.ProcessMap))
	for _, e := range l.ProcessMap {
		entries = append(entries, model.ProcessMapEntry{
			ProjectID:              projectID,
			StationNumber:          e.StationNumber,
			ProcessStep:            e.ProcessStep,
			Process:                e.Process,
			DwellTime:              e.DwellTime,
			MinDwellTime:           e.MinDwellTime,
			MaxDwellTime:           e.MaxDwellTime,
			DripTime:               e.DripTime,
			TankLength:             e.TankLength,
			TankWidth:              e.TankWidth,
			DistanceToNext:         e.DistanceToNext,
			IsLoadingStation:       e.IsLoadingStation,
			IsUnloadingStation:     e.IsUnloadingStation,
			RequiresManualHandling: e.RequiresManualHandling,
		})
	}
	return stations, recipes, entries
}

func toParameters(row model.SimulationParameters) line.Parameters {
	return line.Parameters{
		ProcessLines:         row.ProcessLines,
		HasTransferShuttle:   row.HasTransferShuttle,
		CalculatedHoistCount: row.CalculatedHoistCount,
		ManualHoistCount:     row.ManualHoistCount,
		MaxHoistCount:        row.MaxHoistCount,
		HoistSpeedHorizontal: row.HoistSpeedHorizontal,
		HoistSpeedVertical:   row.HoistSpeedVertical,
		HoistAcceleration:    row.HoistAcceleration,
		LiftHeight:           row.LiftHeight,
		TransferTime:         row.TransferTime,
		PartsPerRack:         row.PartsPerRack,
		RackSpacing:          row.RackSpacing,
		WorkingHoursPerDay:   row.WorkingHoursPerDay,
		WorkingDaysPerWeek:   row.WorkingDaysPerWeek,
		PartLoadTime:         row.PartLoadTime,
		PartUnloadTime:       row.PartUnloadTime,
		OptimizationTarget:   line.OptimizationTarget(row.OptimizationTarget),
	}
}

func fromParameters(projectID string, p line.Parameters) model.SimulationParameters {
	return model.SimulationParameters{
		ProjectID:            projectID,
		ProcessLines:         p.ProcessLines,
		HasTransferShuttle:   p.HasTransferShuttle,
		CalculatedHoistCount: p.CalculatedHoistCount,
		ManualHoistCount:     p.ManualHoistCount,
		MaxHoistCount:        p.MaxHoistCount,
		HoistSpeedHorizontal: p.HoistSpeedHorizontal,
		HoistSpeedVertical:   p.HoistSpeedVertical,
		HoistAcceleration:    p.HoistAcceleration,
		LiftHeight:           p.LiftHeight,
		TransferTime:         p.TransferTime,
		PartsPerRack:         p.PartsPerRack,
		RackSpacing:          p.RackSpacing,
		WorkingHoursPerDay:   p.WorkingHoursPerDay,
		WorkingDaysPerWeek:   p.WorkingDaysPerWeek,
		PartLoadTime:         p.PartLoadTime,
		PartUnloadTime:       p.PartUnloadTime,
		OptimizationTarget:   string(p.OptimizationTarget),
	}
}

func toGoal(row model.ProductionGoal) line.Goal {
	return line.Goal{
		PrimaryTarget:       line.TargetUnit(row.PrimaryTarget),
		TargetPartsPerHour:  row.TargetPartsPerHour,
		TargetPartsPerDay:   row.TargetPartsPerDay,
		TargetPartsPerWeek:  row.TargetPartsPerWeek,
		TargetPartsPerMonth: row.TargetPartsPerMonth,
		TargetPartsPerYear:  row.TargetPartsPerYear,
	}
}

func fromGoal(projectID string, g line.Goal) model.ProductionGoal {
	return model.ProductionGoal{
		ProjectID:           projectID,
		PrimaryTarget:       string(g.PrimaryTarget),
		TargetPartsPerHour:  g.TargetPartsPerHour,
		TargetPartsPerDay:   g.TargetPartsPerDay,
		TargetPartsPerWeek:  g.TargetPartsPerWeek,
		TargetPartsPerMonth: g.TargetPartsPerMonth,
		TargetPartsPerYear:  g.TargetPartsPerYear,
	}
}

func fromResult(projectID string, res simulation.Result) (model.SimulationResult, error) {
	row := model.SimulationResult{
		RunID:                 res.RunID,
		ProjectID:             projectID,
		Name:                  res.Name,
		Notes:                 res.Notes,
		Feasible:              res.Feasible,
		Error:                 res.Error,
		OptimizationTarget:    string(res.OptimizationTarget),
		CycleTime:             res.CycleTime,
		SuperCycleTime:        res.SuperCycleTime,
		TotalProcessTime:      res.TotalProcessTime,
		TotalTransferTime:     res.TotalTransferTime,
		TotalDripTime:         res.TotalDripTime,
		HoistCount:            res.HoistCount,
		CalculatedHoistCount:  res.CalculatedHoistCount,
		HoistUtilization:      res.HoistUtilization,
		PartsPerHour:          res.PartsPerHour,
		PartsPerDay:           res.PartsPerDay,
		PartsPerWeek:          res.PartsPerWeek,
		PartsPerMonth:         res.PartsPerMonth,
		PartsPerYear:          res.PartsPerYear,
		BottleneckStation:     res.BottleneckStation,
		BottleneckKind:        res.BottleneckKind,
		BottleneckDescription: res.BottleneckDescription,
		MeetsProductionGoal:   res.MeetsProductionGoal,
		RacksPerSuperCycle:    res.RacksPerSuperCycle,
		MovesPerCycle:         res.MovesPerCycle,
		TotalRatio:            res.TotalRatio,
		RecipeCount:           res.RecipeCount,
		RatioApproximated:     res.RatioApproximated,
		SimulationDate:        res.SimulationDate,
	}

	var err error
	if row.Recommendations, err = marshalJSON(res.Recommendations); err != nil {
		return row, err
	}
	if row.RecipeResults, err = marshalJSON(res.RecipeResults); err != nil {
		return row, err
	}
	if row.StationUtilization, err = marshalJSON(res.StationUtilization); err != nil {
		return row, err
	}
	if row.HoistZones, err = marshalJSON(res.HoistZones); err != nil {
		return row, err
	}
	return row, nil
}

func toResult(row model.SimulationResult) (simulation.Result, error) {
	res := simulation.Result{
		RunID:                 row.RunID,
		Name:                  row.Name,
		Notes:                 row.Notes,
		Feasible:              row.Feasible,
		Error:                 row.Error,
		OptimizationTarget:    line.OptimizationTarget(row.OptimizationTarget),
		CycleTime:             row.CycleTime,
		SuperCycleTime:        row.SuperCycleTime,
		TotalProcessTime:      row.TotalProcessTime,
		TotalTransferTime:     row.TotalTransferTime,
		TotalDripTime:         row.TotalDripTime,
		HoistCount:            row.HoistCount,
		CalculatedHoistCount:  row.CalculatedHoistCount,
		HoistUtilization:      row.HoistUtilization,
		PartsPerHour:          row.PartsPerHour,
		PartsPerDay:           row.PartsPerDay,
		PartsPerWeek:          row.PartsPerWeek,
		PartsPerMonth:         row.PartsPerMonth,
		PartsPerYear:          row.PartsPerYear,
		BottleneckStation:     row.BottleneckStation,
		BottleneckKind:        row.BottleneckKind,
		BottleneckDescription: row.BottleneckDescription,
		MeetsProductionGoal:   row.MeetsProductionGoal,
		RacksPerSuperCycle:    row.RacksPerSuperCycle,
		MovesPerCycle:         row.MovesPerCycle,
		TotalRatio:            row.TotalRatio,
		RecipeCount:           row.RecipeCount,
		RatioApproximated:     row.RatioApproximated,
		SimulationDate:        row.SimulationDate,
	}

	if err := unmarshalJSON(row.Recommendations, &res.Recommendations); err != nil {
		return res, err
	}
	if err := unmarshalJSON(row.RecipeResults, &res.RecipeResults); err != nil {
		return res, err
	}
	if err := unmarshalJSON(row.StationUtilization, &res.StationUtilization); err != nil {
		return res, err
	}
	if err := unmarshalJSON(row.HoistZones, &res.HoistZones); err != nil {
		return res, err
	}
	return res, nil
}

func marshalJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result column: %w", err)
	}
	return datatypes.JSON(b), nil
}

func unmarshalJSON(data datatypes.JSON, v any) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode result column: %w", err)
	}
	return nil
}
