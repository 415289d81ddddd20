package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"plating-line-backend/internal/analysis"
	"plating-line-backend/internal/line"
	"plating-line-backend/internal/model"
	"plating-line-backend/internal/simulation"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// DefaultResultLimit caps ListResults when the caller passes no limit.
const DefaultResultLimit = 50

// Store defines the interface for all database operations.
type Store interface {
	LoadLine(ctx context.Context, projectID string) (line.Line, error)
	ReplaceLine(ctx context.Context, projectID string, l line.Line) error
	GetParameters(ctx context.Context, projectID string) (line.Parameters, error)
	SaveParameters(ctx context.Context, projectID string, p line.Parameters) error
	GetGoal(ctx context.Context, projectID string) (line.Goal, error)
	SaveGoal(ctx context.Context, projectID string, g line.Goal) (line.Goal, error)
	AppendResult(ctx context.Context, projectID string, res simulation.Result) error
	ListResults(ctx context.Context, projectID string, limit int) ([]simulation.Result, error)
	GetResult(ctx context.Context, projectID string, runID uuid.UUID) (simulation.Result, error)
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// LoadLine returns the project's stations, recipes and legacy process map.
// A project with nothing configured yields an empty line, not an error.
func (s *gormStore) LoadLine(ctx context.Context, projectID string) (line.Line, error) {
	db := s.db.WithContext(ctx)

	var stations []model.Station
	if err := db.Where("project_id = ?", projectID).Order("position_index, station_number").Find(&stations).Error; err != nil {
		return line.Line{}, fmt.Errorf("failed to load stations for project %s: %w", projectID, err)
	}

	var recipes []model.Recipe
	err := db.Where("project_id = ?", projectID).
		Preload("Steps", func(tx *gorm.DB) *gorm.DB { return tx.Order("step_order, id") }).
		Order("id").
		Find(&recipes).Error
	if err != nil {
		return line.Line{}, fmt.Errorf("failed to load recipes for project %s: %w", projectID, err)
	}

	var entries []model.ProcessMapEntry
	if err := db.Where("project_id = ?", projectID).Order("process_step, id").Find(&entries).Error; err != nil {
		return line.Line{}, fmt.Errorf("failed to load process map for project %s: %w", projectID, err)
	}

	return toLine(stations, recipes, entries), nil
}

// ReplaceLine swaps the project's whole process map in one transaction.
func (s *gormStore) ReplaceLine(ctx context.Context, projectID string, l line.Line) error {
	stations, recipes, entries := fromLine(projectID, l)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipeIDs := tx.Model(&model.Recipe{}).Select("id").Where("project_id = ?", projectID)
		if err := tx.Where("recipe_id IN (?)", recipeIDs).Delete(&model.RecipeStep{}).Error; err != nil {
			return fmt.Errorf("failed to clear recipe steps: %w", err)
		}
		for _, table := range []any{&model.Recipe{}, &model.Station{}, &model.ProcessMapEntry{}} {
			if err := tx.Where("project_id = ?", projectID).Delete(table).Error; err != nil {
				return fmt.Errorf("failed to clear %T: %w", table, err)
			}
		}

		if len(stations) > 0 {
			if err := tx.Create(&stations).Error; err != nil {
				return fmt.Errorf("failed to insert stations: %w", err)
			}
		}
		// Steps are inserted through the association.
		for i := range recipes {
			if err := tx.Create(&recipes[i]).Error; err != nil {
				return fmt.Errorf("failed to insert recipe %q: %w", recipes[i].Name, err)
			}
		}
		if len(entries) > 0 {
			if err := tx.Create(&entries).Error; err != nil {
				return fmt.Errorf("failed to insert process map: %w", err)
			}
		}
		return nil
	})
}

// GetParameters returns the stored parameters, or the defaults for a project
// that never saved any.
func (s *gormStore) GetParameters(ctx context.Context, projectID string) (line.Parameters, error) {
	return getParameters(s.db.WithContext(ctx), projectID)
}

func getParameters(db *gorm.DB, projectID string) (line.Parameters, error) {
	var row model.SimulationParameters
	err := db.Where("project_id = ?", projectID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return line.DefaultParameters(), nil
	}
	if err != nil {
		return line.Parameters{}, fmt.Errorf("failed to load parameters for project %s: %w", projectID, err)
	}
	return toParameters(row), nil
}

// SaveParameters upserts the parameters. A stored goal is re-derived because
// its secondary targets depend on the working calendar.
func (s *gormStore) SaveParameters(ctx context.Context, projectID string, p line.Parameters) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := fromParameters(projectID, p)
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to save parameters for project %s: %w", projectID, err)
		}

		var goal model.ProductionGoal
		err := tx.Where("project_id = ?", projectID).First(&goal).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load goal for project %s: %w", projectID, err)
		}
		derived := analysis.DeriveGoal(toGoal(goal), analysis.CalendarOf(p))
		goal = fromGoal(projectID, derived)
		return tx.Save(&goal).Error
	})
}

// GetGoal returns the stored goal, or an unset per-day goal.
func (s *gormStore) GetGoal(ctx context.Context, projectID string) (line.Goal, error) {
	var row model.ProductionGoal
	err := s.db.WithContext(ctx).Where("project_id = ?", projectID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return line.DefaultGoal(), nil
	}
	if err != nil {
		return line.Goal{}, fmt.Errorf("failed to load goal for project %s: %w", projectID, err)
	}
	return toGoal(row), nil
}

// SaveGoal fills the secondary targets from the primary one using the
// project's calendar, stores the result and returns it.
func (s *gormStore) SaveGoal(ctx context.Context, projectID string, g line.Goal) (line.Goal, error) {
	var derived line.Goal
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := getParameters(tx, projectID)
		if err != nil {
			return err
		}
		derived = analysis.DeriveGoal(g, analysis.CalendarOf(p))
		row := fromGoal(projectID, derived)
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("failed to save goal for project %s: %w", projectID, err)
		}
		return nil
	})
	if err != nil {
		return line.Goal{}, err
	}
	return derived, nil
}

// AppendResult stores a snapshot of a run. Results are never updated.
func (s *gormStore) AppendResult(ctx context.Context, projectID string, res simulation.Result) error {
	row, err := fromResult(projectID, res)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to store result %s: %w", res.RunID, err)
	}
	return nil
}

// ListResults returns the project's runs, most recent first.
func (s *gormStore) ListResults(ctx context.Context, projectID string, limit int) ([]simulation.Result, error) {
	if limit <= 0 {
		limit = DefaultResultLimit
	}
	var rows []model.SimulationResult
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("simulation_date DESC, id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list results for project %s: %w", projectID, err)
	}

	results := make([]simulation.Result, 0, len(rows))
	for _, row := range rows {
		res, err := toResult(row)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// GetResult returns a single run of the project.
func (s *gormStore) GetResult(ctx context.Context, projectID string, runID uuid.UUID) (simulation.Result, error) {
	var row model.SimulationResult
	err := s.db.WithContext(ctx).Where("project_id = ? AND run_id = ?", projectID, runID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return simulation.Result{}, fmt.Errorf("result %s: %w", runID, ErrNotFound)
	}
	if err != nil {
		return simulation.Result{}, fmt.Errorf("failed to load result %s: %w", runID, err)
	}
	return toResult(row)
}
