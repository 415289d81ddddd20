package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"plating-line-backend/internal/line"
	"plating-line-backend/internal/mw"
	"plating-line-backend/internal/simulation"
	"plating-line-backend/internal/store"
)

// Simulator runs the engine over a project snapshot.
type Simulator interface {
	Run(ctx context.Context, in simulation.Input) (simulation.Result, error)
	Quick(ctx context.Context, in simulation.Input) (simulation.Result, error)
}

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store  store.Store
	sim    Simulator
	cache  *cache.Cache
	logger *zap.Logger
}

// NewHandler creates a new API handler. previews may be nil when responses
// are not cached.
func NewHandler(s store.Store, sim Simulator, previews *cache.Cache, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		store:  s,
		sim:    sim,
		cache:  previews,
		logger: logger,
	}
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func abortWith(c *gin.Context, status int, code, message string, details any) {
	c.AbortWithStatusJSON(status, gin.H{"error": errorBody{Code: code, Message: message, Details: details}})
}

// fail maps an error to its HTTP status and envelope.
func (h *Handler) fail(c *gin.Context, err error) {
	var es line.ValidationErrors
	switch {
	case errors.As(err, &es):
		abortWith(c, http.StatusUnprocessableEntity, "validation_failed", es.Error(), es)
	case errors.Is(err, simulation.ErrTimeout):
		c.Header("Retry-After", "1")
		abortWith(c, http.StatusServiceUnavailable, "timeout", err.Error(), nil)
	case errors.Is(err, store.ErrNotFound):
		abortWith(c, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		_ = c.Error(err)
		h.logger.Error("request failed",
			zap.String("project_id", projectID(c)),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		abortWith(c, http.StatusInternalServerError, "internal", "internal server error", nil)
	}
}

func badRequest(c *gin.Context, err error) {
	abortWith(c, http.StatusBadRequest, "bad_request", "invalid request body: "+err.Error(), nil)
}

func projectID(c *gin.Context) string {
	return c.Param(mw.ProjectParam)
}

// invalidate drops cached previews after the project's inputs changed.
func (h *Handler) invalidate(projectID string) {
	if h.cache != nil {
		mw.Invalidate(h.cache, projectID)
	}
}

// snapshot loads everything a run needs for one project.
func (h *Handler) snapshot(ctx context.Context, projectID string) (simulation.Input, error) {
	l, err := h.store.LoadLine(ctx, projectID)
	if err != nil {
		return simulation.Input{}, err
	}
	p, err := h.store.GetParameters(ctx, projectID)
	if err != nil {
		return simulation.Input{}, err
	}
	g, err := h.store.GetGoal(ctx, projectID)
	if err != nil {
		return simulation.Input{}, err
	}
	return simulation.Input{Line: l, Parameters: p, Goal: g}, nil
}
