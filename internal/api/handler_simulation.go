package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"plating-line-backend/internal/store"
)

type runRequest struct {
	Name  string `json:"name"`
	Notes string `json:"notes"`
}

// Quick handles GET /api/projects/{project_id}/simulation/quick. Invalid
// configurations are reported in the body, not as an error status.
func (h *Handler) Quick(c *gin.Context) {
	in, err := h.snapshot(c.Request.Context(), projectID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	res, err := h.sim.Quick(c.Request.Context(), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Run handles POST /api/projects/{project_id}/simulation/run. The result is
// stored before it is returned.
func (h *Handler) Run(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	project := projectID(c)
	in, err := h.snapshot(ctx, project)
	if err != nil {
		h.fail(c, err)
		return
	}
	in.Name = req.Name
	in.Notes = req.Notes

	res, err := h.sim.Run(ctx, in)
	if err != nil {
		h.fail(c, err)
		return
	}
	if err := h.store.AppendResult(ctx, project, res); err != nil {
		h.fail(c, err)
		return
	}

	if res.CalculatedHoistCount != in.Parameters.CalculatedHoistCount {
		p := in.Parameters
		p.CalculatedHoistCount = res.CalculatedHoistCount
		if err := h.store.SaveParameters(ctx, project, p); err != nil {
			h.logger.Warn("could not record calculated hoist count",
				zap.String("project_id", project), zap.Error(err))
		}
	}
	h.invalidate(project)

	h.logger.Info("simulation stored",
		zap.String("project_id", project),
		zap.String("run_id", res.RunID.String()),
		zap.Bool("feasible", res.Feasible))
	c.JSON(http.StatusCreated, res)
}

// ListResults handles GET /api/projects/{project_id}/simulation/results.
func (h *Handler) ListResults(c *gin.Context) {
	limit := store.DefaultResultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			abortWith(c, http.StatusBadRequest, "bad_request", "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	results, err := h.store.ListResults(c.Request.Context(), projectID(c), limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetResult handles GET /api/projects/{project_id}/simulation/results/{run_id}.
func (h *Handler) GetResult(c *gin.Context) {
	runID, err := uuid.Parse(c.Param("run_id"))
	if err != nil {
		abortWith(c, http.StatusBadRequest, "bad_request", "invalid run id", nil)
		return
	}
	res, err := h.store.GetResult(c.Request.Context(), projectID(c), runID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
