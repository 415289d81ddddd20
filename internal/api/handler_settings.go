package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"plating-line-backend/internal/line"
)

// GetGoal handles GET /api/projects/{project_id}/production-goal.
func (h *Handler) GetGoal(c *gin.Context) {
	g, err := h.store.GetGoal(c.Request.Context(), projectID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// PutGoal replaces the goal. The response carries the derived targets.
func (h *Handler) PutGoal(c *gin.Context) {
	var g line.Goal
	if err := c.ShouldBindJSON(&g); err != nil {
		badRequest(c, err)
		return
	}
	if err := line.ValidateGoal(g); err != nil {
		h.fail(c, err)
		return
	}

	saved, err := h.store.SaveGoal(c.Request.Context(), projectID(c), g)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.invalidate(projectID(c))
	c.JSON(http.StatusOK, saved)
}

// GetParameters handles GET /api/projects/{project_id}/simulation/parameters.
func (h *Handler) GetParameters(c *gin.Context) {
	p, err := h.store.GetParameters(c.Request.Context(), projectID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// PutParameters replaces the parameters. Fields missing from the body keep
// their defaults.
func (h *Handler) PutParameters(c *gin.Context) {
	p := line.DefaultParameters()
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, err)
		return
	}
	if err := line.ValidateParameters(p); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.SaveParameters(c.Request.Context(), projectID(c), p); err != nil {
		h.fail(c, err)
		return
	}
	h.invalidate(projectID(c))
	c.JSON(http.StatusOK, p)
}

// GetLine handles GET /api/projects/{project_id}/line.
func (h *Handler) GetLine(c *gin.Context) {
	l, err := h.store.LoadLine(c.Request.Context(), projectID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, l)
}

// PutLine replaces the project's stations and recipes wholesale.
func (h *Handler) PutLine(c *gin.Context) {
	var l line.Line
	if err := c.ShouldBindJSON(&l); err != nil {
		badRequest(c, err)
		return
	}
	if err := line.Validate(l); err != nil {
		h.fail(c, err)
		return
	}

	if err := h.store.ReplaceLine(c.Request.Context(), projectID(c), l); err != nil {
		h.fail(c, err)
		return
	}
	h.invalidate(projectID(c))

	saved, err := h.store.LoadLine(c.Request.Context(), projectID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}
