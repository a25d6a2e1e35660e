package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type OwnerActionRequest struct {
	ActorID int64  `json:"actor_id" validate:"required,gt=0"`
	Note    string `json:"note"`
}

// @Summary Record first response
// @Tags assignments
// @Accept json
// @Produce json
// @Param id path int true "Assignment ID"
// @Param action body OwnerActionRequest true "action"
// @Success 200 {object} models.Assignment
// @Failure 403 {object} map[string]any
// @Failure 409 {object} map[string]any
// @Router /api/assignments/{id}/respond [post]
func (h *Handler) RespondAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := h.bindOwnerAction(c)
	if !ok {
		return
	}

	a, err := h.Gestion.MarkResponded(c.Request.Context(), id, req.ActorID, req.Note)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) ResolveAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := h.bindOwnerAction(c)
	if !ok {
		return
	}
	if req.Note == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "note with the resolution is required", nil)
		return
	}

	a, err := h.Gestion.MarkResolved(c.Request.Context(), id, req.ActorID, req.Note)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) CloseAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	req, ok := h.bindOwnerAction(c)
	if !ok {
		return
	}

	a, err := h.Gestion.MarkClosed(c.Request.Context(), id, req.ActorID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

// EscalateAssignment triggers the deadline check for one assignment
// without waiting for the sweep. Not overdue means no-op, not an error.
func (h *Handler) EscalateAssignment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	a, err := h.Store.GetAssignment(c.Request.Context(), id)
	if err != nil {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Assignment not found", nil)
		return
	}

	escalated, err := h.Gestion.EscalateIfDue(c.Request.Context(), a, h.Gestion.Now())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Escalation failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"escalated": escalated})
}

// Sweep runs one due-check pass on demand, same as the scheduled job.
func (h *Handler) Sweep(c *gin.Context) {
	if err := h.Gestion.SweepDueAssignments(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, "SWEEP_ERROR", "Sweep failed", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) bindOwnerAction(c *gin.Context) (OwnerActionRequest, bool) {
	var req OwnerActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return req, false
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return req, false
	}
	return req, true
}
