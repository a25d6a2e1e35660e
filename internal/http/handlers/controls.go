package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sst-platform/backend/internal/models"
)

type CreateControlRequest struct {
	Name              string `json:"name" validate:"required,max=200"`
	Description       string `json:"description"`
	Type              string `json:"type" validate:"required"`
	HierarchyLevel    string `json:"hierarchy_level" validate:"required"`
	ReportID          *int64 `json:"report_id"`
	ResponsibleID     int64  `json:"responsible_id" validate:"required,gt=0"`
	CreatedByID       *int64 `json:"created_by_id"`
	FollowUpEveryDays int    `json:"follow_up_every_days" validate:"min=0"`
}

// @Summary Create control
// @Tags controls
// @Accept json
// @Produce json
// @Param control body CreateControlRequest true "control"
// @Success 201 {object} models.Control
// @Router /api/controls [post]
func (h *Handler) CreateControl(c *gin.Context) {
	var req CreateControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	control := models.Control{
		Name:              req.Name,
		Description:       req.Description,
		Type:              models.ControlType(req.Type),
		HierarchyLevel:    models.ControlLevel(req.HierarchyLevel),
		ReportID:          req.ReportID,
		ResponsibleID:     req.ResponsibleID,
		CreatedByID:       req.CreatedByID,
		FollowUpEveryDays: req.FollowUpEveryDays,
	}
	if err := h.Controls.Create(c.Request.Context(), &control); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create control", err.Error())
		return
	}
	c.JSON(http.StatusCreated, control)
}

func (h *Handler) ControlsList(c *gin.Context) {
	items, err := h.Store.ListControls(c.Request.Context(), c.Query("state"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list controls", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type ControlTransitionRequest struct {
	State    string `json:"state" validate:"required"`
	Evidence string `json:"evidence"`
}

// @Summary Transition control state
// @Tags controls
// @Accept json
// @Produce json
// @Param id path int true "Control ID"
// @Param transition body ControlTransitionRequest true "transition"
// @Success 200 {object} models.Control
// @Failure 409 {object} map[string]any
// @Router /api/controls/{id}/transition [post]
func (h *Handler) TransitionControl(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ControlTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	control, err := h.Controls.Advance(c.Request.Context(), id, models.ControlState(req.State), req.Evidence)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, control)
}

type ControlEvaluationRequest struct {
	Effectiveness int `json:"effectiveness" validate:"min=0,max=100"`
}

func (h *Handler) EvaluateControl(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ControlEvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	control, err := h.Controls.Evaluate(c.Request.Context(), id, req.Effectiveness)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, control)
}

func (h *Handler) ControlsDueFollowUp(c *gin.Context) {
	items, err := h.Controls.DueFollowUps(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list due follow-ups", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
