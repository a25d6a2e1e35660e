package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sst-platform/backend/internal/models"
)

type CreateConsultationRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Type        string `json:"type" validate:"required"`
	ReportID    *int64 `json:"report_id"`
	EmployeeID  int64  `json:"employee_id" validate:"required,gt=0"`
	CreatorID   int64  `json:"creator_id" validate:"required,gt=0"`
	Priority    string `json:"priority"`
	LegalRisk   string `json:"legal_risk"`
}

// @Summary Create legal consultation
// @Tags legal
// @Accept json
// @Produce json
// @Param consultation body CreateConsultationRequest true "consultation"
// @Success 201 {object} models.Consultation
// @Router /api/consultations [post]
func (h *Handler) CreateConsultation(c *gin.Context) {
	var req CreateConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	consultation := models.Consultation{
		Title:       req.Title,
		Description: req.Description,
		Type:        req.Type,
		ReportID:    req.ReportID,
		EmployeeID:  req.EmployeeID,
		CreatorID:   req.CreatorID,
		Priority:    req.Priority,
		LegalRisk:   req.LegalRisk,
	}
	if err := h.Legal.Create(c.Request.Context(), &consultation); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create consultation", err.Error())
		return
	}
	c.JSON(http.StatusCreated, consultation)
}

func (h *Handler) ConsultationsList(c *gin.Context) {
	items, err := h.Store.ListConsultations(c.Request.Context(), c.Query("state"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list consultations", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type AssignLawyerRequest struct {
	LawyerID int64 `json:"lawyer_id" validate:"required,gt=0"`
}

func (h *Handler) AssignLawyer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req AssignLawyerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	consultation, err := h.Legal.AssignLawyer(c.Request.Context(), id, req.LawyerID)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}

type ResolveConsultationRequest struct {
	ActorID         int64  `json:"actor_id" validate:"required,gt=0"`
	Resolution      string `json:"resolution" validate:"required"`
	Recommendations string `json:"recommendations"`
}

func (h *Handler) ResolveConsultation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ResolveConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	consultation, err := h.Legal.Resolve(c.Request.Context(), id, req.ActorID, req.Resolution, req.Recommendations)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}

func (h *Handler) CloseConsultation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	consultation, err := h.Legal.Close(c.Request.Context(), id)
	if err != nil {
		serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, consultation)
}
