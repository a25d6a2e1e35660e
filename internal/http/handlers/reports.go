package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/sst-platform/backend/internal/models"
	"github.com/sst-platform/backend/internal/service"
)

type CreateReportRequest struct {
	Title          string `json:"title" validate:"required,max=200"`
	Description    string `json:"description" validate:"required"`
	LocationID     *int64 `json:"location_id"`
	LocationDetail string `json:"location_detail"`
	ReportTypeID   int64  `json:"report_type_id" validate:"required,gt=0"`
	EvidenceTypeID *int64 `json:"evidence_type_id"`
	Probability    int    `json:"probability" validate:"required,min=1,max=5"`
	Severity       int    `json:"severity" validate:"required,min=1,max=5"`
	ReporterID     int64  `json:"reporter_id" validate:"required,gt=0"`
}

// @Summary Create report
// @Description Creates an unsafe-condition report and runs automatic assignment
// @Tags reports
// @Accept json
// @Produce json
// @Param report body CreateReportRequest true "report"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]any
// @Router /api/reports [post]
func (h *Handler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	report := models.Report{
		Title:          req.Title,
		Description:    req.Description,
		LocationID:     req.LocationID,
		LocationDetail: req.LocationDetail,
		ReportTypeID:   req.ReportTypeID,
		EvidenceTypeID: req.EvidenceTypeID,
		Probability:    req.Probability,
		Severity:       req.Severity,
		ReporterID:     req.ReporterID,
	}

	assignment, err := h.Gestion.CreateReport(c.Request.Context(), &report)
	if err != nil {
		// The report survives a degraded assignment; the client gets it
		// back with a warning instead of an error.
		if errors.Is(err, service.ErrNoRuleConfigured) || errors.Is(err, service.ErrNoEligibleUser) {
			c.JSON(http.StatusCreated, gin.H{
				"report":             report,
				"assignment":         nil,
				"assignment_warning": err.Error(),
			})
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create report", err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"report": report, "assignment": assignment})
}

func (h *Handler) ReportsList(c *gin.Context) {
	state := c.Query("state")
	q := c.Query("q")
	reportTypeID := queryInt64(c, "report_type_id")
	limit := queryInt(c, "limit", 50)
	offset := queryInt(c, "offset", 0)

	items, err := h.Store.ListReports(c.Request.Context(), state, q, reportTypeID, limit, offset)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list reports", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

// @Summary Report details
// @Tags reports
// @Produce json
// @Param id path int true "Report ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]any
// @Router /api/reports/{id} [get]
func (h *Handler) ReportDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	report, err := h.Store.GetReport(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Report not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to get report", err.Error())
		return
	}

	resp := gin.H{"report": report}
	if assignment, err := h.Store.GetAssignmentByReport(c.Request.Context(), id); err == nil {
		resp["assignment"] = assignment
		if tasks, err := h.Store.ListTasksByAssignment(c.Request.Context(), assignment.ID); err == nil {
			resp["tasks"] = tasks
		}
	}
	c.JSON(http.StatusOK, resp)
}
