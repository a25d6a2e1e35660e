package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"

	"github.com/sst-platform/backend/internal/models"
)

type RuleRequest struct {
	ReportTypeID      *int64   `json:"report_type_id"`
	RiskLevel         *string  `json:"risk_level"`
	PrincipalRole     string   `json:"principal_role" validate:"required"`
	BackupRole1       *string  `json:"backup_role_1"`
	BackupRole2       *string  `json:"backup_role_2"`
	Department        *string  `json:"department"`
	NotifyRoles       []string `json:"notify_roles"`
	ResponseMinutes   int      `json:"response_minutes" validate:"required,gt=0"`
	ResolutionMinutes int      `json:"resolution_minutes" validate:"required,gt=0"`
}

func (r RuleRequest) toModel() (models.Rule, error) {
	rule := models.Rule{
		ReportTypeID:      r.ReportTypeID,
		Department:        r.Department,
		ResponseMinutes:   r.ResponseMinutes,
		ResolutionMinutes: r.ResolutionMinutes,
		Active:            true,
	}

	principal := models.Role(r.PrincipalRole)
	if !principal.Valid() {
		return models.Rule{}, errors.New("invalid principal_role")
	}
	rule.PrincipalRole = principal

	for _, backup := range []struct {
		raw  *string
		dest **models.Role
	}{
		{r.BackupRole1, &rule.BackupRole1},
		{r.BackupRole2, &rule.BackupRole2},
	} {
		if backup.raw == nil {
			continue
		}
		role := models.Role(*backup.raw)
		if !role.Valid() {
			return models.Rule{}, errors.New("invalid backup role")
		}
		*backup.dest = &role
	}

	if r.RiskLevel != nil {
		level := models.RiskLevel(*r.RiskLevel)
		rule.RiskLevel = &level
	}
	for _, raw := range r.NotifyRoles {
		role := models.Role(raw)
		if !role.Valid() {
			return models.Rule{}, errors.New("invalid notify role")
		}
		rule.NotifyRoles = append(rule.NotifyRoles, role)
	}
	return rule, nil
}

// @Summary Create assignment rule
// @Tags rules
// @Accept json
// @Produce json
// @Param rule body RuleRequest true "rule"
// @Success 201 {object} models.Rule
// @Router /api/rules [post]
func (h *Handler) CreateRule(c *gin.Context) {
	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	rule, err := req.toModel()
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	if err := h.Store.CreateRule(c.Request.Context(), &rule); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create rule", err.Error())
		return
	}
	c.JSON(http.StatusCreated, rule)
}

func (h *Handler) UpdateRule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req RuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	rule, err := req.toModel()
	if err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}
	rule.ID = id

	existing, err := h.Store.GetRule(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Rule not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to load rule", err.Error())
		return
	}
	rule.Active = existing.Active

	if err := h.Store.UpdateRule(c.Request.Context(), rule); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to update rule", err.Error())
		return
	}
	c.JSON(http.StatusOK, rule)
}

// DeactivateRule retires a rule. Rules are never deleted so existing
// assignments keep a valid reference.
func (h *Handler) DeactivateRule(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Store.DeactivateRule(c.Request.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(c, http.StatusNotFound, "NOT_FOUND", "Rule not found", nil)
			return
		}
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to deactivate rule", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) RulesList(c *gin.Context) {
	var (
		items []models.Rule
		err   error
	)
	if c.Query("all") == "true" {
		items, err = h.Store.ListRules(c.Request.Context())
	} else {
		items, err = h.Store.ListActiveRules(c.Request.Context())
	}
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list rules", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
