package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sst-platform/backend/internal/models"
)

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	FullName string `json:"full_name" validate:"required,max=200"`
	Role     string `json:"role" validate:"required"`
}

func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	role := models.Role(req.Role)
	if !role.Valid() {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid role", nil)
		return
	}

	user := models.User{Email: req.Email, FullName: req.FullName, Role: role, Active: true}
	if err := h.Store.CreateUser(c.Request.Context(), &user); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create user", err.Error())
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) UsersList(c *gin.Context) {
	items, err := h.Store.ListUsers(c.Request.Context(), c.Query("role"), c.Query("active") == "true")
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list users", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type CatalogEntryRequest struct {
	Name                  string `json:"name" validate:"required,max=200"`
	Description           string `json:"description"`
	Code                  string `json:"code"`
	Category              string `json:"category"`
	Address               string `json:"address"`
	RequiresInvestigation bool   `json:"requires_investigation"`
}

func (h *Handler) CreateReportType(c *gin.Context) {
	req, ok := h.bindCatalogEntry(c)
	if !ok {
		return
	}
	rt := models.ReportType{
		Name:                  req.Name,
		Description:           req.Description,
		RequiresInvestigation: req.RequiresInvestigation,
		Active:                true,
	}
	if err := h.Store.CreateReportType(c.Request.Context(), &rt); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create report type", err.Error())
		return
	}
	c.JSON(http.StatusCreated, rt)
}

func (h *Handler) ReportTypesList(c *gin.Context) {
	items, err := h.Store.ListReportTypes(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list report types", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateEvidenceType(c *gin.Context) {
	req, ok := h.bindCatalogEntry(c)
	if !ok {
		return
	}
	if req.Code == "" {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "code is required", nil)
		return
	}
	et := models.EvidenceType{Name: req.Name, Code: req.Code, Active: true}
	if err := h.Store.CreateEvidenceType(c.Request.Context(), &et); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create evidence type", err.Error())
		return
	}
	c.JSON(http.StatusCreated, et)
}

func (h *Handler) EvidenceTypesList(c *gin.Context) {
	items, err := h.Store.ListEvidenceTypes(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list evidence types", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) CreateLocation(c *gin.Context) {
	req, ok := h.bindCatalogEntry(c)
	if !ok {
		return
	}
	loc := models.Location{Name: req.Name, Category: req.Category, Address: req.Address, Active: true}
	if err := h.Store.CreateLocation(c.Request.Context(), &loc); err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to create location", err.Error())
		return
	}
	c.JSON(http.StatusCreated, loc)
}

func (h *Handler) LocationsList(c *gin.Context) {
	items, err := h.Store.ListLocations(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list locations", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) bindCatalogEntry(c *gin.Context) (CatalogEntryRequest, bool) {
	var req CatalogEntryRequest
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
