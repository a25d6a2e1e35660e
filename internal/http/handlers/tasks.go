package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) TasksList(c *gin.Context) {
	assignee := queryInt64(c, "assignee")
	if assignee <= 0 {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "assignee query parameter is required", nil)
		return
	}

	items, err := h.Store.ListTasksByAssignee(c.Request.Context(), assignee, c.Query("state"))
	if err != nil {
		writeError(c, http.StatusInternalServerError, "DB_ERROR", "Failed to list tasks", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
