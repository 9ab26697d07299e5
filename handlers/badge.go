package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"scanner-backend/models"
)

type BadgeHandler struct {
	svc Service
}

func NewBadgeHandler(svc Service) *BadgeHandler {
	return &BadgeHandler{svc: svc}
}

// AssignBadge handles POST /api/v1/badges. Binds a scanned badge code to a
// hacker by email. The write is last-write-wins: the overwrite decision is
// made in the check-in flow before this endpoint is called, so "already
// badged" is never an error here.
func (h *BadgeHandler) AssignBadge(c *gin.Context) {
	var req models.AssignBadgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hacker, err := h.svc.AssignBadge(c, req.Email, req.BadgeCode)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge code or email"})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Hacker not found"})
		case errors.Is(err, models.ErrBadgeTaken):
			c.JSON(http.StatusConflict, gin.H{"error": "Badge code already assigned to another hacker"})
		default:
			log.Printf("Error assigning badge to %s: %v", req.Email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign badge"})
		}
		return
	}

	c.JSON(http.StatusOK, hacker)
}
