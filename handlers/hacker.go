package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"scanner-backend/models"
)

// Service is the business surface the HTTP layer exposes. Implemented by
// services.HackerService; tests substitute fakes.
type Service interface {
	Resolve(ctx context.Context, token string) (*models.Hacker, error)
	Register(ctx context.Context, req models.RegisterHackerRequest) (*models.Hacker, error)
	AssignBadge(ctx context.Context, email, badgeCode string) (*models.Hacker, error)
	RecordAttendance(ctx context.Context, badgeCode string, eventID int64) (*models.Hacker, error)
}

type HackerHandler struct {
	svc Service
}

func NewHackerHandler(svc Service) *HackerHandler {
	return &HackerHandler{svc: svc}
}

// GetHacker handles GET /api/v1/hackers/:email — the identity resolver
// endpoint. 400 means the token is not an email; 404 means no hacker has
// that email. The distinction lets the scanner show "not an identity code"
// rather than "unknown hacker".
func (h *HackerHandler) GetHacker(c *gin.Context) {
	email := c.Param("email")

	hacker, err := h.svc.Resolve(c, email)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Scanned QR code is not an email"})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Hacker not found"})
		default:
			log.Printf("Error resolving hacker %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching hacker"})
		}
		return
	}

	c.JSON(http.StatusOK, hacker)
}

// RegisterHacker handles POST /api/v1/hackers. The admission decision is
// made upstream; this only creates the record.
func (h *HackerHandler) RegisterHacker(c *gin.Context) {
	var req models.RegisterHackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	hacker, err := h.svc.Register(c, req)
	if err != nil {
		if errors.Is(err, models.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": "Hacker already registered"})
			return
		}
		log.Printf("Error registering hacker %s: %v", req.Email, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register hacker"})
		return
	}

	c.JSON(http.StatusCreated, hacker)
}
