package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"scanner-backend/models"
)

type ScanHandler struct {
	svc Service
}

func NewScanHandler(svc Service) *ScanHandler {
	return &ScanHandler{svc: svc}
}

// RecordScan handles POST /api/v1/scans — the attendance ledger endpoint.
// Replaying the same (badge, event) pair returns 409 and mutates nothing;
// that guarantee holds across concurrent devices because the store update is
// a single conditional write.
func (h *ScanHandler) RecordScan(c *gin.Context) {
	var req models.RecordScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	log.Printf("Recording scan: badge=%s event=%d", req.BadgeCode, req.EventID)

	hacker, err := h.svc.RecordAttendance(c, req.BadgeCode, req.EventID)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidToken):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid badge code"})
		case errors.Is(err, models.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Badge not registered to any hacker"})
		case errors.Is(err, models.ErrAlreadyRecorded):
			c.JSON(http.StatusConflict, gin.H{"error": "Event ID already recorded."})
		default:
			log.Printf("Error recording scan badge=%s event=%d: %v", req.BadgeCode, req.EventID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error recording attendance"})
		}
		return
	}

	c.JSON(http.StatusOK, hacker)
}
