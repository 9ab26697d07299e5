package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"scanner-backend/catalog"
)

type EventHandler struct {
	catalog catalog.Catalog
}

func NewEventHandler(cat catalog.Catalog) *EventHandler {
	return &EventHandler{catalog: cat}
}

// GetEvents handles GET /api/v1/events — a read-only passthrough of the
// event catalog.
func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.catalog.Events(c)
	if err != nil {
		log.Printf("Error fetching event catalog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching events"})
		return
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent handles GET /api/v1/events/:id.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	events, err := h.catalog.Events(c)
	if err != nil {
		log.Printf("Error fetching event catalog: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching events"})
		return
	}

	for _, ev := range events {
		if ev.ID == id {
			c.JSON(http.StatusOK, ev)
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
}
