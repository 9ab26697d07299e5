package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"scanner-backend/checkin"
)

// SessionHandler exposes the staff-device workflows over HTTP. Each scanner
// device opens one session and posts decoded QR payloads and button presses
// into it; the response is always the full session state so the device can
// render the current stage.
type SessionHandler struct {
	reg *checkin.Registry
}

func NewSessionHandler(reg *checkin.Registry) *SessionHandler {
	return &SessionHandler{reg: reg}
}

type createSessionRequest struct {
	Flow    checkin.FlowKind `json:"flow" binding:"required"`
	EventID int64            `json:"event_id"`
}

type scanRequest struct {
	Data string `json:"data"`
}

// CreateSession handles POST /api/v1/sessions.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var id string
	var f *checkin.Flow
	switch req.Flow {
	case checkin.FlowCheckin:
		id, f = h.reg.CreateCheckin()
	case checkin.FlowEvent:
		if req.EventID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "event_id is required for event sessions"})
			return
		}
		id, f = h.reg.CreateEvent(req.EventID)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "flow must be 'checkin' or 'event'"})
		return
	}

	c.JSON(http.StatusCreated, sessionResponse(id, f.Session()))
}

// GetSession handles GET /api/v1/sessions/:id.
func (h *SessionHandler) GetSession(c *gin.Context) {
	f, id, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, f.Session()))
}

// Scan handles POST /api/v1/sessions/:id/scan — one decoded QR payload.
func (h *SessionHandler) Scan(c *gin.Context) {
	f, id, ok := h.flow(c)
	if !ok {
		return
	}

	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sessionResponse(id, f.Scan(c, req.Data)))
}

// Confirm handles POST /api/v1/sessions/:id/confirm.
func (h *SessionHandler) Confirm(c *gin.Context) {
	f, id, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, f.Confirm(c)))
}

// Reject handles POST /api/v1/sessions/:id/reject.
func (h *SessionHandler) Reject(c *gin.Context) {
	f, id, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, f.Reject()))
}

// Reset handles POST /api/v1/sessions/:id/reset.
func (h *SessionHandler) Reset(c *gin.Context) {
	f, id, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, f.Reset()))
}

// Acknowledge handles POST /api/v1/sessions/:id/ack.
func (h *SessionHandler) Acknowledge(c *gin.Context) {
	f, id, ok := h.flow(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sessionResponse(id, f.Acknowledge()))
}

// DeleteSession handles DELETE /api/v1/sessions/:id. The device abandons its
// session; any in-flight write still completes at the store.
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	id := c.Param("id")
	h.reg.Remove(id)
	c.Status(http.StatusNoContent)
}

func (h *SessionHandler) flow(c *gin.Context) (*checkin.Flow, string, bool) {
	id := c.Param("id")
	f, ok := h.reg.Get(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, "", false
	}
	return f, id, true
}

// sessionResponse renders a session with display text for the warning codes.
func sessionResponse(id string, s checkin.Session) gin.H {
	msgs := make([]string, 0, len(s.Warnings))
	for _, w := range s.Warnings {
		msgs = append(msgs, w.Message())
	}
	return gin.H{
		"session_id":       id,
		"session":          s,
		"warning_messages": msgs,
	}
}
