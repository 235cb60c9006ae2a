package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/velmark/vitrine-display-service/internal/notifications"
)

// StreamHandler serves the long-lived display client streams.
type StreamHandler struct {
	hub    *notifications.Hub
	logger *zap.Logger
}

func NewStreamHandler(hub *notifications.Hub, logger *zap.Logger) *StreamHandler {
	return &StreamHandler{hub: hub, logger: logger}
}

// Stream emits newline-delimited `data: <json>` events plus comment-only
// keepalive lines. The first event is always the connected acknowledgement.
func (h *StreamHandler) Stream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Writer.WriteHeader(http.StatusOK)

	client := h.hub.AddClient()
	defer h.hub.RemoveClient(client.ID)

	if _, err := c.Writer.WriteString("data: {\"type\":\"connected\"}\n\n"); err != nil {
		return
	}
	flusher.Flush()

	for {
		select {
		case <-c.Request.Context().Done():
			return
		case <-client.Done():
			return
		case frame := <-client.Frames:
			if frame.Keepalive {
				if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
					return
				}
			} else {
				if _, err := c.Writer.WriteString("data: " + string(frame.Data) + "\n\n"); err != nil {
					return
				}
			}
			flusher.Flush()
		}
	}
}
