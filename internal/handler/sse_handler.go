package handler

import (
	"fmt"
	"io"
	"strconv"
	"time"

	ginsse "github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/productdash_api/internal/sse"
	"github.com/GTDGit/productdash_api/internal/utils"
)

const ssePingInterval = 30 * time.Second

// SSEHandler streams catalog change events to dashboard clients.
type SSEHandler struct {
	hub *sse.Hub
}

// NewSSEHandler creates a new SSEHandler.
func NewSSEHandler(hub *sse.Hub) *SSEHandler {
	return &SSEHandler{hub: hub}
}

// Stream handles GET /api/products/events. Each product event carries its
// id so the browser resends it as Last-Event-ID after a reconnect.
func (h *SSEHandler) Stream(c *gin.Context) {
	clientID := fmt.Sprintf("dash-%s-%d", utils.RequestID(c), time.Now().UnixNano())
	lastEventID, _ := strconv.ParseUint(c.GetHeader("Last-Event-ID"), 10, 64)

	// SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // Disable nginx buffering

	client := h.hub.Register(clientID, lastEventID)
	defer h.hub.Unregister(clientID)

	c.SSEvent("connected", gin.H{
		"clientId":  clientID,
		"message":   "SSE connection established",
		"timestamp": time.Now().Format(time.RFC3339),
	})
	c.Writer.Flush()

	log.Info().Str("client_id", clientID).Str("ip", c.ClientIP()).Msg("Catalog SSE stream started")

	c.Stream(func(w io.Writer) bool {
		select {
		case msg, ok := <-client.Messages:
			if !ok {
				return false
			}
			c.Render(-1, ginsse.Event{
				Id:    strconv.FormatUint(msg.ID, 10),
				Event: "product",
				Data:  string(msg.Data),
			})
			return true
		case <-time.After(ssePingInterval):
			c.SSEvent("ping", gin.H{"timestamp": time.Now().Format(time.RFC3339)})
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
