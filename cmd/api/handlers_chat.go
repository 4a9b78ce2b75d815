package main

import (
	"io"
	"net/http"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/tiendalabs/tienda-api/internal/chatbot"
	"github.com/tiendalabs/tienda-api/internal/httpx"
	"github.com/tiendalabs/tienda-api/internal/realtime"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// chatHandler godoc
// @Summary Ask the catalog chatbot
// @Accept json
// @Produce json
// @Param message body chatRequest true "message"
// @Success 200 {object} httpx.Envelope
// @Router /api/chat [post]
func chatHandler(bot *chatbot.Bot) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			httpx.Fail(c, http.StatusBadRequest, "message is required")
			return
		}
		reply := bot.Reply(c.Request.Context(), req.Message)
		httpx.OK(c, gin.H{"reply": reply}, "")
	}
}

// streamEventsHandler is the live channel admin dashboards subscribe to.
func streamEventsHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ch := hub.Subscribe()
		defer hub.Unsubscribe(ch)

		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case ev, ok := <-ch:
				if !ok {
					return false
				}
				_ = sse.Encode(w, ev)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
