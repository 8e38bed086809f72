package handlers

import (
	"io"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/mahesh42646/GreenRaiseAgrow-E-com-sub001/internal/events"
)

// StreamEvents pushes hub notifications to the client as server-sent
// events. The stream stays open until the client disconnects.
func StreamEvents(hub *events.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /events"
		defer handlePanic(c, route)

		ch, cancel := hub.Subscribe()
		defer cancel()

		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")

		clientGone := c.Request.Context().Done()

		c.Stream(func(w io.Writer) bool {
			select {
			case <-clientGone:
				return false
			case event, ok := <-ch:
				if !ok {
					return false
				}
				sse.Encode(w, sse.Event{
					Event: event.Name,
					Data:  event.Payload,
				})
				return true
			}
		})
	}
}
