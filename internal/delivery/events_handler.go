package delivery

import (
	"cart_service/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// EventsHandler streams a "cart" server-sent event carrying the full view
// after every cart or catalog change.
type EventsHandler struct {
	cart usecase.CartUseCase
	log  *logrus.Logger
}

func NewEventsHandler(cart usecase.CartUseCase, logger *logrus.Logger) *EventsHandler {
	return &EventsHandler{
		cart: cart,
		log:  logger,
	}
}

func (h *EventsHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/events", h.Stream)
}

func (h *EventsHandler) Stream(c *gin.Context) {
	views, unsubscribe := h.cart.Subscribe()
	defer unsubscribe()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	h.log.Debugf("Event stream opened for %s", c.ClientIP())

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Debugf("Event stream closed for %s", c.ClientIP())
			return
		case view, ok := <-views:
			if !ok {
				return
			}
			c.SSEvent("cart", view)
			c.Writer.Flush()
		}
	}
}
