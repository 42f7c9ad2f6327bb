package delivery

import (
	"cart_service/internal/domain"
	"cart_service/internal/usecase"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CartHandler struct {
	useCase usecase.CartUseCase
	log     *logrus.Logger
}

func NewCartHandler(uc usecase.CartUseCase, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		useCase: uc,
		log:     logger,
	}
}

func (h *CartHandler) RegisterRoutes(router gin.IRouter) {
	cart := router.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.GET("/total", h.GetTotal)
		cart.POST("/items", h.AddItem)
		cart.PATCH("/items/:title", h.SetQuantity)
		cart.DELETE("/items/:title", h.RemoveItem)
		cart.PATCH("/positions/:index", h.SetQuantityAt)
		cart.DELETE("/positions/:index", h.RemoveAt)
	}
}

type addItemRequest struct {
	Title string `json:"title" binding:"required"`
}

// quantityRequest keeps the raw JSON value so that "2", 2 and "abc" all reach
// the quantity policy unchanged.
type quantityRequest struct {
	Quantity json.RawMessage `json:"quantity"`
}

func (r quantityRequest) raw() string {
	var s string
	if err := json.Unmarshal(r.Quantity, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Quantity))
}

func (h *CartHandler) GetCart(c *gin.Context) {
	SuccessResponse(c, http.StatusOK, "Cart retrieved successfully", h.useCase.View())
}

func (h *CartHandler) GetTotal(c *gin.Context) {
	total := domain.FormatAmount(h.useCase.Total())
	SuccessResponse(c, http.StatusOK, "Cart total computed", gin.H{"total": total})
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for add to cart: %v", err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if _, err := h.useCase.AddByTitle(req.Title); err != nil {
		h.log.Warnf("Failed to add '%s' to cart: %v", req.Title, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to add to cart: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Item added to cart", h.useCase.View())
}

func (h *CartHandler) SetQuantity(c *gin.Context) {
	title := c.Param("title")

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for quantity update of '%s': %v", title, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Quantity) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'quantity' field is required")
		return
	}

	if _, err := h.useCase.SetQuantity(title, req.raw()); err != nil {
		h.log.Warnf("Failed to set quantity of '%s': %v", title, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update quantity: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Quantity updated", h.useCase.View())
}

func (h *CartHandler) SetQuantityAt(c *gin.Context) {
	index, ok := h.positionParam(c)
	if !ok {
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warnf("Failed to bind JSON for quantity update at position %d: %v", index, err)
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if len(req.Quantity) == 0 {
		ErrorResponse(c, http.StatusBadRequest, "Invalid request body: 'quantity' field is required")
		return
	}

	if _, err := h.useCase.SetQuantityAt(index, req.raw()); err != nil {
		h.log.Warnf("Failed to set quantity at position %d: %v", index, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to update quantity: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Quantity updated", h.useCase.View())
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	title := c.Param("title")
	if _, err := h.useCase.RemoveItem(title); err != nil {
		h.log.Warnf("Failed to remove '%s': %v", title, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to remove item: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Item removed from cart", h.useCase.View())
}

func (h *CartHandler) RemoveAt(c *gin.Context) {
	index, ok := h.positionParam(c)
	if !ok {
		return
	}
	if _, err := h.useCase.RemoveAt(index); err != nil {
		h.log.Warnf("Failed to remove item at position %d: %v", index, err)
		ErrorResponse(c, mapErrorToStatus(err), "Failed to remove item: "+err.Error())
		return
	}
	SuccessResponse(c, http.StatusOK, "Item removed from cart", h.useCase.View())
}

func (h *CartHandler) ClearCart(c *gin.Context) {
	h.useCase.Clear()
	SuccessResponse(c, http.StatusOK, "Cart cleared", h.useCase.View())
}

func (h *CartHandler) positionParam(c *gin.Context) (int, bool) {
	indexStr := c.Param("index")
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		h.log.Warnf("Invalid cart position parameter: %s", indexStr)
		ErrorResponse(c, http.StatusBadRequest, "Invalid cart position format")
		return 0, false
	}
	return index, true
}
