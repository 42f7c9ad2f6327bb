package delivery

import (
	"cart_service/internal/domain"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {

	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrProductNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrIndexOutOfRange):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrMalformedCatalog):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
