package delivery

import (
	"cart_service/internal/domain"
	"cart_service/internal/usecase"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type CatalogHandler struct {
	cart   usecase.CartUseCase
	loader usecase.CatalogLoader
	file   string
	log    *logrus.Logger
}

// NewCatalogHandler serves the catalog snapshot and reload trigger. When file
// is not empty it is also published as /products.json.
func NewCatalogHandler(cart usecase.CartUseCase, loader usecase.CatalogLoader, file string, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{
		cart:   cart,
		loader: loader,
		file:   file,
		log:    logger,
	}
}

func (h *CatalogHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/products", h.ListProducts)
	router.POST("/catalog/reload", h.Reload)
	router.GET("/health", h.Health)
	if h.file != "" {
		router.StaticFile("/products.json", h.file)
	}
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	view := h.cart.View()
	SuccessResponse(c, http.StatusOK, "Products retrieved successfully", gin.H{
		"products": view.Products,
		"catalog":  view.Catalog,
	})
}

func (h *CatalogHandler) Reload(c *gin.Context) {
	h.log.Info("Catalog reload requested")
	h.loader.Reload()
	SuccessResponse(c, http.StatusAccepted, "Catalog reload started", domain.NewCatalogStatusView(h.loader.Status()))
}

// Health always answers 200 while the process is up; the catalog state is
// reported alongside.
func (h *CatalogHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"catalog": domain.NewCatalogStatusView(h.loader.Status()),
	})
}
