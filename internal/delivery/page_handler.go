package delivery

import (
	"cart_service/internal/domain"
	"cart_service/internal/usecase"
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type pageData struct {
	View  domain.CartView
	Error string
}

// PageHandler renders the cart page and accepts its form posts. Every form
// post redirects back to the page, carrying a failure message in the query.
type PageHandler struct {
	cart   usecase.CartUseCase
	loader usecase.CatalogLoader
	log    *logrus.Logger
}

func NewPageHandler(cart usecase.CartUseCase, loader usecase.CatalogLoader, logger *logrus.Logger) *PageHandler {
	return &PageHandler{
		cart:   cart,
		loader: loader,
		log:    logger,
	}
}

func (h *PageHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/", h.Index)
	ui := router.Group("/ui")
	{
		ui.POST("/cart/add", h.Add)
		ui.POST("/cart/quantity", h.SetQuantity)
		ui.POST("/cart/remove", h.Remove)
		ui.POST("/catalog/reload", h.Reload)
	}
}

func (h *PageHandler) Index(c *gin.Context) {
	c.Render(http.StatusOK, render.HTML{
		Template: pageTemplates,
		Name:     "cart.html",
		Data:     pageData{View: h.cart.View(), Error: c.Query("error")},
	})
}

func (h *PageHandler) Add(c *gin.Context) {
	title := c.PostForm("title")
	_, err := h.cart.AddByTitle(title)
	h.redirect(c, "Failed to add to cart", err)
}

func (h *PageHandler) SetQuantity(c *gin.Context) {
	title := c.PostForm("title")
	_, err := h.cart.SetQuantity(title, c.PostForm("quantity"))
	h.redirect(c, "Failed to update quantity", err)
}

func (h *PageHandler) Remove(c *gin.Context) {
	title := c.PostForm("title")
	_, err := h.cart.RemoveItem(title)
	h.redirect(c, "Failed to remove item", err)
}

func (h *PageHandler) Reload(c *gin.Context) {
	h.log.Info("Catalog reload requested from page")
	h.loader.Reload()
	h.redirect(c, "", nil)
}

func (h *PageHandler) redirect(c *gin.Context, action string, err error) {
	if err != nil {
		h.log.Warnf("%s: %v", action, err)
		c.Redirect(http.StatusSeeOther, "/?error="+url.QueryEscape(action+": "+err.Error()))
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}
