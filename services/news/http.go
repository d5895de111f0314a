package news

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cricket "github.com/crichub/portal-sync/repos/cricket"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Feed is the interface for the news feed service.
type Feed interface {
	Page(page, size int) ([]cricket.NewsItem, int)
	Refresh(ctx context.Context) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Feed

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/articles", h.articlesHandler)
	r.POST("/articles/refresh", h.refreshHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) articlesHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	content, totalPages := h.Service.Page(page, size)
	c.JSON(http.StatusOK, gin.H{
		"content":    content,
		"totalPages": totalPages,
	})
}

func (h *httpHandler) refreshHandler(c *gin.Context) {
	if err := h.Service.Refresh(c); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not reload news"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "news reloaded"})
}
