package live

import (
	"context"
	"net/http"

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

// Feeds is the interface for the live match feeds.
type Feeds interface {
	Matches(tournament string) ([]cricket.MatchSummary, error)
	Refresh(ctx context.Context, tournament string) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Feeds

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/matches", h.matchesHandler)
	r.GET("/matches/:tournament", h.matchesHandler)
	r.POST("/matches/:tournament/refresh", h.refreshHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) matchesHandler(c *gin.Context) {
	tournament := c.Param("tournament")

	matches, err := h.Service.Matches(tournament)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such feed"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"matches": matches})
}

func (h *httpHandler) refreshHandler(c *gin.Context) {
	tournament := c.Param("tournament")

	if err := h.Service.Refresh(c, tournament); err != nil {
		if err == ErrUnknownFeed {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such feed"})
			c.Abort()
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not reload matches"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "feed reloaded"})
}
