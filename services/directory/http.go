package directory

import (
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

// Directory is the interface for the directory service.
type Directory interface {
	Players(c *gin.Context, page, size int) ([]cricket.Player, int, error)
	Teams(c *gin.Context, page, size int) ([]cricket.Team, int, error)
	Venues(c *gin.Context, page, size int) ([]cricket.Venue, int, error)
	Rankings(c *gin.Context, format string) ([]cricket.TeamRanking, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Directory

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/players", h.playersHandler)
	r.GET("/teams", h.teamsHandler)
	r.GET("/venues", h.venuesHandler)
	r.GET("/rankings", h.rankingsHandler)
}

type httpHandler struct {
	HTTPOptions
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))
	return page, size
}

func (h *httpHandler) playersHandler(c *gin.Context) {
	page, size := pageParams(c)
	content, totalPages, err := h.Service.Players(c, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content, "totalPages": totalPages})
}

func (h *httpHandler) teamsHandler(c *gin.Context) {
	page, size := pageParams(c)
	content, totalPages, err := h.Service.Teams(c, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content, "totalPages": totalPages})
}

func (h *httpHandler) venuesHandler(c *gin.Context) {
	page, size := pageParams(c)
	content, totalPages, err := h.Service.Venues(c, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": content, "totalPages": totalPages})
}

func (h *httpHandler) rankingsHandler(c *gin.Context) {
	format := c.DefaultQuery("format", "t20")
	rankings, err := h.Service.Rankings(c, format)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"rankings": rankings})
}
