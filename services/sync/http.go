package sync

import (
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

// Sync is the interface for the sync service.
type Sync interface {
	SyncTournamentMatches(c *gin.Context, tag string, force bool) error
	UpdateCustomTournament(c *gin.Context, tag string, tournament cricket.CustomTournament) error
	CreateIfNoExisting(c *gin.Context, tag string) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Sync

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/tournament/:tag", h.syncTournamentMatchesHandler)
	r.POST("/custom/tournament/:tag", h.updateCustomTournamentHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) syncTournamentMatchesHandler(c *gin.Context) {
	tag := c.Param("tag")
	force := c.Query("force") == "true"

	err := h.Service.SyncTournamentMatches(c, tag, force)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag})
}

func (h *httpHandler) updateCustomTournamentHandler(c *gin.Context) {
	tag := c.Param("tag")

	if err := h.Service.CreateIfNoExisting(c, tag); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}

	var request cricket.CustomTournament
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	if err := h.Service.UpdateCustomTournament(c, tag, request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag})
}
