package auction

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crichub/portal-sync/pkg/auctioncsv"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Auctions is the interface for the auction data service.
type Auctions interface {
	Tournaments() []string
	Sold(tag string) ([]auctioncsv.SoldPlayer, SectionData, error)
	Unsold(tag string) ([]auctioncsv.UnsoldPlayer, SectionData, error)
	Budgets(tag string) ([]auctioncsv.TeamBudget, SectionData, error)
	Winners(tag string) ([]auctioncsv.SeasonWinner, SectionData, error)
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Auctions

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.GET("/tournaments", h.tournamentsHandler)
	r.GET("/:tournament/sold", h.soldHandler)
	r.GET("/:tournament/unsold", h.unsoldHandler)
	r.GET("/:tournament/budgets", h.budgetsHandler)
	r.GET("/:tournament/winners", h.winnersHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) tournamentsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tournaments": h.Service.Tournaments()})
}

// respond writes one section's records; sectionFound false tells the page
// the section header was never seen, as opposed to present but empty.
func respond(c *gin.Context, key string, records interface{}, section SectionData, err error) {
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no auction data for tournament"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{
		key:            records,
		"sectionFound": section.Found,
		"warnings":     len(section.Warnings),
	})
}

func (h *httpHandler) soldHandler(c *gin.Context) {
	records, section, err := h.Service.Sold(c.Param("tournament"))
	respond(c, "sold", records, section, err)
}

func (h *httpHandler) unsoldHandler(c *gin.Context) {
	records, section, err := h.Service.Unsold(c.Param("tournament"))
	respond(c, "unsold", records, section, err)
}

func (h *httpHandler) budgetsHandler(c *gin.Context) {
	records, section, err := h.Service.Budgets(c.Param("tournament"))
	respond(c, "budgets", records, section, err)
}

func (h *httpHandler) winnersHandler(c *gin.Context) {
	records, section, err := h.Service.Winners(c.Param("tournament"))
	respond(c, "winners", records, section, err)
}
