package admin

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	access "github.com/crichub/portal-sync/pkg/accesscode"
	cricket "github.com/crichub/portal-sync/repos/cricket"
	resend "github.com/crichub/portal-sync/repos/resend"
)

// Router is the interface for a router.
type Router interface {
	GET(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	POST(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	PUT(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	DELETE(relativePath string, handlers ...gin.HandlerFunc) gin.IRoutes
	Use(middleware ...gin.HandlerFunc) gin.IRoutes
	Group(relativePath string, handlers ...gin.HandlerFunc) *gin.RouterGroup
}

// Admin is the interface for the back-office service.
type Admin interface {
	CreateArticle(c *gin.Context, item cricket.NewsItem) (string, error)
	UpdateArticle(c *gin.Context, id string, item cricket.NewsItem) error
	DeleteArticle(c *gin.Context, id string) error
	ClaimAccess(c *gin.Context, request resend.AccessRequest) error
	AddDeskAccess(c *gin.Context, tag, secret string) error
}

// HTTPOptions contains all the options needed for the HTTP handler.
type HTTPOptions struct {

	// The service we provides the HTTP transport for.
	Service Admin

	// The router instance to configure the HTTP routes.
	Router Router
}

// NewHTTPHandler creates a new HTTP handler.
func NewHTTPHandler(opts HTTPOptions) {
	r := opts.Router
	h := &httpHandler{opts}
	r.POST("/articles", h.createArticleHandler)
	r.PUT("/articles/:article_id", h.updateArticleHandler)
	r.DELETE("/articles/:article_id", h.deleteArticleHandler)
	r.POST("/claim", h.claimHandler)
	r.GET("/access/:access_code", h.accessHandler)
}

type httpHandler struct {
	HTTPOptions
}

func (h *httpHandler) createArticleHandler(c *gin.Context) {
	var item cricket.NewsItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	id, err := h.Service.CreateArticle(c, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *httpHandler) updateArticleHandler(c *gin.Context) {
	var item cricket.NewsItem
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	if err := h.Service.UpdateArticle(c, c.Param("article_id"), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("article_id")})
}

func (h *httpHandler) deleteArticleHandler(c *gin.Context) {
	if err := h.Service.DeleteArticle(c, c.Param("article_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": c.Param("article_id")})
}

func (h *httpHandler) claimHandler(c *gin.Context) {
	var request resend.AccessRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		c.Abort()
		return
	}

	if err := h.Service.ClaimAccess(c, request); err != nil {
		if err == ErrInvalidTournamentID {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send mail request"})
		c.Abort()
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"result": "Access granted",
		"tag":    request.Tag,
		"email":  request.Email,
	})
}

func (h *httpHandler) accessHandler(c *gin.Context) {
	accessCode := c.Param("access_code")
	tag, secret, err := access.Decode(accessCode)
	if err != nil {
		log.Printf("Failed to decode access code: %v\n", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed access code"})
		c.Abort()
		return
	}

	if err := h.Service.AddDeskAccess(c, tag, secret); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "not valid access code"})
		c.Abort()
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag})
}
