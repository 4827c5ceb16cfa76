package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/authenticity"
	"github.com/iammanoj/interestlens/types"
)

// RegisterAuthenticityRoutes registers the news verification and URL preview
// endpoints. With a nil checker the routes respond 503.
func RegisterAuthenticityRoutes(r *gin.Engine, checker *authenticity.Checker) {
	r.POST("/check_authenticity", func(c *gin.Context) {
		handleCheckAuthenticity(c, checker)
	})
	r.POST("/check_authenticity/batch", func(c *gin.Context) {
		handleCheckAuthenticityBatch(c, checker)
	})
	r.POST("/preview_url", func(c *gin.Context) {
		handlePreviewURL(c, checker)
	})
}

// handleCheckAuthenticity verifies a single article.
func handleCheckAuthenticity(c *gin.Context, checker *authenticity.Checker) {
	if checker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authenticity checking is not configured"})
		return
	}

	var req types.CheckAuthenticityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.ItemID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
		return
	}
	if req.URL == "" && req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url or text is required"})
		return
	}

	c.JSON(http.StatusOK, checker.Check(c.Request.Context(), req))
}

// handleCheckAuthenticityBatch verifies several articles at once. Batch size
// is capped so one request cannot monopolize the analysts.
func handleCheckAuthenticityBatch(c *gin.Context, checker *authenticity.Checker) {
	if checker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "authenticity checking is not configured"})
		return
	}

	var req types.BatchAuthenticityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items are required"})
		return
	}
	if len(req.Items) > authenticity.MaxBatchItems {
		c.JSON(http.StatusBadRequest, gin.H{"error": "batch size cannot exceed 50 items"})
		return
	}

	c.JSON(http.StatusOK, checker.CheckBatch(c.Request.Context(), req))
}

// PreviewURLRequest asks for a rich preview of a link.
type PreviewURLRequest struct {
	URL string `json:"url" binding:"required"`
}

// handlePreviewURL builds a rich link preview.
func handlePreviewURL(c *gin.Context, checker *authenticity.Checker) {
	if checker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "url previews are not configured"})
		return
	}

	var req PreviewURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, checker.Preview(c.Request.Context(), req.URL))
}
