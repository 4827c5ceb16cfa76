package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/pipeline"
	"github.com/iammanoj/interestlens/types"
)

// RegisterAnalyzeRoutes registers the page analysis endpoint.
func RegisterAnalyzeRoutes(r *gin.Engine, analyzer *pipeline.Analyzer) {
	r.POST("/analyze_page", func(c *gin.Context) {
		handleAnalyzePage(c, analyzer)
	})
}

// handleAnalyzePage ranks the submitted page items for the caller.
func handleAnalyzePage(c *gin.Context, analyzer *pipeline.Analyzer) {
	var req types.AnalyzePageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "items are required"})
		return
	}

	resp, err := analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
