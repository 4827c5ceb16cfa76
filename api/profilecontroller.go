package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/profile"
)

// RegisterProfileRoutes registers profile inspection and reset endpoints.
func RegisterProfileRoutes(r *gin.Engine, profiles *profile.Store) {
	g := r.Group("/profile")
	g.GET("/:id", func(c *gin.Context) {
		handleGetProfile(c, profiles)
	})
	g.DELETE("/:id", func(c *gin.Context) {
		handleDeleteProfile(c, profiles)
	})
}

// handleGetProfile returns the current profile snapshot. Unknown users get a
// cold profile rather than a 404; profiles are created lazily.
func handleGetProfile(c *gin.Context, profiles *profile.Store) {
	userID := c.Param("id")
	p, err := profiles.Get(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, p)
}

// handleDeleteProfile clears the user's profile from memory and the backend.
func handleDeleteProfile(c *gin.Context, profiles *profile.Store) {
	userID := c.Param("id")
	if err := profiles.Clear(c.Request.Context(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear profile: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared", "user_id": userID})
}
