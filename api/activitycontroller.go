package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/activity"
	"github.com/iammanoj/interestlens/types"
)

// RegisterActivityRoutes registers activity tracking endpoints. With a nil
// tracker the routes respond 503 so clients can tell the feature is off.
func RegisterActivityRoutes(r *gin.Engine, tracker *activity.Tracker) {
	g := r.Group("/activity")
	g.POST("/track", func(c *gin.Context) {
		handleTrackActivity(c, tracker)
	})
	g.GET("/history", func(c *gin.Context) {
		handleActivityHistory(c, tracker)
	})
}

// handleTrackActivity ingests a batch of browsing activities for one user.
func handleTrackActivity(c *gin.Context, tracker *activity.Tracker) {
	if tracker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "activity tracking is not configured"})
		return
	}

	var req types.TrackActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UserID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	resp, err := tracker.Track(c.Request.Context(), req.UserID, req.Activities)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to track activity: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleActivityHistory returns recent activities plus aggregates.
// GET /activity/history?user_id=...&limit=...
func handleActivityHistory(c *gin.Context, tracker *activity.Tracker) {
	if tracker == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "activity tracking is not configured"})
		return
	}

	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	resp, err := tracker.History(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
