package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/types"
)

// RegisterVoiceRoutes registers the voice onboarding endpoint.
func RegisterVoiceRoutes(r *gin.Engine, profiles *profile.Store) {
	r.POST("/voice/preferences", func(c *gin.Context) {
		handleVoicePreferences(c, profiles)
	})
}

// VoicePreferencesRequest submits the structured result of a voice onboarding
// session for one user.
type VoicePreferencesRequest struct {
	UserID      string                  `json:"user_id" binding:"required"`
	Preferences *types.VoicePreferences `json:"preferences" binding:"required"`
}

// VoicePreferencesResponse acknowledges the merged preferences.
type VoicePreferencesResponse struct {
	Status        string `json:"status"`
	TopicsApplied int    `json:"topics_applied"`
}

// handleVoicePreferences merges voice-derived preferences into the profile.
// Repeated sessions compound; they do not reset prior preferences.
func handleVoicePreferences(c *gin.Context, profiles *profile.Store) {
	var req VoicePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event := types.Event{
		Type:  types.EventVoiceComplete,
		Voice: req.Preferences,
	}
	err := profiles.Update(c.Request.Context(), req.UserID, func(p *types.UserProfile) {
		// Type is known, so ApplyEvent cannot fail here
		_ = profile.ApplyEvent(p, event)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply preferences: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, VoicePreferencesResponse{
		Status:        "ok",
		TopicsApplied: len(req.Preferences.Topics),
	})
}
