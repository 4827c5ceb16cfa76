package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/profile"
	"github.com/iammanoj/interestlens/types"
)

// RegisterEventRoutes registers the interaction event endpoint.
func RegisterEventRoutes(r *gin.Engine, profiles *profile.Store) {
	r.POST("/event", func(c *gin.Context) {
		handlePostEvent(c, profiles)
	})
}

// handlePostEvent applies one interaction event to the caller's profile.
// Anonymous events are acknowledged but never update anything.
func handlePostEvent(c *gin.Context, profiles *profile.Store) {
	var req types.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !types.KnownEventType(req.Event) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown event type: " + string(req.Event)})
		return
	}

	if req.UserID == "" {
		c.JSON(http.StatusOK, types.EventResponse{Status: "ignored", ProfileUpdated: false})
		return
	}

	event := types.Event{
		Type:      req.Event,
		ItemID:    req.ItemID,
		Topics:    req.ItemTopics,
		Embedding: req.Embedding,
		Voice:     req.Voice,
	}

	// Event type was validated above, so ApplyEvent itself cannot fail
	var applyErr error
	err := profiles.Update(c.Request.Context(), req.UserID, func(p *types.UserProfile) {
		applyErr = profile.ApplyEvent(p, event)
	})
	if err == nil {
		err = applyErr
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply event: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, types.EventResponse{Status: "ok", ProfileUpdated: true})
}
