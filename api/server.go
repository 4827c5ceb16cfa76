// Package api exposes the engine over HTTP. Each resource registers its own
// routes on a shared Gin engine; handlers translate between the wire types and
// the pipeline/profile/activity collaborators and hold no state of their own.
package api

import (
	"github.com/gin-gonic/gin"

	"github.com/iammanoj/interestlens/activity"
	"github.com/iammanoj/interestlens/authenticity"
	"github.com/iammanoj/interestlens/pipeline"
	"github.com/iammanoj/interestlens/profile"
)

// Deps carries the collaborators the handlers need. Tracker and Checker may
// be nil when their features are not configured; those routes then return 503.
type Deps struct {
	Analyzer *pipeline.Analyzer
	Profiles *profile.Store
	Tracker  *activity.Tracker
	Checker  *authenticity.Checker
}

// NewRouter constructs a Gin engine with all routes registered.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	// Minimal middleware: recovery; logger optional to reduce verbosity
	r.Use(gin.Recovery())

	RegisterAnalyzeRoutes(r, deps.Analyzer)
	RegisterEventRoutes(r, deps.Profiles)
	RegisterVoiceRoutes(r, deps.Profiles)
	RegisterProfileRoutes(r, deps.Profiles)
	RegisterActivityRoutes(r, deps.Tracker)
	RegisterAuthenticityRoutes(r, deps.Checker)
	RegisterHealthRoutes(r)
	return r
}
