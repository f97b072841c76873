package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/govoyage/trip-sharing/internal/api/handlers"
	"github.com/govoyage/trip-sharing/internal/api/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, h *handlers.Handlers, nrApp *newrelic.Application) {
	// Add New Relic middleware if enabled
	if nrApp != nil {
		r.Use(nrgin.Middleware(nrApp))
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "healthy"})
	})

	// Realtime trip event feed
	v1 := r.Group("/v1")
	{
		v1.GET("/ws", h.HandleWebSocket)
	}

	authRequired := middleware.RequireAuth(h.Auth)

	// Account endpoints
	r.POST("/register/", h.Register)
	r.POST("/login/", h.Login)

	// Profile endpoints
	profile := r.Group("/user/profile", authRequired)
	{
		profile.GET("/", h.GetProfile)
		profile.POST("/", h.CreateProfile)
		profile.PUT("/", h.UpdateProfile)
	}

	// Trip catalogue
	r.GET("/trips/", h.ListTrips)
	r.POST("/trip/detail/", authRequired, h.CreateTrip)
	r.GET("/trip/detail/:id", h.GetTrip)
	r.PUT("/trip/detail/:id", authRequired, h.UpdateTrip)
	r.DELETE("/trip/detail/:id", authRequired, h.DeleteTrip)

	// Membership endpoints
	mytrip := r.Group("/trips/mytrip", authRequired)
	{
		mytrip.GET("/", h.ListMyTrips)
		mytrip.POST("/", h.JoinTrip)
		mytrip.DELETE("/", h.LeaveTrip)
	}

	// Review endpoints
	r.GET("/user/reviews/", h.ListReviews)
	r.POST("/user/reviews/", authRequired, h.CreateReview)
}
