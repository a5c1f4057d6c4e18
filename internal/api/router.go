package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"hostel-allotment-backend/config"
	"hostel-allotment-backend/internal/auth"
	"hostel-allotment-backend/internal/mw"
	"hostel-allotment-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, s store.Store, verifier *auth.Verifier, gateway *Gateway) *gin.Engine {
	r := gin.Default()

	db := s.DB()
	handler := NewHandler(s)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), 5)

	cacheTTL := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	authed := mw.Auth(verifier)

	// Real-time allocation gateway; the token is verified inside the
	// handler so a failure can close the socket with a policy code.
	r.GET("/ws", gateway.Handle)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.PUT("/subscriptions", authed, handler.PutSubscription)
		api.GET("/subscriptions", authed, handler.GetSubscription)
		api.DELETE("/subscriptions", authed, handler.DeleteSubscription)

		admin := api.Group("/admin")
		admin.Use(authed, mw.AdminOnly(s))
		{
			admin.POST("/hostels", CreateHostel(db))
			admin.GET("/hostels", caching, ListHostels(db))
			admin.DELETE("/hostels/:hostel_id", DeleteHostel(db))

			admin.POST("/hostels/:hostel_id/rooms", AddRooms(db))
			admin.DELETE("/hostels/:hostel_id/rooms", DeleteHostelRooms(db))
			admin.PUT("/rooms/:room_id", UpdateRoom(db))
			admin.DELETE("/rooms/:room_id", DeleteRoom(db))

			admin.GET("/groups", ListGroups(db))

			admin.POST("/rooms/auto-fill", handler.AutoFill)
		}
	}

	return r
}
