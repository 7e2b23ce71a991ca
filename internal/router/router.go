package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/sttmarket/backend/api/handler"
)

type Handlers struct {
	Auth     *apiHandler.AuthHandler
	Merchant *apiHandler.MerchantHandler
	Venue    *apiHandler.VenueHandler
	Event    *apiHandler.EventHandler
	Catalog  *apiHandler.CatalogHandler
	Admin    *apiHandler.AdminHandler
	Health   *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

func New(handlers Handlers, auth Middleware, superAdmin Middleware) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Public browse surface
	r.GET("/api/v1/catalog/venues", handlers.Catalog.BrowseVenues)
	r.GET("/api/v1/catalog/events", handlers.Catalog.BrowseEvents)

	// Merchant onboarding
	r.POST("/api/v1/merchant/register", handlers.Auth.Register)
	r.POST("/api/v1/merchant/login", handlers.Auth.Login)

	// Merchant self-service (protected)
	r.POST("/api/v1/merchant/logout", auth(handlers.Auth.Logout))
	r.GET("/api/v1/merchant/profile", auth(handlers.Merchant.GetProfile))
	r.PUT("/api/v1/merchant/profile", auth(handlers.Merchant.UpdateProfile))
	r.GET("/api/v1/merchant/bookings", auth(handlers.Merchant.ListBookings))

	r.GET("/api/v1/merchant/venues", auth(handlers.Venue.ListVenues))
	r.POST("/api/v1/merchant/venues", auth(handlers.Venue.CreateVenue))

	r.GET("/api/v1/merchant/events", auth(handlers.Event.ListEvents))
	r.POST("/api/v1/merchant/events", auth(handlers.Event.CreateEvent))
	r.PUT("/api/v1/merchant/events/{id}", auth(handlers.Event.UpdateEvent))
	r.DELETE("/api/v1/merchant/events/{id}", auth(handlers.Event.DeleteEvent))
	r.POST("/api/v1/merchant/events/{id}/clone", auth(handlers.Event.CloneEvent))

	// Platform back-office (protected, super_admin only)
	r.GET("/api/v1/admin/venues/pending", auth(superAdmin(handlers.Admin.PendingVenues)))
	r.PUT("/api/v1/admin/venues/{id}/status", auth(superAdmin(handlers.Admin.SetVenueStatus)))

	return r
}
