package api

import (
	"github.com/go-chi/chi/v5"
)

func setupPublicRoutes(r chi.Router, handlers *routeHandlers) {
	r.Get("/health", handlers.healthHandler.health())
}

// setupClosetRoutes sets up all routes that need an authenticated owner
func setupClosetRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, limiter *KeyedRateLimiter) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.authenticate)
		if limiter != nil {
			r.Use(rateLimitMiddleware(limiter))
		}

		r.Route("/items", func(r chi.Router) {
			r.Get("/", handlers.itemHandler.listItems())
			r.Post("/", handlers.itemHandler.createItem())
			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", handlers.itemHandler.getItem())
				r.Put("/", handlers.itemHandler.updateItem())
				r.Delete("/", handlers.itemHandler.deleteItem())
				r.Post("/favorite", handlers.itemHandler.setFavorite())
				r.Post("/worn", handlers.itemHandler.markWorn())
				r.Post("/tags/{tagID}", handlers.itemHandler.addTag())
				r.Delete("/tags/{tagID}", handlers.itemHandler.removeTag())
			})
		})

		r.Get("/tags", handlers.tagHandler.listTags())
		r.Post("/tags", handlers.tagHandler.createTag())
		r.Delete("/tags/{tagID}", handlers.tagHandler.deleteTag())

		r.Post("/uploads/images", handlers.uploadHandler.uploadImage())
		r.Delete("/uploads/images", handlers.uploadHandler.deleteImage())

		r.Get("/calendar", handlers.calendarHandler.getMonth())
		r.Get("/calendar/outfits", handlers.calendarHandler.listOutfits())
		r.Post("/calendar/outfits", handlers.calendarHandler.addOutfit())
		r.Delete("/calendar/outfits/{outfitID}", handlers.calendarHandler.removeOutfit())
		r.Put("/calendar/outfits/{outfitID}/date", handlers.calendarHandler.moveOutfit())
		r.Put("/calendar/outfits/{outfitID}/position", handlers.calendarHandler.reorderOutfit())

		r.Get("/insights", handlers.insightsHandler.getReport())

		r.Get("/preferences", handlers.preferencesHandler.getPreferences())
		r.Put("/preferences", handlers.preferencesHandler.updatePreferences())
	})
}
