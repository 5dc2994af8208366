package api

import (
	"time"

	"github.com/rpupo63/virtual-closet-backend/services"
)

// Services are the application services the HTTP layer calls into.
type Services struct {
	Wardrobe    *services.Wardrobe
	Scheduler   *services.Scheduler
	Insights    *services.InsightsLoader
	Preferences *services.Preferences
	Uploader    *services.ImageUploader
}

// NewServices wires every service over one set of repositories and one view cache.
func NewServices(repos services.Repositories, images services.ImageStore, cache services.ViewCache, maxUploadBytes int64) Services {
	return Services{
		Wardrobe:    services.NewWardrobe(repos.Items, repos.Tags, images, cache),
		Scheduler:   services.NewScheduler(repos.Outfits, repos.Items, cache),
		Insights:    services.NewInsightsLoader(repos.Items, repos.Tags, repos.Outfits, cache),
		Preferences: services.NewPreferences(repos.Preferences),
		Uploader:    services.NewImageUploader(images, maxUploadBytes),
	}
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(svc Services, startupTime time.Time) *routeHandlers {
	return &routeHandlers{
		healthHandler:      newHealthHandler(startupTime),
		itemHandler:        newItemHandler(svc.Wardrobe),
		tagHandler:         newTagHandler(svc.Wardrobe),
		uploadHandler:      newUploadHandler(svc.Uploader),
		calendarHandler:    newCalendarHandler(svc.Scheduler),
		insightsHandler:    newInsightsHandler(svc.Insights),
		preferencesHandler: newPreferencesHandler(svc.Preferences),
	}
}
