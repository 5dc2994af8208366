package api

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler      healthHandler
	itemHandler        itemHandler
	tagHandler         tagHandler
	uploadHandler      uploadHandler
	calendarHandler    calendarHandler
	insightsHandler    insightsHandler
	preferencesHandler preferencesHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"name"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ActionResult is the outcome of a calendar mutation.
// @Description Either success with optional data, or a user-facing error message
type ActionResult struct {
	Success bool    `json:"success"`
	Error   *string `json:"error"`
	Data    any     `json:"data,omitempty"`
}

// ItemCollection is the closet listing payload.
type ItemCollection struct {
	Items any `json:"items"`
	Total int `json:"total"`
}
