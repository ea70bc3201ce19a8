package handlers

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"nomad-visa-engine/internal/models"
)

// CountryLister exposes the loaded catalog.
type CountryLister interface {
	Countries() []*models.CountryPolicy
	Get(id string) (*models.CountryPolicy, error)
}

// CountriesHandler handles GET /api/countries.
type CountriesHandler struct {
	catalog CountryLister
}

// NewCountriesHandler creates a new countries handler.
func NewCountriesHandler(c CountryLister) *CountriesHandler {
	return &CountriesHandler{catalog: c}
}

// Handle lists the catalog, or returns one country when the id query
// parameter is set.
func (h *CountriesHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	headers := corsHeaders("GET,OPTIONS")

	switch request.HTTPMethod {
	case http.MethodOptions:
		return preflight(headers)
	case http.MethodGet, "":
	default:
		return errorResponse(headers, http.StatusMethodNotAllowed, "Method not allowed")
	}

	if id := request.QueryStringParameters["id"]; id != "" {
		c, err := h.catalog.Get(id)
		if err != nil {
			return errorResponse(headers, StatusFor(err), err.Error())
		}
		return successResponse(headers, c)
	}

	return successResponse(headers, h.catalog.Countries())
}
