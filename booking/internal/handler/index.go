package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const documentation = "GET / pour la documentation complète"

var availableRoutes = []string{
	"GET /",
	"GET /health",
	"GET /reservations",
	"POST /reservations",
	"GET /reservations/stats",
	"GET /reservations/code/:code",
	"GET /reservations/:id",
	"PATCH /reservations/:id",
	"DELETE /reservations/:id",
	"GET /api/reviews",
	"POST /api/reviews",
	"GET /api/reviews/:id",
	"PUT /api/reviews/:id",
	"DELETE /api/reviews/:id",
}

type indexResponse struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description"`
	Endpoints   map[string]string `json:"endpoints"`
	Examples    map[string]string `json:"examples"`
}

var index = indexResponse{
	Name:        ServiceName,
	Version:     Version,
	Description: "API de réservation et d'avis pour la location Rue Lucas",
	Endpoints: map[string]string{
		"GET /health":                  "État du service",
		"GET /reservations":            "Lister les réservations (q, status, startDateFrom, startDateTo, endDateFrom, endDateTo, sortBy, sortOrder, page, limit)",
		"POST /reservations":           "Créer une réservation",
		"GET /reservations/stats":      "Statistiques des réservations",
		"GET /reservations/code/:code": "Trouver une réservation par code",
		"GET /reservations/:id":        "Obtenir une réservation",
		"PATCH /reservations/:id":      "Modifier une réservation",
		"DELETE /reservations/:id":     "Supprimer une réservation",
		"GET /api/reviews":             "Lister les avis (q, status, rating, sortBy, sortOrder, page, limit)",
		"POST /api/reviews":            "Créer un avis",
		"GET /api/reviews/:id":         "Obtenir un avis",
		"PUT /api/reviews/:id":         "Remplacer un avis",
		"DELETE /api/reviews/:id":      "Supprimer un avis",
	},
	Examples: map[string]string{
		"search":     "/reservations?q=dupont&status=paid&page=1&limit=20",
		"dateRange":  "/reservations?startDateFrom=2026-07-01&startDateTo=2026-07-31&sortBy=startDate&sortOrder=asc",
		"byCode":     "/reservations/code/RL-ABC234",
		"topReviews": "/api/reviews?rating=5&sortBy=date",
	},
}

// Index describes the API.
func (h *Handler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, index)
}

type notFoundResponse struct {
	Error           string   `json:"error"`
	AvailableRoutes []string `json:"availableRoutes"`
	Documentation   string   `json:"documentation"`
}

func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, notFoundResponse{
		Error:           "Route non trouvée",
		AvailableRoutes: availableRoutes,
		Documentation:   documentation,
	})
}
