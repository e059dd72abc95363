package analytichttp

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers sales analytics endpoints onto the router. The CSV
// export is rate limited separately because it recomputes the full window
// on every call.
func (h *Handler) MountRoutes(r chi.Router) {
	if h == nil {
		return
	}
	limiter := httprate.Limit(10, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		}),
	)

	r.Get("/analytics/revenue", h.handleRevenue)
	r.Get("/analytics/price-recommendations", h.handleRecommendations)
	r.Group(func(gr chi.Router) {
		gr.Use(limiter)
		gr.Get("/analytics/revenue/export.csv", h.handleCSV)
		gr.Get("/analytics/price-recommendations/export.csv", h.handleRecommendationsCSV)
	})
}
