package ui

import (
	"encoding/json"
	"net/http"

	"careerpath/internal/pipeline"
	"careerpath/internal/questionnaire"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewAdminRouter serves health and pprof endpoints on the admin port
func NewAdminRouter(service *pipeline.Service, sessions *questionnaire.Manager) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		status := http.StatusOK
		body := map[string]interface{}{
			"ready":    service.Ready(),
			"sessions": sessions.Len(),
		}
		if a, err := service.Artifacts(); err == nil {
			body["model"] = a.Version.Short()
		} else {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	})
	r.Mount("/debug", middleware.Profiler())
	return r
}
