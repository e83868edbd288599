package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/tim-martinez/node-form/internal/handler"
	mw "github.com/tim-martinez/node-form/internal/middleware"
)

func New(logger *zap.Logger, subH *handler.SubmissionHandler, formH *handler.FormHandler, statsH *handler.StatsHandler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Recovery(logger))
	r.Use(mw.Logger(logger))
	r.Use(mw.CORS)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", subH.Health)
		r.Get("/form", formH.Get)
		r.Post("/submit", subH.Submit)
		r.Get("/submissions", subH.List)
		r.Get("/stats", statsH.Stats)
	})

	return r
}
