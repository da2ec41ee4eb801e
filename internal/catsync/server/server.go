// Package server assembles the HTTP surface: routing, middleware, health and
// metrics endpoints.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/apis"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/config"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/observability"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/orchestrator"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/server/middleware"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/httpx"
	commonmiddleware "github.com/MajorCrixus/AetherLink-sub001/internal/common/middleware"
)

type CatalogServer struct {
	Router *chi.Mux

	orc     *orchestrator.Orchestrator
	metrics *observability.SyncCollector
}

func CreateNewServer(orc *orchestrator.Orchestrator, metrics *observability.SyncCollector) (*CatalogServer, error) {
	s := &CatalogServer{
		Router:  chi.NewRouter(),
		orc:     orc,
		metrics: metrics,
	}
	return s, nil
}

func (s *CatalogServer) MountHandlers() {
	s.Router.Use(commonmiddleware.RequestLogger)
	s.Router.Use(commonmiddleware.PanicHandler)
	if config.Config().HandleCORS {
		s.Router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length"},
		}))
	}

	s.Router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.getHealth)
		apis.SyncRouter(r, s.orc)
		r.Group(func(cr chi.Router) {
			cr.Use(middleware.LoadDB)
			apis.CatalogRouter(cr)
		})
	})
	if s.metrics != nil {
		s.Router.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
}

type getHealthRsp struct {
	Status string `json:"status"`
}

func (s *CatalogServer) getHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := db.Ping(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("health check failed")
		httpx.SendJsonRsp(ctx, w, http.StatusServiceUnavailable, &getHealthRsp{Status: "unavailable"})
		return
	}
	httpx.SendJsonRsp(ctx, w, http.StatusOK, &getHealthRsp{Status: "ok"})
}
