package routes

import (
	"net/http"

	"elecnet/internal/auth"
	"elecnet/internal/config"
	"elecnet/internal/handlers"
	"elecnet/internal/logger"
	mdlwr "elecnet/internal/middleware"
	"elecnet/internal/registry"
	"elecnet/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

func NewRouter(db *bun.DB, cfg *config.Config, logr *logger.Logger, reg *registry.Registry, metrics *mdlwr.Metrics) http.Handler {
	r := chi.NewRouter()

	// Basic middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Instrument)

	// CORS middleware with config
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// init JWT manager
	jwtMgr, err := auth.NewJWTManager(cfg.JWTPrivateKeyPath, cfg.JWTPublicKeyPath, cfg.AppName)
	if err != nil {
		logr.Fatal("failed to init jwt manager", zap.Error(err))
	}

	authSvc := services.NewAuthService(jwtMgr, cfg, logr)
	gridSvc := services.NewGridService(db)
	assetSvc := services.NewAssetService(db)

	authMW := mdlwr.NewAuthMiddleware(jwtMgr, logr.Logger)

	authHandler := handlers.NewAuthHandler(authSvc, logr.Logger)
	endpointHandler := handlers.NewEndpointHandler(reg, metrics, logr.Logger)
	gridHandler := handlers.NewGridHandler(gridSvc, logr.Logger)
	assetHandler := handlers.NewAssetHandler(assetSvc, logr.Logger)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`{"message":"` + cfg.AppName + ` is running","version":"` + cfg.AppVersion + `"}`))
		if err != nil {
			return
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("ok"))
		if err != nil {
			return
		}
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route(cfg.APIPrefix, func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)
		})

		// Dynamic query endpoints. Registration is admin-only since a
		// template runs as the service's database role; execution is
		// open like the rest of the read surface.
		r.Group(func(r chi.Router) {
			r.Use(authMW.JWTAuth)
			r.Post("/create-endpoint/", endpointHandler.CreateEndpoint)
			r.Get("/endpoints", endpointHandler.ListEndpoints)
		})
		r.Get("/custom/{name}", endpointHandler.RunEndpoint)

		r.Route("/substations", func(r chi.Router) {
			r.Post("/", gridHandler.CreateSubstation)
			r.Get("/", gridHandler.ListSubstations)
		})
		r.Route("/feeders", func(r chi.Router) {
			r.Post("/", gridHandler.CreateFeeder)
			r.Get("/", gridHandler.ListFeeders)
		})
		r.Route("/transformers", func(r chi.Router) {
			r.Post("/", gridHandler.CreateTransformer)
			r.Get("/", gridHandler.ListTransformers)
		})
		r.Route("/poles", func(r chi.Router) {
			r.Post("/", gridHandler.CreatePole)
			r.Get("/", gridHandler.ListPoles)
		})
		r.Route("/conductors", func(r chi.Router) {
			r.Post("/", gridHandler.CreateConductor)
			r.Get("/", gridHandler.ListConductors)
		})
		r.Route("/switches", func(r chi.Router) {
			r.Post("/", assetHandler.CreateSwitch)
			r.Get("/", assetHandler.ListSwitches)
		})
		r.Route("/fuses", func(r chi.Router) {
			r.Post("/", assetHandler.CreateFuse)
			r.Get("/", assetHandler.ListFuses)
		})
		r.Route("/meters", func(r chi.Router) {
			r.Post("/", assetHandler.CreateMeter)
			r.Get("/", assetHandler.ListMeters)
		})
		r.Route("/customers", func(r chi.Router) {
			r.Post("/", assetHandler.CreateCustomer)
			r.Get("/", assetHandler.ListCustomers)
		})
		r.Route("/service-points", func(r chi.Router) {
			r.Post("/", assetHandler.CreateServicePoint)
			r.Get("/", assetHandler.ListServicePoints)
		})
	})

	return r
}
