package main

import (
	"net/http"
	"time"

	"Reelpick/config"
	"Reelpick/database"
	"Reelpick/handlers"
	"Reelpick/logger"
	mw "Reelpick/middleware"
	"Reelpick/services"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.Environment, cfg.Debug)
	log := logger.Logger()

	services.InitSessionStore(cfg)

	if err := database.Connect(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer database.Close()

	if err := database.RunMigrations(); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Wire the pipeline: catalog client, oracle, enricher, store.
	catalog := services.NewTMDBClient(cfg)
	store := services.NewStore(database.DB)
	enricher := services.NewEnricher(catalog, store, cfg.WatchRegion)

	var oracle services.Oracle
	if cfg.RecommendStrategy == services.StrategyOracle {
		oracle = services.NewChatOracle(cfg)
	}
	recommender := services.NewRecommender(catalog, oracle, enricher, cfg.RecommendStrategy)

	recommendHandler := handlers.NewRecommendHandler(cfg, recommender, store)
	listsHandler := handlers.NewListsHandler(store)
	profileHandler := handlers.NewProfileHandler(store)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pong"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/api/register", handlers.Register)
	r.Post("/api/login", handlers.Login)
	r.Post("/api/logout", handlers.Logout)

	// The recommendation endpoint fans out to TMDB and the oracle, so cap
	// the inbound rate per client.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, time.Minute))
		r.Post("/api/recommendations", recommendHandler.Recommend)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Get("/api/preferences", profileHandler.GetPreference)
		r.Get("/api/movies", profileHandler.GetSavedMovies)
		r.Route("/api/lists", func(r chi.Router) {
			r.Post("/", listsHandler.CreateList)
			r.Get("/", listsHandler.GetLists)
			r.Route("/{listID}", func(r chi.Router) {
				r.Get("/", listsHandler.GetList)
				r.Patch("/", listsHandler.RenameList)
				r.Delete("/", listsHandler.DeleteList)
				r.Post("/movies", listsHandler.AddMovie)
				r.Delete("/movies/{movieID}", listsHandler.RemoveMovie)
			})
		})
	})

	addr := ":" + cfg.ServerPort
	log.Info().Str("addr", addr).Str("env", cfg.Environment).Str("strategy", cfg.RecommendStrategy).Msg("Reelpick starting")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server failed to start")
	}
}
