package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "vecinosml-pc3/docs" // swagger docs

	"vecinosml-pc3/internal/cache"
	"vecinosml-pc3/internal/config"
	"vecinosml-pc3/internal/db"
	"vecinosml-pc3/internal/handler"
	"vecinosml-pc3/internal/repository"
	"vecinosml-pc3/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

// @title VecinosML Movie Recommender API
// @version 1.0
// @description API para PC3 (user-based por distancia euclidiana, Mongo, Redis)
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	// Mongo y Redis
	db.InitMongo(cfg)
	cache.InitRedis(cfg)

	// repos
	userRepo := repository.NewUserRepository()
	movieRepo := repository.NewMovieRepository()
	ratingRepo := repository.NewRatingRepository()
	distRepo := repository.NewDistanceRepository()
	recRepo := repository.NewRecommendationRepository()

	// ============================
	// Leer direcciones de nodos ML
	// ============================
	var mlNodes []string
	if env := os.Getenv("ML_NODE_ADDRS"); env != "" {
		for _, v := range strings.Split(env, ",") {
			v = strings.TrimSpace(v)
			if v != "" {
				mlNodes = append(mlNodes, v)
			}
		}
	}
	if len(mlNodes) == 0 {
		log.Println("[api] sin ML_NODE_ADDRS, los rebuilds se calculan localmente")
	}

	// services
	authSvc := service.NewAuthService(userRepo, cfg.JWTSecret)
	movieSvc := service.NewMovieService(movieRepo)
	ratingSvc := service.NewRatingService(ratingRepo, movieRepo)

	// dueño del snapshot (store + tabla de distancias + títulos)
	engSvc := service.NewEngineService(ratingRepo, movieRepo, distRepo)
	{
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := engSvc.LoadFromMongo(ctx); err != nil {
			log.Fatalf("[api] error cargando snapshot inicial: %v", err)
		}
		cancel()
	}

	recSvc := service.NewRecommendService(engSvc, recRepo, cfg.LikeThreshold)
	maintSvc := service.NewMaintenanceService(cfg, engSvc, ratingRepo, movieRepo, distRepo, mlNodes)

	// handlers
	authH := handler.NewAuthHandler(authSvc)
	movieH := handler.NewMovieHandler(movieSvc)
	ratingH := handler.NewRatingHandler(ratingSvc)
	recH := handler.NewRecommendHandler(recSvc)
	maintH := handler.NewMaintenanceHandler(maintSvc, recSvc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// =============
	// Rutas públicas
	// =============
	r.Get("/health", handler.Health)

	r.Post("/auth/register", authH.Register)
	r.Post("/auth/login", authH.Login)

	// Películas (públicas)
	r.Get("/movies/{id}", movieH.GetMovie)
	r.Get("/movies/search", movieH.Search)

	// ===========================
	// Rutas protegidas con JWT
	// ===========================
	authMw := handler.JWTAuth(cfg.JWTSecret)

	r.Group(func(r chi.Router) {
		r.Use(authMw)

		// ---- Endpoints /me (USER normal) ----
		r.Route("/me", func(r chi.Router) {
			r.Get("/ratings", ratingH.GetMyRatings)
			r.Post("/ratings", ratingH.PostMyRating)
			r.Get("/recommendations", recH.GetMyRecommendations)
		})

		// ---- Endpoints solo ADMIN ----
		r.Group(func(r chi.Router) {
			r.Use(handler.AdminOnly())

			// ratings y recomendaciones de cualquier usuario
			r.Route("/users/{id}", func(r chi.Router) {
				r.Get("/ratings", ratingH.GetRatings)
				r.Post("/ratings", ratingH.PostRating)

				// HTTP normal
				r.Get("/recommendations", recH.GetRecommendations)
				r.Get("/recommendations/history", recH.GetHistory)

				// WebSocket
				r.Get("/ws/recommendations", recH.GetRecommendationsWS)
			})

			// --- mantenimiento de la tabla de distancias ---
			handler.MountMaintenanceRoutes(r, maintH)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	log.Printf("HTTP escuchando en :%s", cfg.HTTPPort)
	log.Fatal(http.ListenAndServe(":"+cfg.HTTPPort, r))
}
