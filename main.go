package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fenrir-gym/fenrir-backend/internal/auth"
	"github.com/fenrir-gym/fenrir-backend/internal/config"
	"github.com/fenrir-gym/fenrir-backend/internal/db"
	"github.com/fenrir-gym/fenrir-backend/internal/middleware"
	"github.com/fenrir-gym/fenrir-backend/internal/users"
	"github.com/fenrir-gym/fenrir-backend/internal/workouts"
)

func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}

func main() {
	cfg, err := config.Load("config.yml")
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is empty")
	}

	conn, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	users.Init(conn)
	workouts.Init(conn)

	userStore := users.NewGormStore(conn)
	workoutStore := workouts.NewGormStore(conn)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	resolver := auth.NewResolver(tokens, userStore)
	engine := workouts.NewEngine(workoutStore, userStore, cfg.WorkoutCapacity)

	authn := middleware.Authenticator(resolver)
	adminOnly := middleware.RequireRoles(string(users.RoleAdmin))
	lister := middleware.RequireRoles(string(users.RoleAdmin), string(users.RoleCoach))

	userHandler := users.NewHandler(userStore)
	workoutHandler := workouts.NewHandler(engine)
	authHandler := auth.NewHandler(tokens, userStore)

	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))
	r.Use(middleware.RateLimitMiddleware(cfg.RateLimitPerMin))

	r.Get("/", RootHandler)
	r.Mount("/auth", auth.SetupRoutes(authHandler, authn))
	r.Mount("/user", users.SetupRoutes(userHandler, authn, lister))
	r.Mount("/workout", workouts.SetupRoutes(workoutHandler, authn))
	r.Mount("/admin/user", users.SetupAdminRoutes(userHandler, authn, adminOnly))
	r.Mount("/admin/workout", workouts.SetupAdminRoutes(workoutHandler, authn, adminOnly))

	log.Printf("Server listening on port :%s...", cfg.Port)

	if err := http.ListenAndServe("0.0.0.0:"+cfg.Port, r); err != nil {
		log.Fatal(err)
	}
}
