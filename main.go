// Command bookshelf-go runs the bookshelf HTTP service: bearer-token
// authentication for a single configured user and CRUD with pagination over
// a books table.
//
// @title Bookshelf API
// @version 1.0
// @description Authenticated CRUD API for a collection of books.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/user/bookshelf-go/apperror"
	"github.com/user/bookshelf-go/auth"
	"github.com/user/bookshelf-go/books"
	"github.com/user/bookshelf-go/config"
	"github.com/user/bookshelf-go/db"
	_ "github.com/user/bookshelf-go/docs" // generated Swagger docs
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading it: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	database, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(cfg.Database); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	hasher := auth.NewPasswordHasher()
	store, err := buildCredentialStore(hasher, cfg.Auth)
	if err != nil {
		log.Fatalf("Failed to build credential store: %v", err)
	}
	issuer := auth.NewTokenIssuer(*cfg.Auth)
	authService := auth.NewService(store, hasher, issuer, *cfg.Auth)
	authHandlers := auth.NewHandlers(authService)

	bookService := books.NewService(database)
	bookHandlers := books.NewHandlers(bookService)

	r := chi.NewRouter()

	// Chi requires all middleware to be registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Post("/token", authHandlers.HandleToken())

	// Book routes require a valid bearer token.
	r.Group(func(r chi.Router) {
		r.Use(auth.BearerAuth(issuer, store))
		bookHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Block until SIGINT/SIGTERM, then drain in-flight requests.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

// buildCredentialStore resolves the configured user into a credential store,
// hashing the plaintext password at startup when no precomputed digest is
// provided.
func buildCredentialStore(hasher auth.PasswordHasher, cfg *config.AuthConfig) (*auth.CredentialStore, error) {
	digest := cfg.PasswordHash
	if digest == "" {
		hashed, err := hasher.Hash(cfg.Password)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash configured password", err)
		}
		digest = hashed
	}
	user := auth.User{
		Username:       cfg.Username,
		FullName:       cfg.FullName,
		Email:          cfg.Email,
		HashedPassword: digest,
	}
	return auth.NewCredentialStore(user), nil
}
