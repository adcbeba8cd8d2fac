package main

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"petex-service/internal/adapters/auth"
	"petex-service/internal/adapters/cache"
	"petex-service/internal/adapters/repositories"
	"petex-service/internal/api"
	"petex-service/internal/config"
	"petex-service/internal/platform/db"
	"petex-service/internal/ports"
)

// main is the application composition root.
// It wires concrete adapters (Postgres, Redis, JWT) behind ports and starts
// the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	authSecret := os.Getenv("AUTH_SECRET")
	if strings.TrimSpace(authSecret) == "" {
		log.Fatal("AUTH_SECRET is required")
	}

	port := config.Get("PORT", "8080")
	redisAddr := os.Getenv("REDIS_ADDR")

	store, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	importStore := repositories.NewPostgresImportStore(store)
	routeReader := repositories.NewPostgresRouteReader(store)

	// Zones are read on every import and dashboard load; a Redis cache in
	// front of the store is optional and enabled by REDIS_ADDR.
	var zones ports.ZoneSource = repositories.NewPostgresZoneSource(store)
	if strings.TrimSpace(redisAddr) != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		zones = cache.NewRedisZoneCache(client, zones, 5*time.Minute)
		log.Printf("zone cache enabled addr=%s", redisAddr)
	}

	verifier := auth.NewJWTVerifier(authSecret)
	router := api.NewRouter(importStore, routeReader, zones, verifier)

	// WriteTimeout bounds a full bulk import (many sequential store writes).
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}
