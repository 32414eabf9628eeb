package main

import (
	"context"
	"log"
	"net/http"
	"os"

	webAdapter "vendtrack/internal/adapters/web"
	"vendtrack/internal/app"
	"vendtrack/internal/core"
	"vendtrack/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer pool.Close()

	userService := core.NewUserService(pool)
	referenceService := core.NewReferenceService(pool)
	inventoryService := core.NewInventoryService(pool)
	uploadService := core.NewUploadService(pool, referenceService, inventoryService)
	reportingService := core.NewReportingService(pool)

	svc := app.NewAppService(pool, userService, uploadService, inventoryService, reportingService)

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable not set")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	handler := webAdapter.NewHandler(svc, allowedOrigins, jwtSecret)

	log.Printf("server starting on :%s", port)
	if err := http.ListenAndServe(":"+port, handler); err != nil {
		log.Fatalf("server: %v", err)
	}
}
