package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/config"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/database"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/services"
	"github.com/davidsonotienoomondi91-cloud/dual-power-women-hub-upgrade-sub000/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := zap.NewNop()

	// Open the local session database
	sessionDB, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to open session database: %v", err)
	}
	defer database.Close(sessionDB)

	client := store.NewRemoteClient(cfg, logger)

	// Perform health check
	result := services.HealthCheck(context.Background(), client, sessionDB, cfg.MediaUploadURL, logger)

	// Output result as JSON
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	// Exit with appropriate code
	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
