package main

import (
	"log"
	"os"
	"time"

	"github.com/fitfuel/fitfuel-golang/internal/ai"
	"github.com/fitfuel/fitfuel-golang/internal/database"
	"github.com/fitfuel/fitfuel-golang/internal/handlers"
	"github.com/fitfuel/fitfuel-golang/internal/routes"
	"github.com/joho/godotenv"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Main Database Connection (Read/Write) ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to primary database: %v", err)
	}
	defer db.Close()

	// 2. --- AI Database Connection (Read-Only) ---
	// The assistant only ever sees this pool, so a leaked query cannot
	// write anything.
	var aiService *ai.AIService
	dbReadOnly := db
	if readOnlyDSN := os.Getenv("DB_DSN_READONLY"); readOnlyDSN != "" {
		dbReadOnly, err = database.OpenDBWithDSN(readOnlyDSN)
		if err != nil {
			log.Fatalf("Failed to connect to read-only database: %v", err)
		}
		defer dbReadOnly.Close()

		// 3. --- AI Service Initialization ---
		geminiKey := os.Getenv("GEMINI_API_KEY")
		if geminiKey == "" {
			log.Fatal("GEMINI_API_KEY must be set when DB_DSN_READONLY is configured.")
		}
		aiService, err = ai.NewAIService(geminiKey, dbReadOnly)
		if err != nil {
			log.Fatalf("Failed to initialize AI Service: %v", err)
		}
	} else {
		log.Println("WARNING: DB_DSN_READONLY not set. AI assistant disabled.")
	}

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:         db,
		DBReadOnly: dbReadOnly,
		AIService:  aiService,
	}

	// 4. --- Background Worker ---
	// Hourly pass over the delivery schedule: promote today's scheduled
	// deliveries and close out yesterday's.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background Worker Started: Monitoring the delivery schedule...")

		for range ticker.C {
			promoted, err := app.ProcessDueDeliveries()
			if err != nil {
				log.Printf("Delivery worker error: %v", err)
				continue
			}
			if promoted > 0 {
				log.Printf("Delivery worker: %d deliveries promoted to out_for_delivery", promoted)
			}
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	log.Println("Starting FitFuel API server on port 8080...")
	if err := router.Run(":8080"); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
