package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"manuscript-review-api/config"
	"manuscript-review-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitDB()

	var inputPath string
	flag.StringVar(&inputPath, "input", "", "path to a reviewer-finder JSON export")
	flag.Parse()

	if inputPath == "" {
		log.Fatal("usage: reviewer-ingest -input <file.json>")
	}

	raw, err := os.ReadFile(inputPath)
	if err != nil {
		log.Fatalf("failed to read %s: %v", inputPath, err)
	}

	var payload services.IngestionData
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Fatalf("failed to parse %s: %v", inputPath, err)
	}

	job := services.NewReviewerIngestService(nil)
	stats, err := job.Run(&payload)
	if err != nil {
		log.Fatalf("reviewer ingest failed: %v", err)
	}

	fmt.Printf("Manuscript: %s (created: %v)\n", stats.ManuscriptID, stats.ManuscriptCreated)
	fmt.Printf("Reviewers created: %d, updated: %d\n", stats.ReviewersCreated, stats.ReviewersUpdated)
	fmt.Printf("Publications inserted: %d\n", stats.PublicationsInserted)
	fmt.Printf("Matches recorded: %d\n", stats.MatchesCreated)

	if len(stats.Failures) > 0 {
		fmt.Printf("Failures: %d\n", len(stats.Failures))
		for _, f := range stats.Failures {
			fmt.Printf("  - %s\n", f)
		}
		os.Exit(2)
	}
}
