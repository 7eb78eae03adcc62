package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"survivor-backend/database"
	"survivor-backend/ingest"
	"survivor-backend/pool"

	"github.com/joho/godotenv"
)

func main() {
	if os.Getenv("RENDER") == "" {
		_ = godotenv.Load()
	}

	var (
		dateFlag = flag.String("date", "", "Scoreboard date in YYYY-MM-DD format (default: today UTC)")
		day      = flag.Int("day", 0, "Tournament day the games belong to")
	)
	flag.Parse()

	if *day < 1 {
		log.Fatal("--day must be greater than 0")
	}

	date := time.Now().UTC()
	if *dateFlag != "" {
		parsed, err := time.Parse("2006-01-02", *dateFlag)
		if err != nil {
			log.Fatalf("invalid --date value: %v", err)
		}
		date = parsed
	}

	database.ConnectDB()

	updater := ingest.NewUpdater(database.DB, ingest.NewScoreboardClient())
	summary, err := updater.Run(context.Background(), date, *day)
	if err != nil {
		log.Fatalf("update games: %v", err)
	}

	fmt.Printf("Updated %s (day %d): %d games seen, %d final, %d upserted, %d winners written\n",
		summary.Date, summary.TournamentDay, summary.GamesSeen, summary.FinalsSeen, summary.Upserted, summary.WinnersWritten)
	for _, name := range summary.Unmatched {
		fmt.Printf("  unmatched team name: %q\n", name)
	}

	// Re-judge the pool against the fresh results.
	repo := pool.NewPostgresRepository(database.DB)
	snap, err := repo.LoadSnapshot(context.Background())
	if err != nil {
		log.Fatalf("load snapshot: %v", err)
	}

	out, err := pool.Evaluate(snap, time.Now())
	if err != nil {
		log.Fatalf("evaluate pool: %v", err)
	}
	for _, w := range out.Warnings {
		log.Println("pool configuration warning:", w)
	}

	if err := repo.SaveStatuses(context.Background(), out.Statuses); err != nil {
		log.Fatalf("save statuses: %v", err)
	}

	alive := 0
	for _, status := range out.Statuses {
		if status.Alive() {
			alive++
		}
	}
	fmt.Printf("Pool re-evaluated: %d of %d users still alive\n", alive, len(out.Statuses))
}
