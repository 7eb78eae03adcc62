package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"survivor-backend/database"

	"github.com/PuerkitoBio/goquery"
	"github.com/joho/godotenv"
)

// lockoutFlags collects repeated --lockout day=RFC3339 values.
type lockoutFlags map[int]time.Time

func (l lockoutFlags) String() string {
	return fmt.Sprintf("%d lockouts", len(l))
}

func (l lockoutFlags) Set(value string) error {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) != 2 {
		return fmt.Errorf("expected day=RFC3339, got %q", value)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil || day < 1 {
		return fmt.Errorf("invalid day in %q", value)
	}
	at, err := time.Parse(time.RFC3339, parts[1])
	if err != nil {
		return fmt.Errorf("invalid timestamp in %q: %w", value, err)
	}
	l[day] = at
	return nil
}

func main() {
	if os.Getenv("RENDER") == "" {
		_ = godotenv.Load()
	}

	lockouts := lockoutFlags{}
	var (
		url      = flag.String("url", "", "Bracket or standings page to scrape team names from")
		selector = flag.String("selector", ".team-name", "CSS selector for team name nodes")
		day      = flag.Int("day", 0, "Tournament day to schedule the scraped teams on (0 = teams only)")
	)
	flag.Var(lockouts, "lockout", "Lock-out time as day=RFC3339; repeatable")
	flag.Parse()

	if strings.TrimSpace(*url) == "" && len(lockouts) == 0 {
		log.Fatal("--url or at least one --lockout is required")
	}

	database.ConnectDB()

	if strings.TrimSpace(*url) != "" {
		names, err := scrapeTeamNames(*url, *selector)
		if err != nil {
			log.Fatalf("scrape teams: %v", err)
		}
		if len(names) == 0 {
			log.Fatalf("selector %q matched nothing on %s", *selector, *url)
		}

		inserted, scheduled, err := seedTeams(names, *day)
		if err != nil {
			log.Fatalf("seed teams: %v", err)
		}
		fmt.Printf("Seeded %d teams, %d new schedule entries for day %d\n",
			inserted, scheduled, *day)
	}

	for d, at := range lockouts {
		_, err := database.DB.Exec(`
			INSERT INTO lockouts (tournament_day, locks_at)
			VALUES ($1, $2)
			ON CONFLICT (tournament_day)
			DO UPDATE SET locks_at = EXCLUDED.locks_at
		`, d, at)
		if err != nil {
			log.Fatalf("set lockout for day %d: %v", d, err)
		}
		fmt.Printf("Lock-out for day %d set to %s\n", d, at.Format(time.RFC3339))
	}
}

func scrapeTeamNames(url, selector string) ([]string, error) {
	client := &http.Client{Timeout: 30 * time.Second}
	request, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("User-Agent", "SurvivorPoolSeeder/1.0")

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch page: status %d", response.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(response.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	seen := make(map[string]bool)
	var names []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		name := strings.TrimSpace(s.Text())
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		names = append(names, name)
	})

	return names, nil
}

func seedTeams(names []string, day int) (inserted, scheduled int, err error) {
	tx, err := database.DB.Begin()
	if err != nil {
		return 0, 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, name := range names {
		var teamID int
		err := tx.QueryRow(`
			INSERT INTO teams (team_name)
			VALUES ($1)
			ON CONFLICT (team_name) DO UPDATE SET team_name = EXCLUDED.team_name
			RETURNING id
		`, name).Scan(&teamID)
		if err != nil {
			return 0, 0, fmt.Errorf("upsert team %q: %w", name, err)
		}
		inserted++

		if day < 1 {
			continue
		}
		result, err := tx.Exec(`
			INSERT INTO schedule (tournament_day, team_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, day, teamID)
		if err != nil {
			return 0, 0, fmt.Errorf("schedule team %q: %w", name, err)
		}
		if n, _ := result.RowsAffected(); n > 0 {
			scheduled++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}

	return inserted, scheduled, nil
}
