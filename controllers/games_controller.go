package controllers

import (
	"database/sql"
	"log"
	"strconv"
	"time"

	"survivor-backend/database"
	"survivor-backend/ingest"
	"survivor-backend/models"
	"survivor-backend/pool"

	"github.com/gofiber/fiber/v2"
)

func requireAdmin(c *fiber.Ctx) (int, bool) {
	userID := c.Locals("user_id").(int)

	var isAdmin bool
	if err := database.DB.QueryRow(`SELECT is_admin FROM users WHERE id = $1`, userID).Scan(&isAdmin); err != nil {
		return userID, false
	}
	return userID, isAdmin
}

// TriggerGameUpdate runs one synchronous ingest pass for today's scoreboard
// (or an explicit date) and re-evaluates the pool.
func TriggerGameUpdate(c *fiber.Ctx) error {
	_, isAdmin := requireAdmin(c)
	if !isAdmin {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Admin only"})
	}

	date := time.Now().UTC()
	if q := c.Query("date"); q != "" {
		parsed, err := time.Parse("2006-01-02", q)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		date = parsed
	}

	day, err := strconv.Atoi(c.Query("day"))
	if err != nil || day < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "day query param must be a positive integer"})
	}

	updater := ingest.NewUpdater(database.DB, ingest.NewScoreboardClient())
	summary, err := updater.Run(c.Context(), date, day)
	if err != nil {
		log.Println("game update failed:", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to update games"})
	}

	// Fold the fresh results into the persisted statuses right away.
	if snap, err := PoolRepo.LoadSnapshot(c.Context()); err == nil {
		if out, err := pool.Evaluate(snap, time.Now()); err == nil {
			if err := PoolRepo.SaveStatuses(c.Context(), out.Statuses); err != nil {
				log.Println("failed to persist statuses after update:", err)
			}
		} else {
			log.Println("evaluation after update failed:", err)
		}
	} else {
		log.Println("snapshot reload after update failed:", err)
	}

	return c.JSON(fiber.Map{"message": "Update successful", "summary": summary})
}

// ListGames returns every recorded game, optionally filtered by day.
func ListGames(c *fiber.Ctx) error {
	query := `
		SELECT game_id, tournament_day, home_team, away_team, home_score, away_score, status, winning_team_id
		FROM games
		ORDER BY tournament_day, game_id
	`
	args := []interface{}{}
	if q := c.Query("day"); q != "" {
		day, err := strconv.Atoi(q)
		if err != nil || day < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "day query param must be a positive integer"})
		}
		query = `
			SELECT game_id, tournament_day, home_team, away_team, home_score, away_score, status, winning_team_id
			FROM games
			WHERE tournament_day = $1
			ORDER BY game_id
		`
		args = append(args, day)
	}

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch games"})
	}
	defer rows.Close()

	games := make([]models.Game, 0)
	for rows.Next() {
		var g models.Game
		var homeScore, awayScore sql.NullString
		var winner sql.NullInt32
		if err := rows.Scan(&g.GameID, &g.TournamentDay, &g.HomeTeam, &g.AwayTeam, &homeScore, &awayScore, &g.Status, &winner); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse games"})
		}
		g.HomeScore = homeScore.String
		g.AwayScore = awayScore.String
		if winner.Valid {
			v := int(winner.Int32)
			g.WinningTeamID = &v
		}
		games = append(games, g)
	}

	return c.JSON(games)
}
