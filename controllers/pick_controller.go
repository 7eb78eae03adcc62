package controllers

import (
	"log"
	"os"
	"sort"
	"strconv"
	"time"

	"survivor-backend/database"
	"survivor-backend/models"
	"survivor-backend/pool"

	"github.com/gofiber/fiber/v2"
)

// PoolRepo is wired in main. Handlers that run the evaluator go through it;
// plain CRUD talks to database.DB directly.
var PoolRepo pool.Repository

func disallowRepeatTeams() bool {
	// On unless explicitly switched off.
	return os.Getenv("DISALLOW_REPEAT_TEAMS") != "false"
}

// GetTeamsForDay lists teams scheduled on the requested day that are still
// in the tournament.
func GetTeamsForDay(c *fiber.Ctx) error {
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil || day < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "day query param must be a positive integer"})
	}

	rows, err := database.DB.Query(`
		SELECT t.id, t.team_name, t.eliminated
		FROM teams t
		JOIN schedule s ON s.team_id = t.id
		WHERE s.tournament_day = $1 AND t.eliminated = false
		ORDER BY t.team_name
	`, day)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch teams"})
	}
	defer rows.Close()

	teams := make([]models.Team, 0)
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Eliminated); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to parse teams"})
		}
		teams = append(teams, t)
	}

	return c.JSON(teams)
}

// SubmitPick appends one row to the pick log. Overwriting an earlier pick
// for the same day is just a newer insert; the evaluator keeps the latest.
func SubmitPick(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(int)
	username := c.Locals("username").(string)

	var input models.PickInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input"})
	}
	if input.TournamentDay < 1 || input.TeamID < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tournamentDay and teamId are required"})
	}

	var locksAt time.Time
	err := database.DB.QueryRow(`
		SELECT locks_at FROM lockouts WHERE tournament_day = $1
	`, input.TournamentDay).Scan(&locksAt)
	if err == nil && !time.Now().Before(locksAt) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Picks are closed for this day"})
	}
	if err != nil {
		// Without a configured lock-out the day can't be closed; take the
		// pick and leave a trace for the pool admin.
		log.Printf("no lockout configured for day %d, accepting pick", input.TournamentDay)
	}

	var scheduled bool
	err = database.DB.QueryRow(`
		SELECT EXISTS (
			SELECT 1 FROM schedule WHERE tournament_day = $1 AND team_id = $2
		)
	`, input.TournamentDay, input.TeamID).Scan(&scheduled)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to validate pick"})
	}
	if !scheduled {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Team does not play on this day"})
	}

	if disallowRepeatTeams() {
		// Only a user's effective (latest) pick per prior day counts as used.
		var used bool
		err = database.DB.QueryRow(`
			SELECT EXISTS (
				SELECT 1 FROM (
					SELECT DISTINCT ON (tournament_day) team_id
					FROM picks
					WHERE username = $1 AND tournament_day <> $2
					ORDER BY tournament_day, submitted_at DESC, id DESC
				) effective
				WHERE effective.team_id = $3
			)
		`, username, input.TournamentDay, input.TeamID).Scan(&used)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to validate pick"})
		}
		if used {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "You already picked this team in a previous round"})
		}
	}

	var pick models.Pick
	err = database.DB.QueryRow(`
		INSERT INTO picks (user_id, username, tournament_day, team_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, submitted_at
	`, userID, username, input.TournamentDay, input.TeamID).Scan(&pick.ID, &pick.SubmittedAt)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to submit pick"})
	}

	pick.UserID = userID
	pick.Username = username
	pick.TournamentDay = input.TournamentDay
	pick.TeamID = input.TeamID

	return c.Status(fiber.StatusCreated).JSON(pick)
}

type BoardRow struct {
	Username        string         `json:"username"`
	Status          string         `json:"status"`
	EliminatedOnDay int            `json:"eliminatedOnDay,omitempty"`
	Cells           map[int]string `json:"cells"`
}

type Board struct {
	Days        []int      `json:"days"`
	Rows        []BoardRow `json:"rows"`
	StatusStale bool       `json:"statusStale"`
}

// GetBoard renders the submitted-picks table. Picks stay hidden as
// "submitted" until the day locks, except the caller sees their own. When
// the evaluator fails, the last persisted statuses are served instead of
// blanking the board.
func GetBoard(c *fiber.Ctx) error {
	viewer, _ := c.Locals("username").(string)
	now := time.Now()

	snap, err := PoolRepo.LoadSnapshot(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pool data"})
	}

	statuses := map[string]pool.Status{}
	stale := false
	out, err := pool.Evaluate(snap, now)
	if err != nil {
		log.Println("evaluation failed, serving last saved statuses:", err)
		stale = true
		statuses, err = PoolRepo.LastSavedStatuses(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pool statuses"})
		}
	} else {
		statuses = out.Statuses
		for _, w := range out.Warnings {
			log.Println("pool configuration warning:", w)
		}
	}

	teamNames, err := teamNamesByID()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load teams"})
	}

	board := buildBoard(snap, statuses, teamNames, viewer, now)
	board.StatusStale = stale

	return c.JSON(board)
}

// buildBoard is pure so it can be exercised without a database.
func buildBoard(snap pool.Snapshot, statuses map[string]pool.Status, teamNames map[int]string, viewer string, now time.Time) Board {
	daySet := make(map[int]bool)
	latest := make(map[string]map[int]pool.Pick)
	for _, p := range snap.Picks {
		daySet[p.Day] = true
		byDay, ok := latest[p.Username]
		if !ok {
			byDay = make(map[int]pool.Pick)
			latest[p.Username] = byDay
		}
		cur, exists := byDay[p.Day]
		if !exists || p.SubmittedAt.After(cur.SubmittedAt) ||
			(p.SubmittedAt.Equal(cur.SubmittedAt) && p.ID > cur.ID) {
			byDay[p.Day] = p
		}
	}

	days := make([]int, 0, len(daySet))
	for day := range daySet {
		days = append(days, day)
	}
	sort.Ints(days)

	users := make([]string, 0, len(statuses))
	for user := range statuses {
		users = append(users, user)
	}
	sort.Strings(users)

	rows := make([]BoardRow, 0, len(users))
	for _, user := range users {
		status := statuses[user]
		row := BoardRow{
			Username: user,
			Status:   "alive",
			Cells:    make(map[int]string),
		}
		if !status.Alive() {
			row.Status = "eliminated"
			row.EliminatedOnDay = status.EliminatedOnDay
		}

		for _, day := range days {
			if !status.Alive() && day >= status.EliminatedOnDay {
				row.Cells[day] = "eliminated"
				continue
			}

			pick, ok := latest[user][day]
			if !ok {
				continue
			}

			locksAt, configured := snap.Lockouts[day]
			revealed := (configured && !now.Before(locksAt)) || user == viewer
			if revealed {
				row.Cells[day] = teamNames[pick.TeamID]
			} else {
				row.Cells[day] = "submitted"
			}
		}

		rows = append(rows, row)
	}

	return Board{Days: days, Rows: rows}
}

// GetStandings runs a fresh evaluation, persists the derived statuses, and
// returns the raw per-user judgment.
func GetStandings(c *fiber.Ctx) error {
	snap, err := PoolRepo.LoadSnapshot(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load pool data"})
	}

	out, err := pool.Evaluate(snap, time.Now())
	if err != nil {
		log.Println("evaluation failed:", err)
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Pool data is inconsistent; status temporarily unknown"})
	}
	for _, w := range out.Warnings {
		log.Println("pool configuration warning:", w)
	}

	if err := PoolRepo.SaveStatuses(c.Context(), out.Statuses); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to persist statuses"})
	}

	standings := make(map[string]interface{}, len(out.Statuses))
	for user, status := range out.Statuses {
		if status.Alive() {
			standings[user] = "alive"
		} else {
			standings[user] = fiber.Map{"eliminatedOnDay": status.EliminatedOnDay}
		}
	}

	return c.JSON(standings)
}

func teamNamesByID() (map[int]string, error) {
	rows, err := database.DB.Query(`SELECT id, team_name FROM teams`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}

	return names, rows.Err()
}
