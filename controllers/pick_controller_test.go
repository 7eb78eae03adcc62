package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"survivor-backend/pool"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	snap  pool.Snapshot
	saved map[string]pool.Status
	last  map[string]pool.Status
}

func (f *fakeRepo) LoadSnapshot(ctx context.Context) (pool.Snapshot, error) {
	return f.snap, nil
}

func (f *fakeRepo) SaveStatuses(ctx context.Context, statuses map[string]pool.Status) error {
	f.saved = statuses
	return nil
}

func (f *fakeRepo) LastSavedStatuses(ctx context.Context) (map[string]pool.Status, error) {
	return f.last, nil
}

func boardFixture(now time.Time) (pool.Snapshot, map[string]pool.Status, map[int]string) {
	day1Lock := now.Add(-24 * time.Hour)
	day2Lock := now.Add(24 * time.Hour)

	snap := pool.Snapshot{
		Picks: []pool.Pick{
			{ID: 1, Username: "alice", Day: 1, TeamID: 1, SubmittedAt: day1Lock.Add(-time.Hour)},
			{ID: 2, Username: "bob", Day: 1, TeamID: 2, SubmittedAt: day1Lock.Add(-time.Hour)},
			{ID: 3, Username: "bob", Day: 2, TeamID: 3, SubmittedAt: now.Add(-time.Minute)},
		},
		Schedule: map[pool.DayTeam]bool{
			{Day: 1, TeamID: 1}: true,
			{Day: 1, TeamID: 2}: true,
			{Day: 2, TeamID: 3}: true,
		},
		Lockouts: map[int]time.Time{1: day1Lock, 2: day2Lock},
	}

	statuses := map[string]pool.Status{
		"alice": {EliminatedOnDay: 2},
		"bob":   {},
	}

	teamNames := map[int]string{1: "Duke", 2: "Houston", 3: "Auburn"}

	return snap, statuses, teamNames
}

func TestBuildBoardRevealsLockedDays(t *testing.T) {
	now := time.Now()
	snap, statuses, teamNames := boardFixture(now)

	board := buildBoard(snap, statuses, teamNames, "", now)

	require.Equal(t, []int{1, 2}, board.Days)
	require.Len(t, board.Rows, 2)

	bob := board.Rows[1]
	require.Equal(t, "bob", bob.Username)
	assert.Equal(t, "alive", bob.Status)
	assert.Equal(t, "Houston", bob.Cells[1], "locked day shows the team")
	assert.Equal(t, "submitted", bob.Cells[2], "open day stays hidden")
}

func TestBuildBoardShowsOwnOpenPick(t *testing.T) {
	now := time.Now()
	snap, statuses, teamNames := boardFixture(now)

	board := buildBoard(snap, statuses, teamNames, "bob", now)

	bob := board.Rows[1]
	assert.Equal(t, "Auburn", bob.Cells[2], "viewer sees their own open pick")
}

func TestBuildBoardMarksEliminatedCells(t *testing.T) {
	now := time.Now()
	snap, statuses, teamNames := boardFixture(now)

	board := buildBoard(snap, statuses, teamNames, "", now)

	alice := board.Rows[0]
	require.Equal(t, "alice", alice.Username)
	assert.Equal(t, "eliminated", alice.Status)
	assert.Equal(t, 2, alice.EliminatedOnDay)
	assert.Equal(t, "Duke", alice.Cells[1], "days before elimination still show the pick")
	assert.Equal(t, "eliminated", alice.Cells[2])
}

func TestGetStandingsEvaluatesAndPersists(t *testing.T) {
	now := time.Now()
	snap, _, _ := boardFixture(now)
	// TeamID 2 won day 1, so alice (team 1) is eliminated on day 2.
	snap.Results = []pool.GameResult{{Day: 1, WinningTeamID: 2}}

	repo := &fakeRepo{snap: snap}
	PoolRepo = repo

	app := fiber.New()
	app.Get("/api/standings", GetStandings)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/standings", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var standings map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &standings))

	assert.Equal(t, "alive", standings["bob"])
	assert.Equal(t, map[string]interface{}{"eliminatedOnDay": float64(2)}, standings["alice"])

	require.NotNil(t, repo.saved, "statuses must be persisted")
	assert.Equal(t, 2, repo.saved["alice"].EliminatedOnDay)
	assert.True(t, repo.saved["bob"].Alive())
}

func TestGetStandingsRefusesInconsistentData(t *testing.T) {
	now := time.Now()
	snap, _, _ := boardFixture(now)
	// A result for a team the schedule doesn't know about on that day.
	snap.Results = []pool.GameResult{{Day: 1, WinningTeamID: 3}}

	repo := &fakeRepo{snap: snap}
	PoolRepo = repo

	app := fiber.New()
	app.Get("/api/standings", GetStandings)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/standings", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Nil(t, repo.saved, "nothing may be persisted on a failed evaluation")
}
