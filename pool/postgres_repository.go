package pool

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	var snap Snapshot

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, username, tournament_day, team_id, submitted_at
		FROM picks
	`)
	if err != nil {
		return snap, fmt.Errorf("load picks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p Pick
		if err := rows.Scan(&p.ID, &p.Username, &p.Day, &p.TeamID, &p.SubmittedAt); err != nil {
			return snap, fmt.Errorf("scan pick: %w", err)
		}
		snap.Picks = append(snap.Picks, p)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("iterate picks: %w", err)
	}

	resultRows, err := r.db.QueryContext(ctx, `
		SELECT tournament_day, winning_team_id
		FROM games
		WHERE winning_team_id IS NOT NULL
	`)
	if err != nil {
		return snap, fmt.Errorf("load results: %w", err)
	}
	defer resultRows.Close()

	for resultRows.Next() {
		var res GameResult
		if err := resultRows.Scan(&res.Day, &res.WinningTeamID); err != nil {
			return snap, fmt.Errorf("scan result: %w", err)
		}
		snap.Results = append(snap.Results, res)
	}
	if err := resultRows.Err(); err != nil {
		return snap, fmt.Errorf("iterate results: %w", err)
	}

	scheduleRows, err := r.db.QueryContext(ctx, `
		SELECT tournament_day, team_id
		FROM schedule
	`)
	if err != nil {
		return snap, fmt.Errorf("load schedule: %w", err)
	}
	defer scheduleRows.Close()

	snap.Schedule = make(map[DayTeam]bool)
	for scheduleRows.Next() {
		var dt DayTeam
		if err := scheduleRows.Scan(&dt.Day, &dt.TeamID); err != nil {
			return snap, fmt.Errorf("scan schedule entry: %w", err)
		}
		snap.Schedule[dt] = true
	}
	if err := scheduleRows.Err(); err != nil {
		return snap, fmt.Errorf("iterate schedule: %w", err)
	}

	lockoutRows, err := r.db.QueryContext(ctx, `
		SELECT tournament_day, locks_at
		FROM lockouts
	`)
	if err != nil {
		return snap, fmt.Errorf("load lockouts: %w", err)
	}
	defer lockoutRows.Close()

	snap.Lockouts = make(map[int]time.Time)
	for lockoutRows.Next() {
		var day int
		var locksAt time.Time
		if err := lockoutRows.Scan(&day, &locksAt); err != nil {
			return snap, fmt.Errorf("scan lockout: %w", err)
		}
		snap.Lockouts[day] = locksAt
	}
	if err := lockoutRows.Err(); err != nil {
		return snap, fmt.Errorf("iterate lockouts: %w", err)
	}

	rosterRows, err := r.db.QueryContext(ctx, `SELECT username FROM users`)
	if err != nil {
		return snap, fmt.Errorf("load roster: %w", err)
	}
	defer rosterRows.Close()

	for rosterRows.Next() {
		var username string
		if err := rosterRows.Scan(&username); err != nil {
			return snap, fmt.Errorf("scan roster row: %w", err)
		}
		snap.Roster = append(snap.Roster, username)
	}
	if err := rosterRows.Err(); err != nil {
		return snap, fmt.Errorf("iterate roster: %w", err)
	}

	return snap, nil
}

func (r *PostgresRepository) SaveStatuses(ctx context.Context, statuses map[string]Status) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin status save: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE users
		SET status = $1, eliminated_on_day = $2
		WHERE username = $3
	`)
	if err != nil {
		return fmt.Errorf("prepare status update: %w", err)
	}
	defer stmt.Close()

	for username, status := range statuses {
		label := "alive"
		var day sql.NullInt32
		if !status.Alive() {
			label = "eliminated"
			day = sql.NullInt32{Int32: int32(status.EliminatedOnDay), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, label, day, username); err != nil {
			return fmt.Errorf("update status for %q: %w", username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit status save: %w", err)
	}

	return nil
}

func (r *PostgresRepository) LastSavedStatuses(ctx context.Context) (map[string]Status, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT username, status, eliminated_on_day
		FROM users
	`)
	if err != nil {
		return nil, fmt.Errorf("load saved statuses: %w", err)
	}
	defer rows.Close()

	out := make(map[string]Status)
	for rows.Next() {
		var username, label string
		var day sql.NullInt32
		if err := rows.Scan(&username, &label, &day); err != nil {
			return nil, fmt.Errorf("scan saved status: %w", err)
		}
		if label == "eliminated" && day.Valid {
			out[username] = Status{EliminatedOnDay: int(day.Int32)}
		} else {
			out[username] = Status{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate saved statuses: %w", err)
	}

	return out, nil
}

var _ Repository = (*PostgresRepository)(nil)
