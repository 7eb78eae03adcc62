package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"
)

// Summary reports what one ingest run did. Re-running a finished day changes
// nothing and produces the same counts.
type Summary struct {
	Date           string   `json:"date"`
	TournamentDay  int      `json:"tournamentDay"`
	GamesSeen      int      `json:"gamesSeen"`
	FinalsSeen     int      `json:"finalsSeen"`
	Upserted       int      `json:"upserted"`
	WinnersWritten int      `json:"winnersWritten"`
	Unmatched      []string `json:"unmatched,omitempty"`
}

// Updater polls the scores feed and writes results into the tables the
// elimination evaluator reads.
type Updater struct {
	db     *sql.DB
	client *ScoreboardClient
}

func NewUpdater(db *sql.DB, client *ScoreboardClient) *Updater {
	return &Updater{db: db, client: client}
}

// Run fetches one date's scoreboard and upserts every game onto the given
// tournament day. Team elimination flags follow final results; user
// elimination stays with the evaluator.
func (u *Updater) Run(ctx context.Context, date time.Time, day int) (*Summary, error) {
	sb, err := u.client.Fetch(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}

	resolver, err := u.loadResolver(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{
		Date:          date.Format("2006-01-02"),
		TournamentDay: day,
		GamesSeen:     len(sb.Games),
	}

	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin ingest transaction: %w", err)
	}
	defer tx.Rollback()

	for _, game := range sb.Games {
		if game.Final() {
			summary.FinalsSeen++
		}

		var winnerID sql.NullInt32
		winnerName := game.WinnerName()
		if game.Final() && winnerName != "" {
			id, ok := resolver.Resolve(winnerName)
			if !ok {
				summary.Unmatched = append(summary.Unmatched, winnerName)
				log.Printf("could not resolve winning team %q, skipping winner for game %s", winnerName, game.ID)
			} else {
				winnerID = sql.NullInt32{Int32: int32(id), Valid: true}
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO games (game_id, tournament_day, home_team, away_team, home_score, away_score, status, winning_team_id, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
			ON CONFLICT (game_id)
			DO UPDATE SET
				home_score = EXCLUDED.home_score,
				away_score = EXCLUDED.away_score,
				status = EXCLUDED.status,
				winning_team_id = EXCLUDED.winning_team_id,
				updated_at = NOW()
		`, game.ID, day, game.Home.Names.Short, game.Away.Names.Short,
			game.Home.Score, game.Away.Score, game.Status.Type.Name, winnerID)
		if err != nil {
			return nil, fmt.Errorf("upsert game %s: %w", game.ID, err)
		}
		summary.Upserted++

		// Keep the schedule in step with what actually got played, so the
		// evaluator doesn't reject results the feed vouches for.
		for _, name := range []string{game.Home.Names.Short, game.Away.Names.Short} {
			id, ok := resolver.Resolve(name)
			if !ok {
				summary.Unmatched = append(summary.Unmatched, name)
				continue
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO schedule (tournament_day, team_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, day, id); err != nil {
				return nil, fmt.Errorf("register schedule entry for %q: %w", name, err)
			}
		}

		if !game.Final() || !winnerID.Valid {
			continue
		}
		summary.WinnersWritten++

		loserName := game.LoserName()
		loserID, ok := resolver.Resolve(loserName)
		if !ok {
			summary.Unmatched = append(summary.Unmatched, loserName)
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE teams SET eliminated = true WHERE id = $1
		`, loserID); err != nil {
			return nil, fmt.Errorf("mark team %d eliminated: %w", loserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit ingest transaction: %w", err)
	}

	return summary, nil
}

func (u *Updater) loadResolver(ctx context.Context) (*TeamResolver, error) {
	rows, err := u.db.QueryContext(ctx, `SELECT id, team_name FROM teams`)
	if err != nil {
		return nil, fmt.Errorf("load teams: %w", err)
	}
	defer rows.Close()

	teams := make(map[int]string)
	for rows.Next() {
		var id int
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate teams: %w", err)
	}

	return NewTeamResolver(teams), nil
}
