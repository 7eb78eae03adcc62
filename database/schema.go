package database

import "fmt"

// CreateSchema creates every table the app needs.
// Safe to call on every boot - uses IF NOT EXISTS.
func CreateSchema() error {
	_, err := DB.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Pool members
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL UNIQUE,
    venmo TEXT,
    password_hash TEXT,
    verified BOOLEAN NOT NULL DEFAULT FALSE,
    verification_token TEXT,
    is_admin BOOLEAN NOT NULL DEFAULT FALSE,
    status TEXT NOT NULL DEFAULT 'alive' CHECK (status IN ('alive', 'eliminated')),
    eliminated_on_day INT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Tournament teams
CREATE TABLE IF NOT EXISTS teams (
    id SERIAL PRIMARY KEY,
    team_name TEXT NOT NULL UNIQUE,
    eliminated BOOLEAN NOT NULL DEFAULT FALSE
);

-- Which teams play on which tournament day
CREATE TABLE IF NOT EXISTS schedule (
    tournament_day INT NOT NULL CHECK (tournament_day >= 1),
    team_id INT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
    PRIMARY KEY (tournament_day, team_id)
);

-- First tip-off per day; picks close at this instant
CREATE TABLE IF NOT EXISTS lockouts (
    tournament_day INT PRIMARY KEY CHECK (tournament_day >= 1),
    locks_at TIMESTAMPTZ NOT NULL
);

-- Append-only pick log; the newest row per (user, day) is the effective pick
CREATE TABLE IF NOT EXISTS picks (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    username TEXT NOT NULL,
    tournament_day INT NOT NULL CHECK (tournament_day >= 1),
    team_id INT NOT NULL REFERENCES teams(id),
    submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_picks_user_day ON picks(username, tournament_day);

-- Game results written by the ingester
CREATE TABLE IF NOT EXISTS games (
    game_id TEXT PRIMARY KEY,
    tournament_day INT NOT NULL CHECK (tournament_day >= 1),
    home_team TEXT NOT NULL,
    away_team TEXT NOT NULL,
    home_score TEXT,
    away_score TEXT,
    status TEXT NOT NULL,
    winning_team_id INT REFERENCES teams(id),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_games_day ON games(tournament_day);

-- Nested comment board
CREATE TABLE IF NOT EXISTS comments (
    id SERIAL PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    username TEXT NOT NULL,
    comment_text TEXT NOT NULL,
    parent_id INT REFERENCES comments(id) ON DELETE CASCADE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_comments_parent ON comments(parent_id);

-- Single-use magic-link login tokens
CREATE TABLE IF NOT EXISTS login_tokens (
    token TEXT PRIMARY KEY,
    user_id INT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    expires_at TIMESTAMPTZ NOT NULL,
    used_at TIMESTAMPTZ
);
`
