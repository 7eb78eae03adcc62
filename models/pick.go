package models

import "time"

type PickInput struct {
	TournamentDay int `json:"tournamentDay"`
	TeamID        int `json:"teamId"`
}

type Pick struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	Username      string    `json:"username"`
	TournamentDay int       `json:"tournament_day"`
	TeamID        int       `json:"team_id"`
	TeamName      string    `json:"team_name,omitempty"`
	SubmittedAt   time.Time `json:"submitted_at"`
}
