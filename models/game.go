package models

type Game struct {
	GameID        string `json:"game_id"`
	TournamentDay int    `json:"tournament_day"`
	HomeTeam      string `json:"home_team"`
	AwayTeam      string `json:"away_team"`
	HomeScore     string `json:"home_score"`
	AwayScore     string `json:"away_score"`
	Status        string `json:"status"`
	WinningTeamID *int   `json:"winning_team_id,omitempty"`
}
