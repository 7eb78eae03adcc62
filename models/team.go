package models

type Team struct {
	ID         int    `json:"id"`
	Name       string `json:"team_name"`
	Eliminated bool   `json:"eliminated"`
}
