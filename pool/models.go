package pool

import "time"

// Pick is one row of the append-only pick log. ID is the insert order and
// breaks ties between picks with equal SubmittedAt (higher ID wins).
type Pick struct {
	ID          int       `json:"id"`
	Username    string    `json:"username"`
	Day         int       `json:"tournament_day"`
	TeamID      int       `json:"team_id"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// GameResult records one winning team on a tournament day. Days with several
// games have several rows.
type GameResult struct {
	Day           int `json:"tournament_day"`
	WinningTeamID int `json:"winning_team_id"`
}

// DayTeam identifies one schedule slot.
type DayTeam struct {
	Day    int
	TeamID int
}

// Snapshot is one immutable input set for an evaluation. Every call to
// Evaluate receives a fresh Snapshot; nothing in it is mutated.
type Snapshot struct {
	Picks    []Pick
	Results  []GameResult
	Schedule map[DayTeam]bool
	Lockouts map[int]time.Time
	// Roster extends the user universe beyond pick authors, so members who
	// never submitted anything still get judged after lock-out.
	Roster []string
}

// Status is the judgment for one user. The zero value means alive.
type Status struct {
	EliminatedOnDay int `json:"eliminatedOnDay,omitempty"`
}

func (s Status) Alive() bool {
	return s.EliminatedOnDay == 0
}

func eliminated(day int) Status {
	return Status{EliminatedOnDay: day}
}

// Outcome carries the per-user statuses plus any configuration gaps that
// were tolerated rather than failing the evaluation.
type Outcome struct {
	Statuses map[string]Status
	Warnings []error
}
