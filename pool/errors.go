package pool

import "fmt"

// DataIntegrityError means a pick or result referenced a (day, team) pair
// the schedule does not know about. The evaluator never guesses around bad
// references; it fails the evaluation instead.
type DataIntegrityError struct {
	Username string // empty when the bad reference came from a result row
	Day      int
	TeamID   int
}

func (e *DataIntegrityError) Error() string {
	if e.Username != "" {
		return fmt.Sprintf("pick by %q references team %d which is not scheduled on day %d", e.Username, e.TeamID, e.Day)
	}
	return fmt.Sprintf("result references team %d which is not scheduled on day %d", e.TeamID, e.Day)
}

// ConfigurationError means a day that appears in picks or results has no
// lock-out entry. The day is excluded from forgot-to-pick enforcement but
// win/loss comparison still applies; the evaluation itself succeeds.
type ConfigurationError struct {
	Day int
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("no lock-out time configured for day %d", e.Day)
}
