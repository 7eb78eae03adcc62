package pool

import (
	"sort"
	"time"
)

// Evaluate walks the pick log and the recorded results and judges every user
// as alive or eliminated. The rules:
//
//   - The effective pick for a (user, day) is the latest submission; equal
//     timestamps are broken by row id, so last-submitted always wins.
//   - A day's winner set is the set of every recorded winning team for that
//     day. A day with no recorded result means "winners unknown", never
//     "everyone lost".
//   - A losing pick on day d eliminates the user on day d+1 (results are
//     announced the day after, per pool convention).
//   - A user with no pick for a day is eliminated on day d+1 once that day's
//     lock-out has passed. Days without a configured lock-out are exempt from
//     this rule and reported as warnings.
//
// Evaluate is pure: it never reads the clock or touches I/O, and calling it
// twice with the same inputs yields the same output.
func Evaluate(snap Snapshot, now time.Time) (*Outcome, error) {
	effective, err := effectivePicks(snap)
	if err != nil {
		return nil, err
	}

	winners, err := winnerSets(snap)
	if err != nil {
		return nil, err
	}

	days, warnings := daysInScope(snap, now)

	statuses := make(map[string]Status)
	for _, user := range userUniverse(snap) {
		statuses[user] = judge(user, effective[user], winners, snap.Lockouts, days, now)
	}

	return &Outcome{Statuses: statuses, Warnings: warnings}, nil
}

// judge walks the in-scope days ascending and stops at the first day that
// eliminates the user.
func judge(user string, picks map[int]Pick, winners map[int]map[int]bool, lockouts map[int]time.Time, days []int, now time.Time) Status {
	for _, day := range days {
		pick, hasPick := picks[day]

		if hasPick {
			if ws, known := winners[day]; known && !ws[pick.TeamID] {
				return eliminated(day + 1)
			}
			continue
		}

		locksAt, configured := lockouts[day]
		if configured && !now.Before(locksAt) {
			return eliminated(day + 1)
		}
	}

	return Status{}
}

// effectivePicks reduces the pick log to at most one pick per (user, day),
// validating each pick against the schedule as it goes.
func effectivePicks(snap Snapshot) (map[string]map[int]Pick, error) {
	out := make(map[string]map[int]Pick)

	for _, p := range snap.Picks {
		if !snap.Schedule[DayTeam{Day: p.Day, TeamID: p.TeamID}] {
			return nil, &DataIntegrityError{Username: p.Username, Day: p.Day, TeamID: p.TeamID}
		}

		byDay, ok := out[p.Username]
		if !ok {
			byDay = make(map[int]Pick)
			out[p.Username] = byDay
		}

		current, exists := byDay[p.Day]
		if !exists || p.SubmittedAt.After(current.SubmittedAt) ||
			(p.SubmittedAt.Equal(current.SubmittedAt) && p.ID > current.ID) {
			byDay[p.Day] = p
		}
	}

	return out, nil
}

// winnerSets groups results into a per-day set of winning team ids. Only
// days with at least one recorded result appear in the map.
func winnerSets(snap Snapshot) (map[int]map[int]bool, error) {
	out := make(map[int]map[int]bool)

	for _, r := range snap.Results {
		if !snap.Schedule[DayTeam{Day: r.Day, TeamID: r.WinningTeamID}] {
			return nil, &DataIntegrityError{Day: r.Day, TeamID: r.WinningTeamID}
		}

		ws, ok := out[r.Day]
		if !ok {
			ws = make(map[int]bool)
			out[r.Day] = ws
		}
		ws[r.WinningTeamID] = true
	}

	return out, nil
}

// daysInScope returns, ascending, every day that has recorded results or a
// lock-out that has already passed. Days seen in picks or results without
// any lock-out entry produce a ConfigurationError warning.
func daysInScope(snap Snapshot, now time.Time) ([]int, []error) {
	inScope := make(map[int]bool)
	seen := make(map[int]bool)

	for _, r := range snap.Results {
		inScope[r.Day] = true
		seen[r.Day] = true
	}
	for _, p := range snap.Picks {
		seen[p.Day] = true
	}
	for day, locksAt := range snap.Lockouts {
		if !now.Before(locksAt) {
			inScope[day] = true
		}
	}

	var warnings []error
	for day := range seen {
		if _, ok := snap.Lockouts[day]; !ok {
			warnings = append(warnings, &ConfigurationError{Day: day})
		}
	}
	sort.Slice(warnings, func(i, j int) bool {
		return warnings[i].(*ConfigurationError).Day < warnings[j].(*ConfigurationError).Day
	})

	days := make([]int, 0, len(inScope))
	for day := range inScope {
		days = append(days, day)
	}
	sort.Ints(days)

	return days, warnings
}

// userUniverse is every distinct pick author plus the provided roster,
// sorted for deterministic iteration.
func userUniverse(snap Snapshot) []string {
	set := make(map[string]bool)
	for _, p := range snap.Picks {
		set[p.Username] = true
	}
	for _, u := range snap.Roster {
		set[u] = true
	}

	users := make([]string, 0, len(set))
	for u := range set {
		users = append(users, u)
	}
	sort.Strings(users)

	return users
}
