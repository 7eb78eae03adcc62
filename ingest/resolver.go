package ingest

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// TeamResolver maps feed team names onto teams table ids. Exact
// case-insensitive matches win; otherwise a fuzzy match is accepted only
// when it is unambiguous. Anything else stays unresolved - a wrong guess here
// would eliminate the wrong users.
type TeamResolver struct {
	byLower map[string]int
	lower   []string
}

func NewTeamResolver(teams map[int]string) *TeamResolver {
	r := &TeamResolver{byLower: make(map[string]int, len(teams))}
	for id, name := range teams {
		lowerName := strings.ToLower(name)
		r.byLower[lowerName] = id
		r.lower = append(r.lower, lowerName)
	}
	return r
}

func (r *TeamResolver) Resolve(name string) (int, bool) {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if lowerName == "" {
		return 0, false
	}

	if id, ok := r.byLower[lowerName]; ok {
		return id, true
	}

	matches := fuzzy.Find(lowerName, r.lower)
	if len(matches) == 1 {
		return r.byLower[matches[0]], true
	}

	return 0, false
}
