package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testTeams() map[int]string {
	return map[int]string{
		1: "Duke",
		2: "Houston",
		3: "Michigan St.",
		4: "Michigan",
	}
}

func TestResolveExactCaseInsensitive(t *testing.T) {
	r := NewTeamResolver(testTeams())

	id, ok := r.Resolve("duke")
	assert.True(t, ok)
	assert.Equal(t, 1, id)

	id, ok = r.Resolve("HOUSTON")
	assert.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestResolveExactBeatsFuzzy(t *testing.T) {
	// "Michigan" fuzzily matches both Michigan rows, but the exact match
	// must win before ambiguity is even considered.
	r := NewTeamResolver(testTeams())

	id, ok := r.Resolve("Michigan")
	assert.True(t, ok)
	assert.Equal(t, 4, id)
}

func TestResolveUnambiguousFuzzyMatch(t *testing.T) {
	r := NewTeamResolver(testTeams())

	id, ok := r.Resolve("Houstn")
	assert.True(t, ok)
	assert.Equal(t, 2, id)
}

func TestResolveRejectsAmbiguousAndUnknown(t *testing.T) {
	r := NewTeamResolver(testTeams())

	_, ok := r.Resolve("Gonzaga")
	assert.False(t, ok)

	// Matches both Michigan rows with no exact hit.
	_, ok = r.Resolve("Michign")
	assert.False(t, ok)

	_, ok = r.Resolve("")
	assert.False(t, ok)
}
