package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleScoreboard = `{
  "games": [
    {
      "id": "6305900",
      "home": {"winner": true, "score": "78", "names": {"short": "Duke"}},
      "away": {"winner": false, "score": "63", "names": {"short": "Mount St. Mary's"}},
      "status": {"type": {"name": "final"}}
    },
    {
      "id": "6305901",
      "home": {"winner": false, "score": "41", "names": {"short": "Houston"}},
      "away": {"winner": false, "score": "39", "names": {"short": "SIU Edwardsville"}},
      "status": {"type": {"name": "live"}}
    }
  ]
}`

func TestParseScoreboard(t *testing.T) {
	sb, err := ParseScoreboard([]byte(sampleScoreboard))
	require.NoError(t, err)
	require.Len(t, sb.Games, 2)

	final := sb.Games[0]
	assert.True(t, final.Final())
	assert.Equal(t, "Duke", final.WinnerName())
	assert.Equal(t, "Mount St. Mary's", final.LoserName())

	live := sb.Games[1]
	assert.False(t, live.Final())
	assert.Equal(t, "", live.WinnerName())
	assert.Equal(t, "", live.LoserName())
}

func TestParseScoreboardRejectsMissingGames(t *testing.T) {
	_, err := ParseScoreboard([]byte(`{"updated": "2025-03-20"}`))
	assert.Error(t, err)
}

func TestParseScoreboardRejectsBadJSON(t *testing.T) {
	_, err := ParseScoreboard([]byte(`{"games": [`))
	assert.Error(t, err)
}

func TestFetchFormatsDateAndDecodes(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(sampleScoreboard))
	}))
	defer server.Close()

	client := NewScoreboardClient()
	client.BaseURL = server.URL + "/d1/%s/scoreboard.json"

	sb, err := client.Fetch(context.Background(), time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "/d1/20250320/scoreboard.json", gotPath)
	assert.Len(t, sb.Games, 2)
}

func TestFetchRejectsNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewScoreboardClient()
	client.BaseURL = server.URL + "/d1/%s/scoreboard.json"

	_, err := client.Fetch(context.Background(), time.Now())
	assert.Error(t, err)
}
