package ingest

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const defaultScoreboardURL = "https://data.ncaa.com/casablanca/game-center/basketball-men/d1/%s/scoreboard.json"

// Scoreboard is the shape of the NCAA scores feed: games at the root, one
// entry per game.
type Scoreboard struct {
	Games []FeedGame `json:"games"`
}

type FeedGame struct {
	ID     string     `json:"id"`
	Home   FeedSide   `json:"home"`
	Away   FeedSide   `json:"away"`
	Status FeedStatus `json:"status"`
}

type FeedSide struct {
	Winner bool      `json:"winner"`
	Score  string    `json:"score"`
	Names  FeedNames `json:"names"`
}

type FeedNames struct {
	Short string `json:"short"`
}

type FeedStatus struct {
	Type FeedStatusType `json:"type"`
}

type FeedStatusType struct {
	Name string `json:"name"`
}

// Final reports whether the game has ended.
func (g FeedGame) Final() bool {
	return g.Status.Type.Name == "final"
}

// WinnerName returns the winning side's short name, or "" while the game is
// undecided.
func (g FeedGame) WinnerName() string {
	if g.Home.Winner {
		return g.Home.Names.Short
	}
	if g.Away.Winner {
		return g.Away.Names.Short
	}
	return ""
}

// LoserName mirrors WinnerName.
func (g FeedGame) LoserName() string {
	if g.Home.Winner {
		return g.Away.Names.Short
	}
	if g.Away.Winner {
		return g.Home.Names.Short
	}
	return ""
}

// ScoreboardClient fetches the daily scoreboard. Requests go through a rate
// limiter so a misconfigured cron can't hammer the feed.
type ScoreboardClient struct {
	BaseURL string
	Client  *http.Client
	limiter *rate.Limiter
}

func NewScoreboardClient() *ScoreboardClient {
	return &ScoreboardClient{
		BaseURL: defaultScoreboardURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Fetch downloads and decodes the scoreboard for the given date.
func (c *ScoreboardClient) Fetch(ctx context.Context, date time.Time) (*Scoreboard, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf(c.BaseURL, date.Format("20060102"))
	request, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create scoreboard request: %w", err)
	}

	request.Header.Set("User-Agent", "SurvivorPoolResultsFetcher/1.0")
	request.Header.Set("Accept-Encoding", "gzip")

	response, err := c.Client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("scoreboard request failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("scoreboard fetch returned status %d", response.StatusCode)
	}

	var body io.Reader = response.Body
	if response.Header.Get("Content-Encoding") == "gzip" {
		reader, err := gzip.NewReader(response.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
		body = reader
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read scoreboard body: %w", err)
	}

	return ParseScoreboard(raw)
}

// ParseScoreboard decodes the feed JSON and rejects responses without a
// games array.
func ParseScoreboard(raw []byte) (*Scoreboard, error) {
	var sb Scoreboard
	if err := json.Unmarshal(raw, &sb); err != nil {
		return nil, fmt.Errorf("failed to decode scoreboard json: %w", err)
	}
	if sb.Games == nil {
		return nil, fmt.Errorf("no games array found in scoreboard response")
	}
	return &sb, nil
}
