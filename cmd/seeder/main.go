// Command seeder posts synthetic e-soccer matches to the ingest endpoint,
// alternating between the live-feed and history-API payload shapes.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var defaultPlayers = []string{"Kray", "Boulevard", "Cavani", "Lion", "Bomb1to", "Arthur", "Kodak", "Wboy"}

func main() {
	apiURL := flag.String("url", "http://localhost:8080/api/v1/ingest/matches", "ingest endpoint")
	count := flag.Int("n", 200, "number of matches to generate")
	batch := flag.Int("batch", 50, "matches per request")
	leagues := flag.String("leagues", "Battle 8 min,Adriatic League", "comma-separated leagues")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()
	log := logger.Sugar()

	rng := rand.New(rand.NewSource(*seed))
	gen := &generator{
		rng:     rng,
		leagues: strings.Split(*leagues, ","),
		players: defaultPlayers,
		start:   time.Now().UTC().Add(-time.Duration(*count) * 12 * time.Minute),
	}

	client := &http.Client{Timeout: 10 * time.Second}
	sent, accepted := 0, 0
	for sent < *count {
		n := min(*batch, *count-sent)
		lines := make([][]byte, 0, n)
		for i := 0; i < n; i++ {
			payload, err := json.Marshal(gen.next(sent + i))
			if err != nil {
				log.Fatalw("Failed to marshal match", "error", err)
			}
			lines = append(lines, payload)
		}

		processed, err := post(client, *apiURL, bytes.Join(lines, []byte("\n")))
		if err != nil {
			log.Errorw("Batch rejected", "offset", sent, "error", err)
			os.Exit(1)
		}
		sent += n
		accepted += processed
		log.Infow("Batch sent", "sent", sent, "accepted", accepted)
	}

	log.Infow("Seeding complete", "generated", sent, "accepted", accepted)
}

type generator struct {
	rng     *rand.Rand
	leagues []string
	players []string
	start   time.Time
}

// next builds one match. Even indexes use the live-feed shape with native
// numbers, odd ones the history-API shape with quoted values.
func (g *generator) next(i int) map[string]any {
	home := g.players[g.rng.Intn(len(g.players))]
	away := home
	for away == home {
		away = g.players[g.rng.Intn(len(g.players))]
	}
	league := strings.TrimSpace(g.leagues[g.rng.Intn(len(g.leagues))])
	ts := g.start.Add(time.Duration(i) * 12 * time.Minute)

	htHome, htAway := g.rng.Intn(3), g.rng.Intn(3)
	ftHome, ftAway := htHome+g.rng.Intn(3), htAway+g.rng.Intn(3)

	if i%2 == 0 {
		return map[string]any{
			"id":            uuid.NewString(),
			"home_player":   home,
			"away_player":   away,
			"league":        league,
			"timestamp":     ts.Format(time.RFC3339),
			"score_home":    ftHome,
			"score_away":    ftAway,
			"ht_score_home": htHome,
			"ht_score_away": htAway,
		}
	}
	return map[string]any{
		"MatchId":           uuid.NewString(),
		"HomePlayer":        home,
		"AwayPlayer":        away,
		"LeagueName":        league,
		"StartTime":         strconv.FormatInt(ts.Unix(), 10),
		"HomePlayerScore":   strconv.Itoa(ftHome),
		"AwayPlayerScore":   strconv.Itoa(ftAway),
		"HomePlayerHTScore": strconv.Itoa(htHome),
		"AwayPlayerHTScore": strconv.Itoa(htAway),
	}
}

func post(client *http.Client, url string, body []byte) (int, error) {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-ndjson")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return 0, fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	var out struct {
		Processed int `json:"processed"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decode response: %w", err)
	}
	return out.Processed, nil
}
