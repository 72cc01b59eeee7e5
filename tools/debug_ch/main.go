package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"

	"github.com/esoccer-insights/stats-api/internal/source"
)

// Prints what the match archive holds: totals per league and, with -player,
// that player's latest archived matches.
func main() {
	player := flag.String("player", "", "show latest matches of this player")
	limit := flag.Int("limit", 10, "matches to show")
	flag.Parse()

	dsn := os.Getenv("CLICKHOUSE_URL")
	if dsn == "" {
		dsn = "clickhouse://default:@localhost:9000/default"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	archive := source.NewArchive(conn)
	if err := archive.EnsureSchema(ctx); err != nil {
		log.Fatal(err)
	}

	rows, err := conn.Query(ctx, `
		SELECT league, count() AS matches, max(timestamp) AS latest
		FROM esoccer.matches FINAL
		GROUP BY league
		ORDER BY matches DESC`)
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	var total uint64
	for rows.Next() {
		var league string
		var n uint64
		var latest time.Time
		if err := rows.Scan(&league, &n, &latest); err != nil {
			log.Fatal(err)
		}
		total += n
		fmt.Printf("%-30s %8d  latest %s\n", league, n, latest.Format(time.RFC3339))
	}
	if err := rows.Err(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Total matches: %d\n", total)

	if *player == "" {
		return
	}
	matches, err := archive.PlayerMatches(ctx, *player, *limit)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nLatest %d matches of %s:\n", len(matches), *player)
	for _, m := range matches {
		fmt.Printf("%s  %-20s %d-%d (%d-%d)  %-20s  %s\n",
			m.Timestamp.Format("2006-01-02 15:04"), m.HomePlayer,
			m.HomeGoals, m.AwayGoals, m.HTHomeGoals, m.HTAwayGoals,
			m.AwayPlayer, m.League)
	}
}
