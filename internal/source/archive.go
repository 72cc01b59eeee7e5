package source

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/esoccer-insights/stats-api/internal/models"
)

var schemaStatements = []string{
	`CREATE DATABASE IF NOT EXISTS esoccer`,
	`CREATE TABLE IF NOT EXISTS esoccer.matches (
		match_id      String,
		home_player   LowCardinality(String),
		away_player   LowCardinality(String),
		league        LowCardinality(String),
		timestamp     DateTime64(3, 'UTC'),
		score_home    UInt16,
		score_away    UInt16,
		ht_score_home UInt16,
		ht_score_away UInt16,
		raw_json      String,
		ingested_at   DateTime64(3, 'UTC')
	)
	ENGINE = ReplacingMergeTree(ingested_at)
	ORDER BY (league, timestamp, match_id)`,
}

const selectColumns = `
	SELECT match_id, home_player, away_player, league, timestamp,
		score_home, score_away, ht_score_home, ht_score_away
	FROM esoccer.matches FINAL`

// Archive stores ingested matches in ClickHouse and serves them back as history
type Archive struct {
	ch driver.Conn
}

func NewArchive(ch driver.Conn) *Archive {
	return &Archive{ch: ch}
}

// EnsureSchema creates the database and table when missing
func (a *Archive) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if err := a.ch.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Ping reports whether ClickHouse is reachable
func (a *Archive) Ping(ctx context.Context) error {
	return a.ch.Ping(ctx)
}

func (a *Archive) PlayerMatches(ctx context.Context, player string, limit int) ([]models.MatchRecord, error) {
	return a.query(ctx, selectColumns+`
		WHERE home_player = ? OR away_player = ?
		ORDER BY timestamp DESC
		LIMIT ?`, player, player, limit)
}

func (a *Archive) LeagueMatches(ctx context.Context, league string, limit int) ([]models.MatchRecord, error) {
	return a.query(ctx, selectColumns+`
		WHERE league = ?
		ORDER BY timestamp DESC
		LIMIT ?`, league, limit)
}

func (a *Archive) query(ctx context.Context, query string, args ...any) ([]models.MatchRecord, error) {
	rows, err := a.ch.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	var out []models.MatchRecord
	for rows.Next() {
		var (
			id, home, away, league string
			ts                     time.Time
			hg, ag, hth, hta       uint16
		)
		if err := rows.Scan(&id, &home, &away, &league, &ts, &hg, &ag, &hth, &hta); err != nil {
			return nil, fmt.Errorf("scan archive row: %w", err)
		}
		out = append(out, models.NewMatchRecord(id, home, away, league, ts.UTC(),
			int(hg), int(ag), int(hth), int(hta)))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read archive rows: %w", err)
	}
	return out, nil
}

// WriteMatches appends the records in one batch insert
func (a *Archive) WriteMatches(ctx context.Context, matches []models.ArchivedMatch) error {
	if len(matches) == 0 {
		return nil
	}

	batch, err := a.ch.PrepareBatch(ctx, `
		INSERT INTO esoccer.matches (
			match_id, home_player, away_player, league, timestamp,
			score_home, score_away, ht_score_home, ht_score_away,
			raw_json, ingested_at
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, m := range matches {
		r := m.Record
		if err := batch.Append(
			r.ID,
			r.HomePlayer,
			r.AwayPlayer,
			r.League,
			r.Timestamp,
			scoreColumn(r.HomeGoals),
			scoreColumn(r.AwayGoals),
			scoreColumn(r.HTHomeGoals),
			scoreColumn(r.HTAwayGoals),
			m.RawJSON,
			m.IngestedAt,
		); err != nil {
			_ = batch.Abort()
			return fmt.Errorf("append match %s: %w", r.ID, err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// scoreColumn fits a goal count into the UInt16 score columns
func scoreColumn(n int) uint16 {
	switch {
	case n < 0:
		return 0
	case n > models.MaxGoals:
		return models.MaxGoals
	default:
		return uint16(n)
	}
}
