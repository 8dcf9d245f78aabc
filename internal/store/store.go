// Package store 把已结束对局的排名保存到 SQLite。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"machiavelli-be/internal/service/game"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_results (
	game_id     TEXT PRIMARY KEY,
	finished_at INTEGER NOT NULL,
	rounds      INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS standings (
	game_id   TEXT    NOT NULL REFERENCES game_results(game_id) ON DELETE CASCADE,
	rank      INTEGER NOT NULL,
	player_id TEXT    NOT NULL,
	name      TEXT    NOT NULL,
	score     INTEGER NOT NULL,
	buildings INTEGER NOT NULL,
	gold      INTEGER NOT NULL,
	PRIMARY KEY (game_id, rank)
);
`

var ErrEmptyResult = errors.New("standings are empty")

type GameResult struct {
	GameID     string          `json:"game_id"`
	FinishedAt time.Time       `json:"finished_at"`
	Rounds     int             `json:"rounds"`
	Standings  []game.Standing `json:"standings"`
}

type Store struct {
	sqlDB *sql.DB
}

func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}

	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}

	return s.sqlDB.Close()
}

// SaveResult 在一个事务内写入对局和全部排名
func (s *Store) SaveResult(ctx context.Context, result GameResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(result.GameID) == "" {
		return fmt.Errorf("game id is required")
	}
	if len(result.Standings) == 0 {
		return ErrEmptyResult
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO game_results (game_id, finished_at, rounds) VALUES (?, ?, ?)`,
		result.GameID, result.FinishedAt.UTC().UnixMilli(), result.Rounds,
	)
	if err != nil {
		return fmt.Errorf("insert game result: %w", err)
	}

	for _, st := range result.Standings {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO standings (game_id, rank, player_id, name, score, buildings, gold)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			result.GameID, st.Rank, st.PlayerID, st.Name, st.Score, st.Buildings, st.Gold,
		)
		if err != nil {
			return fmt.Errorf("insert standing %d: %w", st.Rank, err)
		}
	}

	return tx.Commit()
}

// RecentResults 按结束时间倒序返回最近 limit 局
func (s *Store) RecentResults(ctx context.Context, limit int) ([]GameResult, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT game_id, finished_at, rounds FROM game_results ORDER BY finished_at DESC, game_id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query game results: %w", err)
	}

	results := make([]GameResult, 0, limit)
	for rows.Next() {
		var (
			r        GameResult
			finished int64
		)
		if err := rows.Scan(&r.GameID, &finished, &r.Rounds); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan game result: %w", err)
		}
		r.FinishedAt = time.UnixMilli(finished).UTC()
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	for i := range results {
		standings, err := s.loadStandings(ctx, results[i].GameID)
		if err != nil {
			return nil, err
		}
		results[i].Standings = standings
	}

	return results, nil
}

func (s *Store) loadStandings(ctx context.Context, gameID string) ([]game.Standing, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT rank, player_id, name, score, buildings, gold FROM standings WHERE game_id = ? ORDER BY rank`,
		gameID,
	)
	if err != nil {
		return nil, fmt.Errorf("query standings: %w", err)
	}
	defer rows.Close()

	standings := make([]game.Standing, 0)
	for rows.Next() {
		var st game.Standing
		if err := rows.Scan(&st.Rank, &st.PlayerID, &st.Name, &st.Score, &st.Buildings, &st.Gold); err != nil {
			return nil, fmt.Errorf("scan standing: %w", err)
		}
		standings = append(standings, st)
	}

	return standings, rows.Err()
}
