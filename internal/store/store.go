package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/workprior/crypto-backtest/internal/model"
	"github.com/workprior/crypto-backtest/pkg/logger"
)

// Store persists backtest summaries to a SQLite database so past runs stay
// queryable (CLI history, API results endpoint).
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open creates or opens the database at dbPath and runs migrations.
func Open(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so readers (Grafana, the API) don't block batch writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("results store opened: %s", dbPath)
	return s, nil
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS backtest_runs (
			id                INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at        INTEGER NOT NULL,
			symbol            TEXT NOT NULL,
			strategy          TEXT NOT NULL,
			total_return_pct  REAL,
			sharpe_ratio      REAL,
			max_drawdown_pct  REAL,
			win_rate_pct      REAL,
			expectancy        REAL,
			exposure_time_pct REAL,
			trade_count       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON backtest_runs(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_symbol ON backtest_runs(symbol, strategy)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

// RecordSummary inserts one (symbol, strategy) result row.
func (s *Store) RecordSummary(sum model.PerformanceSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO backtest_runs
		(created_at, symbol, strategy, total_return_pct, sharpe_ratio,
		 max_drawdown_pct, win_rate_pct, expectancy, exposure_time_pct, trade_count)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), sum.Symbol, sum.Strategy,
		sum.TotalReturnPct, sum.SharpeRatio, sum.MaxDrawdownPct,
		sum.WinRatePct, sum.Expectancy, sum.ExposureTimePct, sum.TradeCount,
	)
	return err
}

// ListSummaries returns the most recent rows, newest first.
func (s *Store) ListSummaries(limit int) ([]model.PerformanceSummary, error) {
	if limit <= 0 {
		limit = 100
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT symbol, strategy, total_return_pct, sharpe_ratio,
		max_drawdown_pct, win_rate_pct, expectancy, exposure_time_pct, trade_count
		FROM backtest_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.PerformanceSummary
	for rows.Next() {
		var sum model.PerformanceSummary
		if err := rows.Scan(&sum.Symbol, &sum.Strategy, &sum.TotalReturnPct,
			&sum.SharpeRatio, &sum.MaxDrawdownPct, &sum.WinRatePct,
			&sum.Expectancy, &sum.ExposureTimePct, &sum.TradeCount); err != nil {
			return nil, err
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	logger.Info("closing results store")
	return s.db.Close()
}
