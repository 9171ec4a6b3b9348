package bank

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"jacks-lite/jacks"
)

const defaultLocalDBName = "videopoker_local.db"

type sqliteService struct {
	db           *sql.DB
	historyLimit int
}

func NewSQLiteServiceFromEnv() (Service, error) {
	dbPath, err := localDatabasePathFromEnv()
	if err != nil {
		return nil, err
	}
	return NewSQLiteService(dbPath)
}

func NewSQLiteService(dbPath string) (Service, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &sqliteService{
		db:           db,
		historyLimit: envIntOrDefault("VP_HISTORY_LIMIT", defaultHistoryLimit),
	}, nil
}

func (s *sqliteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// LoadMeter returns the stored credits/bet. A missing row is not an error:
// the game falls back to its defaults.
func (s *sqliteService) LoadMeter(ctx context.Context) (jacks.Meter, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var m jacks.Meter
	err := s.db.QueryRowContext(ctx, `
SELECT credits, bet
FROM machine_meter
WHERE id = 1
`).Scan(&m.Credits, &m.Bet)
	if errors.Is(err, sql.ErrNoRows) {
		return jacks.Meter{Credits: -1, Bet: 0}, nil
	}
	if err != nil {
		return jacks.Meter{}, err
	}
	return m, nil
}

func (s *sqliteService) SaveMeter(credits, bet int) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := s.db.ExecContext(ctx, `
INSERT INTO machine_meter (id, credits, bet, updated_at_ms)
VALUES (1, ?, ?, ?)
ON CONFLICT(id) DO UPDATE
SET
    credits = excluded.credits,
    bet = excluded.bet,
    updated_at_ms = excluded.updated_at_ms
`, credits, bet, time.Now().UTC().UnixMilli())
	if err != nil {
		log.Printf("[Bank] save meter failed: credits=%d bet=%d err=%v", credits, bet, err)
	}
}

func (s *sqliteService) AppendRound(rec jacks.RoundRecord) {
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	roundID := uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("[Bank] begin round append tx failed: err=%v", err)
		return
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO round_history (
    round_id, played_at_ms, bet, hand, hand_name,
    base_payout, bonus_guesses, final_payout, credits_after
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`, roundID, rec.PlayedAt.UnixMilli(), rec.Bet, rec.Hand, rec.HandName,
		rec.BasePayout, rec.BonusGuesses, rec.FinalPayout, rec.CreditsAfter); err != nil {
		log.Printf("[Bank] append round failed: round=%s err=%v", roundID, err)
		return
	}

	if s.historyLimit > 0 {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM round_history
WHERE round_id IN (
    SELECT round_id
    FROM round_history
    ORDER BY played_at_ms DESC, round_id DESC
    LIMIT -1 OFFSET ?
)
`, s.historyLimit); err != nil {
			log.Printf("[Bank] trim round history failed: err=%v", err)
			return
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("[Bank] commit round append failed: round=%s err=%v", roundID, err)
	}
}

func (s *sqliteService) ListRecent(ctx context.Context, limit int) ([]HistoryItem, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
SELECT round_id, played_at_ms, bet, hand, hand_name,
       base_payout, bonus_guesses, final_payout, credits_after
FROM round_history
ORDER BY played_at_ms DESC, round_id DESC
LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]HistoryItem, 0, limit)
	for rows.Next() {
		var item HistoryItem
		var playedAtMs int64
		if err := rows.Scan(&item.ID, &playedAtMs, &item.Bet, &item.Hand, &item.HandName,
			&item.BasePayout, &item.BonusGuesses, &item.FinalPayout, &item.CreditsAfter); err != nil {
			return nil, err
		}
		item.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		items = append(items, item)
	}
	return items, rows.Err()
}

func ensureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS machine_meter (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    credits INTEGER NOT NULL,
    bet INTEGER NOT NULL,
    updated_at_ms INTEGER NOT NULL
)`); err != nil {
		return err
	}
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS round_history (
    round_id TEXT PRIMARY KEY,
    played_at_ms INTEGER NOT NULL,
    bet INTEGER NOT NULL,
    hand INTEGER NOT NULL,
    hand_name TEXT NOT NULL,
    base_payout INTEGER NOT NULL,
    bonus_guesses INTEGER NOT NULL,
    final_payout INTEGER NOT NULL,
    credits_after INTEGER NOT NULL
)`)
	return err
}

func localDatabasePathFromEnv() (string, error) {
	candidates := []string{
		strings.TrimSpace(os.Getenv("VP_LOCAL_DATABASE_PATH")),
		strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")),
	}
	for _, candidate := range candidates {
		if candidate != "" {
			return filepath.Clean(candidate), nil
		}
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(userConfigDir, "JacksLite", defaultLocalDBName), nil
}

func envIntOrDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
