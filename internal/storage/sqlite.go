// Package storage provides the sqlite-backed pantry inventory and meal
// log. It implements both the PantryService and MealLogService ports,
// so a session can run fully local without the kitchen-hub gateway.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/hammamikhairi/sousdeck/internal/domain"
	"github.com/hammamikhairi/sousdeck/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.PantryService  = (*Store)(nil)
	_ domain.MealLogService = (*Store)(nil)
)

const schema = `
CREATE TABLE IF NOT EXISTS pantry_items (
	id TEXT PRIMARY KEY,
	product_id TEXT NOT NULL,
	name TEXT NOT NULL,
	weight_grams REAL NOT NULL CHECK(weight_grams >= 0),
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS meals (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	rating INTEGER NOT NULL,
	notes TEXT NOT NULL,
	completed_at TEXT NOT NULL,
	record_json TEXT NOT NULL
);
`

// Store is a sqlite-backed pantry + meal log.
type Store struct {
	db  *sql.DB
	log *logger.Logger
}

// Open creates or opens the database at path and applies the schema.
func Open(ctx context.Context, path string, log *logger.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Info("storage opened at %s", path)
	return &Store{db: db, log: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ── PantryService ────────────────────────────────────────────────

// AddItem inserts a pantry item. A zero id gets a generated one.
func (s *Store) AddItem(ctx context.Context, item domain.PantryItem) (domain.PantryItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pantry_items (id, product_id, name, weight_grams, created_at) VALUES (?, ?, ?, ?, ?)`,
		item.ID, item.ProductID, item.Name, item.CurrentWeightGrams, item.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return domain.PantryItem{}, fmt.Errorf("insert pantry item: %w", err)
	}
	return item, nil
}

// Seed inserts items only when the pantry is empty, so a restarted
// session keeps its deducted quantities.
func (s *Store) Seed(ctx context.Context, items []domain.PantryItem) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pantry_items`).Scan(&count); err != nil {
		return fmt.Errorf("count pantry items: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, item := range items {
		if _, err := s.AddItem(ctx, item); err != nil {
			return err
		}
	}
	s.log.Info("seeded pantry with %d items", len(items))
	return nil
}

// ListInventory returns all pantry items, oldest first.
func (s *Store) ListInventory(ctx context.Context) ([]domain.PantryItem, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, product_id, name, weight_grams, created_at FROM pantry_items ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list pantry: %w", err)
	}
	defer rows.Close()

	var out []domain.PantryItem
	for rows.Next() {
		var item domain.PantryItem
		var createdAt string
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.CurrentWeightGrams, &createdAt); err != nil {
			return nil, fmt.Errorf("scan pantry item: %w", err)
		}
		item.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, item)
	}
	return out, rows.Err()
}

// Deduct subtracts amountGrams from an item, flooring at zero.
func (s *Store) Deduct(ctx context.Context, inventoryID string, amountGrams float64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE pantry_items SET weight_grams = MAX(0, weight_grams - ?) WHERE id = ?`,
		amountGrams, inventoryID)
	if err != nil {
		return fmt.Errorf("deduct: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deduct rows affected: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	s.log.Debug("deducted %.0fg from pantry item %s", amountGrams, inventoryID)
	return nil
}

// ── MealLogService ───────────────────────────────────────────────

// CompleteMeal persists the finished meal record.
func (s *Store) CompleteMeal(ctx context.Context, record domain.MealRecord) (domain.MealResult, error) {
	blob, err := json.Marshal(record)
	if err != nil {
		return domain.MealResult{}, fmt.Errorf("marshal meal record: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO meals (id, name, rating, notes, completed_at, record_json) VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), record.Name, record.Rating, record.Notes,
		record.CompletedAt.UTC().Format(time.RFC3339), string(blob))
	if err != nil {
		return domain.MealResult{}, fmt.Errorf("insert meal: %w", err)
	}

	s.log.Info("meal %q logged (%.0f kcal)", record.Name, record.Total.Calories)
	return domain.MealResult{NutritionAdded: record.Total}, nil
}

// LastMeal returns the most recently logged meal record.
func (s *Store) LastMeal(ctx context.Context) (domain.MealRecord, error) {
	var blob string
	err := s.db.QueryRowContext(ctx,
		`SELECT record_json FROM meals ORDER BY completed_at DESC, id DESC LIMIT 1`).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.MealRecord{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MealRecord{}, fmt.Errorf("query last meal: %w", err)
	}

	var record domain.MealRecord
	if err := json.Unmarshal([]byte(blob), &record); err != nil {
		return domain.MealRecord{}, fmt.Errorf("unmarshal meal record: %w", err)
	}
	return record, nil
}
