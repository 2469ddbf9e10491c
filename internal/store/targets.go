package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"CoinBalancer/internal/model"
)

// UpsertTarget inserts or updates a target-allocation record. Symbols are
// stored lower-case so lookups are case-insensitive.
func (s *Store) UpsertTarget(t *model.TargetAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO target_allocations
		(symbol, target_percentage, average_cost, points, target_quantity, quantity, updated_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			target_percentage = excluded.target_percentage,
			average_cost      = excluded.average_cost,
			points            = excluded.points,
			target_quantity   = excluded.target_quantity,
			quantity          = excluded.quantity,
			updated_at        = excluded.updated_at`,
		strings.ToLower(t.Symbol), t.TargetPercentage, t.AverageCost,
		t.Points, t.TargetQuantity, t.Quantity, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("upsert target %s: %w", t.Symbol, err)
	}
	return nil
}

// SyncTarget upserts a record from the external target source, preserving
// the locally maintained average cost and quantity of an existing record.
func (s *Store) SyncTarget(t *model.TargetAllocation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO target_allocations
		(symbol, target_percentage, average_cost, points, target_quantity, quantity, updated_at)
		VALUES (?,?,?,?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET
			target_percentage = excluded.target_percentage,
			points            = excluded.points,
			target_quantity   = excluded.target_quantity,
			updated_at        = excluded.updated_at`,
		strings.ToLower(t.Symbol), t.TargetPercentage, t.AverageCost,
		t.Points, t.TargetQuantity, t.Quantity, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("sync target %s: %w", t.Symbol, err)
	}
	return nil
}

// GetTarget returns the target allocation for a symbol, or ErrNotFound.
func (s *Store) GetTarget(symbol string) (*model.TargetAllocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRow(`SELECT symbol, target_percentage, average_cost, points,
		target_quantity, quantity, updated_at
		FROM target_allocations WHERE symbol = ?`, strings.ToLower(symbol))
	return scanTarget(row)
}

// AllTargets returns every stored target allocation.
func (s *Store) AllTargets() ([]*model.TargetAllocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT symbol, target_percentage, average_cost, points,
		target_quantity, quantity, updated_at
		FROM target_allocations ORDER BY target_percentage DESC`)
	if err != nil {
		return nil, fmt.Errorf("query targets: %w", err)
	}
	defer rows.Close()

	var targets []*model.TargetAllocation
	for rows.Next() {
		t, err := scanTarget(rows)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// UpdateFill persists the post-fill quantity and average cost for a symbol,
// leaving every other field of the record untouched.
func (s *Store) UpdateFill(symbol string, quantity, averageCost float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`UPDATE target_allocations
		SET quantity = ?, average_cost = ?, updated_at = ?
		WHERE symbol = ?`,
		quantity, averageCost, time.Now().Unix(), strings.ToLower(symbol))
	if err != nil {
		return fmt.Errorf("update fill for %s: %w", symbol, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update fill for %s: %w", symbol, err)
	}
	if n == 0 {
		return fmt.Errorf("update fill for %s: %w", symbol, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTarget(row rowScanner) (*model.TargetAllocation, error) {
	var t model.TargetAllocation
	var updatedAt int64
	err := row.Scan(&t.Symbol, &t.TargetPercentage, &t.AverageCost,
		&t.Points, &t.TargetQuantity, &t.Quantity, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan target: %w", err)
	}
	t.UpdatedAt = time.Unix(updatedAt, 0)
	return &t, nil
}
