package store

import (
	"fmt"
	"strings"

	"CoinBalancer/internal/model"
)

// UpsertWalletBalance inserts or updates one row of the manually tracked
// wallet ledger.
func (s *Store) UpsertWalletBalance(symbol string, quantity float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`INSERT INTO wallet_ledger (symbol, quantity)
		VALUES (?,?)
		ON CONFLICT(symbol) DO UPDATE SET quantity = excluded.quantity`,
		strings.ToLower(symbol), quantity)
	if err != nil {
		return fmt.Errorf("upsert wallet balance %s: %w", symbol, err)
	}
	return nil
}

// AllWalletBalances returns every tracked wallet balance.
func (s *Store) AllWalletBalances() ([]model.WalletBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(`SELECT symbol, quantity FROM wallet_ledger`)
	if err != nil {
		return nil, fmt.Errorf("query wallet ledger: %w", err)
	}
	defer rows.Close()

	var balances []model.WalletBalance
	for rows.Next() {
		var b model.WalletBalance
		if err := rows.Scan(&b.Symbol, &b.Quantity); err != nil {
			return nil, fmt.Errorf("scan wallet balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
