package sheet

import (
	"fmt"
	"log"
	"strings"

	"CoinBalancer/internal/model"
)

// TargetSyncStore is the persistence surface the sync job writes to.
type TargetSyncStore interface {
	SyncTarget(t *model.TargetAllocation) error
}

// Expected column headers in the target-allocation tab.
const (
	colSymbol         = "crypto"
	colPercentage     = "percentual"
	colPoints         = "pontos"
	colTargetQuantity = "meta moeda"
	colWalletTotal    = "total (carteira)"
)

// Syncer re-populates the target-allocation store from the spreadsheet.
type Syncer struct {
	Reader *Reader
	Store  TargetSyncStore
}

// Sync downloads the sheet and upserts one target record per row. Rows with
// a malformed symbol or percentage are skipped; the rest of the sheet still
// syncs. Returns how many rows were upserted.
func (s *Syncer) Sync() (int, error) {
	header, rows, err := s.Reader.FetchRows()
	if err != nil {
		return 0, err
	}

	index := columnIndex(header)
	for _, required := range []string{colSymbol, colPercentage} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("sheet is missing required column %q", required)
		}
	}

	synced := 0
	for i, row := range rows {
		target, err := parseRow(row, index)
		if err != nil {
			log.Printf("[WARN] sheet row %d skipped: %v", i+2, err)
			continue
		}
		if err := s.Store.SyncTarget(target); err != nil {
			return synced, err
		}
		synced++
	}
	log.Printf("[INFO] sheet sync complete: %d targets upserted", synced)
	return synced, nil
}

func parseRow(row []string, index map[string]int) (*model.TargetAllocation, error) {
	symbol := strings.TrimSpace(cell(row, index, colSymbol))
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}

	percentage, err := ParseNumber(cell(row, index, colPercentage))
	if err != nil {
		return nil, fmt.Errorf("%s: target percentage: %w", symbol, err)
	}

	target := &model.TargetAllocation{
		Symbol:           symbol,
		TargetPercentage: percentage,
	}
	// Optional columns: absent or malformed values default to zero.
	if v, err := ParseNumber(cell(row, index, colPoints)); err == nil {
		target.Points = v
	}
	if v, err := ParseNumber(cell(row, index, colTargetQuantity)); err == nil {
		target.TargetQuantity = v
	}
	if v, err := ParseNumber(cell(row, index, colWalletTotal)); err == nil {
		target.Quantity = v
	}
	return target, nil
}

func columnIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	return index
}

func cell(row []string, index map[string]int, column string) string {
	i, ok := index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}
