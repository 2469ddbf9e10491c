package sheet

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"CoinBalancer/internal/model"
)

type memorySyncStore struct {
	synced map[string]*model.TargetAllocation
}

func (m *memorySyncStore) SyncTarget(t *model.TargetAllocation) error {
	if m.synced == nil {
		m.synced = make(map[string]*model.TargetAllocation)
	}
	m.synced[t.Symbol] = t
	return nil
}

const sheetCSV = `Crypto,Percentual,Pontos,"Meta($):","meta Moeda","Total (Carteira)"
BTC,"40,5%",10,"$4.050,00","0,5","0,48"
ETH,30%,8,"$3.000",2,"1,9"
,10%,1,,,
SOL,not-a-number,3,,,
ADA,"29,5%",5,"$2.950",1000,
`

func TestSync(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sheetCSV))
	}))
	defer srv.Close()

	store := &memorySyncStore{}
	syncer := &Syncer{
		Reader: NewReader(srv.URL, ""),
		Store:  store,
	}

	count, err := syncer.Sync()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The empty-symbol and malformed-percentage rows are skipped, the rest
	// still sync.
	if count != 3 {
		t.Fatalf("expected 3 synced rows, got %d", count)
	}

	btc, ok := store.synced["BTC"]
	if !ok {
		t.Fatal("BTC not synced")
	}
	if btc.TargetPercentage != 40.5 {
		t.Errorf("BTC percentage: got %v, want 40.5", btc.TargetPercentage)
	}
	if btc.Points != 10 {
		t.Errorf("BTC points: got %v, want 10", btc.Points)
	}
	if btc.TargetQuantity != 0.5 {
		t.Errorf("BTC target quantity: got %v, want 0.5", btc.TargetQuantity)
	}
	if btc.Quantity != 0.48 {
		t.Errorf("BTC quantity: got %v, want 0.48", btc.Quantity)
	}

	if _, ok := store.synced["SOL"]; ok {
		t.Error("row with malformed percentage should be skipped")
	}

	ada := store.synced["ADA"]
	if ada == nil {
		t.Fatal("ADA not synced")
	}
	if ada.Quantity != 0 {
		t.Errorf("ADA quantity should default to 0 for an empty cell, got %v", ada.Quantity)
	}
}

func TestSync_MissingRequiredColumn(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Name,Weight\nBTC,40\n"))
	}))
	defer srv.Close()

	syncer := &Syncer{Reader: NewReader(srv.URL, ""), Store: &memorySyncStore{}}
	if _, err := syncer.Sync(); err == nil {
		t.Error("expected error for sheet without required columns")
	}
}
