package exchange

import (
	"fmt"

	"CoinBalancer/internal/model"
)

// MockExchange returns controllable fixed data for development and testing.
type MockExchange struct {
	Balances   []model.Balance
	Prices     map[string]float64
	Rules      map[string]model.SymbolRules
	Placed     []*model.Order
	PlaceErr   error
	BalanceErr error
	PriceErr   error
	RulesErr   error
}

func (m *MockExchange) FetchBalances() ([]model.Balance, error) {
	if m.BalanceErr != nil {
		return nil, m.BalanceErr
	}
	return m.Balances, nil
}

func (m *MockExchange) FetchPrice(pair string) (float64, error) {
	if m.PriceErr != nil {
		return 0, m.PriceErr
	}
	price, ok := m.Prices[pair]
	if !ok {
		return 0, fmt.Errorf("no price for %s", pair)
	}
	return price, nil
}

func (m *MockExchange) FetchAllPrices() (map[string]float64, error) {
	if m.PriceErr != nil {
		return nil, m.PriceErr
	}
	return m.Prices, nil
}

func (m *MockExchange) FetchRules() (map[string]model.SymbolRules, error) {
	if m.RulesErr != nil {
		return nil, m.RulesErr
	}
	return m.Rules, nil
}

func (m *MockExchange) PlaceOrder(order *model.Order) (*model.OrderResult, error) {
	if m.PlaceErr != nil {
		return nil, m.PlaceErr
	}
	m.Placed = append(m.Placed, order)
	return &model.OrderResult{
		OrderID:       int64(len(m.Placed)),
		ClientOrderID: order.ClientOrderID,
		Status:        "NEW",
	}, nil
}
