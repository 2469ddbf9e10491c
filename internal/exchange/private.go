package exchange

import (
	"fmt"
	"log"
	"net/url"
	"strconv"

	"CoinBalancer/internal/model"
)

// FetchBalances returns every asset with a non-zero free or locked quantity.
func (c *Client) FetchBalances() ([]model.Balance, error) {
	var account struct {
		Balances []struct {
			Asset  string `json:"asset"`
			Free   string `json:"free"`
			Locked string `json:"locked"`
		} `json:"balances"`
	}
	if err := c.doSigned("GET", "/api/v3/account", url.Values{}, &account); err != nil {
		return nil, fmt.Errorf("fetch account balances: %w", err)
	}

	var balances []model.Balance
	for _, b := range account.Balances {
		free, err := strconv.ParseFloat(b.Free, 64)
		if err != nil {
			log.Printf("[WARN] malformed free balance for %s: %q", b.Asset, b.Free)
			continue
		}
		locked, err := strconv.ParseFloat(b.Locked, 64)
		if err != nil {
			log.Printf("[WARN] malformed locked balance for %s: %q", b.Asset, b.Locked)
			continue
		}
		if free > 0 || locked > 0 {
			balances = append(balances, model.Balance{Asset: b.Asset, Free: free, Locked: locked})
		}
	}
	return balances, nil
}

// PlaceOrder submits a limit order. In dry-run mode the order goes to the
// exchange's validation-only endpoint: it is checked against all trading
// rules but never reaches the book.
func (c *Client) PlaceOrder(order *model.Order) (*model.OrderResult, error) {
	params := url.Values{}
	params.Set("symbol", order.Pair)
	params.Set("side", string(order.Side))
	params.Set("type", order.Type)
	params.Set("timeInForce", order.TimeInForce)
	params.Set("quantity", order.Quantity)
	params.Set("price", order.Price)
	params.Set("newClientOrderId", order.ClientOrderID)

	endpoint := "/api/v3/order"
	if c.DryRun {
		endpoint = "/api/v3/order/test"
	}

	var ack struct {
		OrderID       int64  `json:"orderId"`
		ClientOrderID string `json:"clientOrderId"`
		Status        string `json:"status"`
		ExecutedQty   string `json:"executedQty"`
	}
	if err := c.doSigned("POST", endpoint, params, &ack); err != nil {
		return nil, fmt.Errorf("place %s order for %s: %w", order.Side, order.Pair, err)
	}

	result := &model.OrderResult{
		OrderID:       ack.OrderID,
		ClientOrderID: ack.ClientOrderID,
		Status:        ack.Status,
		ExecutedQty:   ack.ExecutedQty,
	}
	if c.DryRun {
		// The test endpoint returns an empty body on success.
		result.ClientOrderID = order.ClientOrderID
		result.Status = "TEST"
	}
	return result, nil
}
