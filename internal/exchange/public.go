package exchange

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"CoinBalancer/internal/model"
)

// FetchPrice returns the last price for one trading pair. The quote asset
// itself always prices at 1.
func (c *Client) FetchPrice(pair string) (float64, error) {
	if strings.EqualFold(pair, c.QuoteAsset) {
		return 1.0, nil
	}
	params := url.Values{}
	params.Set("symbol", pair)
	var result struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := c.get("/api/v3/ticker/price", params, &result); err != nil {
		return 0, err
	}
	price, err := strconv.ParseFloat(result.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price for %s: %w", pair, err)
	}
	return price, nil
}

// FetchAllPrices returns last prices for every pair the venue trades,
// keyed by pair symbol (e.g. "BTCUSDT").
func (c *Client) FetchAllPrices() (map[string]float64, error) {
	var tickers []struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := c.get("/api/v3/ticker/price", nil, &tickers); err != nil {
		return nil, err
	}
	prices := make(map[string]float64, len(tickers))
	for _, t := range tickers {
		price, err := strconv.ParseFloat(t.Price, 64)
		if err != nil {
			continue
		}
		prices[t.Symbol] = price
	}
	return prices, nil
}

// exchangeInfo mirrors the subset of /api/v3/exchangeInfo the sizer needs.
type exchangeInfo struct {
	Symbols []struct {
		Symbol  string `json:"symbol"`
		Filters []struct {
			FilterType  string `json:"filterType"`
			MinQty      string `json:"minQty"`
			StepSize    string `json:"stepSize"`
			MinNotional string `json:"minNotional"`
			MaxNotional string `json:"maxNotional"`
			TickSize    string `json:"tickSize"`
		} `json:"filters"`
	} `json:"symbols"`
}

// FetchRules downloads exchange metadata and extracts per-pair trading
// constraints. Pairs with malformed filter values are skipped.
func (c *Client) FetchRules() (map[string]model.SymbolRules, error) {
	var info exchangeInfo
	if err := c.get("/api/v3/exchangeInfo", nil, &info); err != nil {
		return nil, err
	}

	rules := make(map[string]model.SymbolRules, len(info.Symbols))
	for _, sym := range info.Symbols {
		r := model.SymbolRules{Symbol: sym.Symbol}
		var err error
		for _, f := range sym.Filters {
			switch f.FilterType {
			case "LOT_SIZE":
				if r.MinQty, err = decimal.NewFromString(f.MinQty); err != nil {
					break
				}
				r.StepSize, err = decimal.NewFromString(f.StepSize)
			case "NOTIONAL", "MIN_NOTIONAL":
				if r.MinNotional, err = decimal.NewFromString(f.MinNotional); err != nil {
					break
				}
				if f.MaxNotional != "" {
					r.MaxNotional, err = decimal.NewFromString(f.MaxNotional)
				}
			case "PRICE_FILTER":
				r.TickSize, err = decimal.NewFromString(f.TickSize)
			}
			if err != nil {
				break
			}
		}
		if err != nil {
			continue
		}
		rules[sym.Symbol] = r
	}
	return rules, nil
}
