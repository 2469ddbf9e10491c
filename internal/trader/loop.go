package trader

import (
	"context"
	"fmt"
	"log"
	"time"

	"CoinBalancer/internal/exchange"
	"CoinBalancer/internal/model"
	"CoinBalancer/internal/notifier"
	"CoinBalancer/internal/portfolio"
	"CoinBalancer/internal/sizing"
	"CoinBalancer/internal/store"
	"CoinBalancer/internal/strategy"
)

// pauseIdle is how long the loop sleeps between running-flag checks while
// paused.
const pauseIdle = 5 * time.Second

// Syncer triggers a target-allocation re-sync on demand.
type Syncer interface {
	Sync() (int, error)
}

// Trader runs the rebalancing loop: aggregate holdings, value them, analyze
// divergences, then size and submit orders one at a time. Each cycle is
// strictly sequential; a failed fetch aborts the cycle, never the process.
type Trader struct {
	Balances exchange.BalanceSource
	Prices   exchange.PriceSource
	Rules    exchange.RuleSource
	Store    *store.Store
	Valuer   *portfolio.Valuer
	Analyzer *strategy.Analyzer
	Executor *Executor
	Notifier Messenger
	State    *State
	Sheet    Syncer
	Interval time.Duration
	DryRun   bool

	ruleBook *sizing.RuleBook
}

// Run executes cycles until the context is cancelled. While the running
// flag is off, the loop idles without touching the exchange.
func (t *Trader) Run(ctx context.Context) {
	log.Printf("[INFO] trading loop started, interval %v", t.Interval)
	for {
		if ctx.Err() != nil {
			log.Println("[INFO] trading loop stopped")
			return
		}
		if !t.State.IsRunning() {
			sleep(ctx, pauseIdle)
			continue
		}

		if err := t.runCycle(ctx); err != nil {
			log.Printf("[ERROR] cycle aborted: %v", err)
			t.trySend(ctx, fmt.Sprintf("❌ Rebalancing cycle aborted: %v", err))
		} else {
			t.State.MarkCycle()
		}

		sleep(ctx, t.Interval)
	}
}

func (t *Trader) runCycle(ctx context.Context) error {
	log.Println("[INFO] starting rebalancing cycle")

	valued, total, err := t.valuePortfolio()
	if err != nil {
		return err
	}
	log.Printf("[INFO] portfolio valued at %.2f across %d assets", total, len(valued))
	for _, vh := range valued {
		log.Printf("[INFO]   %s: qty=%.8f price=%.8f value=%.2f share=%.2f%%",
			vh.Symbol, vh.Quantity, vh.Price, vh.Value, vh.Percentage)
	}

	targets, err := t.Store.AllTargets()
	if err != nil {
		return fmt.Errorf("load targets: %w", err)
	}

	recommendations := t.Analyzer.Analyze(valued, total, targets)
	for _, rec := range recommendations {
		log.Printf("[INFO] %s: action=%s divergence=%+.2f%% qty=%.8f %s",
			rec.Symbol, rec.Action, rec.Divergence, rec.Quantity, rec.Reason)
	}

	rules, err := t.ensureRules()
	if err != nil {
		return err
	}

	// Orders go out one at a time, in list order. No concurrency here:
	// venue-side rate limits are per account, not per symbol.
	for _, rec := range recommendations {
		t.Executor.Execute(ctx, rec, rules)
	}

	t.recordCycle(valued, total, recommendations)
	t.trySend(ctx, notifier.FormatCycleReport(valued, total, recommendations))
	log.Println("[INFO] cycle complete")
	return nil
}

func (t *Trader) valuePortfolio() ([]model.ValuedHolding, float64, error) {
	balances, err := t.Balances.FetchBalances()
	if err != nil {
		return nil, 0, fmt.Errorf("fetch balances: %w", err)
	}
	walletBalances, err := t.Store.AllWalletBalances()
	if err != nil {
		return nil, 0, fmt.Errorf("load wallet ledger: %w", err)
	}
	combined := portfolio.Combine(balances, walletBalances)

	prices, err := t.Prices.FetchAllPrices()
	if err != nil {
		return nil, 0, fmt.Errorf("fetch prices: %w", err)
	}

	valued, total := t.Valuer.Value(combined, prices)
	return valued, total, nil
}

// ensureRules fetches exchange trading rules on first use and caches them:
// rules change rarely, and the loop should not re-download venue metadata
// every cycle.
func (t *Trader) ensureRules() (*sizing.RuleBook, error) {
	if t.ruleBook != nil {
		return t.ruleBook, nil
	}
	rules, err := t.Rules.FetchRules()
	if err != nil {
		return nil, fmt.Errorf("fetch exchange rules: %w", err)
	}
	t.ruleBook = sizing.NewRuleBook(rules)
	log.Printf("[INFO] exchange rules loaded for %d pairs", t.ruleBook.Len())
	return t.ruleBook, nil
}

func (t *Trader) recordCycle(valued []model.ValuedHolding, total float64, recs []*model.Recommendation) {
	snap := &store.CycleSnapshot{
		PortfolioValue: total,
		AssetCount:     len(valued),
	}
	for _, rec := range recs {
		switch rec.Action {
		case model.ActionBuy:
			snap.BuyCount++
		case model.ActionSell:
			snap.SellCount++
		case model.ActionHold:
			snap.HoldCount++
		case model.ActionLiquidate:
			snap.LiquidateCount++
		}
	}
	if err := t.Store.RecordCycle(snap); err != nil {
		log.Printf("[ERROR] record cycle: %v", err)
	}
}

// HandleCommand processes a Telegram command and returns a reply.
func (t *Trader) HandleCommand(command string) string {
	switch command {
	case "/pause":
		t.State.SetRunning(false)
		log.Println("[INFO] trading loop paused by command")
		return "⏸ Trading loop paused. /resume to continue."
	case "/resume":
		t.State.SetRunning(true)
		log.Println("[INFO] trading loop resumed by command")
		return "▶️ Trading loop resumed."
	case "/status":
		return notifier.FormatStatus(t.State.IsRunning(), t.DryRun, t.State.Cycles(), t.State.LastCycle())
	case "/portfolio":
		valued, total, err := t.valuePortfolio()
		if err != nil {
			return fmt.Sprintf("❌ Portfolio lookup failed: %v", err)
		}
		return notifier.FormatPortfolio(valued, total)
	case "/sync":
		count, err := t.Sheet.Sync()
		if err != nil {
			return fmt.Sprintf("❌ Target sync failed: %v", err)
		}
		return fmt.Sprintf("🔄 Target allocations re-synced: %d rows.", count)
	default:
		return "Commands:\n/status\n/pause\n/resume\n/portfolio\n/sync"
	}
}

func (t *Trader) trySend(ctx context.Context, text string) {
	if err := t.Notifier.SendWithRetry(ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
