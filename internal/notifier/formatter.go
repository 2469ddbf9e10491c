package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"CoinBalancer/internal/model"
)

var actionEmoji = map[model.Action]string{
	model.ActionBuy:       "🟢",
	model.ActionSell:      "🔴",
	model.ActionHold:      "⚪",
	model.ActionLiquidate: "⛔",
}

// FormatCycleReport formats one rebalancing cycle into a Telegram message:
// the valued portfolio followed by every recommendation and its divergence.
func FormatCycleReport(valued []model.ValuedHolding, total float64, recs []*model.Recommendation) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>CoinBalancer cycle</b> | %s\n\n", time.Now().Format("2006-01-02 15:04")))
	b.WriteString(FormatPortfolio(valued, total))

	b.WriteString("\n🧭 <b>Recommendations:</b>\n")
	for _, r := range recs {
		b.WriteString(fmt.Sprintf("  %s %s: %s", actionEmoji[r.Action], r.Symbol, r.Action))
		switch r.Action {
		case model.ActionHold:
			b.WriteString(fmt.Sprintf(" (Δ %+.2f%%)", r.Divergence))
			if r.Reason != "" {
				b.WriteString(" — " + r.Reason)
			}
		case model.ActionLiquidate:
			b.WriteString(fmt.Sprintf(" %.8f — %s", r.Quantity, r.Reason))
		default:
			b.WriteString(fmt.Sprintf(" %.8f @ %s (Δ %+.2f%%)", r.Quantity, humanize.Commaf(r.Price), r.Divergence))
		}
		b.WriteString(fmt.Sprintf(" [%s]\n", r.Status))
	}

	return b.String()
}

// FormatPortfolio formats the valued holdings and portfolio total.
func FormatPortfolio(valued []model.ValuedHolding, total float64) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💼 <b>Portfolio:</b> $%s\n", humanize.CommafWithDigits(total, 2)))
	for _, vh := range valued {
		b.WriteString(fmt.Sprintf("  %s: %.2f%% ($%s @ $%s)\n",
			vh.Symbol, vh.Percentage,
			humanize.CommafWithDigits(vh.Value, 2),
			humanize.Commaf(vh.Price)))
	}
	return b.String()
}

// FormatOrderNotice formats the outcome of one order attempt.
func FormatOrderNotice(order *model.Order, status model.RecommendationStatus, note string) string {
	var b strings.Builder
	switch status {
	case model.StatusExecuted, model.StatusSubmitted:
		b.WriteString("✅ <b>Order placed</b>\n")
	default:
		b.WriteString("🚫 <b>Order rejected</b>\n")
	}
	b.WriteString(fmt.Sprintf("%s %s %s @ %s (%s %s)\n",
		order.Side, order.Pair, order.Quantity, order.Price, order.Type, order.TimeInForce))
	if note != "" {
		b.WriteString(note + "\n")
	}
	return b.String()
}

// FormatStatus formats the bot's runtime state for the /status command.
func FormatStatus(running, dryRun bool, cycles int, lastCycle time.Time) string {
	var b strings.Builder
	b.WriteString("🤖 <b>CoinBalancer status</b>\n\n")
	if running {
		b.WriteString("State: running\n")
	} else {
		b.WriteString("State: paused\n")
	}
	if dryRun {
		b.WriteString("Mode: dry-run (test orders only)\n")
	} else {
		b.WriteString("Mode: live trading\n")
	}
	b.WriteString(fmt.Sprintf("Cycles completed: %d\n", cycles))
	if !lastCycle.IsZero() {
		b.WriteString(fmt.Sprintf("Last cycle: %s\n", humanize.Time(lastCycle)))
	}
	return b.String()
}
