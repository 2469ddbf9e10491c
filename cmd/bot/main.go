package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"CoinBalancer/internal/config"
	"CoinBalancer/internal/exchange"
	"CoinBalancer/internal/notifier"
	"CoinBalancer/internal/portfolio"
	"CoinBalancer/internal/sheet"
	"CoinBalancer/internal/store"
	"CoinBalancer/internal/strategy"
	"CoinBalancer/internal/trader"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CoinBalancer starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}
	if cfg.Exchange.DryRun {
		log.Println("[INFO] dry-run mode: orders go to the exchange test endpoint")
	}

	// Open persistent store
	st, err := store.Open(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()

	// Init exchange client
	client := exchange.NewClient(
		cfg.Exchange.BaseURL, cfg.Exchange.APIKey, cfg.Exchange.APISecret,
		cfg.Exchange.QuoteAsset, cfg.Exchange.RecvWindow, cfg.Exchange.DryRun, cfg.Proxy,
	)

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	// Init sheet syncer
	syncer := &sheet.Syncer{
		Reader: sheet.NewReader(cfg.Sheet.URL, cfg.Proxy),
		Store:  st,
	}

	// Core pipeline
	valuer := portfolio.NewValuer(cfg.Exchange.QuoteAsset)
	analyzer := &strategy.Analyzer{
		MaxDivergence:      cfg.Rebalance.MaxDivergence,
		MinOrderValue:      cfg.Rebalance.MinOrderValue,
		AllowSellBelowCost: cfg.Rebalance.AllowSellBelowCost,
	}
	tracker := &strategy.Tracker{Store: st}
	executor := &trader.Executor{
		Orders:   client,
		Tracker:  tracker,
		Audit:    st,
		Notifier: tn,
		PairFor:  valuer.Pair,
	}

	tr := &trader.Trader{
		Balances: client,
		Prices:   client,
		Rules:    client,
		Store:    st,
		Valuer:   valuer,
		Analyzer: analyzer,
		Executor: executor,
		Notifier: tn,
		State:    trader.NewState(),
		Sheet:    syncer,
		Interval: cfg.Interval(),
		DryRun:   cfg.Exchange.DryRun,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Scheduled jobs: periodic target re-sync and a daily portfolio push
	sched := cron.New(cron.WithSeconds())
	if _, err := sched.AddFunc(cfg.Sheet.SyncCron, func() {
		if _, err := syncer.Sync(); err != nil {
			log.Printf("[ERROR] scheduled sheet sync: %v", err)
		}
	}); err != nil {
		log.Fatalf("[FATAL] register sheet sync job: %v", err)
	}
	if _, err := sched.AddFunc(cfg.Rebalance.ReportCron, func() {
		reply := tr.HandleCommand("/portfolio")
		if err := tn.SendWithRetry(ctx, reply, 3); err != nil {
			log.Printf("[ERROR] send daily report: %v", err)
		}
	}); err != nil {
		log.Fatalf("[FATAL] register daily report job: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: sync targets immediately on start
	if os.Getenv("SYNC_ON_START") == "true" {
		log.Println("[INFO] SYNC_ON_START enabled, syncing targets now")
		if _, err := syncer.Sync(); err != nil {
			log.Printf("[ERROR] startup sheet sync: %v", err)
		}
	}

	// Start Telegram polling and the trading loop
	go tn.StartPolling(ctx, tr.HandleCommand)
	log.Println("[INFO] Telegram polling started")
	go tr.Run(ctx)

	log.Println("[INFO] CoinBalancer is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] CoinBalancer stopped")
}
