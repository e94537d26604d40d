// feedwatch connects to the live market-data feed and prints the reduced
// view state to the console.
//
// Usage:
//
//	go run ./cmd/feedwatch --config configs/feedwatch.example.yaml
//	go run ./cmd/feedwatch --config configs/feedwatch.example.yaml --symbol ETHUSDT
//
// With no --symbol it watches the paginated ticker table; with a symbol it
// watches that symbol's candle series.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tickerdash/feedclient/internal/config"
	"github.com/tickerdash/feedclient/internal/feed"
	"github.com/tickerdash/feedclient/internal/transport"
	"github.com/tickerdash/feedclient/internal/version"
	"github.com/tickerdash/feedclient/internal/visibility"
)

func main() {
	configPath := flag.String("config", "configs/feedwatch.example.yaml", "path to config file")
	symbol := flag.String("symbol", "", "watch one symbol's candles instead of the ticker table")
	page := flag.Int("page", 1, "initial table page")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	logger.Info("feedwatch", "version", version.String())

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctrlCfg := feed.Config{
		Endpoint: cfg.Feed.Endpoint,
		Policy:   feed.RetryPolicy{Delay: cfg.Feed.ReconnectDelay},
		Transport: transport.Config{
			HandshakeTimeout: cfg.Transport.HandshakeTimeout,
			WriteTimeout:     cfg.Transport.WriteTimeout,
			MessageBuffer:    cfg.Transport.MessageBuffer,
		},
	}

	// A terminal process has no background tab to gate on.
	vis := visibility.NewWatcher()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	if *symbol != "" {
		watchDetail(ctrlCfg, *symbol, vis, logger, sigCh, ticker.C)
		return
	}
	watchTable(ctrlCfg, *page, cfg.Feed.PageSize, vis, logger, sigCh, ticker.C)
}

func watchTable(cfg feed.Config, page, pageSize int, vis *visibility.Watcher, logger *slog.Logger, sigCh <-chan os.Signal, tick <-chan time.Time) {
	table := feed.NewTable(cfg, page, pageSize, vis, logger)
	defer table.Shutdown()
	table.Connect()

	for {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			return
		case <-tick:
			printTable(table)
		}
	}
}

func watchDetail(cfg feed.Config, symbol string, vis *visibility.Watcher, logger *slog.Logger, sigCh <-chan os.Signal, tick <-chan time.Time) {
	detail := feed.NewDetail(cfg, symbol, vis, logger)
	defer detail.Shutdown()
	detail.Connect()

	for {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			return
		case <-tick:
			printDetail(detail)
		}
	}
}

func printTable(table *feed.Table) {
	fmt.Printf("--- %s", statusLine(table.Live(), table.LastError()))

	p := table.Snapshot()
	if len(p.Rows) == 0 {
		fmt.Println("(no data yet)")
		return
	}

	fmt.Printf("page %d/%d, %d symbols total\n", p.Page, p.PageCount(), p.Total)
	for _, row := range p.Rows {
		fmt.Printf("%-12s price=%-14s volume=%s\n", row.Symbol, row.Price, row.Volume)
	}
}

func printDetail(detail *feed.Detail) {
	fmt.Printf("--- %s %s", detail.Symbol(), statusLine(detail.Live(), detail.LastError()))

	series := detail.Series()
	if len(series) == 0 {
		fmt.Println("(no data yet)")
		return
	}

	last := series[len(series)-1]
	fmt.Printf("%d candles, latest %s close=%s change=%s\n",
		len(series),
		last.EventTime.Format(time.RFC3339),
		last.Close,
		last.PriceChange,
	)
}

func statusLine(live bool, lastErr string) string {
	status := "disconnected"
	if live {
		status = "live"
	}
	if lastErr != "" {
		return fmt.Sprintf("[%s] last error: %s\n", status, lastErr)
	}
	return fmt.Sprintf("[%s]\n", status)
}
