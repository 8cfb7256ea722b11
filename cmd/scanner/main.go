package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/engine"
	"solana-arb-scanner/internal/market"
	"solana-arb-scanner/internal/observability"
	"solana-arb-scanner/internal/storage"
	chstore "solana-arb-scanner/internal/storage/clickhouse"
	"solana-arb-scanner/internal/storage/memory"
	"solana-arb-scanner/internal/storage/migrations"
	pgstore "solana-arb-scanner/internal/storage/postgres"
)

func main() {
	_ = godotenv.Load()

	venues := flag.String("venues", envOr("VENUES", ""), "Comma-separated venue feeds as name=url (http/https polls REST, ws/wss streams)")
	scanInterval := flag.Duration("scan-interval", 5*time.Second, "Interval between scan cycles")
	minProfit := flag.Float64("min-profit", 10.0, "Minimum net profit for a route to be reported")
	maxSlippage := flag.Float64("max-slippage", 0.02, "Maximum tolerated price-impact fraction per route")
	hopCost := flag.Float64("hop-cost", 0.01, "Fixed execution cost per hop")
	feeRate := flag.Float64("fee-rate", 0.003, "AMM fee rate applied to every synthetic pool")
	directThreshold := flag.Float64("direct-threshold", 0.5, "Minimum cross-venue spread percentage for direct candidates")
	baseTokens := flag.String("base-tokens", "SOL,USDC,USDT", "Comma-separated base tokens for triangular search")
	topK := flag.Int("top-k", 10, "Maximum number of ranked routes per scan")
	cacheTTL := flag.Duration("cache-ttl", 5*time.Second, "Quote cache TTL for venue fallback")
	postgresDSN := flag.String("postgres-dsn", envOr("POSTGRES_DSN", ""), "PostgreSQL connection string for scan history")
	clickhouseDSN := flag.String("clickhouse-dsn", envOr("CLICKHOUSE_DSN", ""), "ClickHouse connection string for quote history")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	httpAddr := flag.String("http-addr", ":8080", "HTTP address for health, metrics and status endpoints")

	flag.Parse()

	logger := log.New(os.Stdout, "[scanner] ", log.LstdFlags|log.Lshortfile)

	cfg := domain.DefaultScanConfig()
	cfg.MinProfit = decimal.NewFromFloat(*minProfit)
	cfg.MaxSlippage = decimal.NewFromFloat(*maxSlippage)
	cfg.HopCost = decimal.NewFromFloat(*hopCost)
	cfg.FeeRate = decimal.NewFromFloat(*feeRate)
	cfg.DirectThresholdPct = decimal.NewFromFloat(*directThreshold)
	cfg.BaseTokens = splitList(*baseTokens)
	cfg.TopK = *topK
	cfg.CacheTTL = *cacheTTL

	ctx, cancel := context.WithCancel(context.Background())

	sources, closeSources, err := buildSources(ctx, *venues)
	if err != nil {
		logger.Fatalf("Configure venues: %v", err)
	}
	if len(sources) == 0 {
		logger.Fatal("No venues specified. Use --venues name=url[,name=url...]")
	}
	defer closeSources()

	if !*useMemory && *postgresDSN == "" {
		logger.Fatal("--postgres-dsn is required (use --use-memory for in-memory storage)")
	}

	var scanStore storage.ScanStore = memory.NewScanStore()
	var routeStore storage.RouteStore = memory.NewRouteStore()
	var historyStore storage.QuoteHistoryStore = memory.NewQuoteHistoryStore()

	if !*useMemory {
		pool, err := pgstore.NewPool(ctx, *postgresDSN)
		if err != nil {
			logger.Fatalf("Connect to postgres: %v", err)
		}
		defer pool.Close()

		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatalf("Run postgres migrations: %v", err)
		}

		scanStore = pgstore.NewScanStore(pool)
		routeStore = pgstore.NewRouteStore(pool)
	}

	if *clickhouseDSN != "" {
		conn, err := migrations.RunClickhouseMigrations(ctx, *clickhouseDSN)
		if err != nil {
			logger.Fatalf("Run clickhouse migrations: %v", err)
		}
		defer conn.Close()
		historyStore = chstore.NewQuoteHistoryStore(conn)
	}

	aggregator := market.NewAggregator(market.AggregatorOptions{
		Sources:  sources,
		CacheTTL: cfg.CacheTTL,
		Logger:   logger,
	})
	scanner := engine.NewScanner(engine.ScannerOptions{
		Config: cfg,
		Logger: logger,
	})

	srv := &server{logger: logger, scanStore: scanStore, routeStore: routeStore}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/status", srv.handleStatus)
	mux.HandleFunc("/routes", srv.handleRoutes)

	httpSrv := &http.Server{Addr: *httpAddr, Handler: mux}
	go func() {
		logger.Printf("HTTP server listening on %s", *httpAddr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Printf("HTTP server error: %v", err)
		}
	}()

	// Handle shutdown signals with graceful timeout
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})

	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, initiating graceful shutdown...", sig)
		cancel()

		select {
		case sig := <-sigCh:
			logger.Printf("Received second signal %v, forcing immediate shutdown", sig)
			os.Exit(1)
		case <-time.After(30 * time.Second):
			logger.Println("Graceful shutdown timed out after 30s, forcing exit")
			os.Exit(1)
		case <-done:
			// Normal shutdown completed
		}
	}()

	logger.Printf("Scanning %d venues every %v (min profit %s, bases %v)",
		len(sources), *scanInterval, cfg.MinProfit, cfg.BaseTokens)
	runLoop(ctx, logger, aggregator, scanner, srv, historyStore, *scanInterval)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	httpSrv.Shutdown(shutdownCtx)
	shutdownCancel()

	close(done)
	logger.Println("Shutdown complete")
}

// runLoop runs scan cycles until the context is cancelled. The first cycle
// starts immediately rather than waiting a full interval.
func runLoop(ctx context.Context, logger *log.Logger, aggregator *market.Aggregator,
	scanner *engine.Scanner, srv *server, historyStore storage.QuoteHistoryStore, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runCycle(ctx, logger, aggregator, scanner, srv, historyStore)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// runCycle executes one snapshot+scan+persist cycle. Failures are logged and
// counted, never fatal; the next tick retries from scratch.
func runCycle(ctx context.Context, logger *log.Logger, aggregator *market.Aggregator,
	scanner *engine.Scanner, srv *server, historyStore storage.QuoteHistoryStore) {

	started := time.Now()

	snapshot, err := aggregator.Snapshot(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Printf("Snapshot failed: %v", err)
		observability.RecordScan("snapshot_error", time.Since(started).Seconds(), 0, 0)
		return
	}

	result, err := scanner.Scan(ctx, snapshot)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logger.Printf("Scan failed: %v", err)
		observability.RecordScan("scan_error", time.Since(started).Seconds(), len(snapshot), 0)
		return
	}

	for _, r := range result.Routes {
		observability.RecordRouteFound(string(r.Kind))
	}
	observability.RecordScan("ok", time.Since(started).Seconds(), result.Symbols, result.PathsEvaluated)

	srv.setLastResult(result)
	persist(ctx, logger, srv, historyStore, result, snapshot)
}

// persist writes the scan, its routes and the quote snapshot. Storage errors
// are logged but do not interrupt scanning.
func persist(ctx context.Context, logger *log.Logger, srv *server,
	historyStore storage.QuoteHistoryStore, result *domain.ScanResult, snapshot domain.QuoteSnapshot) {

	if err := srv.scanStore.Insert(ctx, result); err != nil {
		logger.Printf("WARN: persist scan %s: %v", result.ScanID, err)
		return
	}
	if err := srv.routeStore.InsertBulk(ctx, result.ScanID, result.Routes); err != nil {
		logger.Printf("WARN: persist routes for %s: %v", result.ScanID, err)
	}

	var quotes []*domain.Quote
	for _, symbolQuotes := range snapshot {
		quotes = append(quotes, symbolQuotes...)
	}
	if err := historyStore.InsertBulk(ctx, result.ScanID, quotes); err != nil {
		logger.Printf("WARN: persist quote history for %s: %v", result.ScanID, err)
	}
}

// server exposes the latest scan over HTTP.
type server struct {
	logger     *log.Logger
	scanStore  storage.ScanStore
	routeStore storage.RouteStore

	mu         sync.RWMutex
	lastResult *domain.ScanResult
}

func (s *server) setLastResult(result *domain.ScanResult) {
	s.mu.Lock()
	s.lastResult = result
	s.mu.Unlock()
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleStatus returns the latest scan's metadata without its route list.
func (s *server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	last := s.lastResult
	s.mu.RUnlock()

	if last == nil {
		http.Error(w, "no scan completed yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, map[string]interface{}{
		"scan_id":         last.ScanID,
		"started_at":      last.StartedAt,
		"finished_at":     last.FinishedAt,
		"symbols":         last.Symbols,
		"pools":           last.Pools,
		"paths_evaluated": last.PathsEvaluated,
		"routes_found":    len(last.Routes),
		"differences":     len(last.Differences),
	})
}

// handleRoutes returns the latest scan's ranked routes and price differences.
func (s *server) handleRoutes(w http.ResponseWriter, _ *http.Request) {
	s.mu.RLock()
	last := s.lastResult
	s.mu.RUnlock()

	if last == nil {
		http.Error(w, "no scan completed yet", http.StatusServiceUnavailable)
		return
	}

	writeJSON(w, last)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// buildSources creates one quote source per name=url entry. A ws:// or wss://
// scheme selects the streaming source, anything else polls REST.
func buildSources(ctx context.Context, venues string) ([]market.QuoteSource, func(), error) {
	var sources []market.QuoteSource
	var closers []func()

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	for _, entry := range splitList(venues) {
		name, endpoint, ok := strings.Cut(entry, "=")
		if !ok || name == "" || endpoint == "" {
			closeAll()
			return nil, nil, fmt.Errorf("malformed venue entry %q, want name=url", entry)
		}

		if strings.HasPrefix(endpoint, "ws://") || strings.HasPrefix(endpoint, "wss://") {
			ws, err := market.NewWSSource(ctx, name, endpoint, nil)
			if err != nil {
				closeAll()
				return nil, nil, fmt.Errorf("connect venue %s: %w", name, err)
			}
			closers = append(closers, func() { ws.Close() })
			sources = append(sources, ws)
			continue
		}

		sources = append(sources, market.NewHTTPSource(name, endpoint))
	}

	return sources, closeAll, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
