package engine

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"solana-arb-scanner/internal/domain"
)

// Scanner runs one scan cycle: quote snapshot in, ranked route list out.
// Every cycle is a pure, stateless transform; nothing persists between runs.
type Scanner struct {
	cfg       domain.ScanConfig
	evaluator *Evaluator
	logger    *log.Logger
}

// ScannerOptions contains configuration for creating a Scanner.
type ScannerOptions struct {
	Config domain.ScanConfig
	Logger *log.Logger
}

// NewScanner creates a new scanner.
func NewScanner(opts ScannerOptions) *Scanner {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Scanner{
		cfg:       opts.Config,
		evaluator: NewEvaluator(opts.Config),
		logger:    logger,
	}
}

// Scan analyzes the snapshot for profitable routes. Triangular search runs in
// parallel per base token; there is no shared mutable state between workers.
// The scan honors context cancellation between units of work.
func (s *Scanner) Scan(ctx context.Context, snapshot domain.QuoteSnapshot) (*domain.ScanResult, error) {
	started := time.Now()

	pools := BuildPools(snapshot, s.cfg.FeeRate)
	s.logger.Printf("Scanning %d symbols (%d synthetic pools)", len(snapshot), len(pools))

	triangular, pathCount, err := s.scanTriangular(ctx, pools)
	if err != nil {
		return nil, err
	}

	direct, err := s.scanDirect(ctx, snapshot)
	if err != nil {
		return nil, err
	}

	candidates := append(triangular, direct...)
	ranked := RankRoutes(candidates, s.cfg.MinProfit, s.cfg.TopK)

	finished := time.Now()
	result := &domain.ScanResult{
		ScanID:         fmt.Sprintf("scan-%d", started.UnixMilli()),
		StartedAt:      started.UnixMilli(),
		FinishedAt:     finished.UnixMilli(),
		Symbols:        len(snapshot),
		Pools:          len(pools),
		PathsEvaluated: pathCount,
		Routes:         ranked,
		Differences:    domain.PriceDifferences(snapshot, s.cfg.ReportThresholdPct),
	}

	s.logger.Printf("Found %d profitable routes (%d paths evaluated) in %v",
		len(ranked), pathCount, finished.Sub(started))
	return result, nil
}

// scanTriangular fans the per-base-token path evaluation out across
// goroutines and merges results in base-token order for determinism.
func (s *Scanner) scanTriangular(ctx context.Context, pools []*domain.PoolModel) ([]*domain.RouteCandidate, int, error) {
	g := buildGraph(pools)

	results := make([][]*domain.RouteCandidate, len(s.cfg.BaseTokens))
	counts := make([]int, len(s.cfg.BaseTokens))

	var wg sync.WaitGroup
	for i, base := range s.cfg.BaseTokens {
		wg.Add(1)
		go func(i int, base string) {
			defer wg.Done()

			paths := findPathsForBase(g, base)
			counts[i] = len(paths)

			for _, path := range paths {
				if ctx.Err() != nil {
					return
				}
				results[i] = append(results[i], s.evaluator.EvaluateTriangular(path, pools))
			}
		}(i, base)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	var merged []*domain.RouteCandidate
	total := 0
	for i := range results {
		merged = append(merged, results[i]...)
		total += counts[i]
	}
	return merged, total, nil
}

// scanDirect evaluates cross-venue spreads symbol by symbol, in sorted symbol
// order so identical snapshots yield identical candidate order.
func (s *Scanner) scanDirect(ctx context.Context, snapshot domain.QuoteSnapshot) ([]*domain.RouteCandidate, error) {
	symbols := make([]string, 0, len(snapshot))
	for symbol := range snapshot {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var candidates []*domain.RouteCandidate
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if c := s.evaluator.EvaluateDirect(symbol, snapshot[symbol]); c != nil {
			candidates = append(candidates, c)
		}
	}
	return candidates, nil
}
