package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/engine"
	"solana-arb-scanner/internal/market"
)

func main() {
	quotesFile := flag.String("quotes-file", "", "JSON file mapping venue name to a quote array (offline mode)")
	venues := flag.String("venues", "", "Comma-separated live venue feeds as name=url")
	minProfit := flag.Float64("min-profit", 10.0, "Minimum net profit for a route to be reported")
	hopCost := flag.Float64("hop-cost", 0.01, "Fixed execution cost per hop")
	baseTokens := flag.String("base-tokens", "SOL,USDC,USDT", "Comma-separated base tokens for triangular search")
	topK := flag.Int("top-k", 10, "Maximum number of ranked routes")
	asJSON := flag.Bool("json", false, "Emit the full scan result as JSON instead of text")
	flag.Parse()

	if (*quotesFile == "") == (*venues == "") {
		fmt.Fprintln(os.Stderr, "Error: exactly one of --quotes-file or --venues is required")
		os.Exit(1)
	}

	cfg := domain.DefaultScanConfig()
	cfg.MinProfit = decimal.NewFromFloat(*minProfit)
	cfg.HopCost = decimal.NewFromFloat(*hopCost)
	cfg.BaseTokens = splitList(*baseTokens)
	cfg.TopK = *topK

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var sources []market.QuoteSource
	if *quotesFile != "" {
		var err error
		sources, err = loadFixtureSources(*quotesFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading quotes file: %v\n", err)
			os.Exit(1)
		}
	} else {
		for _, entry := range splitList(*venues) {
			name, endpoint, ok := strings.Cut(entry, "=")
			if !ok || name == "" || endpoint == "" {
				fmt.Fprintf(os.Stderr, "Error: malformed venue entry %q, want name=url\n", entry)
				os.Exit(1)
			}
			sources = append(sources, market.NewHTTPSource(name, endpoint))
		}
	}

	aggregator := market.NewAggregator(market.AggregatorOptions{Sources: sources})
	scanner := engine.NewScanner(engine.ScannerOptions{Config: cfg})

	snapshot, err := aggregator.Snapshot(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching quotes: %v\n", err)
		os.Exit(1)
	}

	result, err := scanner.Scan(ctx, snapshot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding result: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printResult(result)
}

// fixtureQuote mirrors the REST quote payload so the same fixture files work
// for offline scans and for stubbing venue endpoints.
type fixtureQuote struct {
	Symbol      string `json:"symbol"`
	Price       string `json:"price"`
	Volume24h   string `json:"volume_24h"`
	Liquidity   string `json:"liquidity"`
	PoolAddress string `json:"pool_address"`
	Timestamp   int64  `json:"timestamp"`
}

// loadFixtureSources reads a venue->quotes JSON file and wraps each venue in a
// static source.
func loadFixtureSources(path string) ([]market.QuoteSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var byVenue map[string][]fixtureQuote
	if err := json.Unmarshal(data, &byVenue); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(byVenue) == 0 {
		return nil, fmt.Errorf("%s contains no venues", path)
	}

	now := time.Now().UnixMilli()

	var sources []market.QuoteSource
	for venue, payloads := range byVenue {
		quotes := make([]*domain.Quote, 0, len(payloads))
		for i, p := range payloads {
			q, err := fixtureToQuote(venue, p, now)
			if err != nil {
				return nil, fmt.Errorf("venue %s quote %d: %w", venue, i, err)
			}
			quotes = append(quotes, q)
		}
		sources = append(sources, market.NewStaticSource(venue, quotes))
	}
	return sources, nil
}

func fixtureToQuote(venue string, p fixtureQuote, now int64) (*domain.Quote, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return nil, fmt.Errorf("price %q: %w", p.Price, err)
	}

	volume := decimal.Zero
	if p.Volume24h != "" {
		if volume, err = decimal.NewFromString(p.Volume24h); err != nil {
			return nil, fmt.Errorf("volume %q: %w", p.Volume24h, err)
		}
	}

	liquidity := decimal.Zero
	if p.Liquidity != "" {
		if liquidity, err = decimal.NewFromString(p.Liquidity); err != nil {
			return nil, fmt.Errorf("liquidity %q: %w", p.Liquidity, err)
		}
	}

	ts := p.Timestamp
	if ts == 0 {
		ts = now
	}

	return &domain.Quote{
		Symbol:      p.Symbol,
		Price:       price,
		Volume24h:   volume,
		Liquidity:   liquidity,
		Source:      venue,
		PoolAddress: p.PoolAddress,
		Timestamp:   ts,
	}, nil
}

func printResult(result *domain.ScanResult) {
	fmt.Printf("Scan %s: %d symbols, %d pools, %d paths evaluated\n",
		result.ScanID, result.Symbols, result.Pools, result.PathsEvaluated)

	if len(result.Differences) > 0 {
		fmt.Printf("\nPrice differences (%d):\n", len(result.Differences))
		for _, d := range result.Differences {
			fmt.Printf("  %-12s %s@%s -> %s@%s  spread %s%%\n",
				d.Symbol, d.LowPrice, d.BuyVenue, d.HighPrice, d.SellVenue,
				d.Percent.StringFixed(3))
		}
	}

	if len(result.Routes) == 0 {
		fmt.Println("\nNo profitable routes found.")
		return
	}

	fmt.Printf("\nRanked routes (%d):\n", len(result.Routes))
	for i, r := range result.Routes {
		fmt.Printf("  %2d. %s\n", i+1, describeRoute(r))
		fmt.Printf("      input %s  net profit %s  gas %s  confidence %.2f\n",
			r.InputAmount.StringFixed(2), r.NetProfit.StringFixed(2),
			r.GasCost.StringFixed(2), r.Confidence)
	}
}

func describeRoute(r *domain.RouteCandidate) string {
	switch r.Kind {
	case domain.RouteDirect:
		return fmt.Sprintf("direct %s: buy %s @ %s, sell %s @ %s",
			r.Direct.Symbol, r.Direct.BuyVenue, r.Direct.LowPrice,
			r.Direct.SellVenue, r.Direct.HighPrice)
	case domain.RouteTriangular:
		return fmt.Sprintf("triangular %s", strings.Join(r.Triangular.Path, " -> "))
	default:
		return string(r.Kind)
	}
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
