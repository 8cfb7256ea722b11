package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"solana-arb-scanner/internal/domain"
	"solana-arb-scanner/internal/storage"
)

func testRoutes() []*domain.RouteCandidate {
	return []*domain.RouteCandidate{
		{
			Kind: domain.RouteDirect,
			Direct: &domain.DirectRoute{
				Symbol:    "SOL/USDC",
				BuyVenue:  "orca",
				SellVenue: "raydium",
				LowPrice:  decimal.NewFromFloat(89.50),
				HighPrice: decimal.NewFromFloat(91.00),
			},
			InputAmount: decimal.NewFromInt(22346),
			NetProfit:   decimal.NewFromInt(33500),
			Confidence:  0.17,
		},
		{
			Kind: domain.RouteTriangular,
			Triangular: &domain.TriangularRoute{
				Base: "SOL",
				Path: []string{"SOL", "RAY", "USDC", "SOL"},
			},
			InputAmount: decimal.NewFromInt(1000),
			NetProfit:   decimal.NewFromInt(25),
			Confidence:  0.6,
		},
	}
}

func TestRouteStore_InsertBulkAndGet(t *testing.T) {
	store := NewRouteStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "scan-1", testRoutes()); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	routes, err := store.GetByScanID(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetByScanID failed: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("Expected 2 routes, got %d", len(routes))
	}

	// Rank order preserved.
	if routes[0].Kind != domain.RouteDirect {
		t.Errorf("Expected direct route first, got %s", routes[0].Kind)
	}
	if routes[0].Direct.Symbol != "SOL/USDC" {
		t.Errorf("Direct payload mismatch: %+v", routes[0].Direct)
	}
	if len(routes[1].Triangular.Path) != 4 {
		t.Errorf("Triangular path mismatch: %v", routes[1].Triangular.Path)
	}
}

func TestRouteStore_DuplicateScanID(t *testing.T) {
	store := NewRouteStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "scan-1", testRoutes()); err != nil {
		t.Fatalf("First insert failed: %v", err)
	}

	err := store.InsertBulk(ctx, "scan-1", testRoutes())
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("Expected ErrDuplicateKey, got %v", err)
	}
}

func TestRouteStore_UnknownScanID(t *testing.T) {
	store := NewRouteStore()

	routes, err := store.GetByScanID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("GetByScanID failed: %v", err)
	}
	if len(routes) != 0 {
		t.Errorf("Expected no routes, got %d", len(routes))
	}
}

func TestRouteStore_EmptyRouteListAllowed(t *testing.T) {
	store := NewRouteStore()
	ctx := context.Background()

	// A scan with no profitable routes still records the empty outcome.
	if err := store.InsertBulk(ctx, "scan-1", nil); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	routes, err := store.GetByScanID(ctx, "scan-1")
	if err != nil {
		t.Fatalf("GetByScanID failed: %v", err)
	}
	if len(routes) != 0 {
		t.Errorf("Expected 0 routes, got %d", len(routes))
	}
}

func TestRouteStore_CopyOnRead(t *testing.T) {
	store := NewRouteStore()
	ctx := context.Background()

	if err := store.InsertBulk(ctx, "scan-1", testRoutes()); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	first, _ := store.GetByScanID(ctx, "scan-1")
	first[0].Direct.Symbol = "MUTATED"
	first[1].Triangular.Path[0] = "MUTATED"

	second, _ := store.GetByScanID(ctx, "scan-1")
	if second[0].Direct.Symbol != "SOL/USDC" {
		t.Error("Direct payload was mutated through returned copy")
	}
	if second[1].Triangular.Path[0] != "SOL" {
		t.Error("Triangular path was mutated through returned copy")
	}
}
