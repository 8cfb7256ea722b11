package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSourceFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"symbol":"SOL/USDC","price":"89.50","volume_24h":"12000000","liquidity":"8000000","timestamp":1756700000000},
			{"symbol":"RAY/USDC","price":"2.50","liquidity":"1000000","timestamp":1756700000000}
		]`))
	}))
	defer server.Close()

	src := NewHTTPSource("orca", server.URL)
	quotes, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 2)

	q := quotes[0]
	assert.Equal(t, "SOL/USDC", q.Symbol)
	assert.Equal(t, "orca", q.Source)
	assert.True(t, q.Price.Equal(decimal.NewFromFloat(89.50)))
	assert.True(t, q.Liquidity.Equal(decimal.NewFromInt(8000000)))
	assert.Equal(t, int64(1756700000000), q.Timestamp)

	// Missing volume defaults to zero, not an error.
	assert.True(t, quotes[1].Volume24h.IsZero())
}

func TestHTTPSourceSkipsMalformedEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"symbol":"SOL/USDC","price":"not-a-number"},
			{"symbol":"RAY/USDC","price":"2.50"}
		]`))
	}))
	defer server.Close()

	src := NewHTTPSource("orca", server.URL)
	quotes, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, "RAY/USDC", quotes[0].Symbol)
}

func TestHTTPSourceRetriesOnServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[{"symbol":"SOL/USDC","price":"90"}]`))
	}))
	defer server.Close()

	src := NewHTTPSource("orca", server.URL, WithRetryDelay(time.Millisecond))
	quotes, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, quotes, 1)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPSourceExhaustsRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	src := NewHTTPSource("orca", server.URL,
		WithRetryDelay(time.Millisecond), WithMaxRetries(1))
	_, err := src.Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "orca")
}

func TestHTTPSourceMissingTimestampDefaultsToNow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"symbol":"SOL/USDC","price":"90"}]`))
	}))
	defer server.Close()

	before := time.Now().UnixMilli()
	quotes, err := NewHTTPSource("orca", server.URL).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.GreaterOrEqual(t, quotes[0].Timestamp, before)
}
