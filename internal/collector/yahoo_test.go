package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{
  "meta":{"symbol":"BBCA.JK","currency":"IDR","regularMarketPrice":9300,"regularMarketTime":1736208000,"previousClose":9200},
  "timestamp":[1736121600,1735862400,1736035200],
  "indicators":{"quote":[{
    "open":[9150,9000,null],
    "high":[9320,9100,null],
    "low":[9100,8950,null],
    "close":[9300,9050,null],
    "volume":[1500000,1200000,null]}]}}],"error":null}}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooSource {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	src := NewYahooSource(ClientOptions{RequestsPerSecond: 1000})
	src.BaseURL = srv.URL
	return src
}

func TestYahooSource_FetchHistory(t *testing.T) {
	var gotPath, gotQuery string
	src := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		_, _ = w.Write([]byte(chartBody))
	})

	series, err := src.FetchHistory(context.Background(), "BBCA.JK", "6mo")
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/BBCA.JK", gotPath)
	assert.Contains(t, gotQuery, "range=6mo")
	assert.Contains(t, gotQuery, "interval=1d")

	// null bar dropped, sorted oldest first
	require.Len(t, series.Bars, 2)
	assert.Equal(t, []float64{9050, 9300}, series.Closes())
}

func TestYahooSource_FetchHistoryRejectsPeriod(t *testing.T) {
	src := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})
	_, err := src.FetchHistory(context.Background(), "BBCA.JK", "7w")
	assert.Error(t, err)
}

func TestYahooSource_FetchQuote(t *testing.T) {
	src := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.RawQuery, "range=5d")
		_, _ = w.Write([]byte(chartBody))
	})

	q, err := src.FetchQuote(context.Background(), "BBCA.JK")
	require.NoError(t, err)
	assert.Equal(t, 9300.0, q.LastPrice)
	assert.InDelta(t, 100.0, q.Change, 1e-9)
	assert.InDelta(t, 100.0/9200*100, q.ChangePercent, 1e-9)
	assert.Equal(t, "yahoo", q.Source)
}

func TestYahooSource_SymbolMap(t *testing.T) {
	var gotPath string
	src := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(chartBody))
	})
	_, err := src.FetchQuote(context.Background(), "IHSG")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(gotPath, "%5EJKSE"), gotPath)
}

func TestYahooSource_Errors(t *testing.T) {
	src := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "EMPTY") {
			_, _ = w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
			return
		}
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	})

	_, err := src.FetchQuote(context.Background(), "EMPTY")
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = src.FetchQuote(context.Background(), "BBCA.JK")
	require.Error(t, err)
	var se *statusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.Code)

	_, err = src.FetchFundamentals(context.Background(), "BBCA.JK")
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_BreakerOpens(t *testing.T) {
	var calls atomic.Int32
	src := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "down", http.StatusBadGateway)
	})
	for i := 0; i < 5; i++ {
		_, err := src.FetchQuote(context.Background(), "BBCA.JK")
		require.Error(t, err)
	}
	_, err := src.FetchQuote(context.Background(), "BBCA.JK")
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(5), calls.Load())
}
