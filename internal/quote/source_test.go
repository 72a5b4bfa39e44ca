package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cylin-tw/line-daily-push/internal/config"
)

func yahooServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "Mozilla/5.0" {
			t.Errorf("missing browser User-Agent, got %q", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func finmindServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("dataset") != "TaiwanStockPrice" {
			t.Errorf("unexpected dataset %q", r.URL.Query().Get("dataset"))
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
}

func quoteConfig(yahooURL, finmindURL string) config.QuoteConfig {
	return config.QuoteConfig{
		Symbol:         "2330.TW",
		DataID:         "2330",
		YahooBaseURL:   yahooURL,
		FinMindBaseURL: finmindURL,
		Timeout:        5,
	}
}

func TestChainPrimarySucceeds(t *testing.T) {
	yahoo := yahooServer(t, http.StatusOK,
		`{"chart":{"result":[{"meta":{"regularMarketPrice":1045.5}}]}}`)
	defer yahoo.Close()

	cfg := quoteConfig(yahoo.URL, "http://unused.invalid")
	chain := NewChain(zap.NewNop(), NewYahooSource(cfg), NewFinMindSource(cfg))

	price, err := chain.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1045.5, price)
}

func TestChainFallsBackToSecondary(t *testing.T) {
	yahoo := yahooServer(t, http.StatusInternalServerError, "")
	defer yahoo.Close()

	finmind := finmindServer(t, http.StatusOK,
		`{"data":[{"date":"2026-08-27","close":1010},{"date":"2026-08-28","close":1030.5}]}`)
	defer finmind.Close()

	cfg := quoteConfig(yahoo.URL, finmind.URL)
	chain := NewChain(zap.NewNop(), NewYahooSource(cfg), NewFinMindSource(cfg))

	price, err := chain.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1030.5, price, "must be the close of the last series entry")
}

func TestChainAllSourcesFail(t *testing.T) {
	yahoo := yahooServer(t, http.StatusOK, `<html>blocked</html>`)
	defer yahoo.Close()

	finmind := finmindServer(t, http.StatusOK, `{"data":[]}`)
	defer finmind.Close()

	cfg := quoteConfig(yahoo.URL, finmind.URL)
	chain := NewChain(zap.NewNop(), NewYahooSource(cfg), NewFinMindSource(cfg))

	_, err := chain.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrNoSource)
}

func TestYahooMissingPriceField(t *testing.T) {
	yahoo := yahooServer(t, http.StatusOK, `{"chart":{"result":[{"meta":{}}]}}`)
	defer yahoo.Close()

	src := NewYahooSource(quoteConfig(yahoo.URL, ""))
	_, err := src.Fetch(context.Background())
	assert.Error(t, err)
}
