package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	ws "github.com/gorilla/websocket"
	"github.com/lukehollenback/luno/config"
	"github.com/lukehollenback/luno/exchange"
	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/lukehollenback/luno/exchange/luno/streaming"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var responses = map[string]string{
	luno.BalancePath: `{"balance": [
		{"account_id": "1", "asset": "XBT", "balance": "0.5", "reserved": "0.1", "unconfirmed": "0"}
	]}`,
	luno.ListOrdersPath: `{"orders": null}`,
	luno.TickerPath: `{"pair": "ETHNGN", "timestamp": 1609241817077, "bid": "100", "ask": "101",
		"last_trade": "100.5", "rolling_24_hour_volume": "12", "status": "ACTIVE"}`,
	luno.OrderBookTopPath: `{"timestamp": 1609241817077,
		"asks": [{"price": "101", "volume": "1"}], "bids": [{"price": "99", "volume": "2"}]}`,
	luno.TradesPath: `{"trades": [
		{"sequence": 3, "timestamp": 1609241817077, "price": "100", "volume": "1", "is_buy": true}
	]}`,
	luno.CandlesPath: `{"pair": "XBTNGN", "duration": 300, "candles": [
		{"timestamp": 1609241700000, "open": "100", "high": "102", "low": "99", "close": "101", "volume": "2"}
	]}`,
}

//
// stubAPI serves the canned responses above, and a Luno-style error for anything else.
//
func stubAPI(w http.ResponseWriter, r *http.Request) {
	body, ok := responses[r.URL.Path]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error": "Not found", "error_code": "ErrNotFound"}`))

		return
	}

	w.Header().Set(luno.ContentTypeHeader, luno.JSONContentType)
	_, _ = w.Write([]byte(body))
}

//
// stubEnv points the configuration at the provided base URL and clears anything the host
// environment might have set.
//
func stubEnv(t *testing.T, baseURL string) {
	t.Helper()

	for _, v := range []string{config.APIKeyIDEnv, config.APIKeySecretEnv, config.TimeoutEnv, config.LogLevelEnv} {
		t.Setenv(v, "")
	}

	t.Setenv(config.BaseURLEnv, baseURL)
}

func cliArgs(t *testing.T, args ...string) []string {
	return append([]string{"-color=false", "-env", filepath.Join(t.TempDir(), "missing.env")}, args...)
}

//
// runCLI points the CLI at a stub Luno API and runs it with the provided arguments, returning what
// it printed.
//
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(stubAPI))
	t.Cleanup(server.Close)

	stubEnv(t, server.URL)

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := run(context.Background(), cliArgs(t, args...), stdout, stderr)

	return stdout.String(), err
}

func TestBalancesCommand(t *testing.T) {
	out, err := runCLI(t, "balances")
	require.NoError(t, err)

	assert.Contains(t, out, "XBT")
	assert.Contains(t, out, "available 0.4")
}

func TestOrdersCommandWithoutOrders(t *testing.T) {
	out, err := runCLI(t, "orders")
	require.NoError(t, err)

	assert.Equal(t, "No pending orders.\n", out)
}

func TestTickerCommandWritesCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tickers.csv")

	out, err := runCLI(t, "-pair", "ethngn", "-csv", path, "ticker")
	require.NoError(t, err)
	assert.Contains(t, out, "ETHNGN")

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "ETHNGN", records[1][0])
}

func TestTickersCommandFetchesPairs(t *testing.T) {
	out, err := runCLI(t, "-pairs", "XBTNGN, ETHNGN", "tickers")
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(out, "bid 100 ask 101"))
}

func TestOrderBookTopCommand(t *testing.T) {
	out, err := runCLI(t, "orderbook-top")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ASK 101 1", lines[0])
	assert.Equal(t, "spread 2", lines[1])
	assert.Equal(t, "BID 99 2", lines[2])
}

func TestTradesCommand(t *testing.T) {
	out, err := runCLI(t, "-since", "1h", "trades")
	require.NoError(t, err)

	assert.Contains(t, out, "3 2020-12-29T11:36:57Z BID 1 @ 100")
}

func TestCommandSurfacesAPIErrors(t *testing.T) {
	_, err := runCLI(t, "markets")
	require.Error(t, err)

	assert.Equal(t, exchange.API, exchange.KindOf(err))
}

func TestUnknownCommand(t *testing.T) {
	_, err := runCLI(t, "withdraw")
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestInvalidFlags(t *testing.T) {
	_, err := runCLI(t, "-pair", "DOGEUSD", "ticker")
	assert.Equal(t, exchange.InvalidEnum, exchange.KindOf(err))

	_, err = runCLI(t, "-interval", "2m", "candles")
	assert.Equal(t, exchange.InvalidEnum, exchange.KindOf(err))

	_, err = runCLI(t)
	assert.Error(t, err)
}

const (
	streamSnapshot = `{"sequence": "10", "status": "ACTIVE", "timestamp": 1609242000000,
		"asks": [{"id": "a1", "price": "101", "volume": "1"}],
		"bids": [{"id": "b1", "price": "99", "volume": "2"}]}`

	// Falls in the window after the seeded candle's, so it closes that candle out.
	streamTrade = `{"sequence": "11", "timestamp": 1609242060000,
		"trade_updates": [{"base": "0.4", "counter": "40.4", "maker_order_id": "a1", "taker_order_id": "t1"}]}`

	waitFor = 5 * time.Second
)

//
// syncBuffer is a bytes.Buffer that the test may read while the stream command writes to it.
//
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (o *syncBuffer) Write(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.buf.Write(p)
}

func (o *syncBuffer) String() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.buf.String()
}

//
// startStream serves the stub API alongside a stub XBTNGN stream that writes the provided messages
// and then holds the connection open, and starts the stream command against them. It returns the
// command's output and a channel that receives its result.
//
func startStream(t *testing.T, ctx context.Context, messages []string, args ...string) (*syncBuffer, <-chan error) {
	t.Helper()

	upgrader := ws.Upgrader{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/1/stream/XBTNGN" {
			stubAPI(w, r)

			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}

		defer conn.Close()

		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}

		for _, v := range messages {
			if err := conn.WriteMessage(ws.TextMessage, []byte(v)); err != nil {
				return
			}
		}

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	t.Cleanup(server.Close)

	stubEnv(t, server.URL)

	path := filepath.Join(t.TempDir(), "config.yaml")
	streamURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/1/stream/"
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("stream_url: %s\n", streamURL)), 0o600))

	args = append([]string{"-config", path, "-pair", "XBTNGN"}, args...)
	args = append(args, "stream")

	stdout := &syncBuffer{}
	chErr := make(chan error, 1)

	go func() {
		chErr <- run(ctx, cliArgs(t, args...), stdout, io.Discard)
	}()

	return stdout, chErr
}

func awaitResult(t *testing.T, chErr <-chan error) error {
	t.Helper()

	select {
	case err := <-chErr:
		return err
	case <-time.After(waitFor):
		require.FailNow(t, "timed out waiting for the stream command to return")
	}

	return nil
}

func TestStreamCommandFollowsTradesUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "trades.csv")

	stdout, chErr := startStream(t, ctx, []string{streamSnapshot, `""`, streamTrade}, "-csv", path)

	//
	// The trade is printed, and it closes out the candle that was seeded from the candles endpoint.
	//
	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "2020-12-29T11:35:00Z O 100 H 102 L 99 C 101 V 2")
	}, waitFor, 10*time.Millisecond)

	assert.Contains(t, stdout.String(), "11 2020-12-29T11:41:00Z BID 0.4 @ 101")

	cancel()
	require.NoError(t, awaitResult(t, chErr))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{
		"Sequence", "Timestamp", "Type", "Price", "Volume", "Value", "MakerOrderID", "TakerOrderID",
	}, records[0])
	assert.Equal(t, []string{"11", "2020-12-29T11:41:00Z", "BID", "101", "0.4", "40.4", "a1", "t1"}, records[1])
}

func TestStreamCommandReturnsWhenMonitorFails(t *testing.T) {
	previous := StreamSummaryInterval
	StreamSummaryInterval = 10 * time.Millisecond

	t.Cleanup(func() {
		StreamSummaryInterval = previous
	})

	gap := `{"sequence": "12", "delete_update": {"order_id": "a1"}}`

	_, chErr := startStream(t, context.Background(), []string{streamSnapshot, gap})

	assert.ErrorIs(t, awaitResult(t, chErr), streaming.ErrSequenceGap)
}
