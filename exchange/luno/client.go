package luno

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/lukehollenback/luno/exchange"
	"github.com/sirupsen/logrus"
)

//
// Client is the Luno REST API client. The credential, base URL, timeout and underlying HTTP
// client are fixed when it is built and are shared read-only by every call, so a single Client can
// be used from many goroutines at once.
//
// Whenever an endpoint fails, the returned error is an *exchange.Error whose Kind says why.
//
type Client struct {
	credential Credential
	basicAuth  string
	baseURL    *url.URL
	timeout    time.Duration
	httpClient *http.Client
}

type options struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     logrus.FieldLogger
	logging    bool
}

//
// Option configures a Client at build time.
//
type Option func(*options)

//
// WithTimeout bounds every request (dispatch plus reading the body). Non-positive values are
// ignored and the default of 60 seconds is kept.
//
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

//
// WithRequestLogger turns on request logging. Each call logs the target URL before it is sent and
// the elapsed time once it completes. A nil logger logs through the logrus standard logger.
//
func WithRequestLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		o.logging = true
		o.logger = logger
	}
}

//
// WithBaseURL points the client at a different host (e.g. a test server).
//
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = baseURL
	}
}

//
// WithHTTPClient makes the client dispatch through the provided HTTP client instead of a fresh
// one. The provided client is never modified.
//
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) {
		o.httpClient = httpClient
	}
}

//
// NewClient builds a client for the provided API key pair.
//
func NewClient(id string, secret string, opts ...Option) (*Client, error) {
	cfg := &options{
		baseURL: BaseURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	base, err := url.Parse(cfg.baseURL)
	if err != nil {
		return nil, exchange.NewError(exchange.URLParse, "new client", err)
	}

	if base.Scheme == "" || base.Host == "" {
		return nil, exchange.NewError(
			exchange.URLParse, "new client", &url.Error{Op: "parse", URL: cfg.baseURL, Err: errMissingHost},
		)
	}

	//
	// Copy the HTTP client so that wrapping its transport for logging never touches the caller's.
	//
	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		*httpClient = *cfg.httpClient
	}

	if cfg.logging {
		logger := cfg.logger
		if logger == nil {
			logger = logrus.StandardLogger()
		}

		httpClient.Transport = newLoggingTransport(httpClient.Transport, logger)
	}

	credential := NewCredential(id, secret)

	return &Client{
		credential: credential,
		basicAuth:  credential.BasicAuth(),
		baseURL:    base,
		timeout:    cfg.timeout,
		httpClient: httpClient,
	}, nil
}

//
// Timeout returns the per-request deadline the client was built with.
//
func (o *Client) Timeout() time.Duration {
	return o.timeout
}

//
// ListBalances lists the balances on all assets linked to the Luno profile.
//
func (o *Client) ListBalances(ctx context.Context) ([]Balance, error) {
	resp, err := get[listBalancesResponse](ctx, o, "list balances", BalancePath, nil)
	if err != nil {
		return nil, err
	}

	return resp.Balances, nil
}

//
// ListOrders lists the pending orders on the Luno profile.
//
func (o *Client) ListOrders(ctx context.Context) ([]Order, error) {
	query := url.Values{}
	query.Set("state", string(Pending))

	resp, err := get[listOrdersResponse](ctx, o, "list orders", ListOrdersPath, query)
	if err != nil {
		return nil, err
	}

	return resp.Orders, nil
}

//
// GetTicker returns the ticker for a single currency pair.
//
func (o *Client) GetTicker(ctx context.Context, pair CurrencyPair) (*Ticker, error) {
	resp, err := get[Ticker](ctx, o, "get ticker", TickerPath, pairQuery(pair))
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

//
// ListTickers returns the tickers of every currency pair the exchange lists.
//
func (o *Client) ListTickers(ctx context.Context) ([]Ticker, error) {
	resp, err := get[listTickersResponse](ctx, o, "list tickers", TickersPath, nil)
	if err != nil {
		return nil, err
	}

	return resp.Tickers, nil
}

//
// GetOrderBook returns the full order book of a currency pair.
//
func (o *Client) GetOrderBook(ctx context.Context, pair CurrencyPair) (*OrderBook, error) {
	resp, err := get[OrderBook](ctx, o, "get order book", OrderBookPath, pairQuery(pair))
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

//
// GetOrderBookTop returns the top 100 bids and asks of a currency pair's order book.
//
func (o *Client) GetOrderBookTop(ctx context.Context, pair CurrencyPair) (*OrderBook, error) {
	resp, err := get[OrderBook](ctx, o, "get order book top", OrderBookTopPath, pairQuery(pair))
	if err != nil {
		return nil, err
	}

	return &resp, nil
}

//
// ListTrades lists the most recent trades for a currency pair in the last 24 hours. At most 100
// results are returned per call.
//
func (o *Client) ListTrades(ctx context.Context, pair CurrencyPair) ([]Trade, error) {
	resp, err := get[listTradesResponse](ctx, o, "list trades", TradesPath, pairQuery(pair))
	if err != nil {
		return nil, err
	}

	return resp.Trades, nil
}

//
// ListTradesSince lists the trades for a currency pair made within the provided duration of now.
// Callers keep their own windows; nothing is remembered between calls.
//
func (o *Client) ListTradesSince(ctx context.Context, pair CurrencyPair, d time.Duration) ([]Trade, error) {
	query := pairQuery(pair)
	query.Set("since", strconv.FormatInt(sinceMillis(time.Now(), d), 10))

	resp, err := get[listTradesResponse](ctx, o, "list trades since", TradesPath, query)
	if err != nil {
		return nil, err
	}

	return resp.Trades, nil
}

//
// ListMarkets lists the markets the exchange supports along with their trading limits.
//
func (o *Client) ListMarkets(ctx context.Context) ([]Market, error) {
	resp, err := get[listMarketsResponse](ctx, o, "list markets", MarketsPath, nil)
	if err != nil {
		return nil, err
	}

	return resp.Markets, nil
}

//
// ListCandles retrieves candles of the specified interval for a currency pair starting at the
// provided instant. Luno returns at most 1000 candles per call.
//
func (o *Client) ListCandles(
	ctx context.Context,
	pair CurrencyPair,
	since time.Time,
	interval exchange.Interval,
) ([]Candle, error) {
	seconds := int64(interval.Duration() / time.Second)
	if seconds <= 0 {
		return nil, exchange.NewError(
			exchange.InvalidEnum, "list candles",
			&exchange.EnumError{Type: "interval", Value: strconv.Itoa(int(interval))},
		)
	}

	query := pairQuery(pair)
	query.Set("since", strconv.FormatInt(since.UnixMilli(), 10))
	query.Set("duration", strconv.FormatInt(seconds, 10))

	resp, err := get[listCandlesResponse](ctx, o, "list candles", CandlesPath, query)
	if err != nil {
		return nil, err
	}

	return resp.Candles, nil
}

func pairQuery(pair CurrencyPair) url.Values {
	query := url.Values{}
	query.Set("pair", pair.String())

	return query
}

//
// sinceMillis returns the millisecond UNIX timestamp of the instant the provided duration before
// now.
//
func sinceMillis(now time.Time, d time.Duration) int64 {
	return now.UnixMilli() - d.Milliseconds()
}
