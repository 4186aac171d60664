package luno

import "time"

const (
	AuthorizationHeader = "Authorization"
	ContentTypeHeader   = "Content-Type"
	AcceptHeader        = "Accept"
	JSONContentType     = "application/json"

	BaseURL = "https://api.luno.com"

	BalancePath      = "/api/1/balance"
	ListOrdersPath   = "/api/1/listorders"
	TickerPath       = "/api/1/ticker"
	TickersPath      = "/api/1/tickers"
	OrderBookPath    = "/api/1/orderbook"
	OrderBookTopPath = "/api/1/orderbook_top"
	TradesPath       = "/api/1/trades"
	MarketsPath      = "/api/exchange/1/markets"
	CandlesPath      = "/api/exchange/1/candles"

	DefaultTimeout = 60000 * time.Millisecond

	// MaxConcurrentRequests bounds the number of in-flight requests made by the multi-pair
	// fetch operations.
	MaxConcurrentRequests = 10
)
