package luno

import "github.com/shopspring/decimal"

//
// Ticker is a snapshot of the best bid and ask, the last trade price and the rolling 24 hour
// volume of a currency pair.
//
type Ticker struct {
	Pair                string          `json:"pair"`
	Timestamp           Time            `json:"timestamp"`
	Bid                 decimal.Decimal `json:"bid"`
	Ask                 decimal.Decimal `json:"ask"`
	LastTrade           decimal.Decimal `json:"last_trade"`
	Rolling24HourVolume decimal.Decimal `json:"rolling_24_hour_volume"`
	Status              string          `json:"status"`
}

type listTickersResponse struct {
	Tickers []Ticker `json:"tickers"`
}
