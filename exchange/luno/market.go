package luno

import "github.com/shopspring/decimal"

//
// Market describes a market the exchange supports along with its trading limits.
//
type Market struct {
	MarketID        string          `json:"market_id"`
	TradingStatus   string          `json:"trading_status"`
	BaseCurrency    string          `json:"base_currency"`
	CounterCurrency string          `json:"counter_currency"`
	MinVolume       decimal.Decimal `json:"min_volume"`
	MaxVolume       decimal.Decimal `json:"max_volume"`
	VolumeScale     int             `json:"volume_scale"`
	MinPrice        decimal.Decimal `json:"min_price"`
	MaxPrice        decimal.Decimal `json:"max_price"`
	PriceScale      int             `json:"price_scale"`
	FeeScale        int             `json:"fee_scale"`
}

type listMarketsResponse struct {
	Markets []Market `json:"markets"`
}
