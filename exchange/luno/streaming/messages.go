package streaming

import (
	"time"

	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/shopspring/decimal"
)

type credentials struct {
	APIKeyID     string `json:"api_key_id"`
	APIKeySecret string `json:"api_key_secret"`
}

type order struct {
	ID     string          `json:"id"`
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

type tradeUpdate struct {
	Base         decimal.Decimal `json:"base"`
	Counter      decimal.Decimal `json:"counter"`
	MakerOrderID string          `json:"maker_order_id"`
	TakerOrderID string          `json:"taker_order_id"`
	OrderID      string          `json:"order_id"`
}

//
// makerOrderID returns the id of the resting order that was matched. Older streams only populate
// the order_id field.
//
func (o *tradeUpdate) makerOrderID() string {
	if o.MakerOrderID != "" {
		return o.MakerOrderID
	}

	return o.OrderID
}

type createUpdate struct {
	OrderID string          `json:"order_id"`
	Type    string          `json:"type"`
	Price   decimal.Decimal `json:"price"`
	Volume  decimal.Decimal `json:"volume"`
}

type deleteUpdate struct {
	OrderID string `json:"order_id"`
}

type statusUpdate struct {
	Status string `json:"status"`
}

//
// message is the union of the order book snapshot the stream starts with and the updates that
// follow it. Which one a message is depends only on its position in the stream.
//
type message struct {
	Sequence     int64          `json:"sequence,string"`
	Asks         []*order       `json:"asks"`
	Bids         []*order       `json:"bids"`
	Status       string         `json:"status"`
	TradeUpdates []*tradeUpdate `json:"trade_updates"`
	CreateUpdate *createUpdate  `json:"create_update"`
	DeleteUpdate *deleteUpdate  `json:"delete_update"`
	StatusUpdate *statusUpdate  `json:"status_update"`
	Timestamp    luno.Time      `json:"timestamp"`
}

//
// Trade is a trade reported by the stream.
//
type Trade struct {
	Sequence     int64
	Timestamp    time.Time
	Price        decimal.Decimal
	Volume       decimal.Decimal
	Value        decimal.Decimal
	Type         luno.OrderType // The side the taker was on.
	MakerOrderID string
	TakerOrderID string
}
