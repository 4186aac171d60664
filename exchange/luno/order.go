package luno

import "github.com/shopspring/decimal"

//
// Order is an order on the Luno profile.
//
type Order struct {
	OrderID             string          `json:"order_id"`
	CreationTimestamp   Time            `json:"creation_timestamp"`
	ExpirationTimestamp Time            `json:"expiration_timestamp"`
	CompletedTimestamp  Time            `json:"completed_timestamp"`
	Type                OrderType       `json:"type"`
	State               OrderState      `json:"state"`
	LimitPrice          decimal.Decimal `json:"limit_price"`
	LimitVolume         decimal.Decimal `json:"limit_volume"`
	Base                decimal.Decimal `json:"base"`
	Counter             decimal.Decimal `json:"counter"`
	FeeBase             decimal.Decimal `json:"fee_base"`
	FeeCounter          decimal.Decimal `json:"fee_counter"`
	Pair                string          `json:"pair"`
}

type listOrdersResponse struct {
	Orders []Order `json:"orders"`
}

//
// OrderBookEntry contains a limit price and the volume available at it.
//
type OrderBookEntry struct {
	Price  decimal.Decimal `json:"price"`
	Volume decimal.Decimal `json:"volume"`
}

//
// OrderBook contains the bids and asks of a currency pair. Bids are ordered from the highest
// price down and asks from the lowest price up.
//
type OrderBook struct {
	Asks      []OrderBookEntry `json:"asks"`
	Bids      []OrderBookEntry `json:"bids"`
	Timestamp Time             `json:"timestamp"`
}

//
// Spread returns the difference between the best ask and the best bid, and false if either side
// of the book is empty.
//
func (o *OrderBook) Spread() (decimal.Decimal, bool) {
	if len(o.Asks) == 0 || len(o.Bids) == 0 {
		return decimal.Zero, false
	}

	return o.Asks[0].Price.Sub(o.Bids[0].Price), true
}
