package luno

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

//
// Trade is a single public trade of a currency pair. Type is the side the taker was on.
//
type Trade struct {
	Sequence  int64           `json:"sequence"`
	Timestamp Time            `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Volume    decimal.Decimal `json:"volume"`
	Type      OrderType       `json:"-"`
}

//
// UnmarshalJSON decodes a trade, converting Luno's boolean "is_buy" flag into an OrderType.
//
func (o *Trade) UnmarshalJSON(data []byte) error {
	type plain Trade

	raw := struct {
		*plain
		IsBuy *bool `json:"is_buy"`
	}{
		plain: (*plain)(o),
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if raw.IsBuy == nil {
		return errors.New("trade is missing the is_buy flag")
	}

	o.Type = orderTypeFromIsBuy(*raw.IsBuy)

	return nil
}

type listTradesResponse struct {
	Trades []Trade `json:"trades"`
}
