package luno

import "github.com/lukehollenback/luno/exchange"

//
// OrderType is an enum that represents the side of the book an order (or the taker of a trade)
// is on.
//
type OrderType int

const (
	Bid OrderType = iota
	Ask
)

func (o OrderType) String() string {
	switch o {
	case Bid:
		return "BID"
	case Ask:
		return "ASK"
	default:
		return "UNKNOWN"
	}
}

//
// ParseOrderType converts "BID" or "ASK" into an OrderType.
//
func ParseOrderType(s string) (OrderType, error) {
	switch s {
	case "BID":
		return Bid, nil
	case "ASK":
		return Ask, nil
	default:
		return 0, exchange.NewError(
			exchange.InvalidEnum, "parse order type", &exchange.EnumError{Type: "order type", Value: s},
		)
	}
}

//
// orderTypeFromIsBuy maps Luno's boolean "is_buy" trade flag onto the side the taker was on.
//
func orderTypeFromIsBuy(isBuy bool) OrderType {
	if isBuy {
		return Bid
	}

	return Ask
}

func (o OrderType) MarshalText() ([]byte, error) {
	if o != Bid && o != Ask {
		return nil, exchange.NewError(
			exchange.InvalidEnum, "marshal order type", &exchange.EnumError{Type: "order type", Value: o.String()},
		)
	}

	return []byte(o.String()), nil
}

func (o *OrderType) UnmarshalText(text []byte) error {
	t, err := ParseOrderType(string(text))
	if err != nil {
		return err
	}

	*o = t

	return nil
}

//
// OrderState is the lifecycle state of an order.
//
type OrderState string

const (
	Pending  OrderState = "PENDING"
	Complete OrderState = "COMPLETE"
)
