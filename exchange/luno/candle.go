package luno

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// NOTE ~> According to https://www.luno.com/en/developers/api#operation/GetCandles, candles are
//  returned as objects alongside the duration (in seconds) they were requested with:
//
//  {
//    "candles": [
//      {"timestamp": 1470810720000, "open": "7500.00", "close": "7500.00",
//       "high": "7500.00", "low": "7500.00", "volume": "0.02"}
//    ],
//    "duration": 300,
//    "pair": "XBTZAR"
//  }

//
// Candle represents a candlestick (a.k.a. kline) provided by the Luno API.
//
type Candle struct {
	start    time.Time
	duration time.Duration
	open     decimal.Decimal
	high     decimal.Decimal
	low      decimal.Decimal
	close    decimal.Decimal
	volume   decimal.Decimal
}

//
// NewCandle instantiates a candle from its parts (e.g. when aggregating trades locally).
//
func NewCandle(
	start time.Time,
	duration time.Duration,
	open decimal.Decimal,
	high decimal.Decimal,
	low decimal.Decimal,
	close decimal.Decimal,
	volume decimal.Decimal,
) Candle {
	return Candle{
		start:    start,
		duration: duration,
		open:     open,
		high:     high,
		low:      low,
		close:    close,
		volume:   volume,
	}
}

//
// StartTime returns the opening instant of the candle.
//
func (o *Candle) StartTime() time.Time {
	return o.start
}

//
// EndTime returns the last instant covered by the candle. As an example, a one minute candle
// might start at 2020/8/25 00:00:00.000000000 and end at 2020/8/25 00:00:59.999999999.
//
func (o *Candle) EndTime() time.Time {
	return o.start.Add(o.duration).Add(-1 * time.Nanosecond)
}

func (o *Candle) Duration() time.Duration {
	return o.duration
}

func (o *Candle) Open() decimal.Decimal {
	return o.open
}

func (o *Candle) High() decimal.Decimal {
	return o.high
}

func (o *Candle) Low() decimal.Decimal {
	return o.low
}

func (o *Candle) Close() decimal.Decimal {
	return o.close
}

func (o *Candle) Volume() decimal.Decimal {
	return o.volume
}

//
// UnmarshalJSON implements the json.Unmarshaler interface for Candle structures. The duration is
// not part of a candle's own JSON; it is filled in from the enclosing response.
//
func (o *Candle) UnmarshalJSON(data []byte) error {
	var raw struct {
		Timestamp Time            `json:"timestamp"`
		Open      decimal.Decimal `json:"open"`
		High      decimal.Decimal `json:"high"`
		Low       decimal.Decimal `json:"low"`
		Close     decimal.Decimal `json:"close"`
		Volume    decimal.Decimal `json:"volume"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	o.start = raw.Timestamp.Time
	o.open = raw.Open
	o.high = raw.High
	o.low = raw.Low
	o.close = raw.Close
	o.volume = raw.Volume

	return nil
}

type listCandlesResponse struct {
	Candles []Candle
	Pair    string
}

func (o *listCandlesResponse) UnmarshalJSON(data []byte) error {
	var raw struct {
		Candles  []Candle `json:"candles"`
		Duration int64    `json:"duration"`
		Pair     string   `json:"pair"`
	}

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	//
	// Stamp every candle with the duration it was requested with.
	//
	duration := time.Duration(raw.Duration) * time.Second

	for i := range raw.Candles {
		raw.Candles[i].duration = duration
	}

	o.Candles = raw.Candles
	o.Pair = raw.Pair

	return nil
}
