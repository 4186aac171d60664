package candle

import (
	"time"

	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/shopspring/decimal"
)

//
// bar is a candle that is still being built from trades.
//
type bar struct {
	start    time.Time
	duration time.Duration
	open     decimal.Decimal
	close    decimal.Decimal
	high     decimal.Decimal
	low      decimal.Decimal
	volume   decimal.Decimal
}

func newBar(start time.Time, duration time.Duration, price decimal.Decimal, volume decimal.Decimal) *bar {
	return &bar{
		start:    start,
		duration: duration,
		open:     price,
		close:    price,
		high:     price,
		low:      price,
		volume:   volume,
	}
}

func barFromCandle(c luno.Candle) *bar {
	return &bar{
		start:    c.StartTime(),
		duration: c.Duration(),
		open:     c.Open(),
		close:    c.Close(),
		high:     c.High(),
		low:      c.Low(),
		volume:   c.Volume(),
	}
}

//
// end returns the first instant after the window the bar covers.
//
func (o *bar) end() time.Time {
	return o.start.Add(o.duration)
}

//
// append calculates a trade into the bar. It is expected that the trade occurred within the window
// in time that the bar covers.
//
func (o *bar) append(price decimal.Decimal, volume decimal.Decimal) {
	o.close = price

	if price.GreaterThan(o.high) {
		o.high = price
	}

	if price.LessThan(o.low) {
		o.low = price
	}

	o.volume = o.volume.Add(volume)
}

func (o *bar) candle() luno.Candle {
	return luno.NewCandle(o.start, o.duration, o.open, o.high, o.low, o.close, o.volume)
}
