package candle

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lukehollenback/luno/exchange"
	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/lukehollenback/luno/exchange/luno/streaming"
	"github.com/lukehollenback/luno/structs/evictingqueue"
	"github.com/shopspring/decimal"
)

// DefaultHistory is the number of closed candles a store keeps unless told otherwise.
const DefaultHistory = 100

var ErrClosedCandle = errors.New("cannot modify closed-out candles in candle store")

//
// Store builds candles of a single interval out of individual trades. For example, one might
// instantiate a 1-minute candle store fed by a stream monitor. Windows without trades produce no
// candle.
//
type Store struct {
	mu       *sync.Mutex
	interval exchange.Interval
	duration time.Duration
	current  *bar
	closed   *evictingqueue.EvictingQueue[luno.Candle]
}

//
// NewStore instantiates a new candle store that keeps the most recent history closed candles of
// the provided interval.
//
func NewStore(interval exchange.Interval, history int) (*Store, error) {
	duration := interval.Duration()
	if duration <= 0 {
		return nil, exchange.NewError(
			exchange.InvalidEnum, "new candle store", &exchange.EnumError{Type: "interval", Value: interval.String()},
		)
	}

	return &Store{
		mu:       &sync.Mutex{},
		interval: interval,
		duration: duration,
		closed:   evictingqueue.New[luno.Candle](history),
	}, nil
}

func (o *Store) Interval() exchange.Interval {
	return o.interval
}

//
// Seed (re)initializes the store with historical candles (e.g. those returned by the candles
// endpoint), oldest first. The last one becomes the current candle so that trades within its
// window extend it.
//
func (o *Store) Seed(candles []luno.Candle) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, v := range candles {
		if v.Duration() != o.duration {
			return fmt.Errorf(
				"cannot seed candle of duration %s into candle store of %s candles", v.Duration(), o.duration,
			)
		}
	}

	o.current = nil
	o.closed = evictingqueue.New[luno.Candle](o.closed.Cap())

	for i, v := range candles {
		if i == len(candles)-1 {
			o.current = barFromCandle(v)

			break
		}

		o.closed.Add(v)
	}

	return nil
}

//
// Append calculates a trade into the candle whose window it falls in. When the trade starts a new
// window the previous candle is closed out and returned along with a true sentinel.
//
func (o *Store) Append(at time.Time, price decimal.Decimal, volume decimal.Decimal) (luno.Candle, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	start := at.Truncate(o.duration)

	//
	// Figure out if we need to create a new candle. Also, validate that we are not trying to append
	// to a historical, closed-out candle.
	//
	if o.current == nil {
		o.current = newBar(start, o.duration, price, volume)

		return luno.Candle{}, false, nil
	}

	if at.Before(o.current.start) {
		return luno.Candle{}, false, fmt.Errorf("%w: trade at %s", ErrClosedCandle, at)
	}

	if !at.Before(o.current.end()) {
		previous := o.current.candle()

		o.closed.Add(previous)
		o.current = newBar(start, o.duration, price, volume)

		return previous, true, nil
	}

	o.current.append(price, volume)

	return luno.Candle{}, false, nil
}

//
// AppendTrade calculates a trade reported by a stream monitor into the store.
//
func (o *Store) AppendTrade(trade streaming.Trade) (luno.Candle, bool, error) {
	return o.Append(trade.Timestamp, trade.Price, trade.Volume)
}

//
// Current returns the candle that is still being built, and false if no trade has been seen.
//
func (o *Store) Current() (luno.Candle, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil {
		return luno.Candle{}, false
	}

	return o.current.candle(), true
}

//
// Closed returns the most recent closed-out candles, oldest first.
//
func (o *Store) Closed() []luno.Candle {
	o.mu.Lock()
	defer o.mu.Unlock()

	return o.closed.Slice()
}
