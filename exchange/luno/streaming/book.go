package streaming

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/lukehollenback/luno/exchange/luno"
)

var ErrSequenceGap = errors.New("stream sequence gap")

//
// book is the order book of a single pair as reconstructed from the stream. It is not safe for
// concurrent use; the monitor guards it.
//
type book struct {
	sequence  int64
	status    string
	timestamp time.Time
	bids      map[string]*order
	asks      map[string]*order
}

func newBook(snapshot *message) *book {
	o := &book{
		sequence:  snapshot.Sequence,
		status:    snapshot.Status,
		timestamp: snapshot.Timestamp.Time,
		bids:      make(map[string]*order, len(snapshot.Bids)),
		asks:      make(map[string]*order, len(snapshot.Asks)),
	}

	for _, v := range snapshot.Bids {
		o.bids[v.ID] = v
	}

	for _, v := range snapshot.Asks {
		o.asks[v.ID] = v
	}

	return o
}

//
// apply applies a single update to the book and returns the trades it reported. Updates must
// arrive in sequence; a gap means the book can no longer be trusted.
//
func (o *book) apply(msg *message) ([]Trade, error) {
	if msg.Sequence != o.sequence+1 {
		return nil, fmt.Errorf("%w: expected %d, received %d", ErrSequenceGap, o.sequence+1, msg.Sequence)
	}

	var trades []Trade

	for _, v := range msg.TradeUpdates {
		trade, err := o.applyTrade(msg, v)
		if err != nil {
			return nil, err
		}

		trades = append(trades, trade)
	}

	if v := msg.CreateUpdate; v != nil {
		side, err := luno.ParseOrderType(v.Type)
		if err != nil {
			return nil, err
		}

		created := &order{ID: v.OrderID, Price: v.Price, Volume: v.Volume}

		if side == luno.Bid {
			o.bids[v.OrderID] = created
		} else {
			o.asks[v.OrderID] = created
		}
	}

	if v := msg.DeleteUpdate; v != nil {
		delete(o.bids, v.OrderID)
		delete(o.asks, v.OrderID)
	}

	if v := msg.StatusUpdate; v != nil {
		o.status = v.Status
	}

	o.sequence = msg.Sequence
	o.timestamp = msg.Timestamp.Time

	return trades, nil
}

//
// applyTrade takes the traded volume off the maker's resting order, removing the order once it
// has been filled.
//
func (o *book) applyTrade(msg *message, v *tradeUpdate) (Trade, error) {
	id := v.makerOrderID()

	//
	// A resting bid that gets matched means the taker sold, and vice versa.
	//
	side := luno.Bid
	orders := o.asks

	if _, ok := o.bids[id]; ok {
		side = luno.Ask
		orders = o.bids
	}

	maker, ok := orders[id]
	if !ok {
		return Trade{}, fmt.Errorf("trade references unknown order %q", id)
	}

	maker.Volume = maker.Volume.Sub(v.Base)
	if !maker.Volume.IsPositive() {
		delete(orders, id)
	}

	price := maker.Price
	if v.Base.IsPositive() {
		price = v.Counter.Div(v.Base)
	}

	return Trade{
		Sequence:     msg.Sequence,
		Timestamp:    msg.Timestamp.Time,
		Price:        price,
		Volume:       v.Base,
		Value:        v.Counter,
		Type:         side,
		MakerOrderID: id,
		TakerOrderID: v.TakerOrderID,
	}, nil
}

//
// orderBook aggregates the resting orders by price into the same shape the REST API returns:
// bids from the highest price down and asks from the lowest price up.
//
func (o *book) orderBook() luno.OrderBook {
	return luno.OrderBook{
		Bids:      aggregate(o.bids, true),
		Asks:      aggregate(o.asks, false),
		Timestamp: luno.NewTime(o.timestamp),
	}
}

func aggregate(orders map[string]*order, descending bool) []luno.OrderBookEntry {
	sorted := make([]*order, 0, len(orders))
	for _, v := range orders {
		sorted = append(sorted, v)
	}

	sort.Slice(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Price.GreaterThan(sorted[j].Price)
		}

		return sorted[i].Price.LessThan(sorted[j].Price)
	})

	entries := make([]luno.OrderBookEntry, 0, len(sorted))

	for _, v := range sorted {
		if n := len(entries); n > 0 && entries[n-1].Price.Equal(v.Price) {
			entries[n-1].Volume = entries[n-1].Volume.Add(v.Volume)

			continue
		}

		entries = append(entries, luno.OrderBookEntry{Price: v.Price, Volume: v.Volume})
	}

	return entries
}
