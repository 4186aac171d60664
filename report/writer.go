package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/lukehollenback/luno/constants"
	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/lukehollenback/luno/exchange/luno/streaming"
)

const (
	TimestampKey     = "Timestamp"
	PairKey          = "Pair"
	BidKey           = "Bid"
	AskKey           = "Ask"
	SpreadKey        = "Spread"
	SpreadPercentKey = "SpreadPercent"
	LastTradeKey     = "LastTrade"
	VolumeKey        = "Volume"
	StatusKey        = "Status"
	SequenceKey      = "Sequence"
	TypeKey          = "Type"
	PriceKey         = "Price"
	ValueKey         = "Value"
	MakerKey         = "MakerOrderID"
	TakerKey         = "TakerOrderID"
	AccountKey       = "AccountID"
	AssetKey         = "Asset"
	BalanceKey       = "Balance"
	ReservedKey      = "Reserved"
	UnconfirmedKey   = "Unconfirmed"
	AvailableKey     = "Available"
	DurationKey      = "Duration"
	OpenKey          = "Open"
	HighKey          = "High"
	LowKey           = "Low"
	CloseKey         = "Close"
)

var ErrTypeMismatch = errors.New("report already holds a different type of record")

//
// Writer writes records out as CSV. The header row for the report's type is written before the
// first record. It is safe for concurrent use so that it can be fed from trade handlers.
//
type Writer struct {
	mu          *sync.Mutex
	writer      *csv.Writer
	typ         Type
	wroteHeader bool
	err         error
}

//
// NewWriter instantiates a new writer of the provided report type on top of the provided
// destination. It is up to the caller to Flush the writer and close the destination.
//
func NewWriter(w io.Writer, typ Type) *Writer {
	return &Writer{
		mu:     &sync.Mutex{},
		writer: csv.NewWriter(w),
		typ:    typ,
	}
}

func (o *Writer) Type() Type {
	return o.typ
}

func (o *Writer) WriteTickers(tickers []luno.Ticker) error {
	rows := make([][]string, 0, len(tickers))

	for _, v := range tickers {
		spread := v.Ask.Sub(v.Bid)

		//
		// The spread is expressed as a percentage of the best bid. Markets without bids have none.
		//
		percent := ""
		if !v.Bid.Equal(constants.Zero()) {
			percent = spread.Div(v.Bid).Mul(constants.Hundred()).StringFixed(4)
		}

		rows = append(rows, []string{
			v.Pair,
			timestamp(v.Timestamp.Time),
			v.Bid.String(),
			v.Ask.String(),
			spread.String(),
			percent,
			v.LastTrade.String(),
			v.Rolling24HourVolume.String(),
			v.Status,
		})
	}

	return o.write(Tickers, rows)
}

func (o *Writer) WriteTrades(trades []luno.Trade) error {
	rows := make([][]string, 0, len(trades))

	for _, v := range trades {
		rows = append(rows, []string{
			strconv.FormatInt(v.Sequence, 10),
			timestamp(v.Timestamp.Time),
			v.Type.String(),
			v.Price.String(),
			v.Volume.String(),
		})
	}

	return o.write(Trades, rows)
}

func (o *Writer) WriteBalances(balances []luno.Balance) error {
	rows := make([][]string, 0, len(balances))

	for _, v := range balances {
		rows = append(rows, []string{
			v.AccountID,
			v.Asset,
			v.Balance.String(),
			v.Reserved.String(),
			v.Unconfirmed.String(),
			v.Available().String(),
		})
	}

	return o.write(Balances, rows)
}

func (o *Writer) WriteCandles(candles []luno.Candle) error {
	rows := make([][]string, 0, len(candles))

	for _, v := range candles {
		rows = append(rows, []string{
			timestamp(v.StartTime()),
			v.Duration().String(),
			v.Open().String(),
			v.High().String(),
			v.Low().String(),
			v.Close().String(),
			v.Volume().String(),
		})
	}

	return o.write(Candles, rows)
}

//
// WriteStreamTrade writes a single trade reported by the streaming monitor. It has the signature
// of a trade handler, so any failure (including ErrTypeMismatch) surfaces on the next Flush.
//
func (o *Writer) WriteStreamTrade(trade streaming.Trade) {
	err := o.write(StreamTrades, [][]string{{
		strconv.FormatInt(trade.Sequence, 10),
		timestamp(trade.Timestamp),
		trade.Type.String(),
		trade.Price.String(),
		trade.Volume.String(),
		trade.Value.String(),
		trade.MakerOrderID,
		trade.TakerOrderID,
	}})

	if err != nil {
		o.mu.Lock()
		defer o.mu.Unlock()

		if o.err == nil {
			o.err = err
		}
	}
}

//
// Flush writes any buffered rows out to the destination and reports the first error encountered
// by any write since the writer was created. Errors already returned to a caller are not repeated.
//
func (o *Writer) Flush() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.writer.Flush()

	if o.err != nil {
		return o.err
	}

	return o.writer.Error()
}

func (o *Writer) write(typ Type, rows [][]string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if typ != o.typ {
		return fmt.Errorf("%w: cannot write %s to a %s report", ErrTypeMismatch, typ, o.typ)
	}

	if !o.wroteHeader {
		if err := o.writer.Write(typ.header()); err != nil {
			return err
		}

		o.wroteHeader = true
	}

	return o.writer.WriteAll(rows)
}

func timestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.UTC().Format(time.RFC3339Nano)
}
