package candle

import (
	"testing"
	"time"

	"github.com/lukehollenback/luno/exchange"
	"github.com/lukehollenback/luno/exchange/luno"
	"github.com/lukehollenback/luno/exchange/luno/streaming"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2020, 8, 25, 0, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func requireDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()

	require.True(t, d(expected).Equal(actual), "expected %s, got %s", expected, actual)
}

func TestNewStoreRejectsUnknownIntervals(t *testing.T) {
	_, err := NewStore(exchange.Interval(42), DefaultHistory)
	assert.Equal(t, exchange.InvalidEnum, exchange.KindOf(err))
}

func TestStoreBuildsCandles(t *testing.T) {
	store, err := NewStore(exchange.OneMinute, DefaultHistory)
	require.NoError(t, err)
	assert.Equal(t, exchange.OneMinute, store.Interval())

	_, ok := store.Current()
	assert.False(t, ok)

	for _, v := range []struct {
		offset time.Duration
		price  string
	}{
		{5 * time.Second, "100"},
		{10 * time.Second, "105"},
		{20 * time.Second, "95"},
		{59 * time.Second, "101"},
	} {
		_, closed, err := store.Append(base.Add(v.offset), d(v.price), d("0.5"))
		require.NoError(t, err)
		assert.False(t, closed)
	}

	current, ok := store.Current()
	require.True(t, ok)
	assert.Equal(t, base, current.StartTime())
	assert.Equal(t, time.Minute, current.Duration())
	requireDecimal(t, "100", current.Open())
	requireDecimal(t, "105", current.High())
	requireDecimal(t, "95", current.Low())
	requireDecimal(t, "101", current.Close())
	requireDecimal(t, "2", current.Volume())

	//
	// A trade in a later window closes out the current candle. Windows without trades are skipped.
	//
	previous, closed, err := store.Append(base.Add(3*time.Minute+time.Second), d("110"), d("1"))
	require.NoError(t, err)
	require.True(t, closed)
	assert.Equal(t, base, previous.StartTime())
	requireDecimal(t, "101", previous.Close())

	current, ok = store.Current()
	require.True(t, ok)
	assert.Equal(t, base.Add(3*time.Minute), current.StartTime())

	require.Len(t, store.Closed(), 1)

	_, _, err = store.Append(base.Add(time.Minute), d("1"), d("1"))
	assert.ErrorIs(t, err, ErrClosedCandle)
}

func TestStoreKeepsBoundedHistory(t *testing.T) {
	store, err := NewStore(exchange.OneMinute, 2)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		_, _, err := store.Append(base.Add(time.Duration(i)*time.Minute), d("1"), d("1"))
		require.NoError(t, err)
	}

	closed := store.Closed()
	require.Len(t, closed, 2)
	assert.Equal(t, base.Add(2*time.Minute), closed[0].StartTime())
	assert.Equal(t, base.Add(3*time.Minute), closed[1].StartTime())
}

func TestStoreSeed(t *testing.T) {
	store, err := NewStore(exchange.FiveMinute, DefaultHistory)
	require.NoError(t, err)

	err = store.Seed([]luno.Candle{
		luno.NewCandle(base, 5*time.Minute, d("1"), d("2"), d("1"), d("2"), d("3")),
		luno.NewCandle(base.Add(5*time.Minute), 5*time.Minute, d("2"), d("4"), d("2"), d("3"), d("1")),
	})
	require.NoError(t, err)

	require.Len(t, store.Closed(), 1)

	_, closed, err := store.AppendTrade(streaming.Trade{
		Timestamp: base.Add(6 * time.Minute),
		Price:     d("5"),
		Volume:    d("2"),
		Type:      luno.Bid,
	})
	require.NoError(t, err)
	assert.False(t, closed)

	current, ok := store.Current()
	require.True(t, ok)
	requireDecimal(t, "2", current.Open())
	requireDecimal(t, "5", current.High())
	requireDecimal(t, "5", current.Close())
	requireDecimal(t, "3", current.Volume())

	err = store.Seed([]luno.Candle{luno.NewCandle(base, time.Minute, d("1"), d("1"), d("1"), d("1"), d("1"))})
	assert.Error(t, err)
}
