package luno

import (
	"testing"

	"github.com/lukehollenback/luno/exchange"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderTypeRoundTrip(t *testing.T) {
	for _, orderType := range []OrderType{Bid, Ask} {
		parsed, err := ParseOrderType(orderType.String())
		require.NoError(t, err)
		assert.Equal(t, orderType, parsed)
	}
}

func TestParseOrderTypeRejectsUnknownSides(t *testing.T) {
	for _, s := range []string{"BUY", "bid", "", "SELL"} {
		_, err := ParseOrderType(s)

		require.Error(t, err, s)
		assert.Equal(t, exchange.InvalidEnum, exchange.KindOf(err), s)
	}
}

func TestOrderTypeFromIsBuy(t *testing.T) {
	assert.Equal(t, Bid, orderTypeFromIsBuy(true))
	assert.Equal(t, Ask, orderTypeFromIsBuy(false))
}
