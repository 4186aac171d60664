package report

//
// Type is an enum that represents the kind of record a report holds. Every kind has its own header
// row, so a single report only ever holds one kind.
//
type Type int

const (
	Tickers Type = iota
	Trades
	Balances
	Candles
	StreamTrades
)

func (o Type) String() string {
	return [...]string{"Tickers", "Trades", "Balances", "Candles", "StreamTrades"}[o]
}

func (o Type) header() []string {
	return headers[o]
}

var headers = [...][]string{
	Tickers:      {PairKey, TimestampKey, BidKey, AskKey, SpreadKey, SpreadPercentKey, LastTradeKey, VolumeKey, StatusKey},
	Trades:       {SequenceKey, TimestampKey, TypeKey, PriceKey, VolumeKey},
	Balances:     {AccountKey, AssetKey, BalanceKey, ReservedKey, UnconfirmedKey, AvailableKey},
	Candles:      {TimestampKey, DurationKey, OpenKey, HighKey, LowKey, CloseKey, VolumeKey},
	StreamTrades: {SequenceKey, TimestampKey, TypeKey, PriceKey, VolumeKey, ValueKey, MakerKey, TakerKey},
}
