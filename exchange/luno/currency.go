package luno

import "github.com/lukehollenback/luno/exchange"

//
// CurrencyPair is an enum of the currency pairs available on Luno. Converting a pair to its wire
// string always succeeds; converting a string back fails with an InvalidEnum error for unknown
// codes.
//
type CurrencyPair int

const (
	BCHXBT CurrencyPair = iota
	XBTAUD
	XBTEUR
	XBTGBP
	XBTIDR
	XBTMYR
	XBTNGN
	XBTSGD
	XBTUGX
	XBTZAR
	XBTZMW
	ETHAUD
	ETHXBT
	ETHEUR
	ETHGBP
	ETHIDR
	ETHMYR
	ETHNGN
	ETHZAR
	LTCXBT
	LTCMYR
	LTCNGN
	LTCZAR
	XRPXBT
	XRPMYR
	XRPNGN
	XRPZAR
)

// DefaultCurrencyPair is the pair used when none is specified.
const DefaultCurrencyPair = XBTNGN

var currencyPairNames = [...]string{
	"BCHXBT",
	"XBTAUD",
	"XBTEUR",
	"XBTGBP",
	"XBTIDR",
	"XBTMYR",
	"XBTNGN",
	"XBTSGD",
	"XBTUGX",
	"XBTZAR",
	"XBTZMW",
	"ETHAUD",
	"ETHXBT",
	"ETHEUR",
	"ETHGBP",
	"ETHIDR",
	"ETHMYR",
	"ETHNGN",
	"ETHZAR",
	"LTCXBT",
	"LTCMYR",
	"LTCNGN",
	"LTCZAR",
	"XRPXBT",
	"XRPMYR",
	"XRPNGN",
	"XRPZAR",
}

var currencyPairsByName = func() map[string]CurrencyPair {
	m := make(map[string]CurrencyPair, len(currencyPairNames))
	for i, name := range currencyPairNames {
		m[name] = CurrencyPair(i)
	}

	return m
}()

func (o CurrencyPair) String() string {
	if !o.valid() {
		return "UNKNOWN"
	}

	return currencyPairNames[o]
}

func (o CurrencyPair) valid() bool {
	return o >= 0 && int(o) < len(currencyPairNames)
}

//
// CurrencyPairs returns every known currency pair.
//
func CurrencyPairs() []CurrencyPair {
	pairs := make([]CurrencyPair, len(currencyPairNames))
	for i := range currencyPairNames {
		pairs[i] = CurrencyPair(i)
	}

	return pairs
}

//
// ParseCurrencyPair converts a wire string such as "XBTNGN" into a CurrencyPair.
//
func ParseCurrencyPair(s string) (CurrencyPair, error) {
	pair, ok := currencyPairsByName[s]
	if !ok {
		return 0, exchange.NewError(
			exchange.InvalidEnum, "parse currency pair", &exchange.EnumError{Type: "currency pair", Value: s},
		)
	}

	return pair, nil
}

func (o CurrencyPair) MarshalText() ([]byte, error) {
	if !o.valid() {
		return nil, exchange.NewError(
			exchange.InvalidEnum, "marshal currency pair", &exchange.EnumError{Type: "currency pair", Value: o.String()},
		)
	}

	return []byte(o.String()), nil
}

func (o *CurrencyPair) UnmarshalText(text []byte) error {
	pair, err := ParseCurrencyPair(string(text))
	if err != nil {
		return err
	}

	*o = pair

	return nil
}
