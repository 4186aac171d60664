package constants

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AppName      = "luno"
	LogPrefixFmt = "%-17s "

	DefaultConfigFile = ""
	DefaultEnvFile    = ".env"
	DefaultSince      = 24 * time.Hour
)

var (
	zero    = decimal.Zero
	hundred = decimal.NewFromInt(100)
)

func Zero() decimal.Decimal {
	return zero
}

func Hundred() decimal.Decimal {
	return hundred
}
