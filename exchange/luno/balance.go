package luno

import "github.com/shopspring/decimal"

//
// Balance is the balance of a single account (asset) on the Luno profile.
//
type Balance struct {
	AccountID   string          `json:"account_id"`
	Asset       string          `json:"asset"`
	Balance     decimal.Decimal `json:"balance"`
	Reserved    decimal.Decimal `json:"reserved"`
	Unconfirmed decimal.Decimal `json:"unconfirmed"`
}

//
// Available returns the part of the balance that is not reserved.
//
func (o Balance) Available() decimal.Decimal {
	return o.Balance.Sub(o.Reserved)
}

type listBalancesResponse struct {
	Balances []Balance `json:"balance"`
}
