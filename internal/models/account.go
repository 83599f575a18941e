package models

import "github.com/shopspring/decimal"

type Account struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	AccountNo string          `json:"accountNo"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Type      string          `json:"type"`
	Status    string          `json:"status"`
}
