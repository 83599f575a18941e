package models

import "github.com/shopspring/decimal"

const (
	DirectionCredit = "credit"
	DirectionDebit  = "debit"
)

// Transaction represents a financial transaction reported by the aggregator
type Transaction struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Direction   string          `json:"direction"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	PostDate    string          `json:"postDate"`
	Balance     decimal.Decimal `json:"balance"`
	Account     string          `json:"account"`
}

// IsCredit reports whether money flowed into the account
func (t *Transaction) IsCredit() bool {
	return t.Direction == DirectionCredit
}
