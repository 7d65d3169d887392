package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           string          `db:"id" json:"id"`
	Username     string          `db:"username" json:"username"`
	PasswordHash string          `db:"password_hash" json:"-"`
	Cash         decimal.Decimal `db:"cash" json:"cash"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
}

// Trade is one append-only ledger entry. Quantity is signed:
// positive for a buy, negative for a sell.
type Trade struct {
	ID         string          `db:"id" json:"id"`
	UserID     string          `db:"user_id" json:"user_id"`
	Symbol     string          `db:"symbol" json:"symbol"`
	Quantity   int64           `db:"quantity" json:"quantity"`
	Price      decimal.Decimal `db:"price" json:"price"`
	ExecutedAt time.Time       `db:"executed_at" json:"executed_at"`
}

// Holding is derived from the ledger, never stored. LastPrice is the
// price of the most recent trade for the symbol and is the valuation
// fallback when a live quote cannot be fetched.
type Holding struct {
	Symbol    string          `db:"symbol" json:"symbol"`
	Quantity  int64           `db:"quantity" json:"quantity"`
	LastPrice decimal.Decimal `db:"last_price" json:"last_price"`
}
