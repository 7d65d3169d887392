package service

import (
	"context"

	"papertrade/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Ledger is the slice of the store the trading and portfolio services
// need. *database.Repo satisfies it.
type Ledger interface {
	GetUserByID(ctx context.Context, id string) (models.User, error)
	ExecuteTrade(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal) (decimal.Decimal, error)
	HoldingsBySymbol(ctx context.Context, userID string) ([]models.Holding, error)
	ListTrades(ctx context.Context, userID string) ([]models.Trade, error)
}

// Engine validates and executes buy/sell orders. Quantity and symbol
// checks happen here; the affordability and share-availability checks
// run inside the store transaction where they are race-free.
type Engine struct {
	ledger Ledger
	quotes QuoteProvider
	log    *logrus.Logger
}

func NewEngine(ledger Ledger, quotes QuoteProvider, log *logrus.Logger) *Engine {
	return &Engine{ledger: ledger, quotes: quotes, log: log}
}

// TradeReceipt reports a completed order back to the caller.
type TradeReceipt struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Total  decimal.Decimal
	Cash   decimal.Decimal
}

func (e *Engine) Buy(ctx context.Context, userID, symbol string, shares int64) (TradeReceipt, error) {
	return e.execute(ctx, userID, symbol, shares, shares)
}

func (e *Engine) Sell(ctx context.Context, userID, symbol string, shares int64) (TradeReceipt, error) {
	return e.execute(ctx, userID, symbol, shares, -shares)
}

func (e *Engine) execute(ctx context.Context, userID, symbol string, shares, signed int64) (TradeReceipt, error) {
	if shares < 1 {
		return TradeReceipt{}, models.ErrInvalidQuantity
	}

	q, err := e.quotes.Lookup(ctx, symbol)
	if err != nil {
		return TradeReceipt{}, err
	}

	cash, err := e.ledger.ExecuteTrade(ctx, userID, q.Symbol, signed, q.Price)
	if err != nil {
		return TradeReceipt{}, err
	}

	e.log.Infof("executed trade: user=%s symbol=%s quantity=%d price=%s", userID, q.Symbol, signed, q.Price.StringFixed(4))
	return TradeReceipt{
		Symbol: q.Symbol,
		Name:   q.Name,
		Shares: shares,
		Price:  q.Price,
		Total:  q.Price.Mul(decimal.NewFromInt(shares)),
		Cash:   cash,
	}, nil
}
