package service

import (
	"context"
	"errors"

	"papertrade/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PortfolioService derives the holdings and history views from the
// ledger plus live quotes. Read-only; nothing here mutates the store.
type PortfolioService struct {
	ledger Ledger
	quotes QuoteProvider
	log    *logrus.Logger
}

func NewPortfolioService(ledger Ledger, quotes QuoteProvider, log *logrus.Logger) *PortfolioService {
	return &PortfolioService{ledger: ledger, quotes: quotes, log: log}
}

type Position struct {
	Symbol   string
	Name     string
	Quantity int64
	Price    decimal.Decimal
	Equity   decimal.Decimal
	// Stale marks a position valued at its last trade price because
	// the live quote could not be fetched.
	Stale bool
}

type PortfolioView struct {
	Positions []Position
	Cash      decimal.Decimal
	Total     decimal.Decimal
}

// Portfolio values every open position at its live quote. When a quote
// cannot be fetched (a traded symbol may since have been delisted) the
// position degrades to its last executed trade price rather than
// aborting the whole page; the position is marked stale and the
// failure is logged.
func (p *PortfolioService) Portfolio(ctx context.Context, userID string) (PortfolioView, error) {
	user, err := p.ledger.GetUserByID(ctx, userID)
	if err != nil {
		return PortfolioView{}, err
	}

	holdings, err := p.ledger.HoldingsBySymbol(ctx, userID)
	if err != nil {
		return PortfolioView{}, err
	}

	view := PortfolioView{Positions: []Position{}, Cash: user.Cash, Total: user.Cash}
	for _, h := range holdings {
		pos := Position{Symbol: h.Symbol, Name: h.Symbol, Quantity: h.Quantity, Price: h.LastPrice, Stale: true}
		if q, err := p.quotes.Lookup(ctx, h.Symbol); err == nil {
			pos.Name = q.Name
			pos.Price = q.Price
			pos.Stale = false
		} else {
			p.log.Warnf("portfolio quote for %s failed, using last trade price: %v", h.Symbol, err)
		}
		pos.Equity = pos.Price.Mul(decimal.NewFromInt(pos.Quantity))
		view.Positions = append(view.Positions, pos)
		view.Total = view.Total.Add(pos.Equity)
	}
	return view, nil
}

type HistoryEntry struct {
	models.Trade
	// Name is the company name as of render time, not trade time.
	Name string
}

// History returns the user's full ledger in insertion order, each
// entry annotated with the present-day company name. The name falls
// back to the bare symbol if the quote provider cannot resolve it.
func (p *PortfolioService) History(ctx context.Context, userID string) ([]HistoryEntry, error) {
	trades, err := p.ledger.ListTrades(ctx, userID)
	if err != nil {
		return nil, err
	}

	names := map[string]string{}
	entries := make([]HistoryEntry, 0, len(trades))
	for _, t := range trades {
		name, ok := names[t.Symbol]
		if !ok {
			name = t.Symbol
			q, err := p.quotes.Lookup(ctx, t.Symbol)
			if err == nil {
				name = q.Name
			} else if !errors.Is(err, models.ErrUnknownSymbol) {
				p.log.Warnf("history name lookup for %s failed: %v", t.Symbol, err)
			}
			names[t.Symbol] = name
		}
		entries = append(entries, HistoryEntry{Trade: t, Name: name})
	}
	return entries, nil
}
