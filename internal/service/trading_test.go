package service

import (
	"context"
	"testing"

	"papertrade/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockLedger struct {
	mock.Mock
}

func (m *mockLedger) GetUserByID(ctx context.Context, id string) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *mockLedger) ExecuteTrade(ctx context.Context, userID, symbol string, quantity int64, price decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, userID, symbol, quantity, price)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *mockLedger) HoldingsBySymbol(ctx context.Context, userID string) ([]models.Holding, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Holding), args.Error(1)
}

func (m *mockLedger) ListTrades(ctx context.Context, userID string) ([]models.Trade, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]models.Trade), args.Error(1)
}

type stubQuotes struct {
	quotes map[string]Quote
	err    error
}

func (s stubQuotes) Lookup(_ context.Context, symbol string) (Quote, error) {
	if s.err != nil {
		return Quote{}, s.err
	}
	q, ok := s.quotes[symbol]
	if !ok {
		return Quote{}, models.ErrUnknownSymbol
	}
	return q, nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestEngineBuy(t *testing.T) {
	ledger := new(mockLedger)
	quotes := stubQuotes{quotes: map[string]Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: decimal.NewFromInt(20)},
	}}
	engine := NewEngine(ledger, quotes, testLogger())

	ledger.On("ExecuteTrade", mock.Anything, "u1", "AAPL", int64(5), decimal.NewFromInt(20)).
		Return(decimal.NewFromInt(9900), nil)

	receipt, err := engine.Buy(context.Background(), "u1", "AAPL", 5)
	assert.NoError(t, err)
	assert.Equal(t, "AAPL", receipt.Symbol)
	assert.Equal(t, "Apple Inc", receipt.Name)
	assert.Equal(t, int64(5), receipt.Shares)
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(100)), "total should be price*shares, got %s", receipt.Total)
	assert.True(t, receipt.Cash.Equal(decimal.NewFromInt(9900)))
	ledger.AssertExpectations(t)
}

func TestEngineSellUsesNegativeQuantity(t *testing.T) {
	ledger := new(mockLedger)
	quotes := stubQuotes{quotes: map[string]Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: decimal.NewFromInt(20)},
	}}
	engine := NewEngine(ledger, quotes, testLogger())

	ledger.On("ExecuteTrade", mock.Anything, "u1", "AAPL", int64(-3), decimal.NewFromInt(20)).
		Return(decimal.NewFromInt(10060), nil)

	receipt, err := engine.Sell(context.Background(), "u1", "AAPL", 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), receipt.Shares)
	assert.True(t, receipt.Total.Equal(decimal.NewFromInt(60)))
	ledger.AssertExpectations(t)
}

func TestEngineRejectsNonPositiveShares(t *testing.T) {
	ledger := new(mockLedger)
	engine := NewEngine(ledger, stubQuotes{}, testLogger())

	for _, shares := range []int64{0, -1, -100} {
		_, err := engine.Buy(context.Background(), "u1", "AAPL", shares)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)
		_, err = engine.Sell(context.Background(), "u1", "AAPL", shares)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)
	}
	// No ledger call may happen for rejected quantities.
	ledger.AssertNotCalled(t, "ExecuteTrade", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEngineUnknownSymbol(t *testing.T) {
	ledger := new(mockLedger)
	engine := NewEngine(ledger, stubQuotes{quotes: map[string]Quote{}}, testLogger())

	_, err := engine.Buy(context.Background(), "u1", "NOPE", 1)
	assert.ErrorIs(t, err, models.ErrUnknownSymbol)
	ledger.AssertNotCalled(t, "ExecuteTrade", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEnginePassesThroughLedgerErrors(t *testing.T) {
	quotes := stubQuotes{quotes: map[string]Quote{
		"AAPL": {Symbol: "AAPL", Name: "Apple Inc", Price: decimal.NewFromInt(20)},
	}}

	cases := []struct {
		name string
		err  error
	}{
		{"insufficient funds", models.ErrInsufficientFunds},
		{"insufficient shares", models.ErrInsufficientShares},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ledger := new(mockLedger)
			ledger.On("ExecuteTrade", mock.Anything, "u1", "AAPL", mock.Anything, mock.Anything).
				Return(decimal.Zero, tc.err)
			engine := NewEngine(ledger, quotes, testLogger())

			_, err := engine.Buy(context.Background(), "u1", "AAPL", 1)
			assert.ErrorIs(t, err, tc.err)
		})
	}
}
