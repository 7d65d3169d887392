package service

import (
	"context"
	"testing"

	"papertrade/internal/models"

	"github.com/jarcoal/httpmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient() *IEXClient {
	c := NewIEXClient("https://quotes.test", "tok", testLogger())
	httpmock.ActivateNonDefault(c.client)
	return c
}

func TestIEXLookup(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://quotes.test/stable/stock/AAPL/quote",
		httpmock.NewStringResponder(200, `{"symbol":"AAPL","companyName":"Apple Inc","latestPrice":189.37}`))

	q, err := c.Lookup(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple Inc", q.Name)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("189.37")), "price: %s", q.Price)
}

func TestIEXLookupUnknownSymbol(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://quotes.test/stable/stock/NOPE/quote",
		httpmock.NewStringResponder(404, "Unknown symbol"))

	_, err := c.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, models.ErrUnknownSymbol)
}

func TestIEXLookupUpstreamFailure(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://quotes.test/stable/stock/AAPL/quote",
		httpmock.NewStringResponder(500, "boom"))

	_, err := c.Lookup(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
}

func TestIEXLookupMalformedBody(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://quotes.test/stable/stock/AAPL/quote",
		httpmock.NewStringResponder(200, `{"latestPrice":"not-a-number"`))

	_, err := c.Lookup(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
}

func TestIEXLookupNonPositivePrice(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://quotes.test/stable/stock/AAPL/quote",
		httpmock.NewStringResponder(200, `{"symbol":"AAPL","companyName":"Apple Inc","latestPrice":0}`))

	_, err := c.Lookup(context.Background(), "AAPL")
	assert.ErrorIs(t, err, models.ErrQuoteUnavailable)
}

func TestIEXLookupEmptySymbol(t *testing.T) {
	c := newTestClient()
	defer httpmock.DeactivateAndReset()

	_, err := c.Lookup(context.Background(), "   ")
	assert.ErrorIs(t, err, models.ErrUnknownSymbol)
	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}
