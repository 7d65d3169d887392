package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"papertrade/internal/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

type Quote struct {
	Symbol string
	Name   string
	Price  decimal.Decimal
}

// QuoteProvider resolves a ticker symbol to a point-in-time quote.
// Implementations must return models.ErrUnknownSymbol for symbols the
// upstream does not know, and models.ErrQuoteUnavailable for transient
// upstream failures. Lookups are never retried within a request.
type QuoteProvider interface {
	Lookup(ctx context.Context, symbol string) (Quote, error)
}

const quoteTimeout = 5 * time.Second

// IEXClient fetches quotes from an IEX-style REST endpoint:
// GET {base}/stable/stock/{symbol}/quote?token={token}
type IEXClient struct {
	baseURL string
	token   string
	client  *http.Client
	log     *logrus.Logger
}

func NewIEXClient(baseURL, token string, log *logrus.Logger) *IEXClient {
	return &IEXClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: quoteTimeout},
		log:     log,
	}
}

type iexQuoteResponse struct {
	Symbol      string      `json:"symbol"`
	CompanyName string      `json:"companyName"`
	LatestPrice json.Number `json:"latestPrice"`
}

func (c *IEXClient) Lookup(ctx context.Context, symbol string) (Quote, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return Quote{}, models.ErrUnknownSymbol
	}

	url := fmt.Sprintf("%s/stable/stock/%s/quote?token=%s", c.baseURL, symbol, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Warnf("quote lookup for %s failed: %v", symbol, err)
		return Quote{}, models.ErrQuoteUnavailable
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Quote{}, models.ErrUnknownSymbol
	case resp.StatusCode != http.StatusOK:
		c.log.Warnf("quote lookup for %s returned status %d", symbol, resp.StatusCode)
		return Quote{}, models.ErrQuoteUnavailable
	}

	var body iexQuoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warnf("quote decode for %s failed: %v", symbol, err)
		return Quote{}, models.ErrQuoteUnavailable
	}

	// Prices go through json.Number, never float64: money stays exact.
	price, err := decimal.NewFromString(body.LatestPrice.String())
	if err != nil || !price.IsPositive() {
		c.log.Warnf("quote for %s has bad price %q", symbol, body.LatestPrice)
		return Quote{}, models.ErrQuoteUnavailable
	}

	name := body.CompanyName
	if name == "" {
		name = symbol
	}
	return Quote{Symbol: symbol, Name: name, Price: price}, nil
}
