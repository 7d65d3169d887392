package handlers

import (
	"html/template"

	money "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// usd renders a decimal dollar amount as "$1,234.56".
func usd(d decimal.Decimal) string {
	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{"usd": usd}
}
