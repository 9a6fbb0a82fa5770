package report

import (
	"fmt"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Currency is the ISO code used for every displayed amount.
const Currency = "IDR"

// Money formats an amount in the display currency, e.g. "Rp1.250.000,00".
func Money(amount decimal.Decimal) string {
	return MoneyIn(amount, Currency)
}

// MoneyIn formats an amount in the given ISO currency. Unknown codes fall back
// to a plain number with the code appended.
func MoneyIn(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	factor, _ := decimal.NewFromInt(10).PowInt32(int32(cur.Fraction))
	minor := amount.Mul(factor).Round(0)
	return money.New(minor.IntPart(), code).Display()
}

// MoneyFloat formats a float amount in the display currency.
func MoneyFloat(amount float64) string {
	return Money(decimal.NewFromFloat(amount))
}

// SignedMoney prefixes positive amounts with "+".
func SignedMoney(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + Money(amount)
	}
	return Money(amount)
}

// Percent formats a fraction (0.1) as "+10.00%".
func Percent(fraction float64) string {
	return fmt.Sprintf("%+.2f%%", fraction*100)
}

// Reading formats an indicator value with the given precision, or "n/a"
// while the indicator is undefined.
func Reading(v *float64, prec int) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.*f", prec, *v)
}
