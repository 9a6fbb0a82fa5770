package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/profile"
	"PortfolioSentinel/internal/scoring"
)

// Render renders markdown for the terminal. An empty style picks one from the
// terminal background.
func Render(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

// PortfolioMarkdown renders the valued positions and the DCA summary.
func PortfolioMarkdown(positions []model.EnrichedPosition, summary model.DCASummary, asOf time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio | %s\n\n", asOf.Format("2006-01-02 15:04"))
	b.WriteString("| Ticker | Lots | Avg Price | Price | Value | P/L | P/L % |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|\n")
	for _, p := range positions {
		price := Money(p.CurrentPrice)
		if p.PriceSource == model.PriceAvgPrice {
			price += " *"
		}
		fmt.Fprintf(&b, "| %s | %d | %s | %s | %s | %s | %s |\n",
			p.Ticker, p.Lots, Money(p.AvgPrice), price, Money(p.CurrentValue),
			SignedMoney(p.ProfitLoss), Percent(p.ProfitLossPct))
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Invested:** %s\n", Money(summary.TotalInvestment))
	fmt.Fprintf(&b, "- **Current value:** %s\n", Money(summary.TotalCurrentValue))
	fmt.Fprintf(&b, "- **Profit:** %s (%s)\n", SignedMoney(summary.TotalProfit), Percent(summary.TotalProfitPct))
	for _, p := range positions {
		if p.PriceSource == model.PriceAvgPrice {
			b.WriteString("\n\\* no live price, valued at average price\n")
			break
		}
	}
	return b.String()
}

// IndicatorsMarkdown renders the latest indicator values of one ticker.
func IndicatorsMarkdown(ind *model.Indicators) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s technicals\n\n", ind.Ticker)
	fmt.Fprintf(&b, "- **Last close:** %.2f\n", ind.LastClose)
	fmt.Fprintf(&b, "- **MA20 / MA50:** %s / %s\n", Reading(ind.LastMA20, 2), Reading(ind.LastMA50, 2))
	fmt.Fprintf(&b, "- **RSI(14):** %s\n", Reading(ind.LastRSI, 1))
	fmt.Fprintf(&b, "- **MACD / Signal:** %s / %s\n", Reading(ind.LastMACD, 3), Reading(ind.LastSignal, 3))
	fmt.Fprintf(&b, "- **52w range:** %.2f - %.2f (position %.0f%%)\n", ind.Low52w, ind.High52w, ind.Position52w*100)
	fmt.Fprintf(&b, "- **Volatility (annualized):** %.1f%%\n", ind.Volatility*100)
	fmt.Fprintf(&b, "- **Trend:** %s, forecast %.2f\n", ind.Trend, ind.ForecastPrice)
	return b.String()
}

// ValuationMarkdown renders valuation scores with their contributions.
func ValuationMarkdown(scores []model.ValuationScore) string {
	var b strings.Builder
	b.WriteString("# Valuation\n\n")
	b.WriteString("| Ticker | Score | Breakdown |\n|---|---:|---|\n")
	for _, s := range scores {
		breakdown := scoring.Describe(s.Contributions)
		if !s.HasData {
			breakdown = "no fundamentals"
		}
		fmt.Fprintf(&b, "| %s | %d/%d | %s |\n", s.Ticker, s.Score, scoring.MaxValuationScore, breakdown)
	}
	return b.String()
}

// CompareMarkdown renders a side-by-side comparison with industry references.
func CompareMarkdown(rows []model.ComparisonRow) string {
	var b strings.Builder
	b.WriteString("# Comparison\n\n")
	b.WriteString("| Ticker | Name | Price | PER (industry) | PBV (industry) | ROE | Revenue growth | Dividend yield | Source |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|---|\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s | %s | %.2f (%.2f) | %.2f (%.2f) | %.1f%% | %.1f%% | %.1f%% | %s |\n",
			r.Ticker, r.CompanyName, MoneyFloat(r.Price), r.PER, r.IndustryPER, r.PBV, r.IndustryPBV,
			r.ROE, r.RevenueGrowth, r.DividendYield, r.Side)
	}
	return b.String()
}

// RiskMarkdown renders per-stock and portfolio risk.
func RiskMarkdown(risk *model.PortfolioRisk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Risk: %.1f/10 (%s)\n\n", risk.Score, risk.Band)
	b.WriteString("| Ticker | Score | Volatility |\n|---|---:|---:|\n")
	for _, s := range risk.Stocks {
		fmt.Fprintf(&b, "| %s | %d | %.2f%% |\n", s.Ticker, s.Score, s.Volatility)
	}
	return b.String()
}

// PlanMarkdown renders an allocation plan.
func PlanMarkdown(plan *model.AllocationPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Allocation plan for %s\n\n", Money(plan.Budget))
	if len(plan.Recommendations) == 0 {
		b.WriteString("Budget is below every candidate price; nothing to buy.\n")
	} else {
		b.WriteString("| Ticker | Score | Weight | Shares | Investment | New shares |\n")
		b.WriteString("|---|---:|---:|---:|---:|---:|\n")
		for _, e := range plan.Recommendations {
			fmt.Fprintf(&b, "| %s | %d | %.1f%% | %d | %s | %d |\n",
				e.Ticker, e.Score, e.Weight*100, e.AdditionalShares, Money(e.AdditionalInvestment), e.NewShares)
		}
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "- **Invested:** %s\n", Money(plan.TotalInvestment))
	fmt.Fprintf(&b, "- **Remaining:** %s\n", Money(plan.Remaining))
	fmt.Fprintf(&b, "- **Portfolio value:** %s -> %s (%+.2f%%)\n",
		Money(plan.CurrentValue), Money(plan.NewValue), plan.ValueChangePct)
	return b.String()
}

// ScreenMarkdown renders undervalued screen results.
func ScreenMarkdown(results []scoring.ScreenResult) string {
	var b strings.Builder
	b.WriteString("# Undervalued stocks\n\n")
	if len(results) == 0 {
		b.WriteString("No stock passed the screen.\n")
		return b.String()
	}
	b.WriteString("| Ticker | Name | Score | PER | PBV | ROE | Yield | Price |\n")
	b.WriteString("|---|---|---:|---:|---:|---:|---:|---:|\n")
	for _, r := range results {
		s := r.Snapshot
		fmt.Fprintf(&b, "| %s | %s | %d | %.1f | %.2f | %.1f%% | %.1f%% | %s |\n",
			s.Ticker, s.CompanyName, r.Valuation.Score, s.PER, s.PBV, s.ROE, s.DividendYield, MoneyFloat(s.Price))
	}
	return b.String()
}

// DiversificationMarkdown renders current versus target allocation.
func DiversificationMarkdown(d profile.Diversification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Diversification (%s)\n\n", d.Profile)
	b.WriteString("| Category | Current | Target | Gap |\n|---|---:|---:|---:|\n")
	for _, g := range d.Gaps {
		fmt.Fprintf(&b, "| %s | %.1f%% | %.0f%% | %+.1f%% |\n", g.Category, g.Current, g.Target, g.Gap)
	}
	return b.String()
}

// LedgerMarkdown renders ledger transactions with the running balance.
func LedgerMarkdown(txs []model.Transaction, summary model.LedgerSummary) string {
	var b strings.Builder
	b.WriteString("# Capital ledger\n\n")
	if len(txs) > 0 {
		b.WriteString("| Date | Ticker | Action | Shares | Price | Amount | Balance |\n")
		b.WriteString("|---|---|---|---:|---:|---:|---:|\n")
		for i, tx := range txs {
			fmt.Fprintf(&b, "| %s | %s | %s | %d | %s | %s | %s |\n",
				tx.Date.Format("2006-01-02"), tx.Ticker, tx.Action, tx.Shares,
				Money(tx.Price), Money(tx.Amount), Money(summary.Cumulative[i]))
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "- **Total purchases:** %s\n", Money(summary.TotalPurchases))
	fmt.Fprintf(&b, "- **Total sales:** %s\n", Money(summary.TotalSales))
	fmt.Fprintf(&b, "- **Net cashflow:** %s\n", Money(summary.NetCashflow))
	return b.String()
}
