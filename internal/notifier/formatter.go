package notifier

import (
	"fmt"
	"html"
	"strings"
	"time"

	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/report"
)

// FormatPortfolioReport formats the valued portfolio into a Telegram message.
func FormatPortfolioReport(positions []model.EnrichedPosition, summary model.DCASummary, asOf time.Time) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Portfolio</b> | %s\n\n", asOf.Format("2006-01-02")))
	for _, p := range positions {
		marker := ""
		if p.PriceSource == model.PriceAvgPrice {
			marker = " ⚠️"
		}
		b.WriteString(fmt.Sprintf("<b>%s</b>%s %d @ %s\n", html.EscapeString(p.Ticker), marker, p.Lots, report.Money(p.CurrentPrice)))
		b.WriteString(fmt.Sprintf("  value %s | P/L %s (%s)\n",
			report.Money(p.CurrentValue), report.SignedMoney(p.ProfitLoss), report.Percent(p.ProfitLossPct)))
	}
	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("Invested: %s\n", report.Money(summary.TotalInvestment)))
	b.WriteString(fmt.Sprintf("Value: %s\n", report.Money(summary.TotalCurrentValue)))
	b.WriteString(fmt.Sprintf("Profit: %s (%s)\n", report.SignedMoney(summary.TotalProfit), report.Percent(summary.TotalProfitPct)))
	return b.String()
}

// FormatPlanReport formats an allocation plan.
func FormatPlanReport(plan *model.AllocationPlan) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💰 <b>Allocation plan</b> | budget %s\n\n", report.Money(plan.Budget)))
	if len(plan.Recommendations) == 0 {
		b.WriteString("Budget is below every candidate price.\n")
	}
	for _, e := range plan.Recommendations {
		b.WriteString(fmt.Sprintf("• <b>%s</b> (score %d, %.0f%%): buy %d = %s\n",
			html.EscapeString(e.Ticker), e.Score, e.Weight*100, e.AdditionalShares, report.Money(e.AdditionalInvestment)))
	}
	b.WriteString(fmt.Sprintf("\nInvested: %s | Remaining: %s\n", report.Money(plan.TotalInvestment), report.Money(plan.Remaining)))
	b.WriteString(fmt.Sprintf("Value: %s → %s (%+.2f%%)\n", report.Money(plan.CurrentValue), report.Money(plan.NewValue), plan.ValueChangePct))
	return b.String()
}

// FormatRiskReport formats the portfolio risk breakdown.
func FormatRiskReport(risk *model.PortfolioRisk) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🛡 <b>Risk</b>: %.1f/10 (%s)\n\n", risk.Score, risk.Band))
	for _, s := range risk.Stocks {
		b.WriteString(fmt.Sprintf("  %s: %d (vol %.2f%%)\n", html.EscapeString(s.Ticker), s.Score, s.Volatility))
	}
	if risk.Band == model.RiskHigh || risk.Band == model.RiskVeryHigh {
		b.WriteString("\n⚠️ Consider trimming high-risk holdings")
	}
	return b.String()
}

// FormatTrendReport formats the technical snapshot of one ticker.
func FormatTrendReport(ind *model.Indicators) string {
	var b strings.Builder
	icon := "➡️"
	switch ind.Trend {
	case model.TrendUp:
		icon = "📈"
	case model.TrendDown:
		icon = "📉"
	}
	b.WriteString(fmt.Sprintf("%s <b>%s</b> %s\n\n", icon, html.EscapeString(ind.Ticker), ind.Trend))
	b.WriteString(fmt.Sprintf("Close: %.2f | forecast %.2f\n", ind.LastClose, ind.ForecastPrice))
	b.WriteString(fmt.Sprintf("MA20: %s | MA50: %s\n", report.Reading(ind.LastMA20, 2), report.Reading(ind.LastMA50, 2)))
	b.WriteString(fmt.Sprintf("RSI: %s | MACD: %s / %s\n",
		report.Reading(ind.LastRSI, 0), report.Reading(ind.LastMACD, 3), report.Reading(ind.LastSignal, 3)))
	b.WriteString(fmt.Sprintf("52w: %.2f - %.2f\n", ind.Low52w, ind.High52w))
	return b.String()
}

// FormatCompareReport formats a stock comparison, one block per ticker.
func FormatCompareReport(rows []model.ComparisonRow) string {
	var b strings.Builder
	b.WriteString("🆚 <b>Comparison</b>\n")
	for _, r := range rows {
		b.WriteString(fmt.Sprintf("\n<b>%s</b> (%s) %s\n", html.EscapeString(r.Ticker), r.Side, report.MoneyFloat(r.Price)))
		b.WriteString(fmt.Sprintf("PER %.2f vs %.2f | PBV %.2f vs %.2f\n", r.PER, r.IndustryPER, r.PBV, r.IndustryPBV))
		b.WriteString(fmt.Sprintf("ROE %.1f%% | growth %.1f%% | yield %.1f%%\n", r.ROE, r.RevenueGrowth, r.DividendYield))
	}
	return b.String()
}

// FormatLedgerStatus formats the capital ledger totals.
func FormatLedgerStatus(summary model.LedgerSummary) string {
	var b strings.Builder
	b.WriteString("📦 <b>Capital ledger</b>\n\n")
	b.WriteString(fmt.Sprintf("Transactions: %d\n", summary.Count))
	b.WriteString(fmt.Sprintf("Purchases: %s\n", report.Money(summary.TotalPurchases)))
	b.WriteString(fmt.Sprintf("Sales: %s\n", report.Money(summary.TotalSales)))
	b.WriteString(fmt.Sprintf("Net cashflow: %s\n", report.Money(summary.NetCashflow)))
	return b.String()
}
