package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/fund"
	"PortfolioSentinel/internal/model"
	"PortfolioSentinel/internal/profile"
	"PortfolioSentinel/internal/report"
)

var profileAnswers []int

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Evaluate the investor risk profile and diversification",
	Long: `Scores the four-question risk questionnaire (answers 1-4 each) and compares
the portfolio's category mix with the profile target. Without --answers the
configured portfolio.profile is used.

Example:
  sentinel profile --answers 2,3,3,2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var p profile.RiskProfile
		if len(profileAnswers) > 0 {
			prof, total, err := profile.Evaluate(profileAnswers)
			if err != nil {
				return err
			}
			fmt.Printf("Questionnaire score %d: %s\n", total, prof)
			p = prof
		} else {
			prof, err := profile.Parse(cfg.Portfolio.Profile)
			if err != nil {
				return err
			}
			p = prof
		}
		return withApp(cmd, func(a *app) error {
			d := a.analyzer.Diversification(cmd.Context(), p)
			return output(report.DiversificationMarkdown(d), d)
		})
	},
}

var profileQuestionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the risk questionnaire",
	RunE: func(cmd *cobra.Command, args []string) error {
		var b strings.Builder
		b.WriteString("# Risk questionnaire\n\n")
		for i, q := range profile.Questions {
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, q.Text)
			for j, o := range q.Options {
				fmt.Fprintf(&b, "   %d) %s\n", j+1, o)
			}
			b.WriteString("\n")
		}
		return output(b.String(), profile.Questions)
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Show the capital ledger",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := fund.NewManager(cfg.Ledger.File)
		if err != nil {
			return err
		}
		txs := m.Transactions()
		summary := m.Summary()
		return output(report.LedgerMarkdown(txs, summary), struct {
			Transactions []model.Transaction `json:"transactions"`
			Summary      model.LedgerSummary `json:"summary"`
		}{txs, summary})
	},
}

var (
	ledgerDate   string
	ledgerTicker string
	ledgerAction string
	ledgerShares int64
	ledgerPrice  string
)

var ledgerAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a buy or sell",
	Long: `Example:
  sentinel ledger add --ticker BBCA.JK --action BUY --shares 100 --price 9250`,
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now()
		if ledgerDate != "" {
			d, err := time.Parse("2006-01-02", ledgerDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q: %w", ledgerDate, err)
			}
			date = d
		}
		price, err := decimal.NewFromString(ledgerPrice)
		if err != nil {
			return fmt.Errorf("invalid --price %q: %w", ledgerPrice, err)
		}
		m, err := fund.NewManager(cfg.Ledger.File)
		if err != nil {
			return err
		}
		tx, err := m.Record(date, strings.ToUpper(ledgerTicker), model.TradeAction(strings.ToUpper(ledgerAction)), ledgerShares, price)
		if err != nil {
			return err
		}
		fmt.Printf("Recorded %s %d %s at %s (%s)\n", tx.Action, tx.Shares, tx.Ticker, report.Money(tx.Price), report.Money(tx.Amount))
		return nil
	},
}

func init() {
	profileCmd.Flags().IntSliceVar(&profileAnswers, "answers", nil, "Questionnaire answers, e.g. 2,3,3,2")
	profileCmd.AddCommand(profileQuestionsCmd)

	ledgerAddCmd.Flags().StringVar(&ledgerDate, "date", "", "Trade date YYYY-MM-DD (default today)")
	ledgerAddCmd.Flags().StringVar(&ledgerTicker, "ticker", "", "Ticker")
	ledgerAddCmd.Flags().StringVar(&ledgerAction, "action", "BUY", "BUY or SELL")
	ledgerAddCmd.Flags().Int64Var(&ledgerShares, "shares", 0, "Number of shares")
	ledgerAddCmd.Flags().StringVar(&ledgerPrice, "price", "", "Price per share")
	_ = ledgerAddCmd.MarkFlagRequired("ticker")
	_ = ledgerAddCmd.MarkFlagRequired("price")
	ledgerCmd.AddCommand(ledgerAddCmd)

	rootCmd.AddCommand(profileCmd, ledgerCmd)
}
