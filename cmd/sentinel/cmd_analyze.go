package main

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/report"
	"PortfolioSentinel/internal/scoring"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Value the configured portfolio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			rep := a.analyzer.Portfolio(cmd.Context())
			return output(report.PortfolioMarkdown(rep.Positions, rep.Summary, rep.AsOf), rep)
		})
	},
}

var indicatorsCmd = &cobra.Command{
	Use:   "indicators TICKER...",
	Short: "Compute technical indicators for tickers",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			for _, t := range args {
				ind, err := a.analyzer.Indicators(cmd.Context(), strings.ToUpper(t))
				if err != nil {
					return err
				}
				if err := output(report.IndicatorsMarkdown(ind), ind); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var valuationCmd = &cobra.Command{
	Use:   "valuation [TICKER...]",
	Short: "Score valuation from fundamentals; defaults to the held tickers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			tickers := a.analyzer.Tickers()
			if len(args) > 0 {
				tickers = upper(args)
			}
			scores := a.analyzer.Valuations(cmd.Context(), tickers)
			return output(report.ValuationMarkdown(scores), scores)
		})
	},
}

var riskCmd = &cobra.Command{
	Use:   "risk",
	Short: "Score the risk of every position and the portfolio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			risk := a.analyzer.Risk(cmd.Context())
			return output(report.RiskMarkdown(risk), risk)
		})
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [TICKER...]",
	Short: "Compare 2 to 5 stocks side by side; defaults to the held tickers",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			rows, err := a.analyzer.Compare(cmd.Context(), upper(args))
			if err != nil {
				return err
			}
			return output(report.CompareMarkdown(rows), rows)
		})
	},
}

var (
	planBudget string
	planExtra  []string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan how to invest a budget across the portfolio",
	Long: `Distributes the budget over held positions (plus --extra tickers) in
proportion to their valuation scores, buying whole shares only.

Examples:
  sentinel plan --budget 5000000
  sentinel plan --budget 2500000 --extra ASII.JK,UNVR.JK`,
	RunE: func(cmd *cobra.Command, args []string) error {
		budget := cfg.Portfolio.Budget
		if planBudget != "" {
			b, err := decimal.NewFromString(planBudget)
			if err != nil {
				return fmt.Errorf("invalid --budget %q: %w", planBudget, err)
			}
			budget = b
		}
		return withApp(cmd, func(a *app) error {
			plan, err := a.analyzer.Plan(cmd.Context(), budget, upper(planExtra)...)
			if err != nil {
				return err
			}
			return output(report.PlanMarkdown(plan), plan)
		})
	},
}

var (
	screenExchange string
	screenOpts     = scoring.DefaultScreenOptions
)

var screenCmd = &cobra.Command{
	Use:   "screen",
	Short: "Screen an exchange for undervalued stocks",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(a *app) error {
			results, err := a.analyzer.Screen(cmd.Context(), screenExchange, screenOpts)
			if err != nil {
				return err
			}
			return output(report.ScreenMarkdown(results), results)
		})
	},
}

func init() {
	planCmd.Flags().StringVar(&planBudget, "budget", "", "Cash to invest (defaults to portfolio.budget)")
	planCmd.Flags().StringSliceVar(&planExtra, "extra", nil, "Additional candidate tickers")

	screenCmd.Flags().StringVar(&screenExchange, "exchange", "IDX", "Exchange to list")
	screenCmd.Flags().IntVar(&screenOpts.MinScore, "min-score", screenOpts.MinScore, "Minimum valuation score")
	screenCmd.Flags().Float64Var(&screenOpts.MinMarketCap, "min-market-cap", screenOpts.MinMarketCap, "Minimum market capitalization")
	screenCmd.Flags().IntVar(&screenOpts.Limit, "limit", screenOpts.Limit, "Maximum results")

	rootCmd.AddCommand(analyzeCmd, indicatorsCmd, valuationCmd, compareCmd, riskCmd, planCmd, screenCmd)
}

// withApp wires the application for one command and closes it afterwards.
func withApp(cmd *cobra.Command, fn func(a *app) error) error {
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func upper(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return out
}
