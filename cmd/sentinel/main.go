package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/config"
	"PortfolioSentinel/internal/logger"
	"PortfolioSentinel/internal/report"
)

var (
	configPath   string
	outputFormat string
	renderStyle  string
	cfg          *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "sentinel",
	Short: "PortfolioSentinel portfolio analytics",
	Long: `PortfolioSentinel values an equity portfolio, computes technical indicators,
scores valuation and risk, and plans how to spend new capital in whole shares.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		if v := os.Getenv("CONFIG_PATH"); v != "" && !cmd.Flags().Changed("config") {
			configPath = v
		}
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		logger.SetGlobal(logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}))
		return cfg.Validate()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "markdown", "Output format: markdown, json")
	rootCmd.PersistentFlags().StringVar(&renderStyle, "style", "", "Glamour style (dark, light, notty, ascii); empty detects the terminal")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// output writes v as JSON or md rendered for the terminal, per --format.
func output(md string, v any) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "markdown", "md", "":
		out, err := report.Render(md, renderStyle, 100)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	default:
		return fmt.Errorf("unknown format %q", outputFormat)
	}
}
