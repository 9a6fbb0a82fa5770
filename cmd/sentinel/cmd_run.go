package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"PortfolioSentinel/internal/fund"
	"PortfolioSentinel/internal/notifier"
	"PortfolioSentinel/internal/scheduler"
	"PortfolioSentinel/internal/server"
)

var runOnStart bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Serve the HTTP API and, with Telegram configured, the scheduled bot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		return withApp(cmd, func(a *app) error {
			srv := server.New(cfg.Server.Addr, a.analyzer, a.metrics, cfg.Portfolio.Budget)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			if err := cfg.ValidateBot(); err != nil {
				log.Warn().Err(err).Msg("telegram bot disabled")
			} else {
				ledger, err := fund.NewManager(cfg.Ledger.File)
				if err != nil {
					return err
				}
				tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
				sched := scheduler.NewScheduler(ctx, a.analyzer, ledger, tn, cfg.Portfolio.Budget)
				if err := sched.RegisterAll(cfg.Schedule.DailyCron, cfg.Schedule.WeeklyCron); err != nil {
					return err
				}
				sched.Start()
				defer sched.Stop()

				go tn.StartPolling(ctx, sched.HandleCommand)
				log.Info().Msg("telegram polling started")

				if runOnStart || os.Getenv("RUN_ON_START") == "true" {
					log.Info().Msg("running weekly task on start")
					go sched.RunWeeklyNow()
				}
			}

			log.Info().Msg("PortfolioSentinel is running, press Ctrl+C to stop")
			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			log.Info().Msg("shutdown signal received, stopping")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			return nil
		})
	},
}

func init() {
	runCmd.Flags().BoolVar(&runOnStart, "run-on-start", false, "Run the weekly task immediately")
	rootCmd.AddCommand(runCmd)
}
