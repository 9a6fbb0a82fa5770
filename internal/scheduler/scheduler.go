package scheduler

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/analyzer"
	"PortfolioSentinel/internal/fund"
	"PortfolioSentinel/internal/notifier"
)

// RSI levels that trigger the daily alerts.
const (
	oversoldRSI   = 30
	overboughtRSI = 70
)

// Sender delivers a formatted message. *notifier.TelegramNotifier satisfies it.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler manages all cron tasks and answers bot commands.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer *analyzer.Analyzer
	Ledger   *fund.Manager
	Notifier Sender
	// Budget is the weekly allocation budget; zero skips the plan.
	Budget decimal.Decimal
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, an *analyzer.Analyzer, ledger *fund.Manager, sender Sender, budget decimal.Decimal) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Analyzer: an,
		Ledger:   ledger,
		Notifier: sender,
		Budget:   budget,
		Ctx:      ctx,
	}
}

// RegisterAll registers the daily and weekly tasks.
func (s *Scheduler) RegisterAll(dailyCron, weeklyCron string) error {
	if _, err := s.Cron.AddFunc(dailyCron, s.dailyTask); err != nil {
		return fmt.Errorf("register daily task: %w", err)
	}
	if _, err := s.Cron.AddFunc(weeklyCron, s.weeklyTask); err != nil {
		return fmt.Errorf("register weekly task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Info().Int("entries", len(s.Cron.Entries())).Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Info().Msg("scheduler stopped")
}

// RunWeeklyNow executes the weekly task immediately.
func (s *Scheduler) RunWeeklyNow() {
	s.weeklyTask()
}

// dailyTask sends the portfolio report plus RSI alerts for held tickers.
func (s *Scheduler) dailyTask() {
	log.Info().Msg("running daily task")
	rep := s.Analyzer.Portfolio(s.Ctx)
	s.trySend(notifier.FormatPortfolioReport(rep.Positions, rep.Summary, rep.AsOf))

	var alerts []string
	for _, t := range s.Analyzer.Tickers() {
		ind, err := s.Analyzer.Indicators(s.Ctx, t)
		if err != nil {
			log.Warn().Err(err).Str("ticker", t).Msg("daily indicators")
			continue
		}
		if ind.LastRSI == nil {
			continue
		}
		switch rsi := *ind.LastRSI; {
		case rsi < oversoldRSI:
			alerts = append(alerts, fmt.Sprintf("🎣 <b>%s</b> oversold, RSI=%.0f", html.EscapeString(t), rsi))
		case rsi > overboughtRSI:
			alerts = append(alerts, fmt.Sprintf("⚠️ <b>%s</b> overbought, RSI=%.0f", html.EscapeString(t), rsi))
		}
	}
	if len(alerts) > 0 {
		s.trySend(strings.Join(alerts, "\n"))
	}
}

// weeklyTask sends the risk report and, with a budget, the allocation plan.
func (s *Scheduler) weeklyTask() {
	log.Info().Msg("running weekly task")
	s.trySend(notifier.FormatRiskReport(s.Analyzer.Risk(s.Ctx)))

	if !s.Budget.IsPositive() {
		return
	}
	plan, err := s.Analyzer.Plan(s.Ctx, s.Budget)
	if err != nil {
		log.Error().Err(err).Msg("weekly plan")
		s.trySend("❌ weekly plan failed: " + html.EscapeString(err.Error()))
		return
	}
	s.trySend(notifier.FormatPlanReport(plan))
}

const helpText = "Available commands:\n" +
	"• /portfolio\n" +
	"• /plan &lt;budget&gt;\n" +
	"• /risk\n" +
	"• /trend &lt;ticker&gt;\n" +
	"• /compare &lt;ticker&gt; &lt;ticker&gt;...\n" +
	"• /ledger"

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	// Telegram appends the bot name in groups, e.g. /risk@sentinel_bot.
	name, _, _ := strings.Cut(strings.ToLower(fields[0]), "@")
	args := fields[1:]

	switch name {
	case "/portfolio":
		rep := s.Analyzer.Portfolio(ctx)
		return notifier.FormatPortfolioReport(rep.Positions, rep.Summary, rep.AsOf)
	case "/plan":
		budget := s.Budget
		if len(args) > 0 {
			b, err := decimal.NewFromString(strings.ReplaceAll(args[0], "_", ""))
			if err != nil {
				return fmt.Sprintf("invalid budget %s", html.EscapeString(strconv.Quote(args[0])))
			}
			budget = b
		}
		plan, err := s.Analyzer.Plan(ctx, budget)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		return notifier.FormatPlanReport(plan)
	case "/risk":
		return notifier.FormatRiskReport(s.Analyzer.Risk(ctx))
	case "/trend":
		if len(args) == 0 {
			return "usage: /trend &lt;ticker&gt;"
		}
		ind, err := s.Analyzer.Indicators(ctx, strings.ToUpper(args[0]))
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		return notifier.FormatTrendReport(ind)
	case "/compare":
		rows, err := s.Analyzer.Compare(ctx, args)
		if err != nil {
			return "❌ " + html.EscapeString(err.Error())
		}
		return notifier.FormatCompareReport(rows)
	case "/ledger":
		if s.Ledger == nil {
			return "ledger is not configured"
		}
		return notifier.FormatLedgerStatus(s.Ledger.Summary())
	default:
		return helpText
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Error().Err(err).Msg("send notification")
	}
}
