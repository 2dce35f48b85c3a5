package main

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"finance-cycles/internal/amortization"
	"finance-cycles/internal/calendar"
	"finance-cycles/internal/cycle"
	"finance-cycles/internal/domain"
	"finance-cycles/internal/gateway"
	"finance-cycles/internal/server"
	"finance-cycles/internal/usecase"
)

func newCycleCmd(a *app) *cobra.Command {
	var (
		today                      string
		cutoff, dueDay, windowDays int
	)
	cmd := &cobra.Command{
		Use:   "cycle",
		Short: "Resolve the billing cycle containing a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseDay(today)
			if err != nil {
				return err
			}
			rule, err := domain.NewCardCycleRule(cutoff, dueDay, windowDays)
			if err != nil {
				return err
			}
			return a.print(cmd, cycle.Resolve(t, rule))
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "Reference date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&cutoff, "cutoff", 0, "Statement cutoff day (1-31)")
	cmd.Flags().IntVar(&dueDay, "due", 0, "Fixed payment due day (1-31)")
	cmd.Flags().IntVar(&windowDays, "window", 0, "Payment window in days after the cutoff; overrides --due")
	_ = cmd.MarkFlagRequired("cutoff")
	return cmd
}

func newNextCmd(a *app) *cobra.Command {
	var (
		today           string
		day, windowDays int
	)
	cmd := &cobra.Command{
		Use:   "next",
		Short: "Find the next due date of a monthly obligation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseDay(today)
			if err != nil {
				return err
			}

			var rule domain.RecurrenceRule
			if windowDays > 0 {
				rule, err = domain.NewRelativeWindowRule(day, windowDays)
			} else {
				rule, err = domain.NewFixedDayRule(day)
			}
			if err != nil {
				return err
			}

			due := cycle.NextOccurrence(t, rule)
			return a.print(cmd, map[string]interface{}{
				"next_due":  due.Format(time.DateOnly),
				"days_left": calendar.DaysBetween(t, due),
			})
		},
	}
	cmd.Flags().StringVar(&today, "today", "", "Reference date (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&day, "day", 0, "Due day, or the cutoff day when --window is set (1-31)")
	cmd.Flags().IntVar(&windowDays, "window", 0, "Days after the cutoff the payment is due")
	_ = cmd.MarkFlagRequired("day")
	return cmd
}

type loanFlags struct {
	principal string
	term      int
	rate      string
}

func (f *loanFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.principal, "principal", "", "Amount financed")
	cmd.Flags().IntVar(&f.term, "term", 0, "Number of monthly installments")
	cmd.Flags().StringVar(&f.rate, "rate", "0", "Nominal annual interest rate in percent")
	_ = cmd.MarkFlagRequired("principal")
	_ = cmd.MarkFlagRequired("term")
}

func (f *loanFlags) input() (domain.AmortizationInput, error) {
	principal, err := parseAmount("principal", f.principal)
	if err != nil {
		return domain.AmortizationInput{}, err
	}
	rate, err := parseAmount("rate", f.rate)
	if err != nil {
		return domain.AmortizationInput{}, err
	}
	return domain.AmortizationInput{Principal: principal, TermMonths: f.term, AnnualRatePercent: rate}, nil
}

func newAmortizeCmd(a *app) *cobra.Command {
	var f loanFlags
	cmd := &cobra.Command{
		Use:   "amortize",
		Short: "Compute the fixed monthly installment of a loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			res, err := amortization.Calculate(in)
			if err != nil {
				return err
			}
			return a.print(cmd, res.Rounded())
		},
	}
	f.register(cmd)
	return cmd
}

func newScheduleCmd(a *app) *cobra.Command {
	var (
		f     loanFlags
		start string
	)
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List every installment of a loan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := f.input()
			if err != nil {
				return err
			}
			s, err := parseDay(start)
			if err != nil {
				return err
			}
			entries, err := amortization.Schedule(in, s)
			if err != nil {
				return err
			}
			return a.print(cmd, entries)
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&start, "start", "", "Disbursement date (YYYY-MM-DD), defaults to today")
	return cmd
}

func newSplitCmd(a *app) *cobra.Command {
	var remaining, rate, amount string
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a loan payment into interest and capital",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rem, err := parseAmount("remaining", remaining)
			if err != nil {
				return err
			}
			r, err := parseAmount("rate", rate)
			if err != nil {
				return err
			}
			amt, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}
			if rem.IsNegative() || r.IsNegative() || !amt.IsPositive() {
				return fmt.Errorf("%w: remaining and rate must not be negative and amount must be positive", domain.ErrInvalidInput)
			}
			return a.print(cmd, amortization.SplitPayment(rem, r, amt).Rounded())
		},
	}
	cmd.Flags().StringVar(&remaining, "remaining", "", "Outstanding balance before the payment")
	cmd.Flags().StringVar(&rate, "rate", "0", "Nominal annual interest rate in percent")
	cmd.Flags().StringVar(&amount, "amount", "", "Payment amount")
	_ = cmd.MarkFlagRequired("remaining")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		history   []string
		reference string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarise payments of the financial month containing a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, err := parseDay(reference)
			if err != nil {
				return err
			}

			// --- Dependency Injection ---
			repo := gateway.NewFileTransactionRepository()
			reportUseCase := usecase.NewReportUseCase(repo)

			report, err := reportUseCase.MonthlyReport(cmd.Context(), history, ref, a.settings)
			if err != nil {
				return fmt.Errorf("report failed: %w", err)
			}
			return a.print(cmd, report)
		},
	}
	cmd.Flags().StringSliceVar(&history, "history", nil, "Comma-separated CSV or XLSX transaction files")
	cmd.Flags().StringVar(&reference, "date", "", "Any date inside the period to report (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("history")
	return cmd
}

func newUpcomingCmd(a *app) *cobra.Command {
	var obligations, today string
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "List upcoming payments of cards, loans and fixed expenses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := parseDay(today)
			if err != nil {
				return err
			}

			repo := gateway.NewYAMLObligationRepository()
			upcomingUseCase := usecase.NewUpcomingUseCase(repo)

			report, err := upcomingUseCase.Upcoming(cmd.Context(), obligations, t, a.settings)
			if err != nil {
				return fmt.Errorf("upcoming failed: %w", err)
			}
			return a.print(cmd, report)
		},
	}
	cmd.Flags().StringVar(&obligations, "obligations", "", "YAML file with cards, loans and expenses")
	cmd.Flags().StringVar(&today, "today", "", "Reference date (YYYY-MM-DD), defaults to today")
	_ = cmd.MarkFlagRequired("obligations")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			api := server.NewWebAPI(server.Config{
				Addr:            addr,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				Dependencies: server.Dependencies{
					Settings: a.settings,
					Logger:   a.logger,
				},
			})
			return api.Start()
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	return cmd
}

func parseAmount(name, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", domain.ErrInvalidInput, name, raw)
	}
	return d, nil
}
