package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"finance-cycles/internal/calendar"
	"finance-cycles/internal/config"
	"finance-cycles/internal/domain"
)

// app is the state shared by every subcommand once the root pre-run has loaded it.
type app struct {
	cfgPath  string
	output   string
	cfg      *config.Config
	settings domain.Settings
	logger   zerolog.Logger
}

func main() {
	a := &app{}
	rootCmd := newRootCmd(a)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cycles",
		Short:         "Billing cycles, due dates, amortization and period reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "json", "Output format: json or yaml")

	rootCmd.AddCommand(
		newCycleCmd(a),
		newNextCmd(a),
		newAmortizeCmd(a),
		newScheduleCmd(a),
		newSplitCmd(a),
		newReportCmd(a),
		newUpcomingCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	if a.output != "json" && a.output != "yaml" {
		return fmt.Errorf("unsupported output format %q", a.output)
	}

	// A missing .env file is fine; the environment and config file still apply.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(a.cfgPath)
	if err != nil {
		return err
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	level, err := cfg.Level()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.settings = settings
	a.logger = zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	cmd.SetContext(a.logger.WithContext(cmd.Context()))
	return nil
}

// print writes v to the command's output in the selected format.
func (a *app) print(cmd *cobra.Command, v interface{}) error {
	return render(cmd.OutOrStdout(), a.output, v)
}

func render(w io.Writer, format string, v interface{}) error {
	var (
		out []byte
		err error
	)
	switch format {
	case "yaml":
		out, err = yaml.Marshal(v)
	default:
		out, err = json.MarshalIndent(v, "", "  ")
		out = append(out, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to generate %s output: %w", format, err)
	}
	_, err = w.Write(out)
	return err
}

// parseDay parses a YYYY-MM-DD flag; an empty value means today.
func parseDay(raw string) (time.Time, error) {
	if raw == "" {
		return calendar.DateOnly(time.Now()), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must use YYYY-MM-DD", domain.ErrInvalidInput, raw)
	}
	return t, nil
}
