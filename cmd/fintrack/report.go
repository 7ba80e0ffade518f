package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"

	"github.com/mmynk/fintrack/internal/auth"
	"github.com/mmynk/fintrack/internal/report"
	"github.com/mmynk/fintrack/internal/service"
	"github.com/mmynk/fintrack/internal/storage"
)

type reportCmd struct {
	email string
	month int
	year  int
	style string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print a user's balance and reports" }
func (*reportCmd) Usage() string {
	return `fintrack report -email <email> [-month <m> -year <y>] [-style <style>]

  Prints the balance and category report of a user, plus the transactions of
  one month when -month and -year are given. Amounts use CURRENCY.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.email, "email", "", "Email of the user to report on")
	f.IntVar(&c.month, "month", 0, "Month (1-12) for the monthly listing")
	f.IntVar(&c.year, "year", 0, "Year for the monthly listing")
	f.StringVar(&c.style, "style", "auto", "Glamour style (auto, dark, light, notty)")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.email == "" {
		fmt.Fprintln(os.Stderr, "Error: -email is required")
		return subcommands.ExitUsageError
	}
	if (c.month == 0) != (c.year == 0) {
		fmt.Fprintln(os.Stderr, "Error: month and year are required together")
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	// Keep stdout clean for the rendered report.
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := openStore(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer store.Close()

	r, err := c.build(ctx, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, storage.ErrNotFound) {
			return subcommands.ExitUsageError
		}
		return subcommands.ExitFailure
	}

	printMarkdown(report.Markdown(r, cfg.Currency), c.style)
	return subcommands.ExitSuccess
}

func (c *reportCmd) build(ctx context.Context, store storage.Store) (report.Report, error) {
	user, err := store.GetUserByEmail(ctx, auth.NormalizeEmail(c.email))
	if err != nil {
		return report.Report{}, fmt.Errorf("user %s: %w", c.email, err)
	}

	reports := service.NewReportService(store)
	r := report.Report{Email: user.Email}

	if r.Balance, err = reports.Balance(ctx, user.ID); err != nil {
		return report.Report{}, err
	}
	if r.Categories, err = reports.Categories(ctx, user.ID); err != nil {
		return report.Report{}, err
	}

	if c.month != 0 {
		q := service.MonthQuery{Month: strconv.Itoa(c.month), Year: strconv.Itoa(c.year)}
		month, err := service.ParseMonth(q)
		if err != nil {
			return report.Report{}, err
		}
		if r.Monthly, err = reports.Monthly(ctx, user.ID, q); err != nil {
			return report.Report{}, err
		}
		r.Month = &month
	}
	return r, nil
}

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md, style string) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(100)}
	if style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}

	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := renderer.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}
