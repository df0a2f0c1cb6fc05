// Command mensa-report generates one annual dining report and writes it to a
// file as a self-contained HTML document.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"mensa/internal/campus"
	"mensa/internal/config"
	"mensa/internal/core"
	applog "mensa/internal/log"
	"mensa/internal/render"
	"mensa/internal/services"
)

func main() {
	year := flag.Int("year", 0, "report year (default: configured or current year)")
	out := flag.String("out", "report.html", "output file")
	flag.Parse()

	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if *year != 0 {
		cfg.ReportYear = *year
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	client, err := campus.NewClient(ctx, campus.Config{
		BaseURL:      cfg.CampusBaseURL,
		TokenURL:     cfg.CampusTokenURL,
		ClientID:     cfg.CampusClientID,
		ClientSecret: cfg.CampusClientSecret,
		Concurrency:  cfg.FetchConcurrency,
		Timeout:      cfg.HTTPTimeout,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "campus client: %v\n", err)
		os.Exit(1)
	}

	renderer, err := render.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "renderer: %v\n", err)
		os.Exit(1)
	}

	reports := services.NewReportService(client, renderer)
	html, err := reports.GenerateHTML(ctx, cfg.ReportYear)
	if err != nil {
		if errors.Is(err, core.ErrNoData) {
			fmt.Fprintf(os.Stderr, "no transactions recorded for %d, nothing to report\n", cfg.ReportYear)
		} else {
			fmt.Fprintf(os.Stderr, "generate report: %v\n", err)
		}
		os.Exit(1)
	}

	if err := os.WriteFile(*out, html, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "write %s: %v\n", *out, err)
		os.Exit(1)
	}
	fmt.Printf("Report for %d written to %s\n", cfg.ReportYear, *out)
}
