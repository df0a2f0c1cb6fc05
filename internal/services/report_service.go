package services

import (
	"context"
	"fmt"
	"log/slog"

	"mensa/internal/core"
)

// TransactionSource fetches one calendar year of raw transactions from the
// upstream campus-card API.
type TransactionSource interface {
	FetchYear(ctx context.Context, year int) ([]core.RawTransaction, error)
}

// ReportRenderer turns a finished report into a self-contained document.
type ReportRenderer interface {
	Render(report *core.Report) ([]byte, error)
}

// ReportService orchestrates the pipeline: fetch raw transactions, normalize,
// analyze, render.
type ReportService struct {
	source     TransactionSource
	normalizer *Normalizer
	analyzer   *Analyzer
	renderer   ReportRenderer
}

func NewReportService(source TransactionSource, renderer ReportRenderer) *ReportService {
	return &ReportService{
		source:     source,
		normalizer: NewNormalizer(),
		analyzer:   NewAnalyzer(),
		renderer:   renderer,
	}
}

// BuildReport fetches and analyzes one year of transactions. It returns
// core.ErrNoData when the raw batch is empty or nothing survives
// normalization, so callers never see a degenerate zero report.
func (s *ReportService) BuildReport(ctx context.Context, year int) (*core.Report, error) {
	raw, err := s.source.FetchYear(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("year %d: %w", year, core.ErrNoData)
	}

	records := s.normalizer.Normalize(raw)
	slog.InfoContext(ctx, "Normalized transactions",
		"year", year, "raw", len(raw), "records", len(records))
	if len(records) == 0 {
		return nil, fmt.Errorf("year %d: %w", year, core.ErrNoData)
	}

	report, err := s.analyzer.Analyze(records)
	if err != nil {
		return nil, err
	}
	slog.InfoContext(ctx, "Report built",
		"year", report.Year,
		"records", report.RecordCount,
		"total_cents", report.TotalAmount.Cents,
		"merchants", report.MerchantAmount.Len())
	return report, nil
}

// GenerateHTML builds the report and renders it as a self-contained HTML
// document.
func (s *ReportService) GenerateHTML(ctx context.Context, year int) ([]byte, error) {
	report, err := s.BuildReport(ctx, year)
	if err != nil {
		return nil, err
	}
	html, err := s.renderer.Render(report)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return html, nil
}
