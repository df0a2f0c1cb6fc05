package render

import (
	"strings"
	"testing"
	"time"

	"mensa/internal/core"
	"mensa/internal/services"
)

func buildReport(t *testing.T) *core.Report {
	t.Helper()

	epoch := func(month time.Month, day, hour, min int) int64 {
		return time.Date(2023, month, day, hour, min, 0, 0, time.UTC).Unix() - core.SecondsEastOfUTC
	}
	records := []core.Record{
		{Merchant: "食堂A", Amount: core.Money{Cents: 1250}, PayTime: epoch(time.March, 5, 7, 30)},
		{Merchant: "食堂B", Amount: core.Money{Cents: 3500}, PayTime: epoch(time.March, 5, 12, 0)},
		{Merchant: services.ShuttleMerchant, Amount: core.Money{Cents: 200}, PayTime: epoch(time.April, 1, 18, 30)},
	}

	report, err := services.NewAnalyzer().Analyze(records)
	if err != nil {
		t.Fatalf("Analyze returned error: %v", err)
	}
	return report
}

func TestRender(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	html, err := renderer.Render(buildReport(t))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	doc := string(html)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"2023年度食堂报告",
		"食堂A",
		"食堂B",
		services.ShuttleMerchant,
		"¥49.50",           // total
		"3月5日7时30分",        // first meal time label
		"¥35.00",           // max meal amount
		"<style>",          // inlined stylesheet
		"chart__bar",       // CSS bar charts
		"1月", "12月",         // all month rows present
		"0时", "23时",         // all hour rows present
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("rendered document missing %q", want)
		}
	}

	// Self-contained: no external references.
	for _, forbidden := range []string{"<script src=", "<link rel=\"stylesheet\"", "http://cdn", "https://cdn"} {
		if strings.Contains(doc, forbidden) {
			t.Errorf("rendered document contains external reference %q", forbidden)
		}
	}

	// 12 month bars + 24 hour bars.
	if got := strings.Count(doc, "chart__row"); got != 36 {
		t.Errorf("found %d chart rows, want 36", got)
	}
}

func TestRenderMerchantTableSortedByAmount(t *testing.T) {
	renderer, err := New()
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	html, err := renderer.Render(buildReport(t))
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	doc := string(html)

	table := doc[strings.Index(doc, "<tbody>"):]
	posB := strings.Index(table, "食堂B")
	posA := strings.Index(table, "食堂A")
	posShuttle := strings.Index(table, services.ShuttleMerchant)
	if posB < 0 || posA < 0 || posShuttle < 0 {
		t.Fatal("merchant table missing rows")
	}
	if !(posB < posA && posA < posShuttle) {
		t.Errorf("merchant rows not sorted by amount: B=%d A=%d shuttle=%d", posB, posA, posShuttle)
	}
}
