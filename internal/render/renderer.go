// Package render turns a finished report into a single self-contained HTML
// document: the stylesheet is inlined and the charts are plain CSS bars, so
// the output needs no external assets.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strconv"

	"mensa/internal/core"
	"mensa/web"
)

const merchantTableLimit = 10

type Renderer struct {
	tmpl  *template.Template
	style template.CSS
}

// New parses the embedded templates and loads the inline stylesheet.
func New() (*Renderer, error) {
	tmpl, err := template.ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	style, err := web.StaticFS.ReadFile("static/report.css")
	if err != nil {
		return nil, fmt.Errorf("read stylesheet: %w", err)
	}
	return &Renderer{tmpl: tmpl, style: template.CSS(style)}, nil
}

type (
	mealView struct {
		Location  string
		TimeLabel string
		Amount    string
	}

	merchantView struct {
		Name   string
		Count  int
		Amount string
	}

	// bar is one row of a CSS bar chart. Width is precomputed so the
	// template only ever injects a ready-made style value.
	bar struct {
		Label string
		Value string
		Width template.CSS
	}

	reportView struct {
		Style template.CSS

		Year        int
		RecordCount int
		Total       string

		FirstMeal    mealView
		MaxMeal      mealView
		EarliestMeal mealView

		MostFrequent merchantView
		MostSpent    merchantView

		BreakfastCount int
		LunchCount     int
		DinnerCount    int

		PeakMonth int

		MonthBars    []bar
		HourBars     []bar
		TopMerchants []merchantView
	}
)

// Render produces the HTML document for one report.
func (r *Renderer) Render(report *core.Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "report_page", r.viewOf(report)); err != nil {
		return nil, fmt.Errorf("execute template: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) viewOf(report *core.Report) reportView {
	view := reportView{
		Style:          r.style,
		Year:           report.Year,
		RecordCount:    report.RecordCount,
		Total:          report.TotalAmount.String(),
		FirstMeal:      mealViewOf(report.FirstMeal),
		MaxMeal:        mealViewOf(report.MaxMeal),
		EarliestMeal:   mealViewOf(report.EarliestMeal),
		MostFrequent:   merchantViewOf(report.MostFrequent),
		MostSpent:      merchantViewOf(report.MostSpent),
		BreakfastCount: report.BreakfastCount,
		LunchCount:     report.LunchCount,
		DinnerCount:    report.DinnerCount,
		PeakMonth:      report.PeakMonth,
	}

	var maxMonth core.Money
	for pair := report.MonthlyAmount.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.GreaterThan(maxMonth) {
			maxMonth = pair.Value
		}
	}
	for pair := report.MonthlyAmount.Oldest(); pair != nil; pair = pair.Next() {
		view.MonthBars = append(view.MonthBars, bar{
			Label: pair.Key + "月",
			Value: pair.Value.String(),
			Width: barWidth(pair.Value.Cents, maxMonth.Cents),
		})
	}

	maxHour := 0
	for pair := report.TimeDistribution.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value > maxHour {
			maxHour = pair.Value
		}
	}
	for pair := report.TimeDistribution.Oldest(); pair != nil; pair = pair.Next() {
		view.HourBars = append(view.HourBars, bar{
			Label: pair.Key + "时",
			Value: strconv.Itoa(pair.Value),
			Width: barWidth(int64(pair.Value), int64(maxHour)),
		})
	}

	view.TopMerchants = topMerchants(report)
	return view
}

// topMerchants lists the biggest merchants by summed amount, descending.
// Display-only ordering; the report's own maps stay in insertion order.
func topMerchants(report *core.Report) []merchantView {
	merchants := make([]core.MerchantStat, 0, report.MerchantAmount.Len())
	for pair := report.MerchantAmount.Oldest(); pair != nil; pair = pair.Next() {
		count, _ := report.MerchantCount.Get(pair.Key)
		merchants = append(merchants, core.MerchantStat{
			Name:   pair.Key,
			Count:  count,
			Amount: pair.Value,
		})
	}
	sort.SliceStable(merchants, func(i, j int) bool {
		return merchants[i].Amount.Cents > merchants[j].Amount.Cents
	})
	if len(merchants) > merchantTableLimit {
		merchants = merchants[:merchantTableLimit]
	}
	views := make([]merchantView, 0, len(merchants))
	for _, m := range merchants {
		views = append(views, merchantViewOf(m))
	}
	return views
}

func mealViewOf(meal core.Meal) mealView {
	return mealView{
		Location:  meal.Location,
		TimeLabel: meal.TimeLabel(),
		Amount:    meal.Amount.String(),
	}
}

func merchantViewOf(stat core.MerchantStat) merchantView {
	return merchantView{
		Name:   stat.Name,
		Count:  stat.Count,
		Amount: stat.Amount.String(),
	}
}

func barWidth(value, max int64) template.CSS {
	percent := 0.0
	if max > 0 {
		percent = float64(value) / float64(max) * 100
	}
	return template.CSS(fmt.Sprintf("width: %.1f%%", percent))
}
