package services

import (
	"strconv"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"mensa/internal/core"
)

// Meal-time windows in shifted local hours, half-open.
const (
	breakfastStart, breakfastEnd = 6, 9
	lunchStart, lunchEnd         = 11, 14
	dinnerStart, dinnerEnd       = 17, 19
)

// Analyzer produces the annual report from normalized records. It is
// stateless; one Analyze call performs a single pass over the input plus a
// handful of selections over the accumulated maps.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze consumes records sorted ascending by pay time and returns the
// report. It returns core.ErrNoData for an empty input instead of a
// degenerate zero report.
func (a *Analyzer) Analyze(records []core.Record) (*core.Report, error) {
	if len(records) == 0 {
		return nil, core.ErrNoData
	}

	report := &core.Report{
		RecordCount:      len(records),
		MerchantCount:    orderedmap.New[string, int](),
		MerchantAmount:   orderedmap.New[string, core.Money](),
		MonthlyAmount:    orderedmap.New[string, core.Money](),
		TimeDistribution: orderedmap.New[string, int](),
	}
	for m := 1; m <= 12; m++ {
		report.MonthlyAmount.Set(strconv.Itoa(m), core.Money{})
	}
	for h := 0; h < 24; h++ {
		report.TimeDistribution.Set(strconv.Itoa(h), 0)
	}

	// Earliest record of each calendar day, keyed by shifted date. The input
	// is pay-time sorted, so the first record seen for a day is its earliest.
	firstByDay := orderedmap.New[string, core.Record]()
	maxRecord := records[0]

	for _, rec := range records {
		paid := rec.PaidAt()

		report.TotalAmount = report.TotalAmount.Add(rec.Amount)

		count, _ := report.MerchantCount.Get(rec.Merchant)
		report.MerchantCount.Set(rec.Merchant, count+1)
		sum, _ := report.MerchantAmount.Get(rec.Merchant)
		report.MerchantAmount.Set(rec.Merchant, sum.Add(rec.Amount))

		monthKey := strconv.Itoa(int(paid.Month()))
		monthSum, _ := report.MonthlyAmount.Get(monthKey)
		report.MonthlyAmount.Set(monthKey, monthSum.Add(rec.Amount))

		hourKey := strconv.Itoa(paid.Hour())
		hourCount, _ := report.TimeDistribution.Get(hourKey)
		report.TimeDistribution.Set(hourKey, hourCount+1)

		switch hour := paid.Hour(); {
		case hour >= breakfastStart && hour < breakfastEnd:
			report.BreakfastCount++
		case hour >= lunchStart && hour < lunchEnd:
			report.LunchCount++
		case hour >= dinnerStart && hour < dinnerEnd:
			report.DinnerCount++
		}

		dayKey := paid.Format("2006-01-02")
		if _, seen := firstByDay.Get(dayKey); !seen {
			firstByDay.Set(dayKey, rec)
		}

		// Strict >, so the chronologically first record wins ties.
		if rec.Amount.GreaterThan(maxRecord.Amount) {
			maxRecord = rec
		}
	}

	first := records[0]
	report.Year = first.PaidAt().Year()
	report.FirstMeal = mealOf(first)
	report.MaxMeal = mealOf(maxRecord)
	report.EarliestMeal = mealOf(earliestOfDay(firstByDay))
	report.MostFrequent = mostFrequentMerchant(report)
	report.MostSpent = mostSpentMerchant(report)
	report.PeakMonth = peakMonth(report)

	return report, nil
}

func mealOf(rec core.Record) core.Meal {
	return core.Meal{
		Location: rec.Merchant,
		Time:     rec.PaidAt(),
		Amount:   rec.Amount,
	}
}

// earliestOfDay picks, among each day's earliest record, the one with the
// smallest shifted time of day. Strict <, so the first minimal value wins.
func earliestOfDay(firstByDay *orderedmap.OrderedMap[string, core.Record]) core.Record {
	var best core.Record
	bestSeconds := -1
	for pair := firstByDay.Oldest(); pair != nil; pair = pair.Next() {
		paid := pair.Value.PaidAt()
		seconds := paid.Hour()*3600 + paid.Minute()*60 + paid.Second()
		if bestSeconds < 0 || seconds < bestSeconds {
			best = pair.Value
			bestSeconds = seconds
		}
	}
	return best
}

// mostFrequentMerchant selects the merchant with the highest visit count.
// Strict > over insertion order: the first merchant to reach the maximum
// count wins ties.
func mostFrequentMerchant(report *core.Report) core.MerchantStat {
	var best core.MerchantStat
	for pair := report.MerchantCount.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value > best.Count {
			best.Name = pair.Key
			best.Count = pair.Value
		}
	}
	if amount, ok := report.MerchantAmount.Get(best.Name); ok {
		best.Amount = amount
	}
	return best
}

// mostSpentMerchant selects the merchant with the highest summed amount,
// independently of visit counts, with the same first-wins tie-break.
func mostSpentMerchant(report *core.Report) core.MerchantStat {
	var best core.MerchantStat
	for pair := report.MerchantAmount.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.GreaterThan(best.Amount) {
			best.Name = pair.Key
			best.Amount = pair.Value
		}
	}
	if count, ok := report.MerchantCount.Get(best.Name); ok {
		best.Count = count
	}
	return best
}

// peakMonth returns the month with the highest spend. Keys are pre-seeded
// "1".."12", so ties resolve to the earliest month; an unmatched (empty) key
// falls back to month 1.
func peakMonth(report *core.Report) int {
	var peakKey string
	var peakAmount core.Money
	for pair := report.MonthlyAmount.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.GreaterThan(peakAmount) {
			peakKey = pair.Key
			peakAmount = pair.Value
		}
	}
	month, err := strconv.Atoi(peakKey)
	if err != nil {
		return 1
	}
	return month
}
