package core

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Report is the fixed-shape result of analyzing one year of normalized
// records. It is built once by the analyzer and read-only afterwards.
//
// The aggregation maps are insertion-ordered on purpose: the "first maximum
// wins" tie-breaks for most-frequent merchant, most-spent merchant and peak
// month depend on a deterministic iteration order. MonthlyAmount always holds
// keys "1".."12" and TimeDistribution keys "0".."23", zero-filled.
type Report struct {
	Year        int
	RecordCount int
	TotalAmount Money

	FirstMeal    Meal
	MaxMeal      Meal
	EarliestMeal Meal

	MostFrequent MerchantStat
	MostSpent    MerchantStat

	BreakfastCount int
	LunchCount     int
	DinnerCount    int

	PeakMonth int

	MerchantCount    *orderedmap.OrderedMap[string, int]
	MerchantAmount   *orderedmap.OrderedMap[string, Money]
	MonthlyAmount    *orderedmap.OrderedMap[string, Money]
	TimeDistribution *orderedmap.OrderedMap[string, int]
}
