// Package services contains the transaction pipeline: normalization of raw
// campus-card transactions, the single-pass analysis that produces the annual
// report, and the orchestration around them.
package services

import (
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"mensa/internal/core"
)

// ShuttleMerchant is the category label all per-vehicle shuttle plate codes
// collapse into.
const ShuttleMerchant = "班车"

var (
	// Shuttle bus terminals report the vehicle's license plate as the
	// merchant: the regional prefix followed by 4-7 alphanumerics.
	platePattern = regexp.MustCompile(`^(?i:沪[0-9A-Za-z]{4,7})$`)

	// Merchants that are paid through the campus card but are not food:
	// e-bike charging, swimming pool, penalty deductions, shower rooms,
	// the textbook office, the campus hospital and card top-ups.
	excludedPattern = regexp.MustCompile(`电瓶车|游泳|核减|浴室|教材科|校医院|充值`)
)

// Normalizer turns raw upstream transactions into clean, sign-corrected,
// filtered records sorted by payment time.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// Normalize applies, per record: sign flip with rounding to cents (discarding
// records that were not expenditures), shuttle plate collapsing, the excluded
// merchant filter, and the paid-at-all check (PayTime != 0). The result is
// stable-sorted ascending by PayTime, so input order breaks ties.
//
// Running Normalize over a re-raw'd copy of its own output yields the same
// set: amounts are already non-negative and merchants already collapsed, and
// the filters are monotone.
func (n *Normalizer) Normalize(raw []core.RawTransaction) []core.Record {
	records := make([]core.Record, 0, len(raw))
	for _, tx := range raw {
		amount := core.Money{
			Cents: decimal.NewFromFloat(tx.Amount).Neg().Round(2).Shift(2).IntPart(),
		}
		if amount.IsNegative() {
			// Upstream amount was positive, i.e. not an expenditure.
			continue
		}

		merchant := strings.TrimSpace(tx.Merchant)
		if platePattern.MatchString(merchant) {
			merchant = ShuttleMerchant
		}
		if excludedPattern.MatchString(merchant) {
			continue
		}

		if tx.PayTime == 0 {
			continue
		}

		records = append(records, core.Record{
			Merchant:    merchant,
			RawMerchant: tx.Merchant,
			Amount:      amount,
			OrderTime:   tx.OrderTime,
			PayTime:     tx.PayTime,
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PayTime < records[j].PayTime
	})
	return records
}
