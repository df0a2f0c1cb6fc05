package core

import (
	"errors"
	"fmt"
	"time"
)

// SecondsEastOfUTC is the fixed UTC+8 offset applied to payment timestamps.
// Calendar fields are always read from the shifted instant in UTC, never from
// the host timezone.
const SecondsEastOfUTC = 8 * 60 * 60

// ErrNoData is returned when a transaction batch is empty or every record was
// filtered out during normalization.
var ErrNoData = errors.New("no transactions to analyze")

type (
	// RawTransaction is one line item as delivered by the campus-card API.
	// Expenditures carry a negative amount; PayTime 0 means the order was
	// never paid.
	RawTransaction struct {
		Merchant  string  `json:"merchant"`
		Amount    float64 `json:"amount"`
		OrderTime int64   `json:"order_time"`
		PayTime   int64   `json:"pay_time"`
	}

	// Record is a normalized transaction: amount sign-corrected and rounded,
	// merchant collapsed to its aggregation key. Invariants: Amount >= 0 and
	// PayTime != 0. Records are created once by the normalizer and never
	// mutated afterwards.
	Record struct {
		Merchant    string // aggregation key (shuttle plates collapsed)
		RawMerchant string
		Amount      Money
		OrderTime   int64
		PayTime     int64
	}

	// Meal is a single highlighted record in the report: where, when (shifted
	// time) and how much.
	Meal struct {
		Location string
		Time     time.Time
		Amount   Money
	}

	// MerchantStat pairs a merchant key with its visit count and summed amount.
	MerchantStat struct {
		Name   string
		Count  int
		Amount Money
	}
)

// ShiftedTime reinterprets an epoch-seconds timestamp under the fixed UTC+8
// offset. The returned time is in UTC so that Year/Month/Hour read the civil
// fields of the target timezone.
func ShiftedTime(epoch int64) time.Time {
	return time.Unix(epoch+SecondsEastOfUTC, 0).UTC()
}

// PaidAt returns the record's payment time under the fixed offset.
func (r Record) PaidAt() time.Time {
	return ShiftedTime(r.PayTime)
}

// TimeLabel formats the meal time as {month}月{day}日{hour}时{minute}分, with
// only the minute zero-padded.
func (m Meal) TimeLabel() string {
	if m.Time.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d月%d日%d时%02d分",
		int(m.Time.Month()), m.Time.Day(), m.Time.Hour(), m.Time.Minute())
}
