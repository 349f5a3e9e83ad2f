// Package kit derives kit numbers and cadence windows from delivery dates.
//
// The kit number of an order is never stored state: it is a pure function of
// the order's delivery date relative to the prescription's plan start date
// and the per-kit cadence. Everything in this package is deterministic and
// side-effect free.
package kit

import (
	"sort"
	"time"

	"github.com/tressahealth/moneyback/internal/domain/order"
)

// DefaultDaysPerKit is the cadence assumed when a prescription carries no
// products to average an exhaustion period from.
const DefaultDaysPerKit = 30

// Genuineness window around each kit's expected cadence date.
const (
	DefaultAllowedDaysEarly = 5
	DefaultAllowedDaysLate  = 7
)

// truncateToDate strips the time-of-day component so day arithmetic is not
// skewed by intraday timestamps.
func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from start to end, computed
// on date-only components. Negative when end precedes start.
func DaysBetween(start, end time.Time) int {
	s := truncateToDate(start)
	e := truncateToDate(end)
	return int(e.Sub(s).Hours() / 24)
}

// CalculateKitNumber maps a delivery date to its 1-based kit number given
// the plan start date and per-kit cadence. Deliveries before the plan start
// have no valid kit number and map to 0.
func CalculateKitNumber(deliveryDate, planStartDate time.Time, daysPerKit int) int {
	if daysPerKit <= 0 {
		daysPerKit = DefaultDaysPerKit
	}

	daysSinceStart := DaysBetween(planStartDate, deliveryDate)
	if daysSinceStart < 0 {
		return 0 // delivered before the plan started
	}

	return daysSinceStart/daysPerKit + 1
}

// GroupOrdersByKit partitions orders by their derived kit number. Orders
// without a delivery date, and orders delivered before the plan start, land
// in kit 0; callers wanting only real kits must skip that key.
func GroupOrdersByKit(orders []*order.Order, planStartDate time.Time, daysPerKit int) map[int][]*order.Order {
	groups := make(map[int][]*order.Order)
	for _, o := range orders {
		kitNumber := 0
		if o.DeliveredAt != nil {
			kitNumber = CalculateKitNumber(*o.DeliveredAt, planStartDate, daysPerKit)
		}
		groups[kitNumber] = append(groups[kitNumber], o)
	}
	return groups
}

// DeliveredKitNumbers returns the sorted kit numbers with at least one
// delivered order, excluding kit 0.
func DeliveredKitNumbers(orders []*order.Order, planStartDate time.Time, daysPerKit int) []int {
	seen := make(map[int]struct{})
	for _, o := range orders {
		if !o.IsDelivered || o.DeliveredAt == nil {
			continue
		}
		kitNumber := CalculateKitNumber(*o.DeliveredAt, planStartDate, daysPerKit)
		if kitNumber > 0 {
			seen[kitNumber] = struct{}{}
		}
	}

	kits := make([]int, 0, len(seen))
	for k := range seen {
		kits = append(kits, k)
	}
	sort.Ints(kits)
	return kits
}

// ExpectedKitDate returns the date kit kitNumber is expected to be
// delivered: planStartDate + (kitNumber-1)*daysPerKit.
func ExpectedKitDate(planStartDate time.Time, kitNumber, daysPerKit int) time.Time {
	if daysPerKit <= 0 {
		daysPerKit = DefaultDaysPerKit
	}
	return truncateToDate(planStartDate).AddDate(0, 0, (kitNumber-1)*daysPerKit)
}

// OnTimeResult reports how a delivery relates to its kit's expected date.
type OnTimeResult struct {
	IsOnTime       bool      `json:"is_on_time"`
	DaysDifference int       `json:"days_difference"`
	ExpectedDate   time.Time `json:"expected_date"`
}

// IsOrderOnTime checks a delivery date against the allowed early/late window
// around its kit's expected date. A zero day difference is on time under any
// non-negative window.
func IsOrderOnTime(deliveryDate, planStartDate time.Time, kitNumber, daysPerKit, allowedDaysEarly, allowedDaysLate int) OnTimeResult {
	expectedDate := ExpectedKitDate(planStartDate, kitNumber, daysPerKit)
	daysDifference := DaysBetween(expectedDate, deliveryDate)

	return OnTimeResult{
		IsOnTime:       daysDifference >= -allowedDaysEarly && daysDifference <= allowedDaysLate,
		DaysDifference: daysDifference,
		ExpectedDate:   expectedDate,
	}
}

// ActualDaysPerKit estimates the cadence from delivery history: the average
// interval between the first and last delivered order, rounded to the
// nearest day. Defaults to DefaultDaysPerKit with fewer than two deliveries;
// deliveries all on the same day average to zero.
func ActualDaysPerKit(orders []*order.Order) int {
	delivered := make([]*order.Order, 0, len(orders))
	for _, o := range orders {
		if o.IsDelivered && o.DeliveredAt != nil {
			delivered = append(delivered, o)
		}
	}
	if len(delivered) < 2 {
		return DefaultDaysPerKit
	}

	sort.Slice(delivered, func(i, j int) bool {
		return delivered[i].DeliveredAt.Before(*delivered[j].DeliveredAt)
	})

	totalDays := DaysBetween(*delivered[0].DeliveredAt, *delivered[len(delivered)-1].DeliveredAt)
	intervals := len(delivered) - 1

	return (totalDays + intervals/2) / intervals // round to nearest
}

// MonthsDifference returns the inclusive calendar-month span between two
// dates: (years*12 + months) + 1. Two dates in the same calendar month span
// one month; days of the month are ignored.
func MonthsDifference(from, to time.Time) int {
	yearsDiff := to.Year() - from.Year()
	monthsDiff := int(to.Month()) - int(from.Month())
	return yearsDiff*12 + monthsDiff + 1
}

// OrdinalSuffix returns the English ordinal suffix for n (1st, 2nd, 3rd,
// 4th, ... with the 11-13 exceptions).
func OrdinalSuffix(n int) string {
	j := n % 10
	k := n % 100
	if j == 1 && k != 11 {
		return "st"
	}
	if j == 2 && k != 12 {
		return "nd"
	}
	if j == 3 && k != 13 {
		return "rd"
	}
	return "th"
}
