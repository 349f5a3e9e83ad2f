package kit

import (
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/tressahealth/moneyback/internal/domain/order"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func deliveredOrder(id string, deliveredAt time.Time) *order.Order {
	return &order.Order{
		ID:          id,
		CustomerID:  "cust_1",
		ProductID:   "prod_1",
		TotalAmount: decimal.NewFromInt(1000),
		OrderedAt:   deliveredAt.AddDate(0, 0, -2),
		DeliveredAt: lo.ToPtr(deliveredAt),
		IsDelivered: true,
	}
}

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{"same day", date(2024, 1, 15), date(2024, 1, 15), 0},
		{"one day apart", date(2024, 1, 15), date(2024, 1, 16), 1},
		{"negative when end precedes start", date(2024, 1, 16), date(2024, 1, 15), -1},
		{"across month boundary", date(2024, 1, 31), date(2024, 2, 1), 1},
		{"intraday timestamps ignored", time.Date(2024, 1, 15, 23, 59, 0, 0, time.UTC), time.Date(2024, 1, 16, 0, 1, 0, 0, time.UTC), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.start, tt.end))
		})
	}
}

func TestCalculateKitNumber(t *testing.T) {
	planStart := date(2024, 1, 1)

	tests := []struct {
		name     string
		delivery time.Time
		want     int
	}{
		{"plan start day is kit 1", planStart, 1},
		{"last day of first cadence", date(2024, 1, 30), 1},
		{"first day of second cadence", date(2024, 1, 31), 2},
		{"day 60 is kit 3", date(2024, 3, 1), 3},
		{"before plan start maps to zero", date(2023, 12, 31), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalculateKitNumber(tt.delivery, planStart, 30))
		})
	}
}

func TestCalculateKitNumberMonotonic(t *testing.T) {
	planStart := date(2024, 1, 1)

	prev := 0
	for day := 0; day <= 365; day++ {
		got := CalculateKitNumber(planStart.AddDate(0, 0, day), planStart, 30)
		assert.GreaterOrEqual(t, got, prev, "kit number must not decrease as dates advance")
		prev = got
	}
}

func TestCalculateKitNumberDefaultsCadence(t *testing.T) {
	planStart := date(2024, 1, 1)
	assert.Equal(t, 2, CalculateKitNumber(date(2024, 1, 31), planStart, 0))
	assert.Equal(t, 2, CalculateKitNumber(date(2024, 1, 31), planStart, -5))
}

func TestGroupOrdersByKit(t *testing.T) {
	planStart := date(2024, 1, 1)
	orders := []*order.Order{
		deliveredOrder("ord_1", date(2024, 1, 2)),
		deliveredOrder("ord_2", date(2024, 1, 10)),
		deliveredOrder("ord_3", date(2024, 2, 5)),
		deliveredOrder("ord_4", date(2023, 12, 20)),
		{ID: "ord_5", OrderedAt: date(2024, 1, 5)}, // never delivered
	}

	groups := GroupOrdersByKit(orders, planStart, 30)

	assert.Len(t, groups[1], 2)
	assert.Len(t, groups[2], 1)
	assert.Len(t, groups[0], 2, "pre-start and undelivered orders land in kit 0")

	// Partition property: every order lands in exactly one group.
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	assert.Equal(t, len(orders), total)
}

func TestDeliveredKitNumbers(t *testing.T) {
	planStart := date(2024, 1, 1)
	orders := []*order.Order{
		deliveredOrder("ord_1", date(2024, 2, 5)),
		deliveredOrder("ord_2", date(2024, 1, 2)),
		deliveredOrder("ord_3", date(2024, 1, 20)),
		deliveredOrder("ord_4", date(2023, 12, 25)),
	}

	kits := DeliveredKitNumbers(orders, planStart, 30)
	assert.Equal(t, []int{1, 2}, kits, "sorted, deduplicated, kit 0 excluded")
}

func TestExpectedKitDate(t *testing.T) {
	planStart := date(2024, 1, 1)
	assert.Equal(t, date(2024, 1, 1), ExpectedKitDate(planStart, 1, 30))
	assert.Equal(t, date(2024, 1, 31), ExpectedKitDate(planStart, 2, 30))
	assert.Equal(t, date(2024, 3, 1), ExpectedKitDate(planStart, 3, 30))
}

func TestIsOrderOnTime(t *testing.T) {
	planStart := date(2024, 1, 1)

	tests := []struct {
		name     string
		delivery time.Time
		kit      int
		onTime   bool
		daysDiff int
	}{
		{"exactly on expected date", date(2024, 1, 31), 2, true, 0},
		{"five days early is allowed", date(2024, 1, 26), 2, true, -5},
		{"six days early is not", date(2024, 1, 25), 2, false, -6},
		{"seven days late is allowed", date(2024, 2, 7), 2, true, 7},
		{"eight days late is not", date(2024, 2, 8), 2, false, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsOrderOnTime(tt.delivery, planStart, tt.kit, 30, DefaultAllowedDaysEarly, DefaultAllowedDaysLate)
			assert.Equal(t, tt.onTime, got.IsOnTime)
			assert.Equal(t, tt.daysDiff, got.DaysDifference)
		})
	}
}

func TestActualDaysPerKit(t *testing.T) {
	t.Run("fewer than two deliveries uses default", func(t *testing.T) {
		assert.Equal(t, DefaultDaysPerKit, ActualDaysPerKit(nil))
		assert.Equal(t, DefaultDaysPerKit, ActualDaysPerKit([]*order.Order{
			deliveredOrder("ord_1", date(2024, 1, 1)),
		}))
	})

	t.Run("averages the interval span", func(t *testing.T) {
		orders := []*order.Order{
			deliveredOrder("ord_1", date(2024, 1, 1)),
			deliveredOrder("ord_2", date(2024, 1, 31)),
			deliveredOrder("ord_3", date(2024, 3, 1)),
		}
		assert.Equal(t, 30, ActualDaysPerKit(orders))
	})

	t.Run("rounds to nearest day", func(t *testing.T) {
		orders := []*order.Order{
			deliveredOrder("ord_1", date(2024, 1, 1)),
			deliveredOrder("ord_2", date(2024, 1, 16)),
			deliveredOrder("ord_3", date(2024, 2, 2)),
		}
		// 32 days over 2 intervals
		assert.Equal(t, 16, ActualDaysPerKit(orders))
	})

	t.Run("same-day deliveries average to zero", func(t *testing.T) {
		orders := []*order.Order{
			deliveredOrder("ord_1", date(2024, 1, 1)),
			deliveredOrder("ord_2", date(2024, 1, 1)),
		}
		assert.Equal(t, 0, ActualDaysPerKit(orders))
	})
}

func TestMonthsDifference(t *testing.T) {
	tests := []struct {
		name string
		from time.Time
		to   time.Time
		want int
	}{
		{"same month spans one", date(2024, 1, 1), date(2024, 1, 31), 1},
		{"adjacent months span two", date(2024, 1, 31), date(2024, 2, 1), 2},
		{"jan to may spans five", date(2024, 1, 15), date(2024, 5, 10), 5},
		{"across year boundary", date(2023, 12, 1), date(2024, 1, 1), 2},
		{"full year spans thirteen", date(2023, 3, 1), date(2024, 3, 1), 13},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MonthsDifference(tt.from, tt.to))
		})
	}
}

func TestOrdinalSuffix(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "st"}, {2, "nd"}, {3, "rd"}, {4, "th"},
		{11, "th"}, {12, "th"}, {13, "th"},
		{21, "st"}, {22, "nd"}, {23, "rd"},
		{111, "th"}, {101, "st"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OrdinalSuffix(tt.n), "n=%d", tt.n)
	}
}
