package ledger

import (
	"context"
	"slices"

	"route-ledger/internal/models"
	"route-ledger/internal/types"
)

// DayAggregate sums one delivery date's orders.
type DayAggregate struct {
	Date            types.Date  `json:"date"`
	Orders          int         `json:"orders"`
	TotalCases      int         `json:"total_cases"`
	TotalCost       types.Money `json:"total_cost"`
	PaymentCash     types.Money `json:"payment_cash"`
	PaymentCheck    types.Money `json:"payment_check"`
	PaymentCredit   types.Money `json:"payment_credit"`
	PaymentReceived types.Money `json:"payment_received"`
	Outstanding     types.Money `json:"outstanding"`
	DriverExpense   types.Money `json:"driver_expense"`
}

// Summary totals a whole report. TotalOrders counts orders, ActiveDays
// counts delivery dates that had at least one.
type Summary struct {
	TotalOrders        int         `json:"total_orders"`
	ActiveDays         int         `json:"active_days"`
	TotalCases         int         `json:"total_cases"`
	TotalRevenue       types.Money `json:"total_revenue"`
	TotalPayments      types.Money `json:"total_payments"`
	OutstandingBalance types.Money `json:"outstanding_balance"`
	TotalDriverExpense types.Money `json:"total_driver_expense"`
}

type Report struct {
	StartDate types.Date       `json:"start_date"`
	EndDate   types.Date       `json:"end_date"`
	Territory models.Territory `json:"territory,omitempty"`
	Daily     []DayAggregate   `json:"daily"`
	Summary   Summary          `json:"summary"`
}

// Aggregate rolls up the orders delivered between start and end, optionally
// only for one territory's customers. It reads; it never materializes
// placeholder orders.
func (l *Ledger) Aggregate(ctx context.Context, start, end types.Date, territory models.Territory) (Report, error) {
	orders, _, err := l.findOrders(ctx, start, end, OrderFilter{Territory: territory})
	if err != nil {
		return Report{}, err
	}

	daily, summary := Summarize(orders)
	return Report{
		StartDate: start,
		EndDate:   end,
		Territory: territory,
		Daily:     daily,
		Summary:   summary,
	}, nil
}

// Summarize groups orders by delivery date, in date order. Payments are
// counted with Order.TotalPayment, the same definition UpdateOrder uses to
// move balances.
func Summarize(orders []models.Order) ([]DayAggregate, Summary) {
	zero := types.NewMoneyFromCents(0)
	summary := Summary{
		TotalRevenue:       zero,
		TotalPayments:      zero,
		OutstandingBalance: zero,
		TotalDriverExpense: zero,
	}
	daily := make([]DayAggregate, 0)
	index := make(map[types.Date]int)

	for i := range orders {
		o := &orders[i]
		pos, ok := index[o.DeliveryDate]
		if !ok {
			pos = len(daily)
			index[o.DeliveryDate] = pos
			daily = append(daily, DayAggregate{
				Date:            o.DeliveryDate,
				TotalCost:       zero,
				PaymentCash:     zero,
				PaymentCheck:    zero,
				PaymentCredit:   zero,
				PaymentReceived: zero,
				Outstanding:     zero,
				DriverExpense:   zero,
			})
		}

		day := &daily[pos]
		day.Orders++
		day.TotalCases += o.TotalCases
		day.TotalCost = day.TotalCost.Add(o.TotalCost)
		day.PaymentCash = day.PaymentCash.Add(o.PaymentCash)
		day.PaymentCheck = day.PaymentCheck.Add(o.PaymentCheck)
		day.PaymentCredit = day.PaymentCredit.Add(o.PaymentCredit)
		day.PaymentReceived = day.PaymentReceived.Add(o.TotalPayment())
		day.DriverExpense = day.DriverExpense.Add(o.DriverExpense)
		day.Outstanding = day.TotalCost.Sub(day.PaymentReceived)
	}

	slices.SortFunc(daily, func(a, b DayAggregate) int {
		return a.Date.Time().Compare(b.Date.Time())
	})
	for _, day := range daily {
		summary.TotalOrders += day.Orders
		summary.TotalCases += day.TotalCases
		summary.TotalRevenue = summary.TotalRevenue.Add(day.TotalCost)
		summary.TotalPayments = summary.TotalPayments.Add(day.PaymentReceived)
		summary.TotalDriverExpense = summary.TotalDriverExpense.Add(day.DriverExpense)
	}
	summary.ActiveDays = len(daily)
	summary.OutstandingBalance = summary.TotalRevenue.Sub(summary.TotalPayments)
	return daily, summary
}

