package ledger

import (
	"testing"

	"route-ledger/internal/models"
	"route-ledger/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runWeek fills Monday and Tuesday with priced orders and returns the
// customers keyed by name.
func runWeek(t *testing.T, f *fixture) map[string]CustomerView {
	t.Helper()
	customers := map[string]CustomerView{
		"north-mon": f.customer(t, "North Monday", models.DeliveryDayMonday, models.TerritoryNorth),
		"south-mon": f.customer(t, "South Monday", models.DeliveryDayMonday, models.TerritorySouth),
		"north-tue": f.customer(t, "North Tuesday", models.DeliveryDayTuesday, models.TerritoryNorth),
	}

	prices := map[uint]OrderPatch{
		customers["north-mon"].ID: {TotalCases: intp(4), TotalCost: money("100.00"), PaymentCash: money("40.00"), PaymentCheck: money("30.00"), PaymentCredit: money("10.00")},
		customers["south-mon"].ID: {TotalCases: intp(2), TotalCost: money("50.00"), PaymentCash: money("50.00")},
		customers["north-tue"].ID: {TotalCases: intp(1), TotalCost: money("25.50"), PaymentCheck: money("0.50")},
	}

	for _, day := range []types.Date{monday, monday.AddDays(1)} {
		f.clock.setDay(day)
		orders, err := f.ledger.GetOrdersForDate(f.ctx, day)
		require.NoError(t, err)
		for _, o := range orders {
			_, err := f.ledger.UpdateOrder(f.ctx, o.ID, prices[o.CustomerID])
			require.NoError(t, err)
		}
	}
	_, err := f.ledger.SetDailyDriverExpense(f.ctx, monday, types.MustMoney("30.00"))
	require.NoError(t, err)
	return customers
}

func TestAggregate(t *testing.T) {
	f := newFixture(t, monday)
	runWeek(t, f)

	report, err := f.ledger.Aggregate(f.ctx, monday, monday.AddDays(6), "")
	require.NoError(t, err)

	require.Len(t, report.Daily, 2)
	mon, tue := report.Daily[0], report.Daily[1]
	assert.Equal(t, monday, mon.Date)
	assert.Equal(t, 2, mon.Orders)
	assert.Equal(t, 6, mon.TotalCases)
	assert.Equal(t, "150.00", mon.TotalCost.String())
	assert.Equal(t, "90.00", mon.PaymentCash.String())
	assert.Equal(t, "130.00", mon.PaymentReceived.String())
	assert.Equal(t, "20.00", mon.Outstanding.String())
	assert.Equal(t, "30.00", mon.DriverExpense.String())

	assert.Equal(t, monday.AddDays(1), tue.Date)
	assert.Equal(t, "25.00", tue.Outstanding.String())
	assert.Equal(t, "0.00", tue.DriverExpense.String())

	s := report.Summary
	assert.Equal(t, 3, s.TotalOrders)
	assert.Equal(t, 2, s.ActiveDays)
	assert.Equal(t, 7, s.TotalCases)
	assert.Equal(t, "175.50", s.TotalRevenue.String())
	assert.Equal(t, "130.50", s.TotalPayments.String())
	assert.Equal(t, "45.00", s.OutstandingBalance.String())
	assert.Equal(t, "30.00", s.TotalDriverExpense.String())
}

// Over a range holding every order, the report's outstanding total equals
// the sum of customer balances.
func TestAggregateMatchesBalances(t *testing.T) {
	f := newFixture(t, monday)
	customers := runWeek(t, f)

	report, err := f.ledger.Aggregate(f.ctx, monday.AddDays(-30), monday.AddDays(30), "")
	require.NoError(t, err)

	total := types.NewMoneyFromCents(0)
	for _, c := range customers {
		got, err := f.ledger.GetCustomer(f.ctx, c.ID)
		require.NoError(t, err)
		total = total.Add(got.Balance)
	}
	assert.Equal(t, total.String(), report.Summary.OutstandingBalance.String())
	f.requireBalancesConsistent(t)
}

func TestAggregateByTerritory(t *testing.T) {
	f := newFixture(t, monday)
	runWeek(t, f)

	report, err := f.ledger.Aggregate(f.ctx, monday, monday.AddDays(1), models.TerritoryNorth)
	require.NoError(t, err)
	assert.Equal(t, models.TerritoryNorth, report.Territory)
	assert.Equal(t, 2, report.Summary.TotalOrders)
	assert.Equal(t, "125.50", report.Summary.TotalRevenue.String())
	assert.Equal(t, "45.00", report.Summary.OutstandingBalance.String())

	report, err = f.ledger.Aggregate(f.ctx, monday, monday.AddDays(1), models.TerritorySouth)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary.TotalOrders)
	assert.Equal(t, "0.00", report.Summary.OutstandingBalance.String())
}

func TestAggregateDoesNotMaterialize(t *testing.T) {
	f := newFixture(t, monday)
	f.customer(t, "Quiet", models.DeliveryDayMonday, models.TerritoryNorth)

	report, err := f.ledger.Aggregate(f.ctx, monday, monday, "")
	require.NoError(t, err)
	assert.Empty(t, report.Daily)
	assert.Zero(t, report.Summary.TotalOrders)
	assert.Equal(t, "0.00", report.Summary.TotalRevenue.String())

	_, err = f.ledger.Aggregate(f.ctx, monday, monday.AddDays(-1), "")
	require.ErrorIs(t, err, ErrValidation)
}

func TestSummarizeEmpty(t *testing.T) {
	daily, summary := Summarize(nil)
	assert.Empty(t, daily)
	assert.Zero(t, summary.ActiveDays)
	assert.Equal(t, "0.00", summary.TotalPayments.String())
}
