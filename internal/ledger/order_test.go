package ledger

import (
	"math"
	"testing"

	"route-ledger/internal/models"
	"route-ledger/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMondayScenario(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Corner Deli", models.DeliveryDayMonday, models.TerritoryNorth)

	orders, err := f.ledger.GetOrdersForDate(f.ctx, monday)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	order := orders[0]
	assert.Equal(t, c.ID, order.CustomerID)
	assert.Equal(t, "0.00", order.TotalCost.String())
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.Editable)

	updated, err := f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{
		TotalCost:     money("100.00"),
		PaymentCash:   money("40.00"),
		PaymentCheck:  money("30.00"),
		PaymentCredit: money("10.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "80.00", updated.PaymentReceived.String())
	assert.Equal(t, "20.00", updated.Outstanding.String())
	assert.Equal(t, "20.00", f.balance(t, c.ID))

	updated, err = f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{TotalCost: money("90.00")})
	require.NoError(t, err)
	assert.Equal(t, "80.00", updated.PaymentReceived.String())
	assert.Equal(t, "40.00", updated.PaymentCash.String())
	assert.Equal(t, "10.00", f.balance(t, c.ID))

	f.requireBalancesConsistent(t)
}

func TestUpdateOrderRejectsOverpayment(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Gas Stop", models.DeliveryDayMonday, models.TerritorySouth)

	order, err := f.ledger.CreateOrder(f.ctx, c.ID, monday)
	require.NoError(t, err)
	_, err = f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{TotalCost: money("50.00"), PaymentCash: money("10.00")})
	require.NoError(t, err)

	_, err = f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{PaymentCheck: money("40.01")})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "total payment cannot exceed total cost")

	got, err := f.ledger.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.PaymentCheck.String())
	assert.Equal(t, "10.00", got.PaymentReceived.String())
	assert.Equal(t, "40.00", f.balance(t, c.ID))

	// paying exactly the cost is fine
	_, err = f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{PaymentCheck: money("40.00")})
	require.NoError(t, err)
	assert.Equal(t, "0.00", f.balance(t, c.ID))
}

func TestUpdateOrderOnPastDayIsForbidden(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Bakery", models.DeliveryDayMonday, models.TerritoryNorth)

	order, err := f.ledger.CreateOrder(f.ctx, c.ID, monday)
	require.NoError(t, err)
	_, err = f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{TotalCost: money("25.00")})
	require.NoError(t, err)

	f.clock.setDay(monday.AddDays(1))

	delivered := models.OrderStatusDelivered
	patches := map[string]OrderPatch{
		"cost":   {TotalCost: money("30.00")},
		"cash":   {PaymentCash: money("5.00")},
		"status": {Status: &delivered},
		"cases":  {TotalCases: intp(3)},
	}
	for name, p := range patches {
		t.Run(name, func(t *testing.T) {
			_, err := f.ledger.UpdateOrder(f.ctx, order.ID, p)
			require.ErrorIs(t, err, ErrForbidden)
		})
	}

	got, err := f.ledger.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, "25.00", got.TotalCost.String())
	assert.Equal(t, models.OrderStatusPending, got.Status)
	assert.False(t, got.Editable)
	assert.Equal(t, "25.00", f.balance(t, c.ID))
}

func TestCreateOrder(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Diner", models.DeliveryDayWednesday, models.TerritorySouth)

	t.Run("not today", func(t *testing.T) {
		_, err := f.ledger.CreateOrder(f.ctx, c.ID, monday.AddDays(1))
		require.ErrorIs(t, err, ErrForbidden)
		_, err = f.ledger.CreateOrder(f.ctx, c.ID, monday.AddDays(-1))
		require.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := f.ledger.CreateOrder(f.ctx, 9999, monday)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("customer off schedule", func(t *testing.T) {
		order, err := f.ledger.CreateOrder(f.ctx, c.ID, monday)
		require.NoError(t, err)
		assert.Equal(t, monday, order.DeliveryDate)
		assert.Equal(t, monday, order.OrderDate)
		assert.Equal(t, "Diner", order.CustomerName)
		assert.Equal(t, "0.00", f.balance(t, c.ID))
	})

	t.Run("second order same day", func(t *testing.T) {
		_, err := f.ledger.CreateOrder(f.ctx, c.ID, monday)
		require.ErrorIs(t, err, ErrValidation)
	})
}

func TestCreateOrderLosesRaceOnUniqueIndex(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Bakery", models.DeliveryDayMonday, models.TerritoryNorth)

	// another writer inserts the same customer and day between the
	// existence check and our insert
	raced := false
	err := f.db.Callback().Create().Before("gorm:create").Register("test:rival_order", func(tx *gorm.DB) {
		if raced || tx.Statement.Schema == nil || tx.Statement.Schema.Table != "orders" {
			return
		}
		raced = true
		rival := newPlaceholder(c.ID, monday, monday)
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Create(&rival).Error)
	})
	require.NoError(t, err)

	_, err = f.ledger.CreateOrder(f.ctx, c.ID, monday)
	require.True(t, raced)
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "already has an order")
	assert.NotErrorIs(t, err, ErrStorage)
}

func TestUpdateOrderKeepsBalanceInRange(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Warehouse", models.DeliveryDayMonday, models.TerritoryNorth)

	order, err := f.ledger.CreateOrder(f.ctx, c.ID, monday)
	require.NoError(t, err)
	maxCost := types.MaxMoney
	_, err = f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{TotalCost: &maxCost})
	require.NoError(t, err)
	assert.Equal(t, "9999999999.99", f.balance(t, c.ID))

	tuesday := monday.AddDays(1)
	f.clock.setDay(tuesday)
	next, err := f.ledger.CreateOrder(f.ctx, c.ID, tuesday)
	require.NoError(t, err)

	_, err = f.ledger.UpdateOrder(f.ctx, next.ID, OrderPatch{TotalCost: money("0.01")})
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "9999999999.99", f.balance(t, c.ID))

	got, err := f.ledger.GetOrder(f.ctx, next.ID)
	require.NoError(t, err)
	assert.True(t, got.TotalCost.IsZero())
}

func TestUpdateOrderValidation(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Kiosk", models.DeliveryDayMonday, models.TerritoryNorth)
	order, err := f.ledger.CreateOrder(f.ctx, c.ID, monday)
	require.NoError(t, err)

	bogus := models.OrderStatus("lost")
	overMax := types.MaxMoney.Add(types.MustMoney("0.01"))
	wrapped := types.NewMoneyFromCents(math.MaxInt64)
	tests := []struct {
		name  string
		patch OrderPatch
	}{
		{"negative cost", OrderPatch{TotalCost: money("-1.00")}},
		{"negative cash", OrderPatch{PaymentCash: money("-0.01")}},
		{"negative credit", OrderPatch{PaymentCredit: money("-5")}},
		{"negative cases", OrderPatch{TotalCases: intp(-1)}},
		{"negative driver expense", OrderPatch{DriverExpense: money("-2")}},
		{"unknown status", OrderPatch{Status: &bogus}},
		{"cost beyond storage", OrderPatch{TotalCost: &overMax}},
		{"cash beyond storage", OrderPatch{PaymentCash: &wrapped}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.ledger.UpdateOrder(f.ctx, order.ID, tt.patch)
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err = f.ledger.UpdateOrder(f.ctx, 4242, OrderPatch{TotalCost: money("1")})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentDecompositionHasNoDrift(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Cafe", models.DeliveryDayMonday, models.TerritoryNorth)
	order, err := f.ledger.CreateOrder(f.ctx, c.ID, monday)
	require.NoError(t, err)

	_, err = f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{TotalCost: money("1000.00")})
	require.NoError(t, err)

	cents := []string{"0.10", "0.20", "0.30", "0.07", "0.01"}
	for i := 0; i < 50; i++ {
		_, err := f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{
			PaymentCash:   money(cents[i%len(cents)]),
			PaymentCheck:  money(cents[(i+1)%len(cents)]),
			PaymentCredit: money(cents[(i+2)%len(cents)]),
		})
		require.NoError(t, err)
	}

	got, err := f.ledger.GetOrder(f.ctx, order.ID)
	require.NoError(t, err)
	sum := got.PaymentCash.Add(got.PaymentCheck).Add(got.PaymentCredit)
	assert.True(t, got.PaymentReceived.Equal(sum))
	assert.Equal(t, got.TotalCost.Sub(got.PaymentReceived).String(), f.balance(t, c.ID))
	f.requireBalancesConsistent(t)
}

func TestBalanceFollowsEveryOrder(t *testing.T) {
	f := newFixture(t, monday)
	c := f.customer(t, "Market", models.DeliveryDayMonday, models.TerritorySouth)

	order, err := f.ledger.CreateOrder(f.ctx, c.ID, monday)
	require.NoError(t, err)
	_, err = f.ledger.UpdateOrder(f.ctx, order.ID, OrderPatch{TotalCost: money("60.00"), PaymentCash: money("15.50")})
	require.NoError(t, err)

	// next week, same customer
	f.clock.setDay(monday.AddDays(7))
	orders, err := f.ledger.GetOrdersForDate(f.ctx, monday.AddDays(7))
	require.NoError(t, err)
	require.Len(t, orders, 1)
	_, err = f.ledger.UpdateOrder(f.ctx, orders[0].ID, OrderPatch{TotalCost: money("20.00"), PaymentCredit: money("64.50")})
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.ledger.UpdateOrder(f.ctx, orders[0].ID, OrderPatch{TotalCost: money("70.00"), PaymentCredit: money("64.50")})
	require.NoError(t, err)

	assert.Equal(t, "50.00", f.balance(t, c.ID))
	f.requireBalancesConsistent(t)
}

func TestGetOrdersInRangeFilters(t *testing.T) {
	f := newFixture(t, monday)
	north := f.customer(t, "North Shop", models.DeliveryDayMonday, models.TerritoryNorth)
	south := f.customer(t, "South Shop", models.DeliveryDayMonday, models.TerritorySouth)

	orders, err := f.ledger.GetOrdersForDate(f.ctx, monday)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	delivered := models.OrderStatusDelivered
	_, err = f.ledger.UpdateOrder(f.ctx, orders[0].ID, OrderPatch{Status: &delivered})
	require.NoError(t, err)

	got, err := f.ledger.GetOrdersInRange(f.ctx, monday, monday, OrderFilter{Territory: models.TerritorySouth})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, south.ID, got[0].CustomerID)

	got, err = f.ledger.GetOrdersInRange(f.ctx, monday, monday, OrderFilter{CustomerID: north.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "North Shop", got[0].CustomerName)

	got, err = f.ledger.GetOrdersInRange(f.ctx, monday, monday, OrderFilter{Status: models.OrderStatusDelivered})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, orders[0].ID, got[0].ID)

	_, err = f.ledger.GetOrdersInRange(f.ctx, monday, monday.AddDays(-1), OrderFilter{})
	require.ErrorIs(t, err, ErrValidation)
	_, err = f.ledger.GetOrdersInRange(f.ctx, monday, monday, OrderFilter{Territory: "East"})
	require.ErrorIs(t, err, ErrValidation)
}
