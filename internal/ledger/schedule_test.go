package ledger

import (
	"testing"

	"route-ledger/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialize(t *testing.T) {
	f := newFixture(t, monday)
	a := f.customer(t, "Alpha", models.DeliveryDayMonday, models.TerritoryNorth)
	b := f.customer(t, "Bravo", models.DeliveryDayMonday, models.TerritorySouth)
	f.customer(t, "Charlie", models.DeliveryDayTuesday, models.TerritoryNorth)

	inactive := false
	_, err := f.ledger.CreateCustomer(f.ctx, CustomerInput{
		Name:        "Dormant",
		Address:     "Closed Road 9",
		DeliveryDay: models.DeliveryDayMonday,
		AccountType: models.AccountTypeCorporate,
		Territory:   models.TerritoryNorth,
		Active:      &inactive,
	})
	require.NoError(t, err)

	created, err := f.ledger.Materialize(f.ctx, monday)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	created, err = f.ledger.Materialize(f.ctx, monday)
	require.NoError(t, err)
	assert.Zero(t, created)

	orders, err := f.ledger.GetOrdersForDate(f.ctx, monday)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.ElementsMatch(t, []uint{a.ID, b.ID}, []uint{orders[0].CustomerID, orders[1].CustomerID})
	for _, o := range orders {
		assert.Equal(t, models.OrderStatusPending, o.Status)
		assert.True(t, o.TotalCost.IsZero())
		assert.True(t, o.PaymentReceived.IsZero())
		assert.Zero(t, o.TotalCases)
	}
	f.requireBalancesConsistent(t)
}

func TestMaterializeOnlyForToday(t *testing.T) {
	f := newFixture(t, monday)
	f.customer(t, "Alpha", models.DeliveryDayMonday, models.TerritoryNorth)
	f.customer(t, "Tuesday Shop", models.DeliveryDayTuesday, models.TerritoryNorth)

	for _, d := range []int{-7, 1, 7} {
		orders, err := f.ledger.GetOrdersForDate(f.ctx, monday.AddDays(d))
		require.NoError(t, err)
		assert.Empty(t, orders)
	}

	var count int64
	require.NoError(t, f.db.Model(&models.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMaterializeSkipsWeekends(t *testing.T) {
	saturday := monday.AddDays(5)
	f := newFixture(t, saturday)
	for _, day := range models.DeliveryDays {
		f.customer(t, string(day)+" Shop", day, models.TerritorySouth)
	}

	created, err := f.ledger.Materialize(f.ctx, saturday)
	require.NoError(t, err)
	assert.Zero(t, created)

	due, err := f.ledger.DueCustomers(f.ctx, saturday)
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestMaterializeSkipsDayWithOrders(t *testing.T) {
	f := newFixture(t, monday)
	walkIn := f.customer(t, "Walk In", models.DeliveryDayFriday, models.TerritoryNorth)
	f.customer(t, "Regular", models.DeliveryDayMonday, models.TerritoryNorth)

	_, err := f.ledger.CreateOrder(f.ctx, walkIn.ID, monday)
	require.NoError(t, err)

	orders, err := f.ledger.GetOrdersForDate(f.ctx, monday)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, walkIn.ID, orders[0].CustomerID)
}

func TestDueCustomers(t *testing.T) {
	f := newFixture(t, monday)
	f.customer(t, "Zulu", models.DeliveryDayWednesday, models.TerritoryNorth)
	f.customer(t, "Echo", models.DeliveryDayWednesday, models.TerritorySouth)
	f.customer(t, "Other", models.DeliveryDayThursday, models.TerritorySouth)

	due, err := f.ledger.DueCustomers(f.ctx, monday.AddDays(2))
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "Echo", due[0].Name)
	assert.Equal(t, "Zulu", due[1].Name)
}
