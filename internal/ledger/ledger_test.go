package ledger

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"route-ledger/internal/database"
	"route-ledger/internal/models"
	"route-ledger/internal/types"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// 2024-03-04 is a Monday.
var monday = types.NewDate(2024, time.March, 4)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

// setDay moves the clock to mid-morning of d.
func (c *testClock) setDay(d types.Date) {
	c.now = d.Time().Add(10 * time.Hour)
}

type fixture struct {
	ledger *Ledger
	db     *gorm.DB
	clock  *testClock
	ctx    context.Context
}

func newFixture(t *testing.T, today types.Date) *fixture {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))

	clock := &testClock{}
	clock.setDay(today)

	return &fixture{
		ledger: New(db, WithClock(clock.Now), WithLocation(time.UTC)),
		db:     db,
		clock:  clock,
		ctx:    context.Background(),
	}
}

func (f *fixture) customer(t *testing.T, name string, day models.DeliveryDay, territory models.Territory) CustomerView {
	t.Helper()
	c, err := f.ledger.CreateCustomer(f.ctx, CustomerInput{
		Name:        name,
		Address:     name + " Street 1",
		DeliveryDay: day,
		AccountType: models.AccountTypeRegular,
		Territory:   territory,
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) balance(t *testing.T, customerID uint) string {
	t.Helper()
	c, err := f.ledger.GetCustomer(f.ctx, customerID)
	require.NoError(t, err)
	return c.Balance.String()
}

func (f *fixture) requireBalancesConsistent(t *testing.T) {
	t.Helper()
	mismatches, err := f.ledger.CheckBalances(f.ctx)
	require.NoError(t, err)
	require.Empty(t, mismatches)
}

func money(s string) *types.Money {
	m := types.MustMoney(s)
	return &m
}

func intp(n int) *int { return &n }
