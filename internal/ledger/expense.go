package ledger

import (
	"context"

	"route-ledger/internal/models"
	"route-ledger/internal/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ExpenseShare is one order's part of a day's driver expense.
type ExpenseShare struct {
	OrderID uint        `json:"order_id"`
	Amount  types.Money `json:"amount"`
}

type DriverExpense struct {
	Date   types.Date     `json:"date"`
	Amount types.Money    `json:"amount"`
	Orders int            `json:"orders"`
	Shares []ExpenseShare `json:"shares,omitempty"`
}

// SetDailyDriverExpense spreads amount evenly over the orders delivered on
// date, overwriting whatever they carried before. Cents that do not divide
// evenly go one each to the orders with the lowest ids. Customer balances
// are not touched: driver expense is a cost of the run, not of the
// customer.
func (l *Ledger) SetDailyDriverExpense(ctx context.Context, date types.Date, amount types.Money) (DriverExpense, error) {
	if date.IsZero() {
		return DriverExpense{}, validationf("date is required")
	}
	if amount.IsNegative() {
		return DriverExpense{}, validationf("driver expense cannot be negative")
	}
	if !amount.InRange() {
		return DriverExpense{}, validationf("driver expense %s exceeds %s", amount, types.MaxMoney)
	}

	res := DriverExpense{Date: date, Amount: amount}
	err := l.inTx(ctx, "set driver expense", func(tx *gorm.DB) error {
		var orders []models.Order
		err := forUpdate(tx).
			Where("delivery_date = ?", date).
			Order("id asc").
			Find(&orders).Error
		if err != nil {
			return storageErr("load orders", err)
		}
		if len(orders) == 0 {
			return notFoundf("no orders delivered on %s", date)
		}

		shares := amount.Allocate(len(orders))
		res.Orders = len(orders)
		res.Shares = make([]ExpenseShare, 0, len(orders))
		for i, o := range orders {
			err := tx.Model(&models.Order{}).
				Where("id = ?", o.ID).
				Update("driver_expense", shares[i]).Error
			if err != nil {
				return storageErr("update driver expense", err)
			}
			res.Shares = append(res.Shares, ExpenseShare{OrderID: o.ID, Amount: shares[i]})
		}
		return nil
	})
	if err != nil {
		return DriverExpense{}, err
	}

	l.log.Info("driver expense allocated",
		zap.Stringer("date", date), zap.Stringer("amount", amount), zap.Int("orders", res.Orders))
	return res, nil
}

// GetDailyDriverExpense sums the driver expense carried by date's orders.
func (l *Ledger) GetDailyDriverExpense(ctx context.Context, date types.Date) (DriverExpense, error) {
	if date.IsZero() {
		return DriverExpense{}, validationf("date is required")
	}

	var orders []models.Order
	err := l.db.WithContext(ctx).
		Where("delivery_date = ?", date).
		Order("id asc").
		Find(&orders).Error
	if err != nil {
		return DriverExpense{}, storageErr("load orders", err)
	}

	res := DriverExpense{Date: date, Amount: types.NewMoneyFromCents(0), Orders: len(orders)}
	for _, o := range orders {
		res.Amount = res.Amount.Add(o.DriverExpense)
		res.Shares = append(res.Shares, ExpenseShare{OrderID: o.ID, Amount: o.DriverExpense})
	}
	return res, nil
}
