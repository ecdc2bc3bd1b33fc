package ledger

import (
	"context"

	"route-ledger/internal/models"
	"route-ledger/internal/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DueCustomers returns the active customers whose route day is date's
// weekday. Weekends have no route.
func (l *Ledger) DueCustomers(ctx context.Context, date types.Date) ([]CustomerView, error) {
	day, ok := models.DeliveryDayOf(date.Weekday())
	if !ok {
		return []CustomerView{}, nil
	}
	active := true
	return l.ListCustomers(ctx, CustomerFilter{DeliveryDay: day, Active: &active})
}

// Materialize creates a zero-valued pending order for every customer due on
// date, but only when date is today and the day has no orders at all yet.
// It returns how many orders it created.
//
// Two callers can race past the "no orders yet" check; the unique
// (customer_id, delivery_date) index together with ON CONFLICT DO NOTHING
// makes the loser's inserts no-ops, so a customer never gets two
// placeholders for one day.
func (l *Ledger) Materialize(ctx context.Context, date types.Date) (int, error) {
	today := l.Today()
	if !date.Equal(today) {
		return 0, nil
	}
	day, ok := models.DeliveryDayOf(date.Weekday())
	if !ok {
		return 0, nil
	}

	created := 0
	err := l.inTx(ctx, "materialize orders", func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Order{}).Where("delivery_date = ?", date).Count(&existing).Error; err != nil {
			return storageErr("count orders", err)
		}
		if existing > 0 {
			return nil
		}

		var due []models.Customer
		err := tx.Where("active = ? AND delivery_day = ?", true, day).
			Order("id asc").
			Find(&due).Error
		if err != nil {
			return storageErr("list due customers", err)
		}
		if len(due) == 0 {
			return nil
		}

		placeholders := make([]models.Order, 0, len(due))
		for _, c := range due {
			placeholders = append(placeholders, newPlaceholder(c.ID, date, today))
		}
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&placeholders)
		if res.Error != nil {
			return storageErr("create placeholder orders", res.Error)
		}
		created = int(res.RowsAffected)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if created > 0 {
		l.log.Info("placeholder orders created",
			zap.Stringer("date", date), zap.String("delivery_day", string(day)), zap.Int("orders", created))
	}
	return created, nil
}
