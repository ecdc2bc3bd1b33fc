package ledger

import (
	"context"
	"errors"

	"route-ledger/internal/models"
	"route-ledger/internal/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderView is an order as the outside world sees it, with the owning
// customer's name and territory resolved.
type OrderView struct {
	ID              uint               `json:"id"`
	CustomerID      uint               `json:"customer_id"`
	CustomerName    string             `json:"customer_name"`
	Territory       models.Territory   `json:"territory"`
	OrderDate       types.Date         `json:"order_date"`
	DeliveryDate    types.Date         `json:"delivery_date"`
	TotalCases      int                `json:"total_cases"`
	TotalCost       types.Money        `json:"total_cost"`
	PaymentCash     types.Money        `json:"payment_cash"`
	PaymentCheck    types.Money        `json:"payment_check"`
	PaymentCredit   types.Money        `json:"payment_credit"`
	PaymentReceived types.Money        `json:"payment_received"`
	Outstanding     types.Money        `json:"outstanding"`
	DriverExpense   types.Money        `json:"driver_expense"`
	OneTimeDelivery bool               `json:"is_one_time_delivery"`
	Status          models.OrderStatus `json:"status"`
	Editable        bool               `json:"is_editable"`
}

func newOrderView(o models.Order, c models.Customer, today types.Date) OrderView {
	return OrderView{
		ID:              o.ID,
		CustomerID:      o.CustomerID,
		CustomerName:    c.Name,
		Territory:       c.Territory,
		OrderDate:       o.OrderDate,
		DeliveryDate:    o.DeliveryDate,
		TotalCases:      o.TotalCases,
		TotalCost:       o.TotalCost,
		PaymentCash:     o.PaymentCash,
		PaymentCheck:    o.PaymentCheck,
		PaymentCredit:   o.PaymentCredit,
		PaymentReceived: o.TotalPayment(),
		Outstanding:     o.Outstanding(),
		DriverExpense:   o.DriverExpense,
		OneTimeDelivery: o.OneTimeDelivery,
		Status:          o.Status,
		Editable:        o.DeliveryDate.Equal(today),
	}
}

// OrderPatch lists the order fields a caller wants to change. A nil field
// keeps its current value.
type OrderPatch struct {
	TotalCases      *int
	TotalCost       *types.Money
	PaymentCash     *types.Money
	PaymentCheck    *types.Money
	PaymentCredit   *types.Money
	DriverExpense   *types.Money
	OneTimeDelivery *bool
	Status          *models.OrderStatus
}

func (p OrderPatch) validate() error {
	if p.TotalCases != nil && *p.TotalCases < 0 {
		return validationf("total cases cannot be negative")
	}
	amounts := []struct {
		name  string
		value *types.Money
	}{
		{"total cost", p.TotalCost},
		{"cash payment", p.PaymentCash},
		{"check payment", p.PaymentCheck},
		{"credit payment", p.PaymentCredit},
		{"driver expense", p.DriverExpense},
	}
	for _, a := range amounts {
		if a.value == nil {
			continue
		}
		if a.value.IsNegative() {
			return validationf("%s cannot be negative", a.name)
		}
		if !a.value.InRange() {
			return validationf("%s %s exceeds %s", a.name, a.value, types.MaxMoney)
		}
	}
	if p.Status != nil && !p.Status.Valid() {
		return validationf("status %q must be pending, delivered or cancelled", *p.Status)
	}
	return nil
}

func (p OrderPatch) apply(o *models.Order) {
	if p.TotalCases != nil {
		o.TotalCases = *p.TotalCases
	}
	if p.TotalCost != nil {
		o.TotalCost = *p.TotalCost
	}
	if p.PaymentCash != nil {
		o.PaymentCash = *p.PaymentCash
	}
	if p.PaymentCheck != nil {
		o.PaymentCheck = *p.PaymentCheck
	}
	if p.PaymentCredit != nil {
		o.PaymentCredit = *p.PaymentCredit
	}
	if p.DriverExpense != nil {
		o.DriverExpense = *p.DriverExpense
	}
	if p.OneTimeDelivery != nil {
		o.OneTimeDelivery = *p.OneTimeDelivery
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
}

// OrderFilter narrows order queries; zero fields do not filter.
type OrderFilter struct {
	CustomerID uint
	Status     models.OrderStatus
	Territory  models.Territory
}

func newPlaceholder(customerID uint, delivery, today types.Date) models.Order {
	zero := types.NewMoneyFromCents(0)
	return models.Order{
		CustomerID:      customerID,
		OrderDate:       today,
		DeliveryDate:    delivery,
		TotalCost:       zero,
		PaymentCash:     zero,
		PaymentCheck:    zero,
		PaymentCredit:   zero,
		PaymentReceived: zero,
		DriverExpense:   zero,
		Status:          models.OrderStatusPending,
	}
}

// CreateOrder opens an empty pending order for a customer. Orders can only
// be opened for today's route. A zero order leaves the balance unchanged.
func (l *Ledger) CreateOrder(ctx context.Context, customerID uint, delivery types.Date) (OrderView, error) {
	today := l.Today()
	if delivery.IsZero() {
		return OrderView{}, validationf("delivery date is required")
	}
	if !delivery.Equal(today) {
		return OrderView{}, forbiddenf("orders can only be created for today (%s), not %s", today, delivery)
	}

	var view OrderView
	err := l.inTx(ctx, "create order", func(tx *gorm.DB) error {
		customer, err := loadCustomer(tx, customerID)
		if err != nil {
			return err
		}

		var existing int64
		err = tx.Model(&models.Order{}).
			Where("customer_id = ? AND delivery_date = ?", customerID, delivery).
			Count(&existing).Error
		if err != nil {
			return storageErr("check existing order", err)
		}
		if existing > 0 {
			return validationf("customer %d already has an order for %s", customerID, delivery)
		}

		order := newPlaceholder(customerID, delivery, today)
		if err := tx.Create(&order).Error; err != nil {
			if isUniqueViolation(err) {
				return validationf("customer %d already has an order for %s", customerID, delivery)
			}
			return storageErr("create order", err)
		}

		view = newOrderView(order, customer, today)
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	l.log.Info("order created",
		zap.Uint("order_id", view.ID), zap.Uint("customer_id", customerID), zap.Stringer("delivery_date", delivery))
	return view, nil
}

// UpdateOrder applies a patch to one of today's orders and moves the
// customer's balance by the change in what the order leaves outstanding:
//
//	delta = (new cost − new payment) − (old cost − old payment)
//
// The order and the customer row are locked, read and written in one
// transaction, so either both changes land or neither does.
func (l *Ledger) UpdateOrder(ctx context.Context, id uint, p OrderPatch) (OrderView, error) {
	if err := p.validate(); err != nil {
		return OrderView{}, err
	}
	today := l.Today()

	var (
		view  OrderView
		delta types.Money
	)
	err := l.inTx(ctx, "update order", func(tx *gorm.DB) error {
		var order models.Order
		if err := forUpdate(tx).First(&order, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundf("order %d", id)
			}
			return storageErr("load order", err)
		}
		if !order.DeliveryDate.Equal(today) {
			return forbiddenf("order %d was delivered on %s and can no longer be changed", id, order.DeliveryDate)
		}

		before := order.Outstanding()
		p.apply(&order)
		order.RecomputePayment()
		if order.PaymentReceived.GreaterThan(order.TotalCost) {
			return validationf("total payment cannot exceed total cost (%s > %s)", order.PaymentReceived, order.TotalCost)
		}

		customer, err := loadCustomer(forUpdate(tx), order.CustomerID)
		if err != nil {
			return err
		}
		delta = order.Outstanding().Sub(before)
		if next := customer.Balance.Add(delta); !next.InRange() {
			return validationf("balance of customer %d would reach %s, beyond %s", customer.ID, next, types.MaxMoney)
		}

		if err := tx.Save(&order).Error; err != nil {
			return storageErr("save order", err)
		}
		if !delta.IsZero() {
			customer.Balance = customer.Balance.Add(delta)
			err := tx.Model(&models.Customer{}).
				Where("id = ?", customer.ID).
				Update("balance", customer.Balance).Error
			if err != nil {
				return storageErr("update balance", err)
			}
		}

		view = newOrderView(order, customer, today)
		return nil
	})
	if err != nil {
		return OrderView{}, err
	}

	l.log.Info("order updated",
		zap.Uint("order_id", id),
		zap.Uint("customer_id", view.CustomerID),
		zap.Stringer("balance_delta", delta),
		zap.Stringer("payment_received", view.PaymentReceived))
	return view, nil
}

func (l *Ledger) GetOrder(ctx context.Context, id uint) (OrderView, error) {
	db := l.db.WithContext(ctx)

	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OrderView{}, notFoundf("order %d", id)
		}
		return OrderView{}, storageErr("load order", err)
	}
	customer, err := loadCustomer(db, order.CustomerID)
	if err != nil {
		return OrderView{}, err
	}
	return newOrderView(order, customer, l.Today()), nil
}

// GetOrdersForDate lists the orders delivered on date. For today, the
// scheduled customers' placeholder orders are created first if the day has
// no orders yet.
func (l *Ledger) GetOrdersForDate(ctx context.Context, date types.Date) ([]OrderView, error) {
	if date.IsZero() {
		return nil, validationf("date is required")
	}
	if _, err := l.Materialize(ctx, date); err != nil {
		return nil, err
	}
	return l.GetOrdersInRange(ctx, date, date, OrderFilter{})
}

// GetOrdersInRange lists orders delivered between start and end inclusive.
func (l *Ledger) GetOrdersInRange(ctx context.Context, start, end types.Date, f OrderFilter) ([]OrderView, error) {
	orders, customers, err := l.findOrders(ctx, start, end, f)
	if err != nil {
		return nil, err
	}

	today := l.Today()
	res := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		res = append(res, newOrderView(o, customers[o.CustomerID], today))
	}
	return res, nil
}

// findOrders loads orders and, with a second explicit query, their
// customers. Orders come back by delivery date, then id.
func (l *Ledger) findOrders(ctx context.Context, start, end types.Date, f OrderFilter) ([]models.Order, map[uint]models.Customer, error) {
	if start.IsZero() || end.IsZero() {
		return nil, nil, validationf("start and end dates are required")
	}
	if end.Before(start) {
		return nil, nil, validationf("end date %s is before start date %s", end, start)
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, nil, validationf("unknown status %q", f.Status)
	}
	if f.Territory != "" && !f.Territory.Valid() {
		return nil, nil, validationf("unknown territory %q", f.Territory)
	}

	db := l.db.WithContext(ctx)
	q := db.Model(&models.Order{}).Where("delivery_date >= ? AND delivery_date <= ?", start, end)
	if f.CustomerID != 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Territory != "" {
		q = q.Where("customer_id IN (?)",
			db.Model(&models.Customer{}).Select("id").Where("territory = ?", f.Territory))
	}

	var orders []models.Order
	if err := q.Order("delivery_date asc, id asc").Find(&orders).Error; err != nil {
		return nil, nil, storageErr("list orders", err)
	}

	customers := make(map[uint]models.Customer)
	if len(orders) == 0 {
		return orders, customers, nil
	}

	ids := make([]uint, 0, len(orders))
	seen := make(map[uint]bool, len(orders))
	for _, o := range orders {
		if !seen[o.CustomerID] {
			seen[o.CustomerID] = true
			ids = append(ids, o.CustomerID)
		}
	}
	var rows []models.Customer
	if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, nil, storageErr("load order customers", err)
	}
	for _, c := range rows {
		customers[c.ID] = c
	}
	return orders, customers, nil
}
