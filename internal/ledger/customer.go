package ledger

import (
	"context"
	"errors"
	"strings"

	"route-ledger/internal/models"
	"route-ledger/internal/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CustomerView struct {
	ID          uint               `json:"id"`
	Name        string             `json:"name"`
	Address     string             `json:"address"`
	DeliveryDay models.DeliveryDay `json:"delivery_day"`
	AccountType models.AccountType `json:"account_type"`
	Territory   models.Territory   `json:"territory"`
	Active      bool               `json:"active"`
	Balance     types.Money        `json:"balance"`
}

func newCustomerView(c models.Customer) CustomerView {
	return CustomerView{
		ID:          c.ID,
		Name:        c.Name,
		Address:     c.Address,
		DeliveryDay: c.DeliveryDay,
		AccountType: c.AccountType,
		Territory:   c.Territory,
		Active:      c.Active,
		Balance:     c.Balance,
	}
}

// CustomerInput describes a new customer. Active defaults to true.
type CustomerInput struct {
	Name        string
	Address     string
	DeliveryDay models.DeliveryDay
	AccountType models.AccountType
	Territory   models.Territory
	Active      *bool
}

// CustomerPatch changes only the fields that are set. The balance is not
// part of it on purpose: it moves only through order updates.
type CustomerPatch struct {
	Name        *string
	Address     *string
	DeliveryDay *models.DeliveryDay
	AccountType *models.AccountType
	Territory   *models.Territory
	Active      *bool
}

// CustomerFilter narrows ListCustomers; zero fields do not filter.
type CustomerFilter struct {
	Territory   models.Territory
	DeliveryDay models.DeliveryDay
	Active      *bool
}

func validateCustomer(c *models.Customer) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Address = strings.TrimSpace(c.Address)
	switch {
	case c.Name == "":
		return validationf("name is required")
	case c.Address == "":
		return validationf("address is required")
	case !c.DeliveryDay.Valid():
		return validationf("delivery day %q must be a weekday name, Monday to Friday", c.DeliveryDay)
	case !c.AccountType.Valid():
		return validationf("account type %q must be Regular or Corporate", c.AccountType)
	case !c.Territory.Valid():
		return validationf("territory %q must be North or South", c.Territory)
	}
	return nil
}

func (l *Ledger) CreateCustomer(ctx context.Context, in CustomerInput) (CustomerView, error) {
	customer := models.Customer{
		Name:        in.Name,
		Address:     in.Address,
		DeliveryDay: in.DeliveryDay,
		AccountType: in.AccountType,
		Territory:   in.Territory,
		Active:      true,
		Balance:     types.NewMoneyFromCents(0),
	}
	if in.Active != nil {
		customer.Active = *in.Active
	}
	if err := validateCustomer(&customer); err != nil {
		return CustomerView{}, err
	}

	if err := l.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return CustomerView{}, storageErr("create customer", err)
	}

	l.log.Info("customer created",
		zap.Uint("customer_id", customer.ID), zap.String("territory", string(customer.Territory)))
	return newCustomerView(customer), nil
}

func (l *Ledger) UpdateCustomer(ctx context.Context, id uint, p CustomerPatch) (CustomerView, error) {
	var view CustomerView
	err := l.inTx(ctx, "update customer", func(tx *gorm.DB) error {
		customer, err := loadCustomer(forUpdate(tx), id)
		if err != nil {
			return err
		}

		if p.Name != nil {
			customer.Name = *p.Name
		}
		if p.Address != nil {
			customer.Address = *p.Address
		}
		if p.DeliveryDay != nil {
			customer.DeliveryDay = *p.DeliveryDay
		}
		if p.AccountType != nil {
			customer.AccountType = *p.AccountType
		}
		if p.Territory != nil {
			customer.Territory = *p.Territory
		}
		if p.Active != nil {
			customer.Active = *p.Active
		}
		if err := validateCustomer(&customer); err != nil {
			return err
		}

		err = tx.Model(&customer).
			Select("name", "address", "delivery_day", "account_type", "territory", "active").
			Updates(&customer).Error
		if err != nil {
			return storageErr("update customer", err)
		}
		view = newCustomerView(customer)
		return nil
	})
	return view, err
}

// DeleteCustomer removes a customer that has never had an order.
func (l *Ledger) DeleteCustomer(ctx context.Context, id uint) error {
	return l.inTx(ctx, "delete customer", func(tx *gorm.DB) error {
		if _, err := loadCustomer(forUpdate(tx), id); err != nil {
			return err
		}

		var orders int64
		if err := tx.Model(&models.Order{}).Where("customer_id = ?", id).Count(&orders).Error; err != nil {
			return storageErr("count customer orders", err)
		}
		if orders > 0 {
			return validationf("customer %d has %d orders and cannot be deleted", id, orders)
		}

		if err := tx.Delete(&models.Customer{}, id).Error; err != nil {
			return storageErr("delete customer", err)
		}
		l.log.Info("customer deleted", zap.Uint("customer_id", id))
		return nil
	})
}

func (l *Ledger) GetCustomer(ctx context.Context, id uint) (CustomerView, error) {
	customer, err := loadCustomer(l.db.WithContext(ctx), id)
	if err != nil {
		return CustomerView{}, storageErr("load customer", err)
	}
	return newCustomerView(customer), nil
}

func (l *Ledger) ListCustomers(ctx context.Context, f CustomerFilter) ([]CustomerView, error) {
	q := l.db.WithContext(ctx).Model(&models.Customer{})
	if f.Territory != "" {
		q = q.Where("territory = ?", f.Territory)
	}
	if f.DeliveryDay != "" {
		q = q.Where("delivery_day = ?", f.DeliveryDay)
	}
	if f.Active != nil {
		q = q.Where("active = ?", *f.Active)
	}

	var customers []models.Customer
	if err := q.Order("name asc, id asc").Find(&customers).Error; err != nil {
		return nil, storageErr("list customers", err)
	}

	res := make([]CustomerView, 0, len(customers))
	for _, c := range customers {
		res = append(res, newCustomerView(c))
	}
	return res, nil
}

// BalanceMismatch reports a customer whose stored balance differs from the
// sum of its orders' outstanding amounts.
type BalanceMismatch struct {
	CustomerID uint        `json:"customer_id"`
	Stored     types.Money `json:"stored"`
	Expected   types.Money `json:"expected"`
}

// CheckBalances compares every stored balance with Σ(cost − payment) over
// the customer's orders. It only reads; it never repairs a balance.
func (l *Ledger) CheckBalances(ctx context.Context) ([]BalanceMismatch, error) {
	db := l.db.WithContext(ctx)

	var customers []models.Customer
	if err := db.Order("id asc").Find(&customers).Error; err != nil {
		return nil, storageErr("list customers", err)
	}
	var orders []models.Order
	if err := db.Find(&orders).Error; err != nil {
		return nil, storageErr("list orders", err)
	}

	expected := make(map[uint]types.Money, len(customers))
	for i := range orders {
		o := &orders[i]
		expected[o.CustomerID] = expected[o.CustomerID].Add(o.Outstanding())
	}

	var res []BalanceMismatch
	for _, c := range customers {
		want := expected[c.ID].Add(types.NewMoneyFromCents(0))
		if !c.Balance.Equal(want) {
			res = append(res, BalanceMismatch{CustomerID: c.ID, Stored: c.Balance, Expected: want})
		}
	}
	return res, nil
}

func loadCustomer(tx *gorm.DB, id uint) (models.Customer, error) {
	var customer models.Customer
	if err := tx.First(&customer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Customer{}, notFoundf("customer %d", id)
		}
		return models.Customer{}, storageErr("load customer", err)
	}
	return customer, nil
}
