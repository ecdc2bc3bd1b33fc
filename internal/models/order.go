package models

import (
	"time"

	"route-ledger/internal/types"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Order - one delivery to one customer. A customer has at most one order
// per delivery date.
type Order struct {
	ID              uint        `gorm:"primaryKey"`
	CustomerID      uint        `gorm:"not null;uniqueIndex:idx_orders_customer_delivery,priority:1"`
	OrderDate       types.Date  `gorm:"type:date;not null"`
	DeliveryDate    types.Date  `gorm:"type:date;not null;index;uniqueIndex:idx_orders_customer_delivery,priority:2"`
	TotalCases      int         `gorm:"not null"`
	TotalCost       types.Money `gorm:"type:numeric(12,2);not null"`
	PaymentCash     types.Money `gorm:"type:numeric(12,2);not null"`
	PaymentCheck    types.Money `gorm:"type:numeric(12,2);not null"`
	PaymentCredit   types.Money `gorm:"type:numeric(12,2);not null"`
	PaymentReceived types.Money `gorm:"type:numeric(12,2);not null"` // always cash + check + credit
	DriverExpense   types.Money `gorm:"type:numeric(12,2);not null"`
	OneTimeDelivery bool        `gorm:"not null"`
	Status          OrderStatus `gorm:"size:20;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TotalPayment is the one definition of what an order has been paid.
func (o *Order) TotalPayment() types.Money {
	return types.Sum(o.PaymentCash, o.PaymentCheck, o.PaymentCredit)
}

// Outstanding is what the order still adds to its customer's balance.
func (o *Order) Outstanding() types.Money {
	return o.TotalCost.Sub(o.TotalPayment())
}

// RecomputePayment refreshes the stored payment total from its parts.
func (o *Order) RecomputePayment() {
	o.PaymentReceived = o.TotalPayment()
}
