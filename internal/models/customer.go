package models

import (
	"time"

	"route-ledger/internal/types"
)

type DeliveryDay string

const (
	DeliveryDayMonday    DeliveryDay = "Monday"
	DeliveryDayTuesday   DeliveryDay = "Tuesday"
	DeliveryDayWednesday DeliveryDay = "Wednesday"
	DeliveryDayThursday  DeliveryDay = "Thursday"
	DeliveryDayFriday    DeliveryDay = "Friday"
)

// DeliveryDays is the ordered list of days a route runs.
var DeliveryDays = []DeliveryDay{
	DeliveryDayMonday,
	DeliveryDayTuesday,
	DeliveryDayWednesday,
	DeliveryDayThursday,
	DeliveryDayFriday,
}

// DeliveryDayOf maps a weekday to its route day; weekends have none.
func DeliveryDayOf(w time.Weekday) (DeliveryDay, bool) {
	switch w {
	case time.Saturday, time.Sunday:
		return "", false
	}
	return DeliveryDay(w.String()), true
}

func (d DeliveryDay) Valid() bool {
	for _, day := range DeliveryDays {
		if d == day {
			return true
		}
	}
	return false
}

type AccountType string

const (
	AccountTypeRegular   AccountType = "Regular"
	AccountTypeCorporate AccountType = "Corporate"
)

func (a AccountType) Valid() bool {
	return a == AccountTypeRegular || a == AccountTypeCorporate
}

type Territory string

const (
	TerritoryNorth Territory = "North"
	TerritorySouth Territory = "South"
)

var Territories = []Territory{TerritoryNorth, TerritorySouth}

func (t Territory) Valid() bool {
	return t == TerritoryNorth || t == TerritorySouth
}

// Customer - route customer. Balance is positive when the customer owes
// money and is only ever changed by order updates.
type Customer struct {
	ID          uint        `gorm:"primaryKey"`
	Name        string      `gorm:"size:100;not null"`
	Address     string      `gorm:"size:200;not null"`
	DeliveryDay DeliveryDay `gorm:"size:10;not null;index"`
	AccountType AccountType `gorm:"size:20;not null"`
	Territory   Territory   `gorm:"size:50;not null;index"`
	Active      bool        `gorm:"not null"`
	Balance     types.Money `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
