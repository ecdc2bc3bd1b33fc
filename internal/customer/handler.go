package customer

import (
	"route-ledger/internal/ledger"
	"route-ledger/internal/models"
	"route-ledger/internal/params"

	"github.com/gofiber/fiber/v2"
)

type CreateCustomerRequest struct {
	Name        string             `json:"name"`
	Address     string             `json:"address"`
	DeliveryDay models.DeliveryDay `json:"delivery_day"`
	AccountType models.AccountType `json:"account_type"`
	Territory   models.Territory   `json:"territory"`
	Active      *bool              `json:"active"`
}

type UpdateCustomerRequest struct {
	Name        *string             `json:"name"`
	Address     *string             `json:"address"`
	DeliveryDay *models.DeliveryDay `json:"delivery_day"`
	AccountType *models.AccountType `json:"account_type"`
	Territory   *models.Territory   `json:"territory"`
	Active      *bool               `json:"active"`
}

// GET /api/customers?territory=&delivery_day=&active=
func ListCustomersHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		active, err := params.Bool(c.Query("active"), "active")
		if err != nil {
			return err
		}
		filter := ledger.CustomerFilter{
			Territory:   models.Territory(c.Query("territory")),
			DeliveryDay: models.DeliveryDay(c.Query("delivery_day")),
			Active:      active,
		}
		if filter.Territory != "" && !filter.Territory.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown territory")
		}
		if filter.DeliveryDay != "" && !filter.DeliveryDay.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "unknown delivery_day")
		}

		customers, err := l.ListCustomers(c.UserContext(), filter)
		if err != nil {
			return err
		}
		return c.JSON(customers)
	}
}

func GetCustomerHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := params.ID(c, "id")
		if err != nil {
			return err
		}
		customer, err := l.GetCustomer(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(customer)
	}
}

func CreateCustomerHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		customer, err := l.CreateCustomer(c.UserContext(), ledger.CustomerInput{
			Name:        body.Name,
			Address:     body.Address,
			DeliveryDay: body.DeliveryDay,
			AccountType: body.AccountType,
			Territory:   body.Territory,
			Active:      body.Active,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(customer)
	}
}

// PUT /api/customers/:id; a balance in the body is ignored.
func UpdateCustomerHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := params.ID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateCustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		customer, err := l.UpdateCustomer(c.UserContext(), id, ledger.CustomerPatch{
			Name:        body.Name,
			Address:     body.Address,
			DeliveryDay: body.DeliveryDay,
			AccountType: body.AccountType,
			Territory:   body.Territory,
			Active:      body.Active,
		})
		if err != nil {
			return err
		}
		return c.JSON(customer)
	}
}

func DeleteCustomerHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := params.ID(c, "id")
		if err != nil {
			return err
		}
		if err := l.DeleteCustomer(c.UserContext(), id); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// GET /api/customers/balance-check lists customers whose stored balance
// disagrees with their orders. An empty list means the ledger is sound.
func BalanceCheckHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mismatches, err := l.CheckBalances(c.UserContext())
		if err != nil {
			return err
		}
		if mismatches == nil {
			mismatches = []ledger.BalanceMismatch{}
		}
		return c.JSON(fiber.Map{
			"consistent": len(mismatches) == 0,
			"mismatches": mismatches,
		})
	}
}

// GET /api/customers/due?date=YYYY-MM-DD
func DueCustomersHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := params.Date(c.Query("date"), "date")
		if err != nil {
			return err
		}
		if date.IsZero() {
			date = l.Today()
		}
		customers, err := l.DueCustomers(c.UserContext(), date)
		if err != nil {
			return err
		}
		return c.JSON(customers)
	}
}

func ListTerritoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(models.Territories)
	}
}

func ListDeliveryDaysHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(models.DeliveryDays)
	}
}
