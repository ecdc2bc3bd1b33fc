package order

import (
	"route-ledger/internal/document"
	"route-ledger/internal/ledger"
	"route-ledger/internal/models"
	"route-ledger/internal/params"
	"route-ledger/internal/types"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderRequest struct {
	CustomerID   uint   `json:"customer_id"`
	DeliveryDate string `json:"delivery_date"` // "2024-03-04", defaults to today
}

// UpdateOrderRequest carries only the fields to change; absent or null
// fields keep their current value. Amounts may be strings or numbers.
type UpdateOrderRequest struct {
	TotalCases      *int                `json:"total_cases"`
	TotalCost       *types.Money        `json:"total_cost"`
	PaymentCash     *types.Money        `json:"payment_cash"`
	PaymentCheck    *types.Money        `json:"payment_check"`
	PaymentCredit   *types.Money        `json:"payment_credit"`
	DriverExpense   *types.Money        `json:"driver_expense"`
	OneTimeDelivery *bool               `json:"is_one_time_delivery"`
	Status          *models.OrderStatus `json:"status"`
}

// GET /api/orders?date=YYYY-MM-DD
// GET /api/orders?from=&to=&customer_id=&status=&territory=
//
// Asking for today's date creates the day's scheduled placeholder orders.
func ListOrdersHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := params.Date(c.Query("date"), "date")
		if err != nil {
			return err
		}
		if !date.IsZero() {
			orders, err := l.GetOrdersForDate(c.UserContext(), date)
			if err != nil {
				return err
			}
			return c.JSON(orders)
		}

		from, err := params.RequiredDate(c.Query("from"), "from")
		if err != nil {
			return err
		}
		to, err := params.Date(c.Query("to"), "to")
		if err != nil {
			return err
		}
		if to.IsZero() {
			to = from
		}
		customerID, err := params.Uint(c.Query("customer_id"), "customer_id")
		if err != nil {
			return err
		}

		orders, err := l.GetOrdersInRange(c.UserContext(), from, to, ledger.OrderFilter{
			CustomerID: customerID,
			Status:     models.OrderStatus(c.Query("status")),
			Territory:  models.Territory(c.Query("territory")),
		})
		if err != nil {
			return err
		}
		return c.JSON(orders)
	}
}

func GetOrderHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := params.ID(c, "id")
		if err != nil {
			return err
		}
		order, err := l.GetOrder(c.UserContext(), id)
		if err != nil {
			return err
		}
		return c.JSON(order)
	}
}

func CreateOrderHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if body.CustomerID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "customer_id is required")
		}
		delivery, err := params.Date(body.DeliveryDate, "delivery_date")
		if err != nil {
			return err
		}
		if delivery.IsZero() {
			delivery = l.Today()
		}

		order, err := l.CreateOrder(c.UserContext(), body.CustomerID, delivery)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(order)
	}
}

func UpdateOrderHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := params.ID(c, "id")
		if err != nil {
			return err
		}
		var body UpdateOrderRequest
		if err := params.Body(c, &body); err != nil {
			return err
		}

		order, err := l.UpdateOrder(c.UserContext(), id, ledger.OrderPatch{
			TotalCases:      body.TotalCases,
			TotalCost:       body.TotalCost,
			PaymentCash:     body.PaymentCash,
			PaymentCheck:    body.PaymentCheck,
			PaymentCredit:   body.PaymentCredit,
			DriverExpense:   body.DriverExpense,
			OneTimeDelivery: body.OneTimeDelivery,
			Status:          body.Status,
		})
		if err != nil {
			return err
		}
		return c.JSON(order)
	}
}

// GET /api/orders/:id/invoice
func InvoiceHandler(l *ledger.Ledger, renderer document.InvoiceRenderer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := params.ID(c, "id")
		if err != nil {
			return err
		}
		order, err := l.GetOrder(c.UserContext(), id)
		if err != nil {
			return err
		}
		customer, err := l.GetCustomer(c.UserContext(), order.CustomerID)
		if err != nil {
			return err
		}

		doc, err := renderer.RenderInvoice(document.Invoice{Order: order, Customer: customer})
		if err != nil {
			return err
		}
		return document.Send(c, doc)
	}
}
