package expense

import (
	"route-ledger/internal/ledger"
	"route-ledger/internal/params"
	"route-ledger/internal/types"

	"github.com/gofiber/fiber/v2"
)

type SetDriverExpenseRequest struct {
	Amount *types.Money `json:"amount"` // "30.00" or 30
}

// PUT /api/driver-expense/:date
// The amount replaces the day's driver expense and is split over the
// orders delivered that day.
func SetDriverExpenseHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := params.RequiredDate(c.Params("date"), "date")
		if err != nil {
			return err
		}
		var body SetDriverExpenseRequest
		if err := params.Body(c, &body); err != nil {
			return err
		}
		if body.Amount == nil {
			return fiber.NewError(fiber.StatusBadRequest, "amount is required")
		}

		res, err := l.SetDailyDriverExpense(c.UserContext(), date, *body.Amount)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}

// GET /api/driver-expense/:date
func GetDriverExpenseHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date, err := params.RequiredDate(c.Params("date"), "date")
		if err != nil {
			return err
		}
		res, err := l.GetDailyDriverExpense(c.UserContext(), date)
		if err != nil {
			return err
		}
		return c.JSON(res)
	}
}
