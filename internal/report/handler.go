package report

import (
	"route-ledger/internal/document"
	"route-ledger/internal/ledger"
	"route-ledger/internal/models"
	"route-ledger/internal/params"
	"route-ledger/internal/types"

	"github.com/gofiber/fiber/v2"
)

// reportRange reads from/to/territory. Both dates are required, like the
// daily financial summary; to must not be before from.
func reportRange(c *fiber.Ctx) (types.Date, types.Date, models.Territory, error) {
	from, err := params.RequiredDate(c.Query("from"), "from")
	if err != nil {
		return types.Date{}, types.Date{}, "", err
	}
	to, err := params.RequiredDate(c.Query("to"), "to")
	if err != nil {
		return types.Date{}, types.Date{}, "", err
	}
	return from, to, models.Territory(c.Query("territory")), nil
}

// GET /api/reports?from=&to=&territory=
func GetReportHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, to, territory, err := reportRange(c)
		if err != nil {
			return err
		}
		rep, err := l.Aggregate(c.UserContext(), from, to, territory)
		if err != nil {
			return err
		}
		return c.JSON(rep)
	}
}

// GET /api/reports/export?from=&to=&territory=&format=pdf|xlsx
func ExportReportHandler(l *ledger.Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		renderer, err := document.ReportFormat(c.Query("format"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		from, to, territory, err := reportRange(c)
		if err != nil {
			return err
		}
		rep, err := l.Aggregate(c.UserContext(), from, to, territory)
		if err != nil {
			return err
		}

		doc, err := renderer.RenderReport(rep)
		if err != nil {
			return err
		}
		return document.Send(c, doc)
	}
}
