// Package server wires the HTTP routes onto a fiber app.
package server

import (
	"errors"
	"strings"

	"route-ledger/internal/auth"
	"route-ledger/internal/config"
	"route-ledger/internal/customer"
	"route-ledger/internal/document"
	"route-ledger/internal/expense"
	"route-ledger/internal/ledger"
	"route-ledger/internal/logger"
	"route-ledger/internal/models"
	"route-ledger/internal/order"
	"route-ledger/internal/report"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Ledger *ledger.Ledger
	Log    *zap.Logger
}

// StatusOf maps an error to the HTTP status and message sent to clients.
func StatusOf(err error) (int, string) {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.Is(err, ledger.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, ledger.ErrForbidden):
		return fiber.StatusForbidden, err.Error()
	case errors.Is(err, ledger.ErrValidation):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, ledger.ErrConflict):
		return fiber.StatusConflict, err.Error()
	}
	return fiber.StatusInternalServerError, "unexpected server error"
}

func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := StatusOf(err)
		if code >= fiber.StatusInternalServerError {
			log.Error("unexpected error", zap.String("path", c.Path()), zap.Error(err))
		}
		return c.Status(code).JSON(fiber.Map{
			"error": msg,
		})
	}
}

func NewApp(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: errorHandler(d.Log),
	})

	origins := strings.Split(d.Config.CORSOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(logger.RequestLog(d.Log))

	l := d.Ledger
	api := app.Group("/api")

	// public
	api.Post("/auth/login", auth.LoginHandler(d.DB, d.Config.JWTSecret))

	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(d.Config.JWTSecret))
	adminOnly := auth.RequireRole(models.RoleAdmin)

	protected.Get("/auth/me", auth.MeHandler(d.DB))
	protected.Get("/territories", customer.ListTerritoriesHandler())
	protected.Get("/delivery-days", customer.ListDeliveryDaysHandler())

	// customers; static paths before :id
	protected.Get("/customers", customer.ListCustomersHandler(l))
	protected.Get("/customers/due", customer.DueCustomersHandler(l))
	protected.Get("/customers/balance-check", adminOnly, customer.BalanceCheckHandler(l))
	protected.Post("/customers/import", adminOnly, customer.ImportCustomersHandler(l))
	protected.Get("/customers/:id", customer.GetCustomerHandler(l))
	protected.Post("/customers", adminOnly, customer.CreateCustomerHandler(l))
	protected.Put("/customers/:id", adminOnly, customer.UpdateCustomerHandler(l))
	protected.Delete("/customers/:id", adminOnly, customer.DeleteCustomerHandler(l))

	// orders
	protected.Get("/orders", order.ListOrdersHandler(l))
	protected.Post("/orders", order.CreateOrderHandler(l))
	protected.Get("/orders/:id", order.GetOrderHandler(l))
	protected.Put("/orders/:id", order.UpdateOrderHandler(l))
	protected.Get("/orders/:id/invoice", order.InvoiceHandler(l, document.PDF{}))

	// driver expense
	protected.Get("/driver-expense/:date", expense.GetDriverExpenseHandler(l))
	protected.Put("/driver-expense/:date", expense.SetDriverExpenseHandler(l))

	// reports
	protected.Get("/reports", adminOnly, report.GetReportHandler(l))
	protected.Get("/reports/export", adminOnly, report.ExportReportHandler(l))

	return app
}
