// Package params reads path and query parameters shared by the handlers.
package params

import (
	"errors"
	"strconv"

	"route-ledger/internal/types"

	"github.com/gofiber/fiber/v2"
)

// ID reads a positive numeric path parameter.
func ID(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

// Date parses a YYYY-MM-DD value. An empty value is the zero Date.
func Date(value, name string) (types.Date, error) {
	if value == "" {
		return types.Date{}, nil
	}
	d, err := types.ParseDate(value)
	if err != nil {
		return types.Date{}, fiber.NewError(fiber.StatusBadRequest, name+": "+err.Error())
	}
	return d, nil
}

// RequiredDate is Date for values that must be present.
func RequiredDate(value, name string) (types.Date, error) {
	if value == "" {
		return types.Date{}, fiber.NewError(fiber.StatusBadRequest, name+" is required")
	}
	return Date(value, name)
}

// Uint parses an optional numeric query value; empty is 0.
func Uint(value, name string) (uint, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return uint(n), nil
}

// Bool parses an optional boolean query value; empty is nil.
func Bool(value, name string) (*bool, error) {
	if value == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "invalid "+name)
	}
	return &b, nil
}

// Body decodes the request body into out. A bad amount is reported as it
// is; any other decoding failure gets the generic message.
func Body(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		if errors.Is(err, types.ErrInvalidAmount) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	return nil
}
