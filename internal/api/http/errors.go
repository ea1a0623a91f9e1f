package httpapi

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-wide Fiber error handler. Client input errors get a
// JSON body; every other status is sent with an empty body so upstream
// details never reach the caller.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code == fiber.StatusInternalServerError {
		logger(c).Error("request failed", "path", c.Path(), "error", err)
	}

	c.Response().ResetBody()
	c.Status(code)

	if code == fiber.StatusBadRequest && fe != nil {
		return c.JSON(fiber.Map{
			"error":   true,
			"message": fe.Message,
		})
	}
	return nil
}
