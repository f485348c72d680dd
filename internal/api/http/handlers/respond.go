package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/exam-compliance/internal/source"
)

const dataUnavailableWarning = "Não foi possível carregar os dados. Atualize para tentar novamente."

// respondOrWarn renders data, or an empty payload with a warning when the
// data source is unavailable. Other errors propagate to the error middleware.
func respondOrWarn(c *fiber.Ctx, data any, empty any, err error) error {
	if errors.Is(err, source.ErrUnavailable) {
		return c.JSON(fiber.Map{"data": empty, "warning": dataUnavailableWarning})
	}
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": data})
}
