// FILE: internal/controller/controller.go
package controller

import (
	"errors"

	"job-board-be/internal/lifecycle"
	"job-board-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
)

// respondError maps service failures onto HTTP statuses. Lifecycle
// rejections are client-visible business outcomes, not server faults.
func respondError(ctx *fiber.Ctx, err error) error {
	var rej *lifecycle.Rejection
	if errors.As(err, &rej) {
		status := fiber.StatusConflict
		switch rej.Reason {
		case lifecycle.ReasonRecordNotFound:
			status = fiber.StatusNotFound
		case lifecycle.ReasonProofMissing, lifecycle.ReasonWrongPaymentMethod:
			status = fiber.StatusUnprocessableEntity
		}
		return ctx.Status(status).JSON(serverutils.ErrorResponse(status, rej.Message))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
}
