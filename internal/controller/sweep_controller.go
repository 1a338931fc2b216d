// FILE: internal/controller/sweep_controller.go
package controller

import (
	"crypto/subtle"

	"job-board-be/internal/pkg/serverutils"
	"job-board-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ISweepController exposes the reconciliation trigger to the scheduler.
// It is internal infrastructure, guarded by a shared secret rather than
// user auth.
type ISweepController interface {
	RegisterRoutes(r fiber.Router)
	Run(ctx *fiber.Ctx) error
}

type sweepController struct {
	sweepService service.ISweepService
	cronSecret   string
}

func NewSweepController(sweepService service.ISweepService, cronSecret string) ISweepController {
	return &sweepController{
		sweepService: sweepService,
		cronSecret:   cronSecret,
	}
}

func (c *sweepController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/internal")
	h.Post("/sweep", c.cronMiddleware, c.Run)
}

func (c *sweepController) cronMiddleware(ctx *fiber.Ctx) error {
	if c.cronSecret == "" {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Sweep trigger disabled"))
	}
	provided := ctx.Get("X-Cron-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(c.cronSecret)) != 1 {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Invalid cron secret"))
	}
	return ctx.Next()
}

func (c *sweepController) Run(ctx *fiber.Ctx) error {
	report, err := c.sweepService.Run(ctx.Context())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Sweep completed", report))
}
