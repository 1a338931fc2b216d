// FILE: internal/controller/subscription_controller.go
package controller

import (
	"errors"

	"job-board-be/internal/dto"
	"job-board-be/internal/pkg/serverutils"
	"job-board-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISubscriptionController interface {
	RegisterRoutes(r fiber.Router)
	GetPlans(ctx *fiber.Ctx) error
	Checkout(ctx *fiber.Ctx) error
	UploadProof(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	CancelSubscription(ctx *fiber.Ctx) error
}

type subscriptionController struct {
	planService     service.IPlanService
	checkoutService service.ICheckoutService
	webhookService  service.IWebhookService
}

func NewSubscriptionController(
	planService service.IPlanService,
	checkoutService service.ICheckoutService,
	webhookService service.IWebhookService,
) ISubscriptionController {
	return &subscriptionController{
		planService:     planService,
		checkoutService: checkoutService,
		webhookService:  webhookService,
	}
}

func (c *subscriptionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/subscription")
	h.Post("/midtrans/notification", c.Webhook)
	h.Get("/plans", c.GetPlans)

	// Protected Routes
	h.Post("/checkout", serverutils.JwtMiddleware, c.Checkout)
	h.Post("/proof", serverutils.JwtMiddleware, c.UploadProof)
	h.Get("/status", serverutils.JwtMiddleware, c.GetStatus)
	h.Post("/cancel", serverutils.JwtMiddleware, c.CancelSubscription)
}

func (c *subscriptionController) GetPlans(ctx *fiber.Ctx) error {
	res, err := c.planService.GetActivePlans(ctx.Context())
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching plans", res))
}

func (c *subscriptionController) Checkout(ctx *fiber.Ctx) error {
	var req dto.CheckoutRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user"))
	}

	res, err := c.checkoutService.Checkout(ctx.Context(), userId, &req)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Checkout created", res))
}

func (c *subscriptionController) UploadProof(ctx *fiber.Ctx) error {
	var req dto.UploadProofRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user"))
	}

	if err := c.checkoutService.UploadProof(ctx.Context(), userId, &req); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Payment proof attached", nil))
}

func (c *subscriptionController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.SendStatus(fiber.StatusBadRequest)
	}

	err := c.webhookService.HandleNotification(ctx.Context(), &req)
	if errors.Is(err, service.ErrInvalidSignature) {
		// A forged callback can never verify on redelivery; the service
		// already logged it, so ack and let the gateway move on.
		return ctx.SendStatus(fiber.StatusOK)
	}
	if err != nil {
		// Non-2xx makes the gateway retry, which is what we want for
		// infrastructure failures.
		return ctx.SendStatus(fiber.StatusInternalServerError)
	}
	return ctx.SendStatus(fiber.StatusOK)
}

func (c *subscriptionController) GetStatus(ctx *fiber.Ctx) error {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user"))
	}

	res, err := c.checkoutService.GetSubscriptionStatus(ctx.Context(), userId)
	if err != nil {
		return respondError(ctx, err)
	}
	if res == nil {
		return ctx.JSON(serverutils.SuccessResponse[any]("No subscription found", nil))
	}
	return ctx.JSON(serverutils.SuccessResponse("Subscription status", res))
}

func (c *subscriptionController) CancelSubscription(ctx *fiber.Ctx) error {
	var req dto.CancelSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid user"))
	}

	if err := c.checkoutService.CancelSubscription(ctx.Context(), userId, req.SubscriptionId); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription cancelled", nil))
}
