// FILE: internal/controller/admin_controller.go
package controller

import (
	"job-board-be/internal/dto"
	"job-board-be/internal/pkg/serverutils"
	"job-board-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListPending(ctx *fiber.Ctx) error
	Approve(ctx *fiber.Ctx) error
	Reject(ctx *fiber.Ctx) error
	CreatePlan(ctx *fiber.Ctx) error
}

type adminController struct {
	approvalService service.IApprovalService
	planService     service.IPlanService
}

func NewAdminController(approvalService service.IApprovalService, planService service.IPlanService) IAdminController {
	return &adminController{
		approvalService: approvalService,
		planService:     planService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware, serverutils.AdminOnly)

	h.Get("/subscriptions/pending", c.ListPending)
	h.Post("/subscriptions/approve", c.Approve)
	h.Post("/subscriptions/reject", c.Reject)
	h.Post("/plans", c.CreatePlan)
}

func (c *adminController) ListPending(ctx *fiber.Ctx) error {
	limit := ctx.QueryInt("limit", 20)
	offset := ctx.QueryInt("offset", 0)

	res, err := c.approvalService.ListPending(ctx.Context(), limit, offset)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Pending subscriptions", res))
}

func (c *adminController) Approve(ctx *fiber.Ctx) error {
	var req dto.ApproveSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.approvalService.Approve(ctx.Context(), &req); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription approved", nil))
}

func (c *adminController) Reject(ctx *fiber.Ctx) error {
	var req dto.RejectSubscriptionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	if err := c.approvalService.Reject(ctx.Context(), &req); err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Subscription rejected", nil))
}

func (c *adminController) CreatePlan(ctx *fiber.Ctx) error {
	var req dto.AdminCreatePlanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.planService.CreatePlan(ctx.Context(), &req)
	if err != nil {
		return respondError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Plan created", res))
}
