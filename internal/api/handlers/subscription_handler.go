package handlers

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/api/presenters"
	"NativeRecipe-Backend/pkg/subscription"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	SubscriptionHandler interface {
		GetPlans(c *fiber.Ctx) error
		CreateSubscription(c *fiber.Ctx) error
		GetSubscriptionStatus(c *fiber.Ctx) error
		CancelSubscription(c *fiber.Ctx) error
		CheckTransactionStatus(c *fiber.Ctx) error
		Webhook(c *fiber.Ctx) error
	}

	subscriptionHandler struct {
		subscriptionService subscription.SubscriptionService
		validator           *validator.Validate
	}
)

func NewSubscriptionHandler(subscriptionService subscription.SubscriptionService, validator *validator.Validate) SubscriptionHandler {
	return &subscriptionHandler{
		subscriptionService: subscriptionService,
		validator:           validator,
	}
}

func (h *subscriptionHandler) GetPlans(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, h.subscriptionService.GetPlans(), fiber.StatusOK, domain.MessageSuccessGetPlans)
}

func (h *subscriptionHandler) CreateSubscription(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CreateSubscriptionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if !domain.IsValidPlanType(req.PlanType) {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateSubscription, domain.ErrInvalidPlanType)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateSubscription, err)
	}

	res, err := h.subscriptionService.CreateSubscription(c.UserContext(), userID, *req)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedCreateSubscription, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessCreateSubscription)
}

func (h *subscriptionHandler) GetSubscriptionStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.subscriptionService.GetUserSubscription(c.UserContext(), userID)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGetSubscriptionStatus, err)
	}
	if res == nil {
		return presenters.SuccessResponse(c, domain.NoSubscriptionStatus(), fiber.StatusOK, domain.MessageNoSubscription)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetSubscriptionStatus)
}

func (h *subscriptionHandler) CancelSubscription(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req := new(domain.CancelSubscriptionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCancelSubscription, domain.ErrOrderIDRequired)
	}

	if err := h.subscriptionService.CancelSubscription(c.UserContext(), userID, req.OrderID); err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedCancelSubscription, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessCancelSubscription)
}

func (h *subscriptionHandler) CheckTransactionStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	res, err := h.subscriptionService.CheckTransactionStatus(c.UserContext(), userID, c.Params("orderId"))
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedCheckTransaction, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessCheckTransaction)
}

// Webhook answers every failure with 500 so the gateway redelivers.
func (h *subscriptionHandler) Webhook(c *fiber.Ctx) error {
	notification := new(domain.MidtransNotification)
	if err := c.BodyParser(notification); err != nil {
		log.Errorw("failed to parse payment notification", "error", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedWebhook, err)
	}

	if err := h.subscriptionService.HandleWebhookNotification(c.UserContext(), *notification); err != nil {
		log.Errorw("failed to process payment notification", "order_id", notification.OrderID, "error", err)
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedWebhook, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessWebhook)
}
