package middleware

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/api/presenters"
	"NativeRecipe-Backend/internal/utils"
	"NativeRecipe-Backend/pkg/jwt"
	"NativeRecipe-Backend/pkg/subscription"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Locals keys set by the middlewares.
const (
	LocalUserID       = "user_id"
	LocalRole         = "role"
	LocalEmail        = "email"
	LocalClaims       = "claims"
	LocalSubscription = "subscription"
)

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		RequirePro(subscriptionService subscription.SubscriptionService) fiber.Handler
		OptionalPro(subscriptionService subscription.SubscriptionService) fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	origins := "*"
	if frontend := utils.GetConfig("FRONTEND_URL"); frontend != "" {
		origins = frontend
	}
	return cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	})
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthorized, domain.ErrTokenNotFound)
		}

		claims, err := jwtService.ParseUserClaims(c.UserContext(), token)
		if err != nil {
			if domain.KindOf(err) == domain.KindAuthentication {
				return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedTokenInvalid, domain.ErrTokenInvalid)
			}
			log.Errorw("failed to verify token", "error", err)
			return presenters.DomainErrorResponse(c, domain.MessageFailedProcessRequest, err)
		}

		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalEmail, claims.Email)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(LocalUserID).(string)
	return id
}

// RequirePro lets the request through only for users with a current Pro
// subscription. Must run after AuthMiddleware.
func (m *middleware) RequirePro(subscriptionService subscription.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := userID(c)
		if id == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageUnauthorized, domain.ErrTokenNotFound)
		}

		status, err := subscriptionService.GetUserSubscription(c.UserContext(), id)
		if err != nil {
			log.Errorw("failed to verify subscription", "user_id", id, "error", err)
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedVerifySubscription, err)
		}
		if status == nil || !status.IsPro {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":         false,
				"message":         domain.MessageProRequired,
				"upgradeRequired": true,
			})
		}

		c.Locals(LocalSubscription, status)
		return c.Next()
	}
}

// OptionalPro attaches the caller's subscription snapshot and never blocks.
// Anonymous callers and lookup failures get the not-entitled snapshot.
func (m *middleware) OptionalPro(subscriptionService subscription.SubscriptionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		snapshot := domain.NoSubscriptionStatus()

		if id := userID(c); id != "" {
			status, err := subscriptionService.GetUserSubscription(c.UserContext(), id)
			if err != nil {
				log.Warnw("optional subscription lookup failed", "user_id", id, "error", err)
			} else if status != nil {
				snapshot = *status
			}
		}

		c.Locals(LocalSubscription, &snapshot)
		return c.Next()
	}
}

// OptionalAuth sets the user locals when a valid bearer token is present and
// continues anonymously otherwise.
func OptionalAuth(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := bearerToken(c); token != "" {
			if claims, err := jwtService.ParseUserClaims(c.UserContext(), token); err == nil {
				c.Locals(LocalUserID, claims.UserID)
				c.Locals(LocalRole, claims.Role)
				c.Locals(LocalEmail, claims.Email)
				c.Locals(LocalClaims, claims)
			}
		}
		return c.Next()
	}
}

// Subscription returns the snapshot attached by RequirePro or OptionalPro.
func Subscription(c *fiber.Ctx) *domain.SubscriptionStatus {
	status, _ := c.Locals(LocalSubscription).(*domain.SubscriptionStatus)
	return status
}
