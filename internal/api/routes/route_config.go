package routes

import (
	"NativeRecipe-Backend/internal/api/handlers"
	"NativeRecipe-Backend/internal/middleware"
	"NativeRecipe-Backend/pkg/jwt"
	"NativeRecipe-Backend/pkg/subscription"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Config struct {
	App                 *fiber.App
	AuthHandler         handlers.AuthHandler
	SubscriptionHandler handlers.SubscriptionHandler
	RecipeHandler       handlers.RecipeHandler
	AiHandler           handlers.AiHandler
	Middleware          middleware.Middleware
	JWTService          jwt.JWTService
	SubscriptionService subscription.SubscriptionService
	Registry            *prometheus.Registry
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.GuestRoute()
	c.Auth()
	c.Subscription()
	c.Recipe()
	c.Ai()
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	if c.Registry != nil {
		c.App.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))
	}
}

func (c *Config) Auth() {
	auth := c.App.Group("/api/auth")
	{
		auth.Post("/signup", c.AuthHandler.SignUp)
		auth.Post("/signin", c.AuthHandler.SignIn)
		auth.Post("/signout", c.Middleware.AuthMiddleware(c.JWTService), c.AuthHandler.SignOut)
		auth.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.AuthHandler.Me)
	}
}

func (c *Config) Subscription() {
	sub := c.App.Group("/api/subscription")
	{
		sub.Get("/plans", c.SubscriptionHandler.GetPlans)
		sub.Post("/webhook", c.SubscriptionHandler.Webhook)

		sub.Post("/create", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.CreateSubscription)
		sub.Get("/status", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.GetSubscriptionStatus)
		sub.Post("/cancel", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.CancelSubscription)
		sub.Get("/check/:orderId", c.Middleware.AuthMiddleware(c.JWTService), c.SubscriptionHandler.CheckTransactionStatus)
	}
}

func (c *Config) Recipe() {
	recipes := c.App.Group("/api/recipes")
	{
		recipes.Get("", c.RecipeHandler.GetRecipes)
		recipes.Get("/me", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.GetMyRecipes)
		recipes.Get("/:id", c.RecipeHandler.GetRecipeByID)
		recipes.Post("", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.CreateRecipe)
		recipes.Put("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", c.Middleware.AuthMiddleware(c.JWTService), c.RecipeHandler.DeleteRecipe)
	}
}

func (c *Config) Ai() {
	optionalPro := []fiber.Handler{
		middleware.OptionalAuth(c.JWTService),
		c.Middleware.OptionalPro(c.SubscriptionService),
	}

	aiGroup := c.App.Group("/api/ai")
	{
		aiGroup.Post("/generate-recipe", append(optionalPro, c.AiHandler.GenerateRecipe)...)
		aiGroup.Post("/identify-food", append(optionalPro, c.AiHandler.IdentifyFood)...)
		aiGroup.Post("/generate-and-save",
			c.Middleware.AuthMiddleware(c.JWTService),
			c.Middleware.RequirePro(c.SubscriptionService),
			c.AiHandler.GenerateAndSave,
		)
	}
}
