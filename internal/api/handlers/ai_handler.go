package handlers

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/api/presenters"
	"NativeRecipe-Backend/pkg/ai"
	"NativeRecipe-Backend/pkg/recipe"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type (
	AiHandler interface {
		GenerateRecipe(c *fiber.Ctx) error
		IdentifyFood(c *fiber.Ctx) error
		GenerateAndSave(c *fiber.Ctx) error
	}

	aiHandler struct {
		aiService     ai.AiService
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}
)

func NewAiHandler(aiService ai.AiService, recipeService recipe.RecipeService, validator *validator.Validate) AiHandler {
	return &aiHandler{
		aiService:     aiService,
		recipeService: recipeService,
		validator:     validator,
	}
}

func (h *aiHandler) parseIngredients(c *fiber.Ctx) (*domain.GenerateRecipeRequest, error) {
	req := new(domain.GenerateRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return nil, domain.ErrIngredientsRequired
	}
	if err := h.validator.Struct(req); err != nil {
		return nil, domain.ErrIngredientsRequired
	}
	return req, nil
}

func (h *aiHandler) GenerateRecipe(c *fiber.Ctx) error {
	req, err := h.parseIngredients(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateRecipe, err)
	}

	res, err := h.aiService.GenerateRecipe(c.UserContext(), req.Ingredients)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGenerateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGenerateRecipe)
}

func (h *aiHandler) IdentifyFood(c *fiber.Ctx) error {
	image, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, fasthttp.ErrMissingFile) || errors.Is(err, fasthttp.ErrNoMultipartForm) {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedIdentifyFood, domain.ErrImageRequired)
		}
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.aiService.IdentifyFood(c.UserContext(), image)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedIdentifyFood, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessIdentifyFood)
}

// GenerateAndSave stores the generated recipe as one of the caller's recipes.
func (h *aiHandler) GenerateAndSave(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	req, err := h.parseIngredients(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGenerateRecipe, err)
	}

	generated, err := h.aiService.GenerateRecipe(c.UserContext(), req.Ingredients)
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedGenerateRecipe, err)
	}

	res, err := h.recipeService.CreateRecipe(c.UserContext(), userID, domain.CreateRecipeRequest{
		Title:        generated.Title,
		Description:  generated.Description,
		Instructions: generated.Instructions,
		Ingredients:  generated.IngredientInputs(),
	})
	if err != nil {
		return presenters.DomainErrorResponse(c, domain.MessageFailedCreateRecipe, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessSaveAiRecipe)
}
