package domain

import (
	"mime/multipart"
)

var (
	MessageSuccessGenerateRecipe = "success generate recipe"
	MessageSuccessIdentifyFood   = "success identify food"
	MessageSuccessSaveAiRecipe   = "generated recipe saved successfully"

	MessageFailedGenerateRecipe = "Failed to generate recipe from AI."
	MessageFailedIdentifyFood   = "Failed to identify food from image."

	ErrIngredientsRequired = NewError(KindValidation, "Please provide a list of ingredients.")
	ErrImageRequired       = NewError(KindValidation, "Please provide an image.")
	ErrAiNotConfigured     = NewError(KindAiProvider, "OpenRouter API Key not configured")
	ErrAiAllModelsFailed   = NewError(KindAiProvider, "All AI models failed to generate a recipe.")
	ErrAiRequestFailed     = NewError(KindAiProvider, "AI provider request failed")
	ErrAiInvalidResponse   = NewError(KindAiProvider, "AI provider returned an invalid response")
)

type (
	GenerateRecipeRequest struct {
		Ingredients []string `json:"ingredients" validate:"required,min=1,dive,required"`
	}

	AiIngredient struct {
		Name     string `json:"name" validate:"required"`
		Quantity string `json:"quantity"`
	}

	// AiRecipeResponse is produced by the model and returned directly, never stored as is.
	AiRecipeResponse struct {
		Title        string         `json:"title" validate:"required"`
		Description  string         `json:"description" validate:"required"`
		Ingredients  []AiIngredient `json:"ingredients" validate:"required,min=1,dive"`
		Instructions string         `json:"instructions" validate:"required"`
	}

	IdentifyFoodRequest struct {
		Image *multipart.FileHeader `form:"image" validate:"required"`
	}

	FoodIdentification struct {
		Name        string   `json:"name" validate:"required"`
		Description string   `json:"description"`
		Ingredients []string `json:"ingredients"`
		Confidence  float64  `json:"confidence" validate:"gte=0,lte=1"`
	}
)

// IngredientInputs converts the model output into recipe ingredient inputs.
func (r AiRecipeResponse) IngredientInputs() []IngredientInput {
	out := make([]IngredientInput, 0, len(r.Ingredients))
	for _, in := range r.Ingredients {
		out = append(out, IngredientInput{Name: in.Name, Quantity: in.Quantity})
	}
	return out
}
