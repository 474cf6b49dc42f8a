package domain

import (
	"mime/multipart"
	"time"
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "recipe created successfully"
	MessageSuccessUpdateRecipe    = "recipe updated successfully"
	MessageSuccessDeleteRecipe    = "Recipe deleted successfully."

	MessageFailedGetRecipes      = "failed to get recipes"
	MessageFailedGetRecipeDetail = "failed to get recipe detail"
	MessageFailedCreateRecipe    = "failed to create recipe"
	MessageFailedUpdateRecipe    = "failed to update recipe"
	MessageFailedDeleteRecipe    = "failed to delete recipe"

	ErrRecipeNotFound       = NewError(KindNotFound, "recipe not found")
	ErrRecipeUpdateNotOwner = NewError(KindForbidden, "You are not authorized to update this recipe.")
	ErrRecipeDeleteNotOwner = NewError(KindForbidden, "You are not authorized to delete this recipe.")
	ErrCreateRecipe         = NewError(KindInternal, "Failed to create recipe")
	ErrAddIngredients       = NewError(KindInternal, "Failed to add ingredients")
	ErrUpdateRecipe         = NewError(KindInternal, "Failed to update recipe")
	ErrUpdateIngredients    = NewError(KindInternal, "Failed to update ingredients")
	ErrDeleteRecipe         = NewError(KindInternal, "Failed to delete recipe")
	ErrFetchRecipes         = NewError(KindInternal, "Failed to fetch recipes.")
	ErrInvalidRecipeID      = NewError(KindValidation, "invalid recipe id")
	ErrImageStorageDisabled = NewError(KindStorage, "image storage is not configured")
)

type (
	IngredientInput struct {
		Name     string `json:"name" form:"name" validate:"required"`
		Quantity string `json:"quantity" form:"quantity" validate:"omitempty"`
	}

	// CreateRecipeRequest is used for create and update. On update a nil
	// Ingredients slice keeps the existing ingredients, an empty one clears them.
	CreateRecipeRequest struct {
		Title        string                `json:"title" form:"title" validate:"required"`
		Description  string                `json:"description" form:"description" validate:"omitempty"`
		Instructions string                `json:"instructions" form:"instructions" validate:"required"`
		ImageURL     string                `json:"image_url" form:"image_url" validate:"omitempty,url"`
		Ingredients  []IngredientInput     `json:"ingredients" form:"-" validate:"omitempty,dive"`
		Image        *multipart.FileHeader `json:"-" form:"-"`
	}

	RecipeOwner struct {
		FullName string `json:"full_name"`
		Email    string `json:"email"`
	}

	IngredientResponse struct {
		ID        string    `json:"id"`
		RecipeID  string    `json:"recipe_id"`
		Name      string    `json:"name"`
		Quantity  string    `json:"quantity"`
		CreatedAt time.Time `json:"created_at"`
	}

	RecipeResponse struct {
		ID           string               `json:"id"`
		OwnerID      string               `json:"owner_id"`
		Title        string               `json:"title"`
		Description  string               `json:"description"`
		Instructions string               `json:"instructions"`
		ImageURL     string               `json:"image_url,omitempty"`
		CreatedAt    time.Time            `json:"created_at"`
		UpdatedAt    time.Time            `json:"updated_at"`
		User         *RecipeOwner         `json:"User,omitempty"`
		Ingredients  []IngredientResponse `json:"ingredients,omitempty"`
	}
)
