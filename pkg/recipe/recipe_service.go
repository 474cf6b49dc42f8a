package recipe

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/entities"
	"NativeRecipe-Backend/internal/utils/storage"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const imageFolder = "recipes"

type (
	RecipeService interface {
		GetRecipes(ctx context.Context) ([]domain.RecipeResponse, error)
		GetMyRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error)
		GetRecipeByID(ctx context.Context, id string) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, userID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, id string, userID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, id string, userID string) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		storage          storage.AwsS3
		now              func() time.Time
	}
)

// NewRecipeService accepts a nil storage, image uploads are then rejected.
func NewRecipeService(recipeRepository RecipeRepository, objectStorage storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		storage:          objectStorage,
		now:              time.Now,
	}
}

func toIngredientEntities(recipeID uuid.UUID, inputs []domain.IngredientInput) []entities.Ingredient {
	ingredients := make([]entities.Ingredient, 0, len(inputs))
	for i, in := range inputs {
		ingredients = append(ingredients, entities.Ingredient{
			ID:       uuid.New(),
			RecipeID: recipeID,
			Name:     strings.TrimSpace(in.Name),
			Quantity: strings.TrimSpace(in.Quantity),
			Position: i,
		})
	}
	return ingredients
}

func toRecipeResponse(recipe entities.Recipe) domain.RecipeResponse {
	res := domain.RecipeResponse{
		ID:           recipe.ID.String(),
		OwnerID:      recipe.UserID.String(),
		Title:        recipe.Title,
		Description:  recipe.Description,
		Instructions: recipe.Instructions,
		ImageURL:     recipe.ImageURL,
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
	if recipe.User != nil {
		res.User = &domain.RecipeOwner{
			FullName: recipe.User.FullName,
			Email:    recipe.User.Email,
		}
	}
	for _, in := range recipe.Ingredients {
		res.Ingredients = append(res.Ingredients, domain.IngredientResponse{
			ID:        in.ID.String(),
			RecipeID:  in.RecipeID.String(),
			Name:      in.Name,
			Quantity:  in.Quantity,
			CreatedAt: in.CreatedAt,
		})
	}
	return res
}

func toRecipeResponses(recipes []entities.Recipe) []domain.RecipeResponse {
	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, recipe := range recipes {
		res = append(res, toRecipeResponse(recipe))
	}
	return res
}

func (s *recipeService) GetRecipes(ctx context.Context) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.GetRecipes(ctx)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, domain.ErrFetchRecipes.Message, err)
	}
	return toRecipeResponses(recipes), nil
}

func (s *recipeService) GetMyRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error) {
	recipes, err := s.recipeRepository.GetRecipesByUserID(ctx, userID)
	if err != nil {
		return nil, domain.Wrap(domain.KindInternal, "Failed to fetch user's recipes.", err)
	}
	return toRecipeResponses(recipes), nil
}

func (s *recipeService) findRecipe(ctx context.Context, id string) (*entities.Recipe, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrInvalidRecipeID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, domain.Wrap(domain.KindInternal, domain.ErrFetchRecipes.Message, err)
	}
	return recipe, nil
}

func (s *recipeService) GetRecipeByID(ctx context.Context, id string) (domain.RecipeResponse, error) {
	recipe, err := s.findRecipe(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	return toRecipeResponse(*recipe), nil
}

func (s *recipeService) uploadImage(ctx context.Context, req domain.CreateRecipeRequest) (string, string, error) {
	if req.Image == nil {
		return "", "", nil
	}
	if s.storage == nil {
		return "", "", domain.ErrImageStorageDisabled
	}

	key, err := s.storage.UploadFile(ctx, req.Image, imageFolder, storage.AllowImage...)
	if err != nil {
		return "", "", err
	}
	return key, s.storage.GetPublicLinkKey(key), nil
}

// storedImageKey returns the object key for images held in our bucket and ""
// for links pointing anywhere else.
func (s *recipeService) storedImageKey(link string) string {
	if s.storage == nil {
		return ""
	}
	key := s.storage.GetObjectKeyFromLink(link)
	if key == "" || s.storage.GetPublicLinkKey(key) != link {
		return ""
	}
	return key
}

func (s *recipeService) discardImage(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.DeleteFile(context.WithoutCancel(ctx), key); err != nil {
		log.Warnw("failed to remove recipe image", "key", key, "error", err)
	}
}

// CreateRecipe inserts the recipe and then its ingredients. When the second
// step fails the recipe row and any uploaded image are removed again.
func (s *recipeService) CreateRecipe(ctx context.Context, userID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	imageKey, imageURL, err := s.uploadImage(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if imageURL == "" {
		imageURL = strings.TrimSpace(req.ImageURL)
	}

	recipe := &entities.Recipe{
		ID:           uuid.New(),
		UserID:       ownerID,
		Title:        strings.TrimSpace(req.Title),
		Description:  strings.TrimSpace(req.Description),
		Instructions: req.Instructions,
		ImageURL:     imageURL,
	}
	if err := s.recipeRepository.CreateRecipe(ctx, recipe); err != nil {
		s.discardImage(ctx, imageKey)
		return domain.RecipeResponse{}, domain.Wrap(domain.KindInternal, domain.ErrCreateRecipe.Message, err)
	}

	ingredients := toIngredientEntities(recipe.ID, req.Ingredients)
	if err := s.recipeRepository.CreateIngredients(ctx, ingredients); err != nil {
		log.Errorw("failed to add ingredients, removing recipe", "recipe_id", recipe.ID, "error", err)
		if delErr := s.recipeRepository.DeleteRecipe(context.WithoutCancel(ctx), recipe.ID.String()); delErr != nil {
			log.Errorw("failed to roll back recipe", "recipe_id", recipe.ID, "error", delErr)
		}
		s.discardImage(ctx, imageKey)
		return domain.RecipeResponse{}, domain.Wrap(domain.KindInternal, domain.ErrAddIngredients.Message, err)
	}

	recipe.Ingredients = ingredients
	log.Infow("recipe created", "recipe_id", recipe.ID, "user_id", userID)
	return toRecipeResponse(*recipe), nil
}

func (s *recipeService) UpdateRecipe(ctx context.Context, id string, userID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	existing, err := s.findRecipe(ctx, id)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if existing.UserID.String() != userID {
		return domain.RecipeResponse{}, domain.ErrRecipeUpdateNotOwner
	}

	imageKey, imageURL, err := s.uploadImage(ctx, req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}
	if imageURL == "" {
		imageURL = strings.TrimSpace(req.ImageURL)
	}

	updates := map[string]any{
		"title":        strings.TrimSpace(req.Title),
		"description":  strings.TrimSpace(req.Description),
		"instructions": req.Instructions,
		"updated_at":   s.now(),
	}
	if imageURL != "" {
		updates["image_url"] = imageURL
	}
	if err := s.recipeRepository.UpdateRecipe(ctx, id, updates); err != nil {
		s.discardImage(ctx, imageKey)
		return domain.RecipeResponse{}, domain.Wrap(domain.KindInternal, domain.ErrUpdateRecipe.Message, err)
	}

	// the old object goes only once the row points at its replacement
	if imageURL != "" && imageURL != existing.ImageURL {
		s.discardImage(ctx, s.storedImageKey(existing.ImageURL))
	}

	// nil keeps the current ingredients, an empty list clears them
	if req.Ingredients != nil {
		if err := s.recipeRepository.DeleteIngredientsByRecipeID(ctx, id); err != nil {
			return domain.RecipeResponse{}, domain.Wrap(domain.KindInternal, domain.ErrUpdateIngredients.Message, err)
		}
		if err := s.recipeRepository.CreateIngredients(ctx, toIngredientEntities(existing.ID, req.Ingredients)); err != nil {
			return domain.RecipeResponse{}, domain.Wrap(domain.KindInternal, domain.ErrAddIngredients.Message, err)
		}
	}

	return s.GetRecipeByID(ctx, id)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, id string, userID string) error {
	existing, err := s.findRecipe(ctx, id)
	if err != nil {
		return err
	}
	if existing.UserID.String() != userID {
		return domain.ErrRecipeDeleteNotOwner
	}

	if err := s.recipeRepository.DeleteIngredientsByRecipeID(ctx, id); err != nil {
		return domain.Wrap(domain.KindInternal, "Failed to delete ingredients", err)
	}
	if err := s.recipeRepository.DeleteRecipe(ctx, id); err != nil {
		return domain.Wrap(domain.KindInternal, domain.ErrDeleteRecipe.Message, err)
	}

	s.discardImage(ctx, s.storedImageKey(existing.ImageURL))
	log.Infow("recipe deleted", "recipe_id", id, "user_id", userID)
	return nil
}
