package ai

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/utils"
	"NativeRecipe-Backend/internal/utils/storage"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gofiber/fiber/v2/log"
)

const maxImageBytes = 8 << 20

const systemPrompt = "You are a helpful culinary AI assistant that outputs raw JSON."

var (
	openingFence = regexp.MustCompile("^```(?:json)?\\s*")
	closingFence = regexp.MustCompile("\\s*```$")
)

type (
	AiService interface {
		GenerateRecipe(ctx context.Context, ingredients []string) (domain.AiRecipeResponse, error)
		IdentifyFood(ctx context.Context, image *multipart.FileHeader) (domain.FoodIdentification, error)
	}

	Config struct {
		APIKey       string
		BaseURL      string
		Models       []string
		VisionModels []string
		HTTPClient   *http.Client
	}

	aiService struct {
		client       *openRouterClient
		configured   bool
		models       []string
		visionModels []string
	}
)

func NewAiService() AiService {
	cfg := utils.GetAppConfig()
	return NewAiServiceWithConfig(Config{
		APIKey:       cfg.OpenRouterAPIKey,
		BaseURL:      cfg.AIBaseURL,
		Models:       cfg.AIModels,
		VisionModels: cfg.AIVisionModels,
	})
}

func NewAiServiceWithConfig(cfg Config) AiService {
	utils.InitValidator()
	if cfg.APIKey == "" {
		log.Warn("OPENROUTER_API_KEY is empty, AI endpoints will fail")
	}
	return &aiService{
		client:       newOpenRouterClient(cfg.BaseURL, cfg.APIKey, cfg.HTTPClient),
		configured:   cfg.APIKey != "",
		models:       cfg.Models,
		visionModels: cfg.VisionModels,
	}
}

func recipePrompt(ingredients []string) string {
	return fmt.Sprintf(`You are a professional chef. Create a delicious recipe using the following ingredients: %s.
You can add basic pantry items (salt, pepper, oil, water, etc.) if needed.

IMPORTANT: Return ONLY a valid JSON object. Do not add markdown formatting like `+"```json"+`.

The JSON structure must be:
{
  "title": "Creative Recipe Name",
  "description": "A short, appetizing description (max 2 sentences).",
  "ingredients": [
    { "name": "Ingredient Name", "quantity": "Quantity (e.g., 200g, 1 tbsp)" }
  ],
  "instructions": "Step-by-step cooking instructions. Use newlines (\n) to separate steps."
}

Use Indonesian language (Bahasa Indonesia).`, strings.Join(ingredients, ", "))
}

const identifyPrompt = `Identify the dish or food in this image.

IMPORTANT: Return ONLY a valid JSON object. Do not add markdown formatting.

The JSON structure must be:
{
  "name": "Name of the dish",
  "description": "A short description of the dish (max 2 sentences).",
  "ingredients": ["main ingredient", "another ingredient"],
  "confidence": 0.0
}

confidence is a number between 0 and 1. Use Indonesian language (Bahasa Indonesia).`

// extractJSON strips markdown fences and any text around the outer object.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	content = openingFence.ReplaceAllString(content, "")
	content = closingFence.ReplaceAllString(content, "")

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end < start {
		return content
	}
	return content[start : end+1]
}

func decodeInto(content string, out any) error {
	if err := json.Unmarshal([]byte(extractJSON(content)), out); err != nil {
		return domain.Wrap(domain.KindAiProvider, domain.ErrAiInvalidResponse.Message, err)
	}
	if err := utils.Validate.Struct(out); err != nil {
		return domain.Wrap(domain.KindAiProvider, domain.ErrAiInvalidResponse.Message, err)
	}
	return nil
}

// generate tries each model in order. Rate limits, server errors and
// unusable output move on to the next model, any other provider answer
// is returned immediately.
func (s *aiService) generate(ctx context.Context, models []string, messages []chatMessage, out any) error {
	if !s.configured {
		return domain.ErrAiNotConfigured
	}

	var lastErr error
	for _, model := range models {
		log.Infow("attempting AI generation", "model", model)

		content, err := s.client.complete(ctx, model, messages)
		if err == nil {
			err = decodeInto(content, out)
		}
		if err == nil {
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return domain.Wrap(domain.KindAiProvider, domain.ErrAiRequestFailed.Message, ctxErr)
		}
		var se *statusError
		if errors.As(err, &se) && !se.retryable() {
			log.Errorw("AI model rejected request", "model", model, "status", se.StatusCode, "error", err)
			return domain.Wrap(domain.KindAiProvider, domain.ErrAiRequestFailed.Message, err)
		}

		log.Warnw("AI model failed, trying next", "model", model, "error", err)
		lastErr = err
	}

	if lastErr == nil {
		return domain.ErrAiAllModelsFailed
	}
	return domain.Wrap(domain.KindAiProvider, domain.ErrAiAllModelsFailed.Message, lastErr)
}

func (s *aiService) GenerateRecipe(ctx context.Context, ingredients []string) (domain.AiRecipeResponse, error) {
	cleaned := make([]string, 0, len(ingredients))
	for _, in := range ingredients {
		if in = strings.TrimSpace(in); in != "" {
			cleaned = append(cleaned, in)
		}
	}
	if len(cleaned) == 0 {
		return domain.AiRecipeResponse{}, domain.ErrIngredientsRequired
	}

	var recipe domain.AiRecipeResponse
	err := s.generate(ctx, s.models, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: recipePrompt(cleaned)},
	}, &recipe)
	if err != nil {
		return domain.AiRecipeResponse{}, err
	}
	return recipe, nil
}

func imageDataURI(image *multipart.FileHeader) (string, error) {
	src, err := image.Open()
	if err != nil {
		return "", domain.Wrap(domain.KindValidation, storage.ErrOpenFile.Message, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxImageBytes+1))
	if err != nil {
		return "", domain.Wrap(domain.KindValidation, storage.ErrOpenFile.Message, err)
	}
	if len(data) > maxImageBytes {
		return "", domain.NewError(domain.KindValidation, "image is too large")
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), storage.AllowImage...) {
		return "", storage.ErrFileTypeNotAllowed
	}
	return "data:" + mtype.String() + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (s *aiService) IdentifyFood(ctx context.Context, image *multipart.FileHeader) (domain.FoodIdentification, error) {
	if image == nil {
		return domain.FoodIdentification{}, domain.ErrImageRequired
	}

	uri, err := imageDataURI(image)
	if err != nil {
		return domain.FoodIdentification{}, err
	}

	var food domain.FoodIdentification
	err = s.generate(ctx, s.visionModels, []chatMessage{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: []contentPart{
			{Type: "text", Text: identifyPrompt},
			{Type: "image_url", ImageURL: &imageURL{URL: uri}},
		}},
	}, &food)
	if err != nil {
		return domain.FoodIdentification{}, err
	}
	return food, nil
}
