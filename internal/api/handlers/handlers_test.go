package handlers

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/utils"
	"NativeRecipe-Backend/pkg/jwt"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testUserID = "8c2f7a52-6a4f-4f0e-9d44-1f0c3b1a2e11"

type response struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func init() {
	utils.InitValidator()
}

// newTestApp registers the handler behind a fake authentication step.
func newTestApp(method, path string, handler fiber.Handler) *fiber.App {
	app := fiber.New()
	app.Add(method, path, func(c *fiber.Ctx) error {
		c.Locals("user_id", testUserID)
		return c.Next()
	}, handler)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, target string, payload any) (int, response) {
	t.Helper()
	var reader io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return send(t, app, req)
}

func doMultipart(t *testing.T, app *fiber.App, method, target string, fields map[string]string, file []byte) (int, response) {
	t.Helper()
	buf := new(bytes.Buffer)
	w := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if file != nil {
		part, err := w.CreateFormFile("image", "dish.png")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, target, buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return send(t, app, req)
}

func send(t *testing.T, app *fiber.App, req *http.Request) (int, response) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out response
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp.StatusCode, out
}

type mockSubscriptionService struct {
	mock.Mock
	lastCtx context.Context
}

func (m *mockSubscriptionService) GetPlans() domain.SubscriptionPlansResponse {
	return m.Called().Get(0).(domain.SubscriptionPlansResponse)
}

func (m *mockSubscriptionService) CreateSubscription(ctx context.Context, userID string, req domain.CreateSubscriptionRequest) (domain.CreateSubscriptionResponse, error) {
	args := m.Called(userID, req)
	return args.Get(0).(domain.CreateSubscriptionResponse), args.Error(1)
}

func (m *mockSubscriptionService) HandleWebhookNotification(ctx context.Context, notification domain.MidtransNotification) error {
	return m.Called(notification).Error(0)
}

func (m *mockSubscriptionService) GetUserSubscription(ctx context.Context, userID string) (*domain.SubscriptionStatus, error) {
	m.lastCtx = ctx
	args := m.Called(userID)
	status, _ := args.Get(0).(*domain.SubscriptionStatus)
	return status, args.Error(1)
}

func (m *mockSubscriptionService) CheckTransactionStatus(ctx context.Context, userID string, orderID string) (domain.TransactionStatus, error) {
	args := m.Called(userID, orderID)
	return args.Get(0).(domain.TransactionStatus), args.Error(1)
}

func (m *mockSubscriptionService) CancelSubscription(ctx context.Context, userID string, orderID string) error {
	m.lastCtx = ctx
	return m.Called(userID, orderID).Error(0)
}

type mockRecipeService struct{ mock.Mock }

func (m *mockRecipeService) GetRecipes(ctx context.Context) ([]domain.RecipeResponse, error) {
	args := m.Called()
	return args.Get(0).([]domain.RecipeResponse), args.Error(1)
}

func (m *mockRecipeService) GetMyRecipes(ctx context.Context, userID string) ([]domain.RecipeResponse, error) {
	args := m.Called(userID)
	return args.Get(0).([]domain.RecipeResponse), args.Error(1)
}

func (m *mockRecipeService) GetRecipeByID(ctx context.Context, id string) (domain.RecipeResponse, error) {
	args := m.Called(id)
	return args.Get(0).(domain.RecipeResponse), args.Error(1)
}

func (m *mockRecipeService) CreateRecipe(ctx context.Context, userID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	args := m.Called(userID, req)
	return args.Get(0).(domain.RecipeResponse), args.Error(1)
}

func (m *mockRecipeService) UpdateRecipe(ctx context.Context, id string, userID string, req domain.CreateRecipeRequest) (domain.RecipeResponse, error) {
	args := m.Called(id, userID, req)
	return args.Get(0).(domain.RecipeResponse), args.Error(1)
}

func (m *mockRecipeService) DeleteRecipe(ctx context.Context, id string, userID string) error {
	return m.Called(id, userID).Error(0)
}

type mockAiService struct{ mock.Mock }

func (m *mockAiService) GenerateRecipe(ctx context.Context, ingredients []string) (domain.AiRecipeResponse, error) {
	args := m.Called(ingredients)
	return args.Get(0).(domain.AiRecipeResponse), args.Error(1)
}

func (m *mockAiService) IdentifyFood(ctx context.Context, image *multipart.FileHeader) (domain.FoodIdentification, error) {
	args := m.Called(image)
	return args.Get(0).(domain.FoodIdentification), args.Error(1)
}

type mockUserService struct{ mock.Mock }

func (m *mockUserService) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.SessionResponse, error) {
	args := m.Called(req)
	return args.Get(0).(domain.SessionResponse), args.Error(1)
}

func (m *mockUserService) SignIn(ctx context.Context, req domain.SignInRequest) (domain.SessionResponse, error) {
	args := m.Called(req)
	return args.Get(0).(domain.SessionResponse), args.Error(1)
}

func (m *mockUserService) SignOut(ctx context.Context, claims *jwt.UserClaims) error {
	return m.Called(claims).Error(0)
}

func (m *mockUserService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	args := m.Called(userID)
	return args.Get(0).(domain.UserResponse), args.Error(1)
}
