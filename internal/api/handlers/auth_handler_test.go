package handlers

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/utils"
	"NativeRecipe-Backend/pkg/jwt"
	"encoding/json"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthHandler_SignUpValidation(t *testing.T) {
	svc := new(mockUserService)
	h := NewAuthHandler(svc, utils.Validate)

	app := newTestApp(fiber.MethodPost, "/signup", h.SignUp)
	code, res := doJSON(t, app, fiber.MethodPost, "/signup", fiber.Map{"email": "chef@example.com", "password": "123"})

	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, domain.MessageFailedSignUp, res.Message)
	svc.AssertNotCalled(t, "SignUp", mock.Anything)
}

func TestAuthHandler_SignUp(t *testing.T) {
	req := domain.SignUpRequest{Email: "chef@example.com", Password: "rahasia123", FullName: "Budi Santoso"}
	svc := new(mockUserService)
	svc.On("SignUp", req).Return(domain.SessionResponse{
		AccessToken: "token",
		TokenType:   "Bearer",
		User:        domain.UserResponse{Email: req.Email, FullName: req.FullName},
	}, nil)
	h := NewAuthHandler(svc, utils.Validate)

	app := newTestApp(fiber.MethodPost, "/signup", h.SignUp)
	code, res := doJSON(t, app, fiber.MethodPost, "/signup", req)

	assert.Equal(t, fiber.StatusCreated, code)
	var out domain.SessionResponse
	require.NoError(t, json.Unmarshal(res.Data, &out))
	assert.Equal(t, "token", out.AccessToken)
	assert.Equal(t, "Budi Santoso", out.User.FullName)
}

func TestAuthHandler_SignInInvalidCredentials(t *testing.T) {
	svc := new(mockUserService)
	svc.On("SignIn", mock.Anything).Return(domain.SessionResponse{}, domain.ErrInvalidCredentials)
	h := NewAuthHandler(svc, utils.Validate)

	app := newTestApp(fiber.MethodPost, "/signin", h.SignIn)
	code, res := doJSON(t, app, fiber.MethodPost, "/signin", fiber.Map{"email": "chef@example.com", "password": "salah"})

	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, domain.ErrInvalidCredentials.Message, res.Error)
}

func TestAuthHandler_SignOut(t *testing.T) {
	claims := &jwt.UserClaims{UserID: testUserID}
	svc := new(mockUserService)
	svc.On("SignOut", claims).Return(nil)
	h := NewAuthHandler(svc, utils.Validate)

	app := fiber.New()
	app.Post("/signout", func(c *fiber.Ctx) error {
		c.Locals("claims", claims)
		return c.Next()
	}, h.SignOut)
	code, res := doJSON(t, app, fiber.MethodPost, "/signout", nil)

	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, domain.MessageSuccessSignOut, res.Message)
	svc.AssertExpectations(t)
}

func TestAuthHandler_SignOutWithoutClaims(t *testing.T) {
	svc := new(mockUserService)
	h := NewAuthHandler(svc, utils.Validate)

	app := newTestApp(fiber.MethodPost, "/signout", h.SignOut)
	code, res := doJSON(t, app, fiber.MethodPost, "/signout", nil)

	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, domain.ErrTokenNotFound.Message, res.Error)
	svc.AssertNotCalled(t, "SignOut", mock.Anything)
}

func TestAuthHandler_MeNotFound(t *testing.T) {
	svc := new(mockUserService)
	svc.On("Me", testUserID).Return(domain.UserResponse{}, domain.ErrUserNotFound)
	h := NewAuthHandler(svc, utils.Validate)

	app := newTestApp(fiber.MethodGet, "/me", h.Me)
	code, _ := doJSON(t, app, fiber.MethodGet, "/me", nil)

	assert.Equal(t, fiber.StatusNotFound, code)
}
