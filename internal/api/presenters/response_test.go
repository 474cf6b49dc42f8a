package presenters

import (
	"NativeRecipe-Backend/domain"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, Response) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out Response
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, out
}

func TestResponses(t *testing.T) {
	app := fiber.New()
	app.Get("/ok", func(c *fiber.Ctx) error {
		return SuccessResponse(c, fiber.Map{"id": "1"}, fiber.StatusCreated, "created")
	})
	app.Get("/plain-error", func(c *fiber.Ctx) error {
		return ErrorResponse(c, fiber.StatusBadRequest, "bad", errors.New("boom"))
	})
	app.Get("/conflict", func(c *fiber.Ctx) error {
		return DomainErrorResponse(c, "failed", domain.ErrActiveSubscriptionExists.WithData(fiber.Map{"isPro": true}))
	})
	app.Get("/wrapped", func(c *fiber.Ctx) error {
		return DomainErrorResponse(c, "failed", domain.Wrap(domain.KindPaymentGateway, "gateway down", errors.New("timeout")))
	})

	status, body := decode(t, app, "/ok")
	assert.Equal(t, fiber.StatusCreated, status)
	assert.True(t, body.Success)
	assert.Equal(t, map[string]any{"id": "1"}, body.Data)

	status, body = decode(t, app, "/plain-error")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.False(t, body.Success)
	assert.Equal(t, "boom", body.Error)

	status, body = decode(t, app, "/conflict")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "You already have an active Pro subscription.", body.Error)
	assert.Equal(t, map[string]any{"isPro": true}, body.Data)

	status, body = decode(t, app, "/wrapped")
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "gateway down", body.Error)
}
