package domain

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind   ErrorKind
		status int
		name   string
	}{
		{KindValidation, http.StatusBadRequest, "ValidationError"},
		{KindAuthentication, http.StatusUnauthorized, "AuthenticationError"},
		{KindForbidden, http.StatusForbidden, "ForbiddenError"},
		{KindNotFound, http.StatusNotFound, "NotFoundError"},
		{KindConflict, http.StatusConflict, "ConflictError"},
		{KindPaymentGateway, http.StatusBadGateway, "PaymentGatewayError"},
		{KindStorage, http.StatusBadGateway, "StorageError"},
		{KindAiProvider, http.StatusBadGateway, "AiProviderError"},
		{KindInternal, http.StatusInternalServerError, "InternalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
			assert.Equal(t, tt.name, tt.kind.String())
		})
	}
}

func TestError_WrapAndInspect(t *testing.T) {
	cause := errors.New("dial tcp: timeout")
	err := fmt.Errorf("create order: %w", Wrap(KindPaymentGateway, "Failed to create payment transaction", cause))

	assert.Equal(t, KindPaymentGateway, KindOf(err))
	assert.Equal(t, "Failed to create payment transaction", MessageOf(err))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrCreatePaymentTransaction)
	assert.Contains(t, err.Error(), "dial tcp: timeout")
}

func TestError_WithDataKeepsIdentity(t *testing.T) {
	err := ErrActiveSubscriptionExists.WithData("snapshot")

	assert.ErrorIs(t, err, ErrActiveSubscriptionExists)
	assert.Equal(t, "snapshot", DataOf(err))
	assert.Nil(t, ErrActiveSubscriptionExists.Data)
}

func TestKindOf_PlainError(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, KindInternal, KindOf(err))
	assert.Equal(t, "boom", MessageOf(err))
	assert.Nil(t, DataOf(err))
}
