package subscription

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/entities"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestSubscriptionRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()
	userID := uuid.New()

	base := time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC)
	for i, orderID := range []string{"PRO-CHEF-OLD", "PRO-CHEF-NEW"} {
		require.NoError(t, repo.CreateSubscription(ctx, &entities.Subscription{
			UserID:    userID,
			PlanType:  domain.PlanMonthly,
			Status:    domain.SubscriptionStatusPending,
			OrderID:   orderID,
			Price:     29000,
			Timestamp: entities.Timestamp{CreatedAt: base.Add(time.Duration(i) * time.Hour)},
		}))
	}

	t.Run("order id is unique", func(t *testing.T) {
		err := repo.CreateSubscription(ctx, &entities.Subscription{
			UserID: userID, PlanType: domain.PlanMonthly, Status: domain.SubscriptionStatusPending, OrderID: "PRO-CHEF-OLD", Price: 1,
		})
		assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
	})

	t.Run("latest by created_at", func(t *testing.T) {
		latest, err := repo.GetLatestSubscriptionByUserID(ctx, userID.String())
		require.NoError(t, err)
		assert.Equal(t, "PRO-CHEF-NEW", latest.OrderID)

		_, err = repo.GetLatestSubscriptionByUserID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})

	t.Run("cancel is scoped to owner", func(t *testing.T) {
		affected, err := repo.CancelSubscription(ctx, uuid.NewString(), "PRO-CHEF-OLD", base)
		require.NoError(t, err)
		assert.Zero(t, affected)

		affected, err = repo.CancelSubscription(ctx, userID.String(), "PRO-CHEF-OLD", base)
		require.NoError(t, err)
		assert.Equal(t, int64(1), affected)

		sub, err := repo.GetSubscriptionByOrderID(ctx, "PRO-CHEF-OLD")
		require.NoError(t, err)
		assert.Equal(t, domain.SubscriptionStatusCancelled, sub.Status)
	})

	t.Run("delete by order id", func(t *testing.T) {
		require.NoError(t, repo.DeleteSubscriptionByOrderID(ctx, "PRO-CHEF-NEW"))
		_, err := repo.GetSubscriptionByOrderID(ctx, "PRO-CHEF-NEW")
		assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	})
}
