package subscription

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/entities"
	"context"
	"time"

	"gorm.io/gorm"
)

type (
	SubscriptionRepository interface {
		CreateSubscription(ctx context.Context, subscription *entities.Subscription) error
		DeleteSubscriptionByOrderID(ctx context.Context, orderID string) error
		GetSubscriptionByOrderID(ctx context.Context, orderID string) (*entities.Subscription, error)
		GetLatestSubscriptionByUserID(ctx context.Context, userID string) (*entities.Subscription, error)
		UpdateSubscriptionByOrderID(ctx context.Context, orderID string, updates map[string]any) error
		CancelSubscription(ctx context.Context, userID string, orderID string, now time.Time) (int64, error)
	}

	subscriptionRepository struct {
		db *gorm.DB
	}
)

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreateSubscription(ctx context.Context, subscription *entities.Subscription) error {
	return r.db.WithContext(ctx).Create(subscription).Error
}

func (r *subscriptionRepository) DeleteSubscriptionByOrderID(ctx context.Context, orderID string) error {
	return r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Delete(&entities.Subscription{}).Error
}

func (r *subscriptionRepository) GetSubscriptionByOrderID(ctx context.Context, orderID string) (*entities.Subscription, error) {
	var subscription entities.Subscription
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

// GetLatestSubscriptionByUserID returns the most recently created row only,
// older purchases are not consulted.
func (r *subscriptionRepository) GetLatestSubscriptionByUserID(ctx context.Context, userID string) (*entities.Subscription, error) {
	var subscription entities.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		First(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}

func (r *subscriptionRepository) UpdateSubscriptionByOrderID(ctx context.Context, orderID string, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("order_id = ?", orderID).
		Updates(updates).Error
}

func (r *subscriptionRepository) CancelSubscription(ctx context.Context, userID string, orderID string, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ? AND order_id = ?", userID, orderID).
		Updates(map[string]any{
			"status":     domain.SubscriptionStatusCancelled,
			"updated_at": now,
		})
	return res.RowsAffected, res.Error
}
