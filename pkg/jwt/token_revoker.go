package jwt

import (
	"NativeRecipe-Backend/entities"
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const revokedKeyPrefix = "revoked_token:"

type (
	TokenRevoker interface {
		Revoke(ctx context.Context, jti string, userID string, expiresAt time.Time) error
		IsRevoked(ctx context.Context, jti string) (bool, error)
	}

	redisTokenRevoker struct {
		client redis.UniversalClient
	}

	dbTokenRevoker struct {
		db  *gorm.DB
		now func() time.Time
	}
)

func NewRedisTokenRevoker(client redis.UniversalClient) TokenRevoker {
	return &redisTokenRevoker{client: client}
}

func (r *redisTokenRevoker) Revoke(ctx context.Context, jti string, userID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, revokedKeyPrefix+jti, userID, ttl).Err()
}

func (r *redisTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := r.client.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func NewDBTokenRevoker(db *gorm.DB) TokenRevoker {
	return &dbTokenRevoker{db: db, now: time.Now}
}

func (r *dbTokenRevoker) Revoke(ctx context.Context, jti string, userID string, expiresAt time.Time) error {
	row := entities.RevokedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
	}
	if id, err := uuid.Parse(userID); err == nil {
		row.UserID = id
	}

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return err
	}

	// expired rows are no longer needed
	return r.db.WithContext(ctx).
		Where("expires_at < ?", r.now()).
		Delete(&entities.RevokedToken{}).Error
}

func (r *dbTokenRevoker) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.RevokedToken{}).
		Where("jti = ? AND expires_at > ?", jti, r.now()).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
