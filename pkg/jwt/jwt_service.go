package jwt

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/internal/utils"
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type (
	JWTService interface {
		GenerateTokenUser(userId string, email string, role string) (string, *UserClaims, error)
		ValidateTokenUser(token string) (*jwt.Token, error)
		GetUserIDByToken(token string) (string, string, error)
		ParseUserClaims(ctx context.Context, token string) (*UserClaims, error)
		RevokeToken(ctx context.Context, claims *UserClaims) error
		TokenTTL() time.Duration
	}

	UserClaims struct {
		UserID string `json:"user_id"`
		Email  string `json:"email"`
		Role   string `json:"role"`
		jwt.RegisteredClaims
	}

	jwtService struct {
		secretKey string
		issuer    string
		ttl       time.Duration
		revoker   TokenRevoker
		now       func() time.Time
	}
)

func getSecretKey() string {
	secretKey := utils.GetConfig("JWT_SECRET")
	if secretKey == "" {
		log.Warn("JWT_SECRET is empty, tokens are signed with an empty key")
	}
	return secretKey
}

func getTokenTTL() time.Duration {
	minutes, err := strconv.Atoi(utils.GetConfig("JWT_TTL_MINUTES"))
	if err != nil || minutes <= 0 {
		minutes = 120
	}
	return time.Duration(minutes) * time.Minute
}

func NewJWTService(revoker TokenRevoker) JWTService {
	return NewJWTServiceWithSecret(getSecretKey(), getTokenTTL(), revoker)
}

func NewJWTServiceWithSecret(secretKey string, ttl time.Duration, revoker TokenRevoker) JWTService {
	return &jwtService{
		secretKey: secretKey,
		issuer:    "NATIVE-RECIPE",
		ttl:       ttl,
		revoker:   revoker,
		now:       time.Now,
	}
}

func (j *jwtService) TokenTTL() time.Duration {
	return j.ttl
}

func (j *jwtService) GenerateTokenUser(userId string, email string, role string) (string, *UserClaims, error) {
	now := j.now()
	claims := &UserClaims{
		userId,
		email,
		role,
		jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   userId,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
			Issuer:    j.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tx, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", nil, err
	}
	return tx, claims, nil
}

func (j *jwtService) parseToken(t_ *jwt.Token) (any, error) {
	if _, ok := t_.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t_.Header["alg"])
	}
	return []byte(j.secretKey), nil
}

func (j *jwtService) ValidateTokenUser(token string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(token, &UserClaims{}, j.parseToken)
}

func (j *jwtService) claims(token string) (*UserClaims, error) {
	t_Token, err := j.ValidateTokenUser(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !t_Token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := t_Token.Claims.(*UserClaims)
	if !ok || claims.UserID == "" {
		return nil, domain.ErrTokenInvalid
	}
	return claims, nil
}

func (j *jwtService) GetUserIDByToken(token string) (string, string, error) {
	claims, err := j.claims(token)
	if err != nil {
		return "", "", err
	}
	return claims.UserID, claims.Role, nil
}

// ParseUserClaims validates the token and rejects revoked token ids.
func (j *jwtService) ParseUserClaims(ctx context.Context, token string) (*UserClaims, error) {
	claims, err := j.claims(token)
	if err != nil {
		return nil, err
	}

	if j.revoker != nil && claims.ID != "" {
		revoked, err := j.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, domain.Wrap(domain.KindInternal, "failed to check token revocation", err)
		}
		if revoked {
			return nil, domain.ErrTokenRevoked
		}
	}
	return claims, nil
}

// RevokeToken blocks the token id until the token would have expired anyway.
func (j *jwtService) RevokeToken(ctx context.Context, claims *UserClaims) error {
	if j.revoker == nil || claims == nil || claims.ID == "" {
		return nil
	}

	expiresAt := j.now().Add(j.ttl)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if !expiresAt.After(j.now()) {
		return nil
	}
	return j.revoker.Revoke(ctx, claims.ID, claims.UserID, expiresAt)
}
