package user

import (
	"NativeRecipe-Backend/domain"
	"NativeRecipe-Backend/entities"
	"NativeRecipe-Backend/pkg/jwt"
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		SignUp(ctx context.Context, req domain.SignUpRequest) (domain.SessionResponse, error)
		SignIn(ctx context.Context, req domain.SignInRequest) (domain.SessionResponse, error)
		SignOut(ctx context.Context, claims *jwt.UserClaims) error
		Me(ctx context.Context, userID string) (domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) SignUp(ctx context.Context, req domain.SignUpRequest) (domain.SessionResponse, error) {
	email := normalizeEmail(req.Email)

	_, err := s.userRepository.GetUserByEmail(ctx, email)
	if err == nil {
		return domain.SessionResponse{}, domain.ErrEmailAlreadyRegistered
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.SessionResponse{}, domain.Wrap(domain.KindInternal, domain.ErrCreateUser.Message, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.SessionResponse{}, domain.Wrap(domain.KindInternal, domain.ErrHashPassword.Message, err)
	}

	user := &entities.User{
		ID:       uuid.New(),
		Email:    email,
		Password: string(hashed),
		FullName: strings.TrimSpace(req.FullName),
		Role:     domain.RoleUser,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.SessionResponse{}, domain.ErrEmailAlreadyRegistered
		}
		return domain.SessionResponse{}, domain.Wrap(domain.KindInternal, domain.ErrCreateUser.Message, err)
	}

	log.Infow("user registered", "user_id", user.ID.String())
	return s.session(user)
}

func (s *userService) SignIn(ctx context.Context, req domain.SignInRequest) (domain.SessionResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.SessionResponse{}, domain.ErrInvalidCredentials
		}
		return domain.SessionResponse{}, domain.Wrap(domain.KindInternal, domain.MessageFailedSignIn, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return domain.SessionResponse{}, domain.ErrInvalidCredentials
	}

	return s.session(user)
}

func (s *userService) SignOut(ctx context.Context, claims *jwt.UserClaims) error {
	if err := s.jwtService.RevokeToken(ctx, claims); err != nil {
		return domain.Wrap(domain.KindInternal, domain.MessageFailedSignOut, err)
	}
	return nil
}

func (s *userService) Me(ctx context.Context, userID string) (domain.UserResponse, error) {
	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.UserResponse{}, domain.ErrUserNotFound
		}
		return domain.UserResponse{}, domain.Wrap(domain.KindInternal, domain.MessageFailedGetMe, err)
	}
	return toUserResponse(user), nil
}

func (s *userService) session(user *entities.User) (domain.SessionResponse, error) {
	token, claims, err := s.jwtService.GenerateTokenUser(user.ID.String(), user.Email, user.Role)
	if err != nil {
		return domain.SessionResponse{}, domain.Wrap(domain.KindInternal, domain.MessageFailedGetToken, err)
	}

	return domain.SessionResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(s.jwtService.TokenTTL().Seconds()),
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        toUserResponse(user),
	}, nil
}

func toUserResponse(user *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:        user.ID.String(),
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
