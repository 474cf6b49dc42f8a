package domain

import (
	"time"
)

var (
	MessageSuccessSignUp  = "user registered successfully"
	MessageSuccessSignIn  = "user signed in successfully"
	MessageSuccessSignOut = "Successfully signed out."
	MessageSuccessGetMe   = "success get user profile"

	MessageFailedSignUp  = "failed to sign up"
	MessageFailedSignIn  = "failed to sign in"
	MessageFailedSignOut = "failed to sign out"
	MessageFailedGetMe   = "failed to get user profile"

	ErrEmailAlreadyRegistered = NewError(KindValidation, "User already registered")
	ErrInvalidCredentials     = NewError(KindAuthentication, "Invalid login credentials")
	ErrUserNotFound           = NewError(KindNotFound, "user not found")
	ErrHashPassword           = NewError(KindInternal, "failed to hash password")
	ErrCreateUser             = NewError(KindInternal, "failed to create user")
)

type (
	SignUpRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=6"`
		FullName string `json:"fullName" validate:"required"`
	}

	SignInRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UserResponse struct {
		ID        string    `json:"id"`
		Email     string    `json:"email"`
		FullName  string    `json:"full_name"`
		Role      string    `json:"role"`
		CreatedAt time.Time `json:"created_at"`
	}

	SessionResponse struct {
		AccessToken string       `json:"access_token"`
		TokenType   string       `json:"token_type"`
		ExpiresIn   int64        `json:"expires_in"`
		ExpiresAt   time.Time    `json:"expires_at"`
		User        UserResponse `json:"user"`
	}
)
