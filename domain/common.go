package domain

const (
	RoleUser = "user"
	//ROLE_ADMIN  = "admin"
)

var (
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageUnauthorized         = "Unauthorized. Please login first."

	ErrParseUUID      = NewError(KindValidation, "failed to parse UUID")
	ErrTokenNotFound  = NewError(KindAuthentication, "Authentication token is required")
	ErrTokenInvalid   = NewError(KindAuthentication, "Invalid or expired token.")
	ErrTokenExpired   = NewError(KindAuthentication, "token expired")
	ErrTokenRevoked   = NewError(KindAuthentication, "token has been revoked")
)
