package core

// Error codes
const (
	ErrPositionNotFound  = "POSITION_NOT_FOUND"
	ErrInvalidFEN        = "INVALID_FEN"
	ErrInvalidRequest    = "INVALID_REQUEST"
	ErrInvalidContent    = "INVALID_CONTENT_TYPE"
	ErrRateLimitExceeded = "RATE_LIMIT_EXCEEDED"
	ErrUnauthorized      = "UNAUTHORIZED"
	ErrStorageDisabled   = "STORAGE_DISABLED"
	ErrInternalError     = "INTERNAL_ERROR"
)
