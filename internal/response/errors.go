package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"
	ErrAdminCreateOnly ErrCode = "ADMIN_CREATION_FORBIDDEN"
	ErrSelfDeletion    ErrCode = "SELF_DELETION"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation    ErrCode = "VALIDATION_ERROR"
	ErrInvalidID     ErrCode = "INVALID_ID"
	ErrInvalidStatus ErrCode = "INVALID_STATUS"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound          ErrCode = "NOT_FOUND"
	ErrDuplicateAccount  ErrCode = "DUPLICATE_ACCOUNT"
	ErrConflict          ErrCode = "CONFLICT"
	ErrInvalidTransition ErrCode = "INVALID_TRANSITION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	case ErrInvalidCredentials:
		return "Invalid credentials"
	case ErrTokenRequired:
		return "No token provided"
	case ErrTokenInvalid:
		return "Invalid token"

	case ErrForbidden:
		return "You do not have permission to access this resource"
	case ErrAdminAccessOnly:
		return "Access denied. Admin privileges required."
	case ErrAdminCreateOnly:
		return "Only administrators can create administrator accounts"
	case ErrSelfDeletion:
		return "You cannot delete your own account"

	case ErrValidation:
		return "Validation failed, please check your input"
	case ErrInvalidID:
		return "Invalid ID format"
	case ErrInvalidStatus:
		return "Invalid status value"

	case ErrNotFound:
		return "Resource not found"
	case ErrDuplicateAccount:
		return "Username already exists"
	case ErrConflict:
		return "Resource already exists"
	case ErrInvalidTransition:
		return "Status change is not allowed from the current state"

	case ErrRateLimitExceeded:
		return "Too many requests, please try again later"

	case ErrInternal:
		return "Server error"
	default:
		return "An unexpected error occurred"
	}
}
