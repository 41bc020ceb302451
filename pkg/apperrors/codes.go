package apperrors

// Error codes returned in API responses.
const (
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInternalError    ErrorCode = "INTERNAL_ERROR"

	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodePhoneAlreadyExists ErrorCode = "PHONE_ALREADY_EXISTS"
	CodeWeakPassword       ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserRole    ErrorCode = "INVALID_USER_ROLE"

	CodeDisasterNotFound      ErrorCode = "DISASTER_NOT_FOUND"
	CodeInvalidTransition     ErrorCode = "INVALID_STATUS_TRANSITION"
	CodeRejectionReasonNeeded ErrorCode = "REJECTION_REASON_REQUIRED"
	CodeAlreadyReported       ErrorCode = "ALREADY_REPORTED"
	CodeAlertNotFound         ErrorCode = "ALERT_NOT_FOUND"
	CodeProfileNotFound       ErrorCode = "PROFILE_NOT_FOUND"
)
