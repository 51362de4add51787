package errors

// Machine-readable error codes carried in the envelope "error" field.
// Format: CATEGORY_SPECIFIC_DETAIL. Clients map these to display text.

const (
	// ==================== AUTH_ ====================
	AuthUnauthorized       = "AUTH_UNAUTHORIZED"
	AuthInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	AuthTokenExpired       = "AUTH_TOKEN_EXPIRED"
	AuthTokenInvalid       = "AUTH_TOKEN_INVALID"
	AuthTokenRevoked       = "AUTH_TOKEN_REVOKED"
	AuthUsernameExists     = "AUTH_USERNAME_EXISTS"
	AuthRoleNotAllowed     = "AUTH_ROLE_NOT_ALLOWED"
	AuthWeakPassword       = "AUTH_WEAK_PASSWORD"

	// ==================== AUTHZ_ ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND"
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"

	// ==================== VALIDATION_ ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT"
	ValidationInvalidID    = "VALIDATION_INVALID_ID"
	ValidationInvalidRange = "VALIDATION_INVALID_RANGE"
	ValidationRequired     = "VALIDATION_REQUIRED"

	// ==================== RESOURCE_ ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS"
	ResourceConflict      = "RESOURCE_CONFLICT"

	// ==================== HOTEL_ / ROOM_ / TAG_ ====================
	HotelNotFound    = "HOTEL_NOT_FOUND"
	RoomNotFound     = "ROOM_NOT_FOUND"
	RoomAvailability = "ROOM_AVAILABLE_EXCEEDS_TOTAL"
	TagNotFound      = "TAG_NOT_FOUND"
	TagUnknownID     = "TAG_UNKNOWN_ID"
	TagAlreadyExists = "TAG_ALREADY_EXISTS"

	// ==================== WORKFLOW_ ====================
	WorkflowCommentRequired  = "WORKFLOW_COMMENT_REQUIRED"
	WorkflowNotPending       = "WORKFLOW_NOT_PENDING"
	WorkflowApprovalRequired = "WORKFLOW_APPROVAL_REQUIRED"
	WorkflowTerminalState    = "WORKFLOW_TERMINAL_STATE"
	WorkflowAlreadyInState   = "WORKFLOW_ALREADY_IN_STATE"
	WorkflowUnknownAction    = "WORKFLOW_UNKNOWN_ACTION"
	WorkflowUnknownStatus    = "WORKFLOW_UNKNOWN_STATUS"

	// ==================== UPLOAD_ ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE"
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"
	UploadTooManyFiles    = "UPLOAD_TOO_MANY_FILES"
	UploadFailed          = "UPLOAD_FAILED"

	// ==================== INTERNAL_ ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR"
	InternalExternalAPI   = "INTERNAL_EXTERNAL_API"
)
