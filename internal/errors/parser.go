package errors

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

// ErrorInfo is a code plus user-facing message
type ErrorInfo struct {
	Code    string
	Message string
}

// ParseError converts storage errors into a user-facing code and message.
// Driver details are hidden; context ("hotel", "room", "tag", "user") picks
// the wording.
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Code: InternalServerError, Message: "internal server error"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFoundInfo(context)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicateInfo(err.Error(), context)
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		switch myErr.Number {
		case 1062:
			return duplicateInfo(myErr.Message, context)
		case 1451, 1452:
			return ErrorInfo{Code: ResourceConflict, Message: "referenced data prevents this change"}
		case 1048:
			return ErrorInfo{Code: ValidationRequired, Message: "a required field is missing"}
		}
	}

	errLower := strings.ToLower(err.Error())

	// postgres (23505) and sqlite wording
	if strings.Contains(errLower, "duplicate key") || strings.Contains(errLower, "unique constraint") {
		return duplicateInfo(errLower, context)
	}
	if strings.Contains(errLower, "foreign key constraint") {
		return ErrorInfo{Code: ResourceConflict, Message: "referenced data prevents this change"}
	}
	if strings.Contains(errLower, "not-null constraint") || strings.Contains(errLower, "not null constraint") {
		return ErrorInfo{Code: ValidationRequired, Message: "a required field is missing"}
	}
	if strings.Contains(errLower, "check constraint") {
		return ErrorInfo{Code: ValidationInvalidRange, Message: "a value is out of range"}
	}

	if strings.Contains(errLower, "connection refused") ||
		strings.Contains(errLower, "no such host") ||
		strings.Contains(errLower, "timeout") {
		return ErrorInfo{Code: InternalExternalAPI, Message: "a backing service is unavailable, please try again later"}
	}

	return ErrorInfo{Code: InternalServerError, Message: defaultMessage(context)}
}

func duplicateInfo(errStr string, context string) ErrorInfo {
	errLower := strings.ToLower(errStr)
	switch {
	case strings.Contains(errLower, "username"):
		return ErrorInfo{Code: AuthUsernameExists, Message: "username is already taken"}
	case strings.Contains(errLower, "tags") || strings.Contains(context, "tag"):
		return ErrorInfo{Code: TagAlreadyExists, Message: "tag already exists"}
	}
	return ErrorInfo{Code: ResourceAlreadyExists, Message: "record already exists"}
}

func notFoundInfo(context string) ErrorInfo {
	switch {
	case strings.Contains(context, "room"):
		return ErrorInfo{Code: RoomNotFound, Message: "room not found"}
	case strings.Contains(context, "hotel"):
		return ErrorInfo{Code: HotelNotFound, Message: "hotel not found"}
	case strings.Contains(context, "tag"):
		return ErrorInfo{Code: TagNotFound, Message: "tag not found"}
	case strings.Contains(context, "user"):
		return ErrorInfo{Code: ResourceNotFound, Message: "user not found"}
	}
	return ErrorInfo{Code: ResourceNotFound, Message: "requested data not found"}
}

func defaultMessage(context string) string {
	switch {
	case strings.Contains(context, "create"):
		return "failed to create, please try again later"
	case strings.Contains(context, "update"):
		return "failed to update, please try again later"
	case strings.Contains(context, "delete"):
		return "failed to delete, please try again later"
	}
	return "internal server error, please try again later"
}

// WorkflowStatus maps a status machine error to HTTP status and error info.
// ok is false when err is not a workflow error.
func WorkflowStatus(err error) (status int, info ErrorInfo, ok bool) {
	switch {
	case errors.Is(err, workflow.ErrCommentRequired):
		return http.StatusBadRequest, ErrorInfo{WorkflowCommentRequired, "a comment is required when rejecting a hotel"}, true
	case errors.Is(err, workflow.ErrUnknownAction):
		return http.StatusBadRequest, ErrorInfo{WorkflowUnknownAction, "unknown action"}, true
	case errors.Is(err, workflow.ErrUnknownStatus):
		return http.StatusBadRequest, ErrorInfo{WorkflowUnknownStatus, "unknown status"}, true
	case errors.Is(err, workflow.ErrNotPending):
		return http.StatusConflict, ErrorInfo{WorkflowNotPending, "only pending hotels can be audited"}, true
	case errors.Is(err, workflow.ErrApprovalRequired):
		return http.StatusConflict, ErrorInfo{WorkflowApprovalRequired, "hotel must be approved before publishing"}, true
	case errors.Is(err, workflow.ErrTerminalState):
		return http.StatusConflict, ErrorInfo{WorkflowTerminalState, "rejected hotels cannot change status"}, true
	case errors.Is(err, workflow.ErrAlreadyInState):
		return http.StatusConflict, ErrorInfo{WorkflowAlreadyInState, "hotel is already in that state"}, true
	}
	return 0, ErrorInfo{}, false
}

// ParseAndRespond parses err and writes the error envelope
func ParseAndRespond(c *gin.Context, statusCode int, err error, context string) {
	if status, info, ok := WorkflowStatus(err); ok {
		RespondWithError(c, status, info.Code, info.Message)
		return
	}
	info := ParseError(err, context)
	RespondWithError(c, statusCode, info.Code, info.Message)
}
