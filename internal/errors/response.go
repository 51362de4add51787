package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with. Code mirrors the
// HTTP status so clients can check it without looking at the transport.
type Response struct {
	Code    int               `json:"code"`
	Message string            `json:"message,omitempty"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// RespondWithError writes an error envelope
// statusCode: HTTP status, also echoed in "code"
// errorCode: constant from codes.go
// message: text shown to the user
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, Response{
		Code:    statusCode,
		Message: message,
		Error:   errorCode,
	})
}

// Success writes a 200 envelope with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Data: data})
}

// SuccessMessage writes a 200 envelope with a message and optional data
func SuccessMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Code: http.StatusOK, Message: message, Data: data})
}

// Created writes a 201 envelope
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Response{Code: http.StatusCreated, Message: message, Data: data})
}

// NoContent answers HTTP 200 with code 204 in the envelope so clients that
// always parse a body keep working
func NoContent(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Code: http.StatusNoContent, Message: message})
}

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "login required"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}
	RespondWithError(c, http.StatusForbidden, AuthzForbidden, message)
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "internal server error, please try again later"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

// RespondWithValidationError reports per-field validation failures
func RespondWithValidationError(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, Response{
		Code:    http.StatusBadRequest,
		Message: "invalid input",
		Error:   ValidationInvalidInput,
		Fields:  fields,
	})
}
