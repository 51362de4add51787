package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
	"github.com/ikkim/hotel-admin-backend/pkg/upload"
)

// respondServiceError maps errors shared by the hotel, room, tag and
// notification services to the response envelope
func respondServiceError(c *gin.Context, err error, context string) {
	var verr *service.ValidationError
	var unknown *service.UnknownTagsError

	switch {
	case errors.As(err, &verr):
		apperrors.RespondWithValidationError(c, verr.Fields)
	case errors.As(err, &unknown):
		apperrors.BadRequest(c, apperrors.TagUnknownID, unknown.Error())
	case errors.Is(err, service.ErrHotelNotFound):
		apperrors.NotFound(c, apperrors.HotelNotFound, "hotel not found")
	case errors.Is(err, service.ErrRoomNotFound):
		apperrors.NotFound(c, apperrors.RoomNotFound, "room not found")
	case errors.Is(err, service.ErrNotificationNotFound):
		apperrors.NotFound(c, apperrors.ResourceNotFound, "notification not found")
	case errors.Is(err, service.ErrHotelAccessDenied):
		apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzOwnerOnly, "hotel belongs to another merchant")
	case errors.Is(err, service.ErrAvailableExceedsTotal):
		apperrors.BadRequest(c, apperrors.RoomAvailability, "available rooms cannot exceed total rooms")
	case errors.Is(err, service.ErrStatusConflict):
		apperrors.Conflict(c, apperrors.ResourceConflict, "hotel status was changed by another request, reload and retry")
	case errors.Is(err, service.ErrTagExists):
		apperrors.Conflict(c, apperrors.TagAlreadyExists, "tag already exists")
	case errors.Is(err, service.ErrTagNameRequired):
		apperrors.BadRequest(c, apperrors.ValidationRequired, "tag name is required")
	case errors.Is(err, upload.ErrUnsupportedType), errors.Is(err, upload.ErrEmptyFile):
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
	case errors.Is(err, upload.ErrFileTooLarge):
		apperrors.BadRequest(c, apperrors.UploadFileTooLarge, err.Error())
	case errors.Is(err, upload.ErrTooManyFiles):
		apperrors.BadRequest(c, apperrors.UploadTooManyFiles, err.Error())
	case errors.Is(err, service.ErrStorageUnavailable):
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.UploadFailed, "image storage is unavailable")
	default:
		apperrors.ParseAndRespond(c, http.StatusInternalServerError, err, context)
	}
}

// pathID parses a positive numeric path parameter
func pathID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// currentUserID reads the authenticated user or responds 401
func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		apperrors.Unauthorized(c, "authentication required")
		return 0, false
	}
	return userID, true
}
