package controller

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

// HotelController serves the merchant's own hotel listings
type HotelController struct {
	hotelService service.HotelService
}

func NewHotelController(hotelService service.HotelService) *HotelController {
	return &HotelController{
		hotelService: hotelService,
	}
}

// UpdateHotelRequest is a partial update; absent fields are left unchanged
type UpdateHotelRequest struct {
	Name        *string  `json:"name"`
	Address     *string  `json:"address"`
	Description *string  `json:"description"`
	Star        *int     `json:"star"`
	OpeningDate *string  `json:"openingDate"`
	Tags        []string `json:"tags"`
	TagIDs      []uint   `json:"tagIds"`
	FacilityIDs []uint   `json:"facilityIds"` // refused, facilities are catalog tags sent in tagIds
	Status      *string  `json:"status"`      // ignored, status only changes through admin review
}

// CreatedHotel is returned by a successful create
type CreatedHotel struct {
	ID        uint            `json:"id"`
	Status    workflow.Status `json:"status"`
	CreatedAt time.Time       `json:"createdAt"`
}

// hotelListQuery reads paging, filters and sorting shared by the merchant
// and admin list endpoints
func hotelListQuery(c *gin.Context) (service.HotelListQuery, bool) {
	page, pageSize := pageParams(c)
	statuses, err := workflow.ParseStatuses(c.QueryArray("status"))
	if err != nil {
		apperrors.BadRequest(c, apperrors.WorkflowUnknownStatus, err.Error())
		return service.HotelListQuery{}, false
	}
	return service.HotelListQuery{
		Page:     page,
		PageSize: pageSize,
		Statuses: statuses,
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		SortBy:   c.Query("sortBy"),
		Order:    c.Query("order"),
	}, true
}

// ListHotels returns the caller's hotels
// GET /api/merchant/hotels
func (ctrl *HotelController) ListHotels(c *gin.Context) {
	merchantID, ok := currentUserID(c)
	if !ok {
		return
	}
	q, ok := hotelListQuery(c)
	if !ok {
		return
	}

	page, err := ctrl.hotelService.ListHotels(merchantID, q)
	if err != nil {
		respondServiceError(c, err, "list hotels")
		return
	}
	apperrors.Success(c, page)
}

// CreateHotel accepts a multipart form with fields and images
// POST /api/merchant/hotels/upload
func (ctrl *HotelController) CreateHotel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	merchantID, ok := currentUserID(c)
	if !ok {
		return
	}

	form := newFormReader(c)
	input := service.CreateHotelInput{
		Name:        form.String("name"),
		Address:     form.String("address"),
		Description: form.String("description"),
		Star:        form.Int("star"),
		OpeningDate: form.Date("openingDate"),
		TagIDs:      form.IDs("tagIds"),
		Images:      form.Files(),
	}
	if err := form.Err(); err != nil {
		respondServiceError(c, err, "create hotel")
		return
	}

	hotel, err := ctrl.hotelService.CreateHotel(c.Request.Context(), merchantID, input)
	if err != nil {
		log.Warn("Hotel creation failed", map[string]interface{}{
			"merchant_id": merchantID,
			"error":       err.Error(),
		})
		respondServiceError(c, err, "create hotel")
		return
	}

	apperrors.Created(c, "hotel submitted for review", CreatedHotel{
		ID:        hotel.ID,
		Status:    hotel.Status,
		CreatedAt: hotel.CreatedAt,
	})
}

// GetHotel returns one of the caller's hotels with its rooms
// GET /api/merchant/hotels/:id
func (ctrl *HotelController) GetHotel(c *gin.Context) {
	merchantID, ok := currentUserID(c)
	if !ok {
		return
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	hotel, err := ctrl.hotelService.GetHotel(merchantID, hotelID)
	if err != nil {
		respondServiceError(c, err, "get hotel")
		return
	}
	apperrors.Success(c, hotel)
}

// UpdateHotel applies a partial JSON update
// PUT /api/merchant/hotels/:id
func (ctrl *HotelController) UpdateHotel(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	merchantID, ok := currentUserID(c)
	if !ok {
		return
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateHotelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid hotel data")
		return
	}
	if req.FacilityIDs != nil {
		apperrors.RespondWithValidationError(c, map[string]string{"facilityIds": "is not supported, send facility tags in tagIds"})
		return
	}
	if req.Status != nil {
		log.Warn("Ignoring status in merchant hotel update", map[string]interface{}{
			"hotel_id": hotelID,
			"status":   *req.Status,
		})
	}

	input := service.UpdateHotelInput{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		Star:        req.Star,
		Tags:        req.Tags,
		TagIDs:      req.TagIDs,
	}
	if req.OpeningDate != nil && strings.TrimSpace(*req.OpeningDate) != "" {
		d, err := time.Parse(DateLayout, strings.TrimSpace(*req.OpeningDate))
		if err != nil {
			apperrors.RespondWithValidationError(c, map[string]string{"openingDate": "must be a date like 2024-01-31"})
			return
		}
		input.OpeningDate = &d
	}

	hotel, err := ctrl.hotelService.UpdateHotel(c.Request.Context(), merchantID, hotelID, input)
	if err != nil {
		respondServiceError(c, err, "update hotel")
		return
	}
	apperrors.SuccessMessage(c, "hotel updated", hotel)
}

// DeleteHotel removes one of the caller's hotels and its rooms
// DELETE /api/merchant/hotels/:id
func (ctrl *HotelController) DeleteHotel(c *gin.Context) {
	merchantID, ok := currentUserID(c)
	if !ok {
		return
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.hotelService.DeleteHotel(merchantID, hotelID); err != nil {
		respondServiceError(c, err, "delete hotel")
		return
	}
	apperrors.NoContent(c, "hotel deleted")
}

// optionalUint parses an optional numeric query parameter
func optionalUint(c *gin.Context, name string) (*uint, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, true
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apperrors.RespondWithError(c, http.StatusBadRequest, apperrors.ValidationInvalidID, "invalid "+name)
		return nil, false
	}
	id := uint(n)
	return &id, true
}
