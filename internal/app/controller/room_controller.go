package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
)

type RoomController struct {
	roomService service.RoomService
}

func NewRoomController(roomService service.RoomService) *RoomController {
	return &RoomController{
		roomService: roomService,
	}
}

type UpdateRoomRequest struct {
	Type         *string  `json:"type"`
	Area         *float64 `json:"area"`
	BedType      *string  `json:"bedType"`
	MaxOccupancy *int     `json:"maxOccupancy"`
	Price        *float64 `json:"price"`
	TotalRooms   *int     `json:"totalRooms"`
	Available    *int     `json:"available"`
	Amenities    []string `json:"amenities"`
}

// CreateRoom adds a room type to one of the caller's hotels
// POST /api/merchant/hotels/:id/rooms/upload
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	merchantID, ok := currentUserID(c)
	if !ok {
		return
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}

	form := newFormReader(c)
	input := service.CreateRoomInput{
		Type:         form.String("type"),
		Area:         form.Float("area"),
		BedType:      form.String("bedType"),
		MaxOccupancy: form.Int("maxOccupancy"),
		Price:        form.Float("price"),
		TotalRooms:   form.Int("totalRooms"),
		Available:    form.Int("available"),
		Amenities:    form.Strings("amenities"),
		Images:       form.Files(),
	}
	if err := form.Err(); err != nil {
		respondServiceError(c, err, "create room")
		return
	}

	room, err := ctrl.roomService.CreateRoom(c.Request.Context(), merchantID, hotelID, input)
	if err != nil {
		log.Warn("Room creation failed", map[string]interface{}{
			"hotel_id": hotelID,
			"error":    err.Error(),
		})
		respondServiceError(c, err, "create room")
		return
	}
	apperrors.Created(c, "room created", room)
}

// UpdateRoom applies a partial JSON update to a room the caller owns
// PUT /api/merchant/rooms/:roomId
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	merchantID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := pathID(c, "roomId")
	if !ok {
		return
	}

	var req UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid room data")
		return
	}

	room, err := ctrl.roomService.UpdateRoom(merchantID, roomID, service.UpdateRoomInput{
		Type:         req.Type,
		Area:         req.Area,
		BedType:      req.BedType,
		MaxOccupancy: req.MaxOccupancy,
		Price:        req.Price,
		TotalRooms:   req.TotalRooms,
		Available:    req.Available,
		Amenities:    req.Amenities,
	})
	if err != nil {
		respondServiceError(c, err, "update room")
		return
	}
	apperrors.SuccessMessage(c, "room updated", room)
}

// DeleteRoom removes a room from one of the caller's hotels
// DELETE /api/merchant/hotels/:id/:roomId
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	merchantID, ok := currentUserID(c)
	if !ok {
		return
	}
	hotelID, ok := pathID(c, "id")
	if !ok {
		return
	}
	roomID, ok := pathID(c, "roomId")
	if !ok {
		return
	}

	if err := ctrl.roomService.DeleteRoom(merchantID, hotelID, roomID); err != nil {
		respondServiceError(c, err, "delete room")
		return
	}
	apperrors.NoContent(c, "room deleted")
}
