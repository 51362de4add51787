package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roomFields() map[string][]string {
	return map[string][]string{
		"type":         {"Deluxe King"},
		"area":         {"32.5"},
		"bedType":      {"king"},
		"maxOccupancy": {"2"},
		"price":        {"199"},
		"totalRooms":   {"10"},
		"available":    {"8"},
		"amenities":    {"wifi", "minibar", "wifi"},
	}
}

func (s *testServer) createRoom(merchantID, hotelID uint) model.Room {
	s.t.Helper()
	_, env := s.multipart(fmt.Sprintf("/api/merchant/hotels/%d/rooms/upload", hotelID), s.token(merchantID, model.RoleMerchant),
		roomFields(), []formFile{{"room.png", pngHeader, 512}})
	require.Equal(s.t, http.StatusCreated, env.Code, env.Message)
	var room model.Room
	decode(s.t, env, &room)
	return room
}

func TestRoomController_Create(t *testing.T) {
	s := newTestServer(t)
	hotelID := s.createHotel(merchantA, "Alpha")

	room := s.createRoom(merchantA, hotelID)
	assert.Equal(t, hotelID, room.HotelID)
	assert.Equal(t, "Deluxe King", room.Type)
	assert.Equal(t, 32.5, room.Area)
	assert.Equal(t, []string{"wifi", "minibar"}, []string(room.Amenities))
	assert.Len(t, room.Images, 1)
}

func TestRoomController_CreateRejected(t *testing.T) {
	s := newTestServer(t)
	hotelID := s.createHotel(merchantA, "Alpha")
	path := fmt.Sprintf("/api/merchant/hotels/%d/rooms/upload", hotelID)
	token := s.token(merchantA, model.RoleMerchant)
	png := formFile{"room.png", pngHeader, 512}

	tests := []struct {
		name       string
		mutate     func(map[string][]string)
		files      []formFile
		wantStatus int
		wantError  string
	}{
		{"four images", nil, []formFile{png, png, png, png}, http.StatusBadRequest, apperrors.UploadTooManyFiles},
		{"image over 1MB", nil, []formFile{{"big.png", pngHeader, 1<<20 + 1}}, http.StatusBadRequest, apperrors.UploadFileTooLarge},
		{"available above total", func(f map[string][]string) { f["available"] = []string{"11"} }, nil, http.StatusBadRequest, apperrors.RoomAvailability},
		{"zero area", func(f map[string][]string) { f["area"] = []string{"0"} }, nil, http.StatusBadRequest, apperrors.ValidationInvalidInput},
		{"area not a number", func(f map[string][]string) { f["area"] = []string{"big"} }, nil, http.StatusBadRequest, apperrors.ValidationInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := roomFields()
			if tt.mutate != nil {
				tt.mutate(fields)
			}
			w, env := s.multipart(path, token, fields, tt.files)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, env.Error)
		})
	}

	var count int64
	require.NoError(t, s.db.Model(&model.Room{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRoomController_CreateExactlyThreeImages(t *testing.T) {
	s := newTestServer(t)
	hotelID := s.createHotel(merchantA, "Alpha")
	png := formFile{"room.png", pngHeader, 512}

	_, env := s.multipart(fmt.Sprintf("/api/merchant/hotels/%d/rooms/upload", hotelID), s.token(merchantA, model.RoleMerchant),
		roomFields(), []formFile{png, png, png})
	require.Equal(t, http.StatusCreated, env.Code, env.Message)
	var room model.Room
	decode(t, env, &room)
	assert.Len(t, room.Images, 3)
}

func TestRoomController_CreateOnForeignHotel(t *testing.T) {
	s := newTestServer(t)
	hotelID := s.createHotel(merchantA, "Alpha")

	w, env := s.multipart(fmt.Sprintf("/api/merchant/hotels/%d/rooms/upload", hotelID), s.token(merchantB, model.RoleMerchant), roomFields(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, apperrors.AuthzOwnerOnly, env.Error)
}

func TestRoomController_Update(t *testing.T) {
	s := newTestServer(t)
	hotelID := s.createHotel(merchantA, "Alpha")
	room := s.createRoom(merchantA, hotelID)
	token := s.token(merchantA, model.RoleMerchant)
	path := fmt.Sprintf("/api/merchant/rooms/%d", room.ID)

	w, env := s.json(http.MethodPut, path, token, map[string]interface{}{"price": 250, "available": 10})
	require.Equal(t, http.StatusOK, w.Code, env.Message)
	var updated model.Room
	decode(t, env, &updated)
	assert.Equal(t, float64(250), updated.Price)
	assert.Equal(t, 10, updated.Available)
	assert.Equal(t, "Deluxe King", updated.Type)

	// lowering the total below the stored availability breaks the merged record
	w, env = s.json(http.MethodPut, path, token, map[string]interface{}{"totalRooms": 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.RoomAvailability, env.Error)

	w, _ = s.json(http.MethodPut, path, s.token(merchantB, model.RoleMerchant), map[string]interface{}{"price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, env = s.json(http.MethodPut, "/api/merchant/rooms/9999", token, map[string]interface{}{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.RoomNotFound, env.Error)
}

func TestRoomController_Delete(t *testing.T) {
	s := newTestServer(t)
	hotelID := s.createHotel(merchantA, "Alpha")
	otherHotel := s.createHotel(merchantA, "Beta")
	room := s.createRoom(merchantA, hotelID)
	token := s.token(merchantA, model.RoleMerchant)

	// the room must belong to the hotel in the path
	w, env := s.json(http.MethodDelete, fmt.Sprintf("/api/merchant/hotels/%d/%d", otherHotel, room.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.RoomNotFound, env.Error)

	w, env = s.json(http.MethodDelete, fmt.Sprintf("/api/merchant/hotels/%d/%d", hotelID, room.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNoContent, env.Code)

	var count int64
	require.NoError(t, s.db.Model(&model.Room{}).Count(&count).Error)
	assert.Zero(t, count)
}
