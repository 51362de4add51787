package console

import (
	"context"
	"net/http"

	"github.com/ikkim/hotel-admin-backend/pkg/upload"
)

// CreateRoom submits a room type with its images. More than three images,
// or any image above 1MB, aborts the submission before the request is built.
func (c *Client) CreateRoom(ctx context.Context, hotelID uint, form RoomForm, images []ImageFile) (*Room, error) {
	if err := checkSubmission(upload.RoomImages, images); err != nil {
		return nil, err
	}
	if err := form.Validate(); err != nil {
		return nil, err
	}

	payload := form.payload()
	for _, img := range images {
		payload.AddFile(img)
	}
	var room Room
	if _, err := c.sendMultipart(ctx, "create room", idPath("/merchant/hotels/%d/rooms/upload", hotelID), payload, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) UpdateRoom(ctx context.Context, roomID uint, update *PartialUpdate) (*Room, error) {
	if update == nil || update.Empty() {
		return nil, &ValidationError{Fields: map[string]string{"update": "no fields to update"}}
	}
	if err := checkRoomUpdate(update); err != nil {
		return nil, err
	}
	var room Room
	if _, err := c.sendJSON(ctx, "update room", http.MethodPut, idPath("/merchant/rooms/%d", roomID), update, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *Client) DeleteRoom(ctx context.Context, hotelID, roomID uint) error {
	_, err := c.sendJSON(ctx, "delete room", http.MethodDelete, idPath("/merchant/hotels/%d/%d", hotelID, roomID), nil, nil)
	return err
}
