package console

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ikkim/hotel-admin-backend/pkg/upload"
)

func (q ListQuery) values() url.Values {
	v := url.Values{}
	if q.Page > 0 {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if len(q.Statuses) > 0 {
		parts := make([]string, len(q.Statuses))
		for i, s := range q.Statuses {
			parts[i] = string(s)
		}
		v.Set("status", strings.Join(parts, ","))
	}
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		v.Set("keyword", kw)
	}
	if q.SortBy != "" {
		v.Set("sortBy", q.SortBy)
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	if q.MerchantID != 0 {
		v.Set("merchantId", strconv.FormatUint(uint64(q.MerchantID), 10))
	}
	return v
}

// ListHotels returns one page of the caller's own hotels
func (c *Client) ListHotels(ctx context.Context, q ListQuery) (*HotelPage, error) {
	q.MerchantID = 0
	var page HotelPage
	if err := c.get(ctx, "list hotels", "/merchant/hotels", q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) GetHotel(ctx context.Context, id uint) (*Hotel, error) {
	var hotel Hotel
	if err := c.get(ctx, "get hotel", idPath("/merchant/hotels/%d", id), nil, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

// CreateHotel validates the form and images, then submits one multipart
// request. Nothing is sent when validation fails.
func (c *Client) CreateHotel(ctx context.Context, form HotelForm, images []ImageFile) (*CreatedHotel, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	if err := checkSubmission(upload.HotelImages, images); err != nil {
		return nil, err
	}

	payload := form.payload()
	for _, img := range images {
		payload.AddFile(img)
	}
	var created CreatedHotel
	if _, err := c.sendMultipart(ctx, "create hotel", "/merchant/hotels/upload", payload, &created); err != nil {
		return nil, err
	}
	c.log.Info("Hotel submitted", map[string]interface{}{
		"hotel_id": created.ID,
		"images":   len(images),
	})
	return &created, nil
}

// UpdateHotel sends only the fields present in update. Status is never
// sent: it only changes through admin review.
func (c *Client) UpdateHotel(ctx context.Context, id uint, update *PartialUpdate) (*Hotel, error) {
	if update == nil || update.Empty() {
		return nil, &ValidationError{Fields: map[string]string{"update": "no fields to update"}}
	}
	if _, ok := update.Get("status"); ok {
		return nil, &ValidationError{Fields: map[string]string{"status": "is changed by admin review only"}}
	}
	if err := checkHotelUpdate(update); err != nil {
		return nil, err
	}
	var hotel Hotel
	if _, err := c.sendJSON(ctx, "update hotel", http.MethodPut, idPath("/merchant/hotels/%d", id), update, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (c *Client) DeleteHotel(ctx context.Context, id uint) error {
	_, err := c.sendJSON(ctx, "delete hotel", http.MethodDelete, idPath("/merchant/hotels/%d", id), nil, nil)
	return err
}
