package console

import (
	"context"
	"net/http"

	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

// AdminListHotels lists hotels across merchants
func (c *Client) AdminListHotels(ctx context.Context, q ListQuery) (*HotelPage, error) {
	var page HotelPage
	if err := c.get(ctx, "list hotels", "/admin/hotels", q.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) AdminGetHotel(ctx context.Context, id uint) (*Hotel, error) {
	var hotel Hotel
	if err := c.get(ctx, "get hotel", idPath("/admin/hotels/%d", id), nil, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

// AuditHotel records an audit decision. A rejection without a comment is
// refused before any request is made.
func (c *Client) AuditHotel(ctx context.Context, id uint, outcome workflow.AuditOutcome, comment string) (*Hotel, error) {
	if _, err := workflow.ParseAuditOutcome(string(outcome)); err != nil {
		return nil, err
	}
	if err := workflow.ValidateAuditComment(outcome, comment); err != nil {
		return nil, err
	}
	body := map[string]string{"status": string(outcome)}
	if comment != "" {
		body["comment"] = comment
	}
	var hotel Hotel
	if _, err := c.sendJSON(ctx, "audit hotel", http.MethodPost, idPath("/admin/hotels/%d/audit", id), body, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

func (c *Client) PublishHotel(ctx context.Context, id uint, action workflow.PublishAction) (*Hotel, error) {
	if _, err := workflow.ParsePublishAction(string(action)); err != nil {
		return nil, err
	}
	var hotel Hotel
	body := map[string]string{"action": string(action)}
	if _, err := c.sendJSON(ctx, "publish hotel", http.MethodPost, idPath("/admin/hotels/%d/publish", id), body, &hotel); err != nil {
		return nil, err
	}
	return &hotel, nil
}

// HotelHistory lists status transitions, oldest first
func (c *Client) HotelHistory(ctx context.Context, id uint) ([]StatusLog, error) {
	var logs []StatusLog
	if err := c.get(ctx, "hotel history", idPath("/admin/hotels/%d/history", id), nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

func (c *Client) AuditBacklog(ctx context.Context) (*Backlog, error) {
	var b Backlog
	if err := c.get(ctx, "audit backlog", "/admin/hotels/backlog", nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
