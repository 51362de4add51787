package console

import (
	"context"
	"errors"
	"fmt"

	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

// Reviewer runs admin status transitions. Each transition is checked
// locally first, sent once, and followed by a full refetch of the list.
type Reviewer struct {
	client *Client
	list   *HotelLister
}

// NewReviewer binds transitions to list; list may be nil
func NewReviewer(c *Client, list *HotelLister) *Reviewer {
	return &Reviewer{client: c, list: list}
}

// Apply performs action on hotel. On failure nothing local changes and
// the attempt is not retried.
func (r *Reviewer) Apply(ctx context.Context, hotel Hotel, action workflow.Action, comment string) (*Hotel, error) {
	if _, err := action.Apply(hotel.Status, comment); err != nil {
		return nil, err
	}

	var (
		updated *Hotel
		err     error
	)
	switch action {
	case workflow.ActionApprove:
		updated, err = r.client.AuditHotel(ctx, hotel.ID, workflow.OutcomeApproved, comment)
	case workflow.ActionReject:
		updated, err = r.client.AuditHotel(ctx, hotel.ID, workflow.OutcomeRejected, comment)
	case workflow.ActionPublishHotel:
		updated, err = r.client.PublishHotel(ctx, hotel.ID, workflow.ActionPublish)
	case workflow.ActionUnpublishHotel:
		updated, err = r.client.PublishHotel(ctx, hotel.ID, workflow.ActionUnpublish)
	default:
		return nil, fmt.Errorf("%w: %q", workflow.ErrUnknownAction, action)
	}
	if err != nil {
		r.client.log.Warn("Status change failed", map[string]interface{}{
			"hotel_id": hotel.ID,
			"action":   string(action),
			"error":    err.Error(),
		})
		return nil, err
	}

	if r.list != nil {
		if _, err := r.list.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleResponse) {
			r.client.log.Warn("List refresh after status change failed", map[string]interface{}{
				"hotel_id": hotel.ID,
				"error":    err.Error(),
			})
		}
	}
	return updated, nil
}
