package console

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// ListNotifications pages through the status-change inbox. unreadOnly
// restricts the page to unread entries.
func (c *Client) ListNotifications(ctx context.Context, page, pageSize int, unreadOnly bool) (*NotificationPage, error) {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if pageSize > 0 {
		q.Set("pageSize", strconv.Itoa(pageSize))
	}
	if unreadOnly {
		q.Set("isRead", "false")
	}
	var out NotificationPage
	if err := c.get(ctx, "list notifications", "/notifications", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id uint) error {
	_, err := c.sendJSON(ctx, "mark notification", http.MethodPut, idPath("/notifications/%d/read", id), nil, nil)
	return err
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.sendJSON(ctx, "mark notifications", http.MethodPut, "/notifications/read-all", nil, nil)
	return err
}
