package service

import (
	"testing"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/internal/scheduler"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationService_HotelStatusChanged(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewNotificationService(repository.NewNotificationRepository(setupTestDB(t)), pusher)
	hotel := &model.Hotel{ID: 5, MerchantID: merchantA, Name: "Lakeside"}

	require.NoError(t, svc.HotelStatusChanged(hotel, workflow.StatusPending, workflow.StatusRejected, "no license"))

	events := pusher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, merchantA, events[0].userID)
	n, ok := events[0].payload.(*model.Notification)
	require.True(t, ok)
	assert.Equal(t, workflow.StatusRejected, n.ToStatus)
	assert.Equal(t, "no license", n.Body)
	assert.Contains(t, n.Title, "Lakeside")

	page, err := svc.GetNotifications(merchantA, nil, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	require.Len(t, page.Items, 1)

	assert.ErrorIs(t, svc.MarkAsRead(page.Items[0].ID, merchantB), ErrNotificationNotFound)
	require.NoError(t, svc.MarkAsRead(page.Items[0].ID, merchantA))
	page, err = svc.GetNotifications(merchantA, nil, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.UnreadCount)
}

func TestNotificationService_WithoutPusher(t *testing.T) {
	svc := NewNotificationService(repository.NewNotificationRepository(setupTestDB(t)), nil)
	hotel := &model.Hotel{ID: 1, MerchantID: merchantA, Name: "Quiet"}
	require.NoError(t, svc.HotelStatusChanged(hotel, workflow.StatusApproved, workflow.StatusPublished, ""))
	svc.HotelSubmitted(hotel)
	svc.AuditBacklog(&scheduler.Backlog{Pending: 1})

	require.NoError(t, svc.MarkAllAsRead(merchantA))
	page, err := svc.GetNotifications(merchantA, nil, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	assert.Zero(t, page.UnreadCount)
}

func TestNotificationService_AuditBacklogGoesToAdmins(t *testing.T) {
	pusher := &fakePusher{}
	svc := NewNotificationService(repository.NewNotificationRepository(setupTestDB(t)), pusher)
	svc.AuditBacklog(&scheduler.Backlog{Pending: 3})

	events := pusher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "admin", events[0].role)
	assert.Equal(t, EventAuditBacklog, events[0].eventType)
}
