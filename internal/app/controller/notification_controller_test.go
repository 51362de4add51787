package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationController_StatusChangeInbox(t *testing.T) {
	s := newTestServer(t)
	approved := s.createHotel(merchantA, "Alpha")
	rejected := s.createHotel(merchantA, "Beta")
	s.audit(approved, "approved", "")
	s.audit(rejected, "rejected", "missing licence")
	token := s.token(merchantA, model.RoleMerchant)

	_, env := s.json(http.MethodGet, "/api/notifications", token, nil)
	require.Equal(t, http.StatusOK, env.Code)
	var page service.NotificationPage
	decode(t, env, &page)
	require.Equal(t, int64(2), page.Total)
	assert.Equal(t, int64(2), page.UnreadCount)
	// newest first
	assert.Equal(t, workflow.StatusRejected, page.Items[0].ToStatus)
	assert.Equal(t, "missing licence", page.Items[0].Body)

	w, _ := s.json(http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", page.Items[0].ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	_, env = s.json(http.MethodGet, "/api/notifications?isRead=false", token, nil)
	decode(t, env, &page)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, int64(1), page.UnreadCount)

	w, _ = s.json(http.MethodPut, "/api/notifications/read-all", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	_, env = s.json(http.MethodGet, "/api/notifications", token, nil)
	decode(t, env, &page)
	assert.Zero(t, page.UnreadCount)
}

func TestNotificationController_OtherUsersEntries(t *testing.T) {
	s := newTestServer(t)
	id := s.createHotel(merchantA, "Alpha")
	s.audit(id, "approved", "")

	_, env := s.json(http.MethodGet, "/api/notifications", s.token(merchantA, model.RoleMerchant), nil)
	var page service.NotificationPage
	decode(t, env, &page)
	require.Len(t, page.Items, 1)

	other := s.token(merchantB, model.RoleMerchant)
	w, env := s.json(http.MethodPut, fmt.Sprintf("/api/notifications/%d/read", page.Items[0].ID), other, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, apperrors.ResourceNotFound, env.Error)

	w, env = s.json(http.MethodGet, "/api/notifications?isRead=maybe", other, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidInput, env.Error)
}
