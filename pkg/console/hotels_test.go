package console

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

func TestListQuery_Values(t *testing.T) {
	q := ListQuery{
		Page:       2,
		PageSize:   20,
		Statuses:   []workflow.Status{workflow.StatusApproved, workflow.StatusPublished},
		Keyword:    "  harbour ",
		SortBy:     "createdAt",
		Order:      "ascend",
		MerchantID: 10,
	}
	assert.Equal(t, "keyword=harbour&merchantId=10&order=ascend&page=2&pageSize=20&sortBy=createdAt&status=approved%2Cpublished", q.values().Encode())
	assert.Empty(t, ListQuery{}.values())
}

func TestAdminListHotels_StatusFilter(t *testing.T) {
	f := newFakeAPI(t)
	all := []Hotel{
		{ID: 1, Status: workflow.StatusPending},
		{ID: 2, Status: workflow.StatusApproved},
		{ID: 3, Status: workflow.StatusPublished},
		{ID: 4, Status: workflow.StatusRejected},
	}
	f.handle(http.MethodGet, "/admin/hotels", func(w http.ResponseWriter, r *http.Request) {
		statuses, err := workflow.ParseStatuses(r.URL.Query()["status"])
		if err != nil {
			failHandler(http.StatusBadRequest, "WORKFLOW_UNKNOWN_STATUS", err.Error())(w, r)
			return
		}
		var items []Hotel
		for _, h := range all {
			for _, s := range statuses {
				if h.Status == s {
					items = append(items, h)
				}
			}
		}
		okHandler(HotelPage{Total: int64(len(items)), Page: 1, PageSize: 10, Items: items})(w, r)
	})
	c := loggedIn(t, f, RoleAdmin)

	page, err := c.AdminListHotels(context.Background(), ListQuery{
		Statuses: []workflow.Status{workflow.StatusApproved, workflow.StatusPublished},
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	for _, h := range page.Items {
		assert.Contains(t, []workflow.Status{workflow.StatusApproved, workflow.StatusPublished}, h.Status)
	}
}

func TestListHotels_IgnoresMerchantFilter(t *testing.T) {
	f := newFakeAPI(t)
	var query string
	f.handle(http.MethodGet, "/merchant/hotels", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		okHandler(HotelPage{})(w, r)
	})
	c := loggedIn(t, f, RoleMerchant)

	_, err := c.ListHotels(context.Background(), ListQuery{Page: 1, MerchantID: 99})
	require.NoError(t, err)
	assert.Equal(t, "page=1", query)
}

func TestUpdateHotel(t *testing.T) {
	f := newFakeAPI(t)
	var body map[string]interface{}
	f.handle(http.MethodPut, "/merchant/hotels/3", func(w http.ResponseWriter, r *http.Request) {
		body = readJSON(t, r)
		okHandler(Hotel{ID: 3, Name: "A", Star: 4})(w, r)
	})
	c := loggedIn(t, f, RoleMerchant)
	ctx := context.Background()

	hotel, err := c.UpdateHotel(ctx, 3, NewPartialUpdate().Set("name", "A").Set("star", Unset))
	require.NoError(t, err)
	assert.Equal(t, "A", hotel.Name)
	assert.Equal(t, map[string]interface{}{"name": "A"}, body)

	rejected := []struct {
		name   string
		update *PartialUpdate
		field  string
	}{
		{"empty", NewPartialUpdate().Set("star", Unset), "update"},
		{"status", NewPartialUpdate().Set("status", "published"), "status"},
		{"star", NewPartialUpdate().Set("star", 9), "star"},
		{"blank name", NewPartialUpdate().Set("name", " "), "name"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.UpdateHotel(ctx, 3, tt.update)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}
	assert.Equal(t, 1, f.hitCount(http.MethodPut, "/merchant/hotels/3"))
}

func TestUpdateRoom(t *testing.T) {
	f := newFakeAPI(t)
	var body map[string]interface{}
	f.handle(http.MethodPut, "/merchant/rooms/6", func(w http.ResponseWriter, r *http.Request) {
		body = readJSON(t, r)
		okHandler(Room{ID: 6, Price: 500})(w, r)
	})
	c := loggedIn(t, f, RoleMerchant)
	ctx := context.Background()

	price := 500.0
	var bed *string
	room, err := c.UpdateRoom(ctx, 6, NewPartialUpdate().Set("price", &price).Set("bedType", bed))
	require.NoError(t, err)
	assert.Equal(t, 500.0, room.Price)
	assert.Equal(t, map[string]interface{}{"price": 500.0}, body)

	_, err = c.UpdateRoom(ctx, 6, NewPartialUpdate().Set("totalRooms", 2).Set("available", 3))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "available")

	_, err = c.UpdateRoom(ctx, 6, NewPartialUpdate().Set("area", 0.0))
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "area")
	assert.Equal(t, 1, f.hitCount(http.MethodPut, "/merchant/rooms/6"))
}

func TestDeleteRoom(t *testing.T) {
	f := newFakeAPI(t)
	f.handle(http.MethodDelete, "/merchant/hotels/3/6", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, envelopeBody{Code: http.StatusNoContent, Message: "room deleted"})
	})
	c := loggedIn(t, f, RoleMerchant)

	require.NoError(t, c.DeleteRoom(context.Background(), 3, 6))
	assert.Equal(t, 1, f.hitCount(http.MethodDelete, "/merchant/hotels/3/6"))
}

func TestTags(t *testing.T) {
	f := newFakeAPI(t)
	var category, auth string
	f.handle(http.MethodGet, "/tags", func(w http.ResponseWriter, r *http.Request) {
		category = r.URL.Query().Get("category")
		auth = r.Header.Get("Authorization")
		okHandler(spaPool)(w, r)
	})
	f.handle(http.MethodPost, "/tags", failHandler(http.StatusConflict, "TAG_ALREADY_EXISTS", "tag already exists"))
	c := newTestClient(t, f, Config{})
	ctx := context.Background()

	list, err := c.ListTags(ctx, " facility ")
	require.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "facility", category)
	assert.Empty(t, auth)

	_, err = c.CreateTag(ctx, "", "facility")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	c.Session().Init("tok", &User{Role: RoleAdmin}, time.Now().Add(time.Hour))
	_, err = c.CreateTag(ctx, "spa", "facility")
	assert.True(t, IsAPIError(err, "TAG_ALREADY_EXISTS"))
}

func TestNotifications(t *testing.T) {
	f := newFakeAPI(t)
	var query string
	f.handle(http.MethodGet, "/notifications", func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		okHandler(NotificationPage{Total: 1, UnreadCount: 1, Items: []Notification{{ID: 5, ToStatus: workflow.StatusApproved}}})(w, r)
	})
	f.handle(http.MethodPut, "/notifications/5/read", okHandler(nil))
	f.handle(http.MethodPut, "/notifications/read-all", okHandler(nil))
	c := loggedIn(t, f, RoleMerchant)
	ctx := context.Background()

	page, err := c.ListNotifications(ctx, 1, 20, true)
	require.NoError(t, err)
	assert.Equal(t, "isRead=false&page=1&pageSize=20", query)
	assert.Equal(t, workflow.StatusApproved, page.Items[0].ToStatus)

	require.NoError(t, c.MarkNotificationRead(ctx, 5))
	require.NoError(t, c.MarkAllNotificationsRead(ctx))
}
