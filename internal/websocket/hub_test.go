package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case msg, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var ev Event
		require.NoError(t, json.Unmarshal(msg, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
	return Event{}
}

func TestHub_SendToUser(t *testing.T) {
	h := startHub(t)
	phone := NewClient(h, nil, 7, "merchant")
	laptop := NewClient(h, nil, 7, "merchant")
	other := NewClient(h, nil, 8, "merchant")
	h.Register(phone)
	h.Register(laptop)
	h.Register(other)
	require.Eventually(t, func() bool { return h.SessionCount() == 3 }, time.Second, 5*time.Millisecond)

	require.NoError(t, h.SendToUser(7, "hotel_status_changed", map[string]interface{}{"hotelId": 1}))

	assert.Equal(t, "hotel_status_changed", receive(t, phone).Type)
	assert.Equal(t, "hotel_status_changed", receive(t, laptop).Type)
	assert.Len(t, other.Send, 0)
}

func TestHub_SendToRole(t *testing.T) {
	h := startHub(t)
	admin := NewClient(h, nil, 1, "admin")
	merchant := NewClient(h, nil, 2, "merchant")
	h.Register(admin)
	h.Register(merchant)
	require.Eventually(t, func() bool { return h.SessionCount() == 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, h.SendToRole("admin", "hotel_submitted", nil))
	assert.Equal(t, "hotel_submitted", receive(t, admin).Type)
	assert.Len(t, merchant.Send, 0)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	h := startHub(t)
	c := NewClient(h, nil, 3, "merchant")
	h.Register(c)
	require.Eventually(t, func() bool { return h.IsUserOnline(3) }, time.Second, 5*time.Millisecond)

	h.Unregister(c)
	require.Eventually(t, func() bool { return !h.IsUserOnline(3) }, time.Second, 5*time.Millisecond)
	_, ok := <-c.Send
	assert.False(t, ok)
}

func TestHub_HandleClientMessagePing(t *testing.T) {
	h := NewHub()
	c := NewClient(h, nil, 1, "admin")

	h.HandleClientMessage(c, []byte(`{"type":"ping"}`))
	assert.Equal(t, "pong", receive(t, c).Type)

	h.HandleClientMessage(c, []byte(`not json`))
	h.HandleClientMessage(c, []byte(`{"type":"typing"}`))
	assert.Len(t, c.Send, 0)
}
