package console

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Config(t *testing.T) {
	_, err := New(Config{}, nil)
	assert.Error(t, err)

	_, err = New(Config{BaseURL: "not a url"}, nil)
	assert.Error(t, err)

	c, err := New(Config{BaseURL: "http://localhost:8080/api/"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/api", c.base)
	assert.Equal(t, DefaultTimeout, c.hc.Timeout)
	assert.NotNil(t, c.Session())
}

func TestClient_SendsBearerToken(t *testing.T) {
	f := newFakeAPI(t)
	var got string
	f.handle(http.MethodGet, "/auth/me", func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		okHandler(map[string]interface{}{"user": User{ID: 7, Username: "tester", Role: RoleMerchant}})(w, r)
	})

	c := loggedIn(t, f, RoleMerchant)
	user, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", got)
	assert.Equal(t, "tester", user.Username)
}

func TestClient_EnvelopeCodeDecides(t *testing.T) {
	f := newFakeAPI(t)
	// transport says 200, envelope says the request failed
	f.handle(http.MethodGet, "/merchant/hotels/1", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, envelopeBody{Code: http.StatusNotFound, Error: "HOTEL_NOT_FOUND", Message: "hotel not found"})
	})
	f.handle(http.MethodGet, "/merchant/hotels/2", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	})
	f.handle(http.MethodDelete, "/merchant/hotels/3", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, envelopeBody{Code: http.StatusNoContent, Message: "hotel deleted"})
	})

	c := loggedIn(t, f, RoleMerchant)
	ctx := context.Background()

	_, err := c.GetHotel(ctx, 1)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "hotel not found", apiErr.Message)
	assert.True(t, IsAPIError(err, "HOTEL_NOT_FOUND"))

	_, err = c.GetHotel(ctx, 2)
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Code)
	assert.Equal(t, msgFallback, apiErr.Message)

	assert.NoError(t, c.DeleteHotel(ctx, 3))
}

func TestClient_TransportErrors(t *testing.T) {
	t.Run("unreachable", func(t *testing.T) {
		f := newFakeAPI(t)
		c := loggedIn(t, f, RoleMerchant)
		f.server.Close()

		_, err := c.GetHotel(context.Background(), 1)
		var tErr *TransportError
		require.ErrorAs(t, err, &tErr)
		assert.Equal(t, msgUnreachable, tErr.Message)
		assert.False(t, tErr.Timeout())
	})

	t.Run("timeout", func(t *testing.T) {
		f := newFakeAPI(t)
		f.handle(http.MethodGet, "/merchant/hotels/1", func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		})
		c := newTestClient(t, f, Config{Timeout: 50 * time.Millisecond})
		c.Session().Init("test-token", &User{Role: RoleMerchant}, time.Now().Add(time.Hour))

		_, err := c.GetHotel(context.Background(), 1)
		var tErr *TransportError
		require.ErrorAs(t, err, &tErr)
		assert.True(t, tErr.Timeout())
	})

	t.Run("cancelled", func(t *testing.T) {
		f := newFakeAPI(t)
		c := loggedIn(t, f, RoleMerchant)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := c.GetHotel(ctx, 1)
		assert.True(t, errors.Is(err, context.Canceled))
		assert.Zero(t, f.totalHits())
	})
}

func TestClient_SessionRequired(t *testing.T) {
	f := newFakeAPI(t)
	c := newTestClient(t, f, Config{})

	_, err := c.ListHotels(context.Background(), ListQuery{})
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	c.Session().Init("old", &User{Role: RoleMerchant}, time.Now().Add(-time.Minute))
	_, err = c.ListHotels(context.Background(), ListQuery{})
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Zero(t, f.totalHits())
}

func TestClient_UnauthorizedClearsSession(t *testing.T) {
	f := newFakeAPI(t)
	f.handle(http.MethodGet, "/merchant/hotels", failHandler(http.StatusUnauthorized, "AUTH_TOKEN_REVOKED", "token revoked"))

	c := loggedIn(t, f, RoleMerchant)
	_, err := c.ListHotels(context.Background(), ListQuery{})
	assert.True(t, IsAPIError(err, "AUTH_TOKEN_REVOKED"))
	assert.False(t, c.Session().Active())
}
