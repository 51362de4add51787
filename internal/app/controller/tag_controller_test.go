package controller

import (
	"net/http"
	"testing"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	apperrors "github.com/ikkim/hotel-admin-backend/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagController_List(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"spa", "pool", "breakfast"}},
		{"by category", "?category=service", []string{"breakfast"}},
		{"empty category", "?category=location", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, env := s.json(http.MethodGet, "/api/tags"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, env.Code)
			var list []model.Tag
			decode(t, env, &list)
			names := make([]string, 0, len(list))
			for _, tag := range list {
				names = append(names, tag.Name)
			}
			assert.Equal(t, tt.want, names)
		})
	}
}

func TestTagController_Create(t *testing.T) {
	s := newTestServer(t)
	admin := s.token(adminID, model.RoleAdmin)

	w, env := s.json(http.MethodPost, "/api/tags", admin, CreateTagRequest{Name: "rooftop bar", Category: "facility"})
	require.Equal(t, http.StatusCreated, w.Code, env.Message)
	var tag model.Tag
	decode(t, env, &tag)
	assert.NotZero(t, tag.ID)

	w, env = s.json(http.MethodPost, "/api/tags", admin, CreateTagRequest{Name: "spa", Category: "facility"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, apperrors.TagAlreadyExists, env.Error)

	w, env = s.json(http.MethodPost, "/api/tags", admin, map[string]string{"category": "facility"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperrors.ValidationInvalidInput, env.Error)

	w, _ = s.json(http.MethodPost, "/api/tags", s.token(merchantA, model.RoleMerchant), CreateTagRequest{Name: "gym"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}
