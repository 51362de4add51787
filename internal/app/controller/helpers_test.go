package controller

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	"github.com/ikkim/hotel-admin-backend/internal/db"
	"github.com/ikkim/hotel-admin-backend/internal/middleware"
	"github.com/ikkim/hotel-admin-backend/internal/storage"
	"github.com/ikkim/hotel-admin-backend/pkg/upload"
	"github.com/ikkim/hotel-admin-backend/pkg/util"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret"

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00")
)

// envelope mirrors the response body with data left raw
type envelope struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	auth   service.AuthService
	tags   []model.Tag
}

// newTestServer wires every controller over an in-memory database the same
// way the router does
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	catalog := []model.Tag{
		{Name: "spa", Category: "facility"},
		{Name: "pool", Category: "facility"},
		{Name: "breakfast", Category: "service"},
	}
	require.NoError(t, testDB.Create(&catalog).Error)

	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(testDB)
	hotelRepo := repository.NewHotelRepository(testDB)
	roomRepo := repository.NewRoomRepository(testDB)
	tagRepo := repository.NewTagRepository(testDB)
	notificationRepo := repository.NewNotificationRepository(testDB)

	authService := service.NewAuthService(userRepo, nil, testSecret, time.Hour)
	tagService := service.NewTagService(tagRepo, nil, 0)
	images := service.NewImageService(store)
	notifications := service.NewNotificationService(notificationRepo, nil)
	hotelService := service.NewHotelService(hotelRepo, tagService, images, notifications)
	roomService := service.NewRoomService(hotelRepo, roomRepo, images)
	adminService := service.NewAdminHotelService(hotelRepo, notifications)

	authCtrl := NewAuthController(authService)
	hotelCtrl := NewHotelController(hotelService)
	roomCtrl := NewRoomController(roomService)
	adminCtrl := NewAdminHotelController(adminService)
	tagCtrl := NewTagController(tagService)
	notificationCtrl := NewNotificationController(notifications)

	mw := middleware.NewAuthMiddleware(testSecret, nil, false)
	auth := mw.Authenticate()

	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	api := r.Group("/api")

	api.POST("/auth/register", authCtrl.Register)
	api.POST("/auth/login", authCtrl.Login)
	api.POST("/auth/logout", auth, authCtrl.Logout)
	api.GET("/auth/me", auth, authCtrl.GetMe)

	merchant := api.Group("/merchant", auth, mw.RequireRole(model.RoleMerchant))
	merchant.GET("/hotels", hotelCtrl.ListHotels)
	merchant.POST("/hotels/upload", hotelCtrl.CreateHotel)
	merchant.GET("/hotels/:id", hotelCtrl.GetHotel)
	merchant.PUT("/hotels/:id", hotelCtrl.UpdateHotel)
	merchant.DELETE("/hotels/:id", hotelCtrl.DeleteHotel)
	merchant.POST("/hotels/:id/rooms/upload", roomCtrl.CreateRoom)
	merchant.DELETE("/hotels/:id/:roomId", roomCtrl.DeleteRoom)
	merchant.PUT("/rooms/:roomId", roomCtrl.UpdateRoom)

	admin := api.Group("/admin", auth, mw.RequireRole(model.RoleAdmin))
	admin.GET("/hotels", adminCtrl.ListHotels)
	admin.GET("/hotels/backlog", adminCtrl.Backlog)
	admin.GET("/hotels/:id", adminCtrl.GetHotel)
	admin.GET("/hotels/:id/history", adminCtrl.History)
	admin.POST("/hotels/:id/audit", adminCtrl.AuditHotel)
	admin.POST("/hotels/:id/publish", adminCtrl.PublishHotel)

	api.GET("/tags", tagCtrl.ListTags)
	api.POST("/tags", auth, mw.RequireRole(model.RoleAdmin), tagCtrl.CreateTag)

	notificationsGroup := api.Group("/notifications", auth)
	notificationsGroup.GET("", notificationCtrl.GetNotifications)
	notificationsGroup.PUT("/read-all", notificationCtrl.MarkAllAsRead)
	notificationsGroup.PUT("/:id/read", notificationCtrl.MarkAsRead)

	return &testServer{t: t, router: r, db: testDB, auth: authService, tags: catalog}
}

func (s *testServer) token(userID uint, role model.UserRole) string {
	s.t.Helper()
	issued, err := util.GenerateToken(userID, "user", string(role), testSecret, time.Hour)
	require.NoError(s.t, err)
	return issued.Token
}

func (s *testServer) do(req *http.Request, token string) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *testServer) json(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(s.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

type formFile struct {
	name   string
	header []byte
	size   int
}

// multipart posts repeated fields and files the way the console client does
func (s *testServer) multipart(path, token string, fields map[string][]string, files []formFile) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(s.t, mw.WriteField(k, v))
		}
	}
	for _, f := range files {
		part, err := mw.CreateFormFile(upload.FilesField, f.name)
		require.NoError(s.t, err)
		data := make([]byte, f.size)
		copy(data, f.header)
		_, err = part.Write(data)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req, token)
}

func decode(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

// createHotel submits a valid hotel for merchantID and returns its id
func (s *testServer) createHotel(merchantID uint, name string) uint {
	s.t.Helper()
	_, env := s.multipart("/api/merchant/hotels/upload", s.token(merchantID, model.RoleMerchant), map[string][]string{
		"name":        {name},
		"address":     {"1 Main St"},
		"star":        {"4"},
		"openingDate": {"2020-05-01"},
	}, []formFile{{"front.png", pngHeader, 1024}})
	require.Equal(s.t, http.StatusCreated, env.Code, env.Message)
	var created CreatedHotel
	decode(s.t, env, &created)
	return created.ID
}
