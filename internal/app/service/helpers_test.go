package service

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/db"
	"github.com/ikkim/hotel-admin-backend/internal/storage"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
	gifHeader  = []byte("GIF89a\x01\x00\x01\x00")
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

// memFile builds an upload whose content starts with header and is size bytes long
func memFile(name string, header []byte, size int) ImageFile {
	data := make([]byte, size)
	copy(data, header)
	return ImageFile{
		Filename: name,
		Size:     int64(size),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

func newLocalImages(t *testing.T) (ImageService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)
	return NewImageService(store), store
}

func seedCatalog(t *testing.T, testDB *gorm.DB) []model.Tag {
	t.Helper()
	list := []model.Tag{
		{Name: "spa", Category: "facility"},
		{Name: "pool", Category: "facility"},
		{Name: "breakfast", Category: "service"},
	}
	for i := range list {
		require.NoError(t, testDB.Create(&list[i]).Error)
	}
	return list
}

type pushed struct {
	userID    uint
	role      string
	eventType string
	payload   interface{}
}

type fakePusher struct {
	mu     sync.Mutex
	events []pushed
}

func (f *fakePusher) SendToUser(userID uint, eventType string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, pushed{userID: userID, eventType: eventType, payload: payload})
	return nil
}

func (f *fakePusher) SendToRole(role, eventType string, payload interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, pushed{role: role, eventType: eventType, payload: payload})
	return nil
}

func (f *fakePusher) Events() []pushed {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]pushed(nil), f.events...)
}
