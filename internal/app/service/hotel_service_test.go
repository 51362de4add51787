package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/internal/storage"
	"github.com/ikkim/hotel-admin-backend/pkg/upload"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var openedOn = time.Date(2020, 5, 1, 0, 0, 0, 0, time.UTC)

const (
	merchantA uint = 10
	merchantB uint = 20
	adminID   uint = 1
)

type fixture struct {
	db      *gorm.DB
	hotels  HotelService
	rooms   RoomService
	admin   AdminHotelService
	tags    TagService
	notes   NotificationService
	pusher  *fakePusher
	catalog []model.Tag
	store   *storage.LocalStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	testDB := setupTestDB(t)
	catalog := seedCatalog(t, testDB)
	images, store := newLocalImages(t)
	pusher := &fakePusher{}

	hotelRepo := repository.NewHotelRepository(testDB)
	tagSvc := NewTagService(repository.NewTagRepository(testDB), nil, 0)
	notes := NewNotificationService(repository.NewNotificationRepository(testDB), pusher)

	return &fixture{
		db:      testDB,
		hotels:  NewHotelService(hotelRepo, tagSvc, images, notes),
		rooms:   NewRoomService(hotelRepo, repository.NewRoomRepository(testDB), images),
		admin:   NewAdminHotelService(hotelRepo, notes),
		tags:    tagSvc,
		notes:   notes,
		pusher:  pusher,
		catalog: catalog,
		store:   store,
	}
}

func (f *fixture) createHotel(t *testing.T, merchantID uint, name string) *model.Hotel {
	t.Helper()
	hotel, err := f.hotels.CreateHotel(context.Background(), merchantID, CreateHotelInput{
		Name: name, Address: "1 Test Rd", Star: 4, OpeningDate: &openedOn,
	})
	require.NoError(t, err)
	return hotel
}

func TestHotelService_CreateHotel(t *testing.T) {
	f := newFixture(t)

	hotel, err := f.hotels.CreateHotel(context.Background(), merchantA, CreateHotelInput{
		Name:        "  Harbor View ",
		Address:     "9 Pier St",
		Star:        5,
		OpeningDate: &openedOn,
		TagIDs:      []uint{f.catalog[1].ID, f.catalog[0].ID},
		Images: []ImageFile{
			memFile("front.png", pngHeader, 2048),
			memFile("lobby.jpg", jpegHeader, 4096),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Harbor View", hotel.Name)
	assert.Equal(t, workflow.StatusPending, hotel.Status)
	assert.Equal(t, []string{"pool", "spa"}, []string(hotel.Tags))
	require.Len(t, hotel.Images, 2)
	assert.Equal(t, model.ImageMain, hotel.Images[0].Type)
	assert.Equal(t, model.ImageFacility, hotel.Images[1].Type)
	assert.True(t, strings.HasSuffix(hotel.Images[0].URL, ".png"))
	assert.True(t, strings.HasSuffix(hotel.Images[1].URL, ".jpg"))

	events := f.pusher.Events()
	require.Len(t, events, 1)
	assert.Equal(t, EventHotelSubmitted, events[0].eventType)
	assert.Equal(t, "admin", events[0].role)
}

func TestHotelService_CreateHotelRejectsInput(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name    string
		input   CreateHotelInput
		wantErr    error
		wantFields []string
	}{
		{
			name:       "Missing name and bad star",
			input:      CreateHotelInput{Address: "x", Star: 6, OpeningDate: &openedOn},
			wantFields: []string{"name", "star"},
		},
		{
			name:       "Missing opening date",
			input:      CreateHotelInput{Name: "A", Address: "x"},
			wantFields: []string{"openingDate"},
		},
		{
			name:    "Unknown tag id",
			input:   CreateHotelInput{Name: "A", Address: "x", Star: 3, OpeningDate: &openedOn, TagIDs: []uint{f.catalog[0].ID, 999}},
			wantErr: ErrUnknownTag,
		},
		{
			name:    "GIF image",
			input:   CreateHotelInput{Name: "A", Address: "x", Star: 3, OpeningDate: &openedOn, Images: []ImageFile{memFile("a.gif", gifHeader, 100)}},
			wantErr: upload.ErrUnsupportedType,
		},
		{
			name:    "PNG named jpg over 2MB",
			input:   CreateHotelInput{Name: "A", Address: "x", Star: 3, OpeningDate: &openedOn, Images: []ImageFile{memFile("big.jpg", pngHeader, int(2*upload.MB)+1)}},
			wantErr: upload.ErrFileTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hotel, err := f.hotels.CreateHotel(context.Background(), merchantA, tt.input)
			assert.Nil(t, hotel)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.wantFields != nil {
				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				for _, field := range tt.wantFields {
					assert.Contains(t, verr.Fields, field)
				}
			}
		})
	}

	var count int64
	require.NoError(t, f.db.Model(&model.Hotel{}).Count(&count).Error)
	assert.Zero(t, count)

	entries, err := os.ReadDir(f.store.Dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHotelService_CreateHotelWithoutStar(t *testing.T) {
	f := newFixture(t)

	hotel, err := f.hotels.CreateHotel(context.Background(), merchantA, CreateHotelInput{
		Name: "No Rating Yet", Address: "2 Test Rd", OpeningDate: &openedOn,
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultStar, hotel.Star)

	stored, err := f.hotels.GetHotel(merchantA, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, DefaultStar, stored.Star)
}

func TestHotelService_ListHotelsIsScoped(t *testing.T) {
	f := newFixture(t)
	f.createHotel(t, merchantA, "A1")
	f.createHotel(t, merchantA, "A2")
	f.createHotel(t, merchantB, "B1")

	page, err := f.hotels.ListHotels(merchantA, HotelListQuery{PageSize: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 1, page.PageSize)
	require.Len(t, page.Items, 1)
	assert.Equal(t, merchantA, page.Items[0].MerchantID)

	page, err = f.hotels.ListHotels(merchantA, HotelListQuery{PageSize: 1000, SortBy: "name", Order: "ascend"})
	require.NoError(t, err)
	assert.Equal(t, MaxPageSize, page.PageSize)
	assert.Equal(t, "A1", page.Items[0].Name)

	_, err = f.hotels.ListHotels(merchantA, HotelListQuery{SortBy: "password"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestHotelService_GetHotelOwnership(t *testing.T) {
	f := newFixture(t)
	hotel := f.createHotel(t, merchantA, "A1")

	got, err := f.hotels.GetHotel(merchantA, hotel.ID)
	require.NoError(t, err)
	assert.Equal(t, hotel.ID, got.ID)

	_, err = f.hotels.GetHotel(merchantB, hotel.ID)
	assert.ErrorIs(t, err, ErrHotelAccessDenied)

	_, err = f.hotels.GetHotel(merchantA, 999)
	assert.ErrorIs(t, err, ErrHotelNotFound)
}

func TestHotelService_UpdateHotel(t *testing.T) {
	f := newFixture(t)
	hotel := f.createHotel(t, merchantA, "Before")
	ctx := context.Background()

	name := "After"
	updated, err := f.hotels.UpdateHotel(ctx, merchantA, hotel.ID, UpdateHotelInput{
		Name: &name,
		Tags: []string{"SPA", "breakfast"},
	})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.Name)
	assert.Equal(t, 4, updated.Star, "unset star is kept")
	assert.Equal(t, []string{"spa", "breakfast"}, []string(updated.Tags))
	assert.Equal(t, workflow.StatusPending, updated.Status)

	updated, err = f.hotels.UpdateHotel(ctx, merchantA, hotel.ID, UpdateHotelInput{TagIDs: []uint{f.catalog[1].ID}})
	require.NoError(t, err)
	assert.Equal(t, []string{"pool"}, []string(updated.Tags))

	_, err = f.hotels.UpdateHotel(ctx, merchantA, hotel.ID, UpdateHotelInput{Tags: []string{"pol"}})
	var unknown *UnknownTagsError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "pool", unknown.Suggestions["pol"])

	star := 0
	_, err = f.hotels.UpdateHotel(ctx, merchantA, hotel.ID, UpdateHotelInput{Star: &star})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.hotels.UpdateHotel(ctx, merchantB, hotel.ID, UpdateHotelInput{Name: &name})
	assert.ErrorIs(t, err, ErrHotelAccessDenied)

	same, err := f.hotels.UpdateHotel(ctx, merchantA, hotel.ID, UpdateHotelInput{})
	require.NoError(t, err)
	assert.Equal(t, "After", same.Name)
}

func TestHotelService_EditingRejectedHotelKeepsStatus(t *testing.T) {
	f := newFixture(t)
	hotel := f.createHotel(t, merchantA, "Rejected Inn")
	_, err := f.admin.AuditHotel(context.Background(), adminID, hotel.ID, workflow.OutcomeRejected, "photos missing")
	require.NoError(t, err)

	desc := "new photos added"
	updated, err := f.hotels.UpdateHotel(context.Background(), merchantA, hotel.ID, UpdateHotelInput{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, workflow.StatusRejected, updated.Status)
}

func TestHotelService_DeleteHotel(t *testing.T) {
	f := newFixture(t)
	hotel := f.createHotel(t, merchantA, "Gone")

	assert.ErrorIs(t, f.hotels.DeleteHotel(merchantB, hotel.ID), ErrHotelAccessDenied)
	require.NoError(t, f.hotels.DeleteHotel(merchantA, hotel.ID))
	assert.ErrorIs(t, f.hotels.DeleteHotel(merchantA, hotel.ID), ErrHotelNotFound)
}

func TestImageService_RollsBackOnFailure(t *testing.T) {
	images, store := newLocalImages(t)
	ok := memFile("a.png", pngHeader, 512)
	broken := memFile("b.png", pngHeader, 512)
	broken.Size = 600 // content is shorter than declared, so saving fails

	_, err := images.Store(context.Background(), upload.HotelImages, "hotels", []ImageFile{ok, broken})
	require.Error(t, err)

	var files []string
	require.NoError(t, filepath.Walk(store.Dir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			files = append(files, path)
		}
		return err
	}))
	assert.Empty(t, files)
}

func TestImageService_NoStore(t *testing.T) {
	images := NewImageService(nil)
	urls, err := images.Store(context.Background(), upload.HotelImages, "hotels", nil)
	require.NoError(t, err)
	assert.Nil(t, urls)

	_, err = images.Store(context.Background(), upload.HotelImages, "hotels", []ImageFile{memFile("a.png", pngHeader, 10)})
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}
