package console

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ikkim/hotel-admin-backend/pkg/tags"
)

// Editor is a hotel loaded for editing together with a fresh tag catalog
type Editor struct {
	Hotel   *Hotel
	Catalog *tags.Catalog
	// Selection holds the preselected tag ids and the stored names that
	// no longer match the catalog
	Selection tags.Reconciliation[uint, string]
}

// LoadEditor fetches the hotel and the catalog concurrently. The catalog is
// fetched on every call.
func (c *Client) LoadEditor(ctx context.Context, hotelID uint) (*Editor, error) {
	var (
		hotel   *Hotel
		catalog *tags.Catalog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		h, err := c.GetHotel(gctx, hotelID)
		hotel = h
		return err
	})
	g.Go(func() error {
		cat, err := c.Catalog(gctx)
		catalog = cat
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sel := catalog.NamesToIDs(hotel.Tags)
	if !sel.Complete() {
		c.log.Warn("Hotel has tags missing from the catalog", map[string]interface{}{
			"hotel_id":  hotel.ID,
			"unmatched": sel.Unmatched,
		})
	}
	return &Editor{Hotel: hotel, Catalog: catalog, Selection: sel}, nil
}

// SetTags resolves the selected ids to names and stores them as the
// update's tags field. The caller decides what to do with Unmatched.
func (e *Editor) SetTags(update *PartialUpdate, ids []uint) tags.Reconciliation[string, uint] {
	res := e.Catalog.IDsToNames(ids)
	update.Set("tags", res.Resolved)
	return res
}

// SaveEditor sends update for the edited hotel and keeps the editor in sync
func (c *Client) SaveEditor(ctx context.Context, e *Editor, update *PartialUpdate) (*Hotel, error) {
	hotel, err := c.UpdateHotel(ctx, e.Hotel.ID, update)
	if err != nil {
		return nil, err
	}
	e.Hotel = hotel
	e.Selection = e.Catalog.NamesToIDs(hotel.Tags)
	return hotel, nil
}
