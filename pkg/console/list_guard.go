package console

import (
	"context"
	"sync"
	"sync/atomic"
)

// ListGuard hands out increasing request tokens. Only the newest token is
// current, so a slow earlier response can be recognized and dropped.
type ListGuard struct {
	seq atomic.Uint64
}

func (g *ListGuard) Next() uint64 {
	return g.seq.Add(1)
}

func (g *ListGuard) Current(token uint64) bool {
	return g.seq.Load() == token
}

// HotelFetcher loads one page; Client.ListHotels and Client.AdminListHotels match it
type HotelFetcher func(ctx context.Context, q ListQuery) (*HotelPage, error)

// HotelLister keeps the page shown by a hotel table. Every Load refetches
// in full and only the response to the latest Load is kept.
type HotelLister struct {
	guard ListGuard
	fetch HotelFetcher

	mu    sync.Mutex
	query ListQuery
	page  *HotelPage
}

func NewHotelLister(fetch HotelFetcher) *HotelLister {
	return &HotelLister{fetch: fetch}
}

// Load fetches q. It returns ErrStaleResponse when a later Load started
// before this one finished, whatever the outcome of the fetch.
func (l *HotelLister) Load(ctx context.Context, q ListQuery) (*HotelPage, error) {
	token := l.guard.Next()
	page, err := l.fetch(ctx, q)

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.guard.Current(token) {
		return nil, ErrStaleResponse
	}
	if err != nil {
		return nil, err
	}
	l.query = q
	l.page = page
	return page, nil
}

// Refresh reloads the last successfully loaded query
func (l *HotelLister) Refresh(ctx context.Context) (*HotelPage, error) {
	return l.Load(ctx, l.Query())
}

func (l *HotelLister) Query() ListQuery {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Page returns the page currently shown, nil before the first load
func (l *HotelLister) Page() *HotelPage {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page
}
