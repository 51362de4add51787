package service

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// ValidationError lists invalid input fields with a message each
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = msg
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// HotelListQuery is the list request shared by the merchant and admin views
type HotelListQuery struct {
	Page       int
	PageSize   int
	Statuses   []workflow.Status
	Keyword    string
	SortBy     string
	Order      string // asc or desc
	MerchantID *uint
}

type HotelPage struct {
	Total    int64         `json:"total"`
	Page     int           `json:"page"`
	PageSize int           `json:"pageSize"`
	Items    []model.Hotel `json:"items"`
}

// filter clamps paging and validates sorting
func (q HotelListQuery) filter() (repository.HotelFilter, int, int, error) {
	page, size := q.Page, q.PageSize
	if page < 1 {
		page = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	verr := &ValidationError{}
	sortBy, ok := repository.ParseHotelSort(q.SortBy)
	if !ok {
		verr.add("sortBy", fmt.Sprintf("cannot sort by %q", q.SortBy))
	}
	ascending := false
	switch strings.ToLower(strings.TrimSpace(q.Order)) {
	case "", "desc", "descend":
	case "asc", "ascend":
		ascending = true
	default:
		verr.add("order", "must be asc or desc")
	}
	if err := verr.orNil(); err != nil {
		return repository.HotelFilter{}, 0, 0, err
	}

	return repository.HotelFilter{
		MerchantID:    q.MerchantID,
		Statuses:      q.Statuses,
		Keyword:       q.Keyword,
		SortBy:        sortBy,
		SortAscending: ascending,
		Limit:         size,
		Offset:        (page - 1) * size,
	}, page, size, nil
}

func listHotels(repo repository.HotelRepository, q HotelListQuery) (*HotelPage, error) {
	filter, page, size, err := q.filter()
	if err != nil {
		return nil, err
	}
	items, total, err := repo.FindWithFilter(filter)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Hotel{}
	}
	return &HotelPage{Total: total, Page: page, PageSize: size, Items: items}, nil
}
