package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ikkim/hotel-admin-backend/pkg/console"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type table struct {
	tw *tabwriter.Writer
}

func newTable(w io.Writer, headers ...string) *table {
	t := &table{tw: tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)}
	fmt.Fprintln(t.tw, strings.Join(headers, "\t"))
	return t
}

func (t *table) row(cells ...interface{}) {
	parts := make([]string, len(cells))
	for i, c := range cells {
		parts[i] = fmt.Sprint(c)
	}
	fmt.Fprintln(t.tw, strings.Join(parts, "\t"))
}

func (t *table) flush() error {
	return t.tw.Flush()
}

func (e *env) printHotelPage(page *console.HotelPage) error {
	if e.json {
		return printJSON(e.out, page)
	}
	fmt.Fprintf(e.out, "page %d, %d of %d hotels\n", page.Page, len(page.Items), page.Total)
	w := newTable(e.out, "ID", "NAME", "STAR", "STATUS", "ACTIONS", "TAGS")
	for _, h := range page.Items {
		w.row(h.ID, h.Name, h.Star, h.Status, actionList(h.Status), strings.Join(h.Tags, ","))
	}
	return w.flush()
}

func actionList(s workflow.Status) string {
	actions := workflow.AvailableActions(s)
	if len(actions) == 0 {
		return "-"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ",")
}

func (e *env) printHotel(h *console.Hotel) error {
	if e.json {
		return printJSON(e.out, h)
	}
	fmt.Fprintf(e.out, "#%d %s (%d star, %s)\n", h.ID, h.Name, h.Star, h.Status)
	fmt.Fprintf(e.out, "address: %s\n", h.Address)
	if h.OpeningDate != nil {
		fmt.Fprintf(e.out, "opened:  %s\n", h.OpeningDate.Format(console.DateLayout))
	}
	if len(h.Tags) > 0 {
		fmt.Fprintf(e.out, "tags:    %s\n", strings.Join(h.Tags, ", "))
	}
	if h.AuditComment != nil && *h.AuditComment != "" {
		fmt.Fprintf(e.out, "review:  %s\n", *h.AuditComment)
	}
	for _, img := range h.Images {
		fmt.Fprintf(e.out, "image:   %s [%s]\n", img.URL, img.Type)
	}
	if len(h.Rooms) == 0 {
		return nil
	}
	w := newTable(e.out, "ROOM", "TYPE", "BED", "AREA", "GUESTS", "PRICE", "AVAILABLE")
	for _, r := range h.Rooms {
		w.row(r.ID, r.Type, r.BedType, r.Area, r.MaxOccupancy, fmt.Sprintf("%.2f", r.Price), fmt.Sprintf("%d/%d", r.Available, r.TotalRooms))
	}
	return w.flush()
}
