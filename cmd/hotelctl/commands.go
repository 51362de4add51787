package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ikkim/hotel-admin-backend/pkg/console"
	"github.com/ikkim/hotel-admin-backend/pkg/upload"
	"github.com/ikkim/hotel-admin-backend/pkg/workflow"
)

func argID(c *cli.Context, n int, name string) (uint, error) {
	raw := c.Args().Get(n)
	if raw == "" {
		return 0, cli.Exit(fmt.Sprintf("missing <%s>", name), 2)
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, cli.Exit(fmt.Sprintf("invalid <%s>: %q", name, raw), 2)
	}
	return uint(id), nil
}

func (e *env) login(c *cli.Context) error {
	res, err := e.client.Login(c.Context, c.String("username"), c.String("password"))
	if err != nil {
		return err
	}
	if res.Warning != "" {
		fmt.Fprintf(e.out, "warning: %s (role %s)\n", res.Warning, res.User.Role)
		return nil
	}
	until := "no expiry"
	if !res.ExpiresAt.IsZero() {
		until = "valid until " + res.ExpiresAt.Format(time.RFC3339)
	}
	fmt.Fprintf(e.out, "logged in as %s, %s dashboard, session %s\n", res.User.Username, res.Dashboard, until)
	return nil
}

func (e *env) logout(c *cli.Context) error {
	err := e.client.Logout(c.Context)
	fmt.Fprintln(e.out, "logged out")
	return err
}

func (e *env) whoami(c *cli.Context) error {
	user, err := e.client.Me(c.Context)
	if err != nil {
		return err
	}
	if e.json {
		return printJSON(e.out, user)
	}
	fmt.Fprintf(e.out, "%s (id %d, role %s)\n", user.Username, user.ID, user.Role)
	if console.DashboardFor(user.Role) == console.DashboardNone {
		fmt.Fprintln(e.out, "warning: this account has no dashboard access")
	}
	return nil
}

func (e *env) register(c *cli.Context) error {
	user, err := e.client.Register(c.Context, console.RegisterInput{
		Username: c.String("username"),
		Password: c.String("password"),
		Role:     console.Role(c.String("role")),
		Email:    c.String("email"),
		Phone:    c.String("phone"),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "registered %s (id %d, role %s)\n", user.Username, user.ID, user.Role)
	return nil
}

func listQuery(c *cli.Context) (console.ListQuery, error) {
	statuses, err := workflow.ParseStatuses(c.StringSlice("status"))
	if err != nil {
		return console.ListQuery{}, err
	}
	return console.ListQuery{
		Page:       c.Int("page"),
		PageSize:   c.Int("page-size"),
		Statuses:   statuses,
		Keyword:    c.String("keyword"),
		SortBy:     c.String("sort-by"),
		Order:      c.String("order"),
		MerchantID: c.Uint("merchant"),
	}, nil
}

func (e *env) requireDashboard(want console.Dashboard) error {
	d, err := e.client.RequireDashboard()
	if err != nil {
		return err
	}
	if d != want {
		return cli.Exit(fmt.Sprintf("this command needs the %s dashboard, you are logged in as %s", want, d), 1)
	}
	return nil
}

func (e *env) listHotels(c *cli.Context) error {
	if err := e.requireDashboard(console.DashboardMerchant); err != nil {
		return err
	}
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	page, err := e.client.ListHotels(c.Context, q)
	if err != nil {
		return err
	}
	return e.printHotelPage(page)
}

func (e *env) showHotel(c *cli.Context) error {
	id, err := argID(c, 0, "id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardMerchant); err != nil {
		return err
	}
	hotel, err := e.client.GetHotel(c.Context, id)
	if err != nil {
		return err
	}
	return e.printHotel(hotel)
}

// readImages loads and screens image files the way the upload widget does:
// unsupported or oversized files are reported and left out
func (e *env) readImages(paths []string, policy upload.Policy) ([]console.ImageFile, error) {
	files := make([]console.ImageFile, 0, len(paths))
	for _, p := range paths {
		f, err := console.ReadImageFile(p)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	accepted, rejected := console.SelectImages(policy, files)
	for _, r := range rejected {
		fmt.Fprintf(e.out, "skipped %s\n", r.Reason)
	}
	return accepted, nil
}

func toUints(in []int) []uint {
	out := make([]uint, 0, len(in))
	for _, v := range in {
		if v > 0 {
			out = append(out, uint(v))
		}
	}
	return out
}

func (e *env) createHotel(c *cli.Context) error {
	if err := e.requireDashboard(console.DashboardMerchant); err != nil {
		return err
	}
	opening, err := time.Parse(console.DateLayout, c.String("opening-date"))
	if err != nil {
		return cli.Exit("opening-date must be YYYY-MM-DD", 2)
	}
	images, err := e.readImages(c.StringSlice("image"), upload.HotelImages)
	if err != nil {
		return err
	}
	created, err := e.client.CreateHotel(c.Context, console.HotelForm{
		Name:        c.String("name"),
		Address:     c.String("address"),
		Description: c.String("description"),
		Star:        c.Int("star"),
		OpeningDate: opening,
		TagIDs:      toUints(c.IntSlice("tag-id")),
	}, images)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "hotel %d submitted, status %s\n", created.ID, created.Status)
	return nil
}

func (e *env) updateHotel(c *cli.Context) error {
	id, err := argID(c, 0, "id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardMerchant); err != nil {
		return err
	}

	update := console.NewPartialUpdate()
	for _, field := range []struct{ flag, key string }{
		{"name", "name"},
		{"address", "address"},
		{"description", "description"},
	} {
		if c.IsSet(field.flag) {
			update.Set(field.key, c.String(field.flag))
		}
	}
	if c.IsSet("star") {
		update.Set("star", c.Int("star"))
	}
	if c.IsSet("opening-date") {
		update.Set("openingDate", c.String("opening-date"))
	}
	if len(c.StringSlice("image")) > 0 {
		return cli.Exit("images can only be attached when the hotel is created", 2)
	}

	if !c.IsSet("tag-id") {
		hotel, err := e.client.UpdateHotel(c.Context, id, update)
		if err != nil {
			return err
		}
		return e.printHotel(hotel)
	}

	// tags are stored by name, so resolve the ids against a fresh catalog
	editor, err := e.client.LoadEditor(c.Context, id)
	if err != nil {
		return err
	}
	res := editor.SetTags(update, toUints(c.IntSlice("tag-id")))
	if !res.Complete() {
		fmt.Fprintf(e.out, "warning: unknown tag ids left out: %v\n", res.Unmatched)
	}
	hotel, err := e.client.SaveEditor(c.Context, editor, update)
	if err != nil {
		return err
	}
	return e.printHotel(hotel)
}

func (e *env) deleteHotel(c *cli.Context) error {
	id, err := argID(c, 0, "id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardMerchant); err != nil {
		return err
	}
	if err := e.client.DeleteHotel(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "hotel %d deleted\n", id)
	return nil
}

func (e *env) createRoom(c *cli.Context) error {
	hotelID, err := argID(c, 0, "hotel-id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardMerchant); err != nil {
		return err
	}
	// type filtering only; size and count are checked on submit and abort it
	images, err := e.readImages(c.StringSlice("image"), upload.Policy{AllowedTypes: upload.RoomImages.AllowedTypes})
	if err != nil {
		return err
	}
	room, err := e.client.CreateRoom(c.Context, hotelID, console.RoomForm{
		Type:         c.String("type"),
		Area:         c.Float64("area"),
		BedType:      c.String("bed-type"),
		MaxOccupancy: c.Int("max-occupancy"),
		Price:        c.Float64("price"),
		TotalRooms:   c.Int("total-rooms"),
		Available:    c.Int("available"),
		Amenities:    c.StringSlice("amenity"),
	}, images)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "room %d created for hotel %d with %d images\n", room.ID, hotelID, len(room.Images))
	return nil
}

// roomUpdate turns the flags that were given into a partial update
func roomUpdate(c *cli.Context) *console.PartialUpdate {
	update := console.NewPartialUpdate()
	if c.IsSet("type") {
		update.Set("type", c.String("type"))
	}
	if c.IsSet("area") {
		update.Set("area", c.Float64("area"))
	}
	if c.IsSet("bed-type") {
		update.Set("bedType", c.String("bed-type"))
	}
	if c.IsSet("max-occupancy") {
		update.Set("maxOccupancy", c.Int("max-occupancy"))
	}
	if c.IsSet("price") {
		update.Set("price", c.Float64("price"))
	}
	if c.IsSet("total-rooms") {
		update.Set("totalRooms", c.Int("total-rooms"))
	}
	if c.IsSet("available") {
		update.Set("available", c.Int("available"))
	}
	if c.IsSet("amenity") {
		update.Set("amenities", c.StringSlice("amenity"))
	}
	return update
}

func (e *env) updateRoom(c *cli.Context) error {
	roomID, err := argID(c, 0, "room-id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardMerchant); err != nil {
		return err
	}
	room, err := e.client.UpdateRoom(c.Context, roomID, roomUpdate(c))
	if err != nil {
		return err
	}
	if e.json {
		return printJSON(e.out, room)
	}
	fmt.Fprintf(e.out, "room %d updated: %d of %d available at %.2f\n", room.ID, room.Available, room.TotalRooms, room.Price)
	return nil
}

func (e *env) deleteRoom(c *cli.Context) error {
	hotelID, err := argID(c, 0, "hotel-id")
	if err != nil {
		return err
	}
	roomID, err := argID(c, 1, "room-id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardMerchant); err != nil {
		return err
	}
	if err := e.client.DeleteRoom(c.Context, hotelID, roomID); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "room %d deleted\n", roomID)
	return nil
}

func (e *env) adminList(c *cli.Context) error {
	if err := e.requireDashboard(console.DashboardAdmin); err != nil {
		return err
	}
	q, err := listQuery(c)
	if err != nil {
		return err
	}
	page, err := e.client.AdminListHotels(c.Context, q)
	if err != nil {
		return err
	}
	return e.printHotelPage(page)
}

func (e *env) adminShow(c *cli.Context) error {
	id, err := argID(c, 0, "id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardAdmin); err != nil {
		return err
	}
	hotel, err := e.client.AdminGetHotel(c.Context, id)
	if err != nil {
		return err
	}
	return e.printHotel(hotel)
}

// transition loads the hotel so the workflow can be checked locally first
func (e *env) transition(c *cli.Context, action workflow.Action, comment string) error {
	id, err := argID(c, 0, "id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardAdmin); err != nil {
		return err
	}
	hotel, err := e.client.AdminGetHotel(c.Context, id)
	if err != nil {
		return err
	}
	updated, err := console.NewReviewer(e.client, nil).Apply(c.Context, *hotel, action, comment)
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "hotel %d: %s -> %s\n", updated.ID, hotel.Status, updated.Status)
	return nil
}

func (e *env) audit(c *cli.Context) error {
	switch {
	case c.Bool("approve") == c.Bool("reject"):
		return cli.Exit("pass exactly one of --approve or --reject", 2)
	case c.Bool("approve"):
		return e.transition(c, workflow.ActionApprove, c.String("comment"))
	default:
		return e.transition(c, workflow.ActionReject, c.String("comment"))
	}
}

func (e *env) publish(c *cli.Context) error {
	return e.transition(c, workflow.ActionPublishHotel, "")
}

func (e *env) unpublish(c *cli.Context) error {
	return e.transition(c, workflow.ActionUnpublishHotel, "")
}

func (e *env) history(c *cli.Context) error {
	id, err := argID(c, 0, "id")
	if err != nil {
		return err
	}
	if err := e.requireDashboard(console.DashboardAdmin); err != nil {
		return err
	}
	logs, err := e.client.HotelHistory(c.Context, id)
	if err != nil {
		return err
	}
	if e.json {
		return printJSON(e.out, logs)
	}
	w := newTable(e.out, "TIME", "FROM", "TO", "ACTOR", "COMMENT")
	for _, l := range logs {
		w.row(l.CreatedAt.Format(time.RFC3339), l.FromStatus, l.ToStatus, l.ActorID, l.Comment)
	}
	return w.flush()
}

func (e *env) backlog(c *cli.Context) error {
	if err := e.requireDashboard(console.DashboardAdmin); err != nil {
		return err
	}
	b, err := e.client.AuditBacklog(c.Context)
	if err != nil {
		return err
	}
	if e.json {
		return printJSON(e.out, b)
	}
	fmt.Fprintf(e.out, "%d hotels waiting for review", b.Pending)
	if b.OldestPending != nil {
		fmt.Fprintf(e.out, ", oldest since %s", b.OldestPending.Format(time.RFC3339))
	}
	fmt.Fprintln(e.out)
	return nil
}

func (e *env) listTags(c *cli.Context) error {
	list, err := e.client.ListTags(c.Context, c.String("category"))
	if err != nil {
		return err
	}
	if e.json {
		return printJSON(e.out, list)
	}
	w := newTable(e.out, "ID", "NAME", "CATEGORY")
	for _, t := range list {
		w.row(t.ID, t.Name, t.Category)
	}
	return w.flush()
}

func (e *env) createTag(c *cli.Context) error {
	tag, err := e.client.CreateTag(c.Context, c.String("name"), c.String("category"))
	if err != nil {
		return err
	}
	fmt.Fprintf(e.out, "tag %d created: %s\n", tag.ID, tag.Name)
	return nil
}

func (e *env) listNotifications(c *cli.Context) error {
	page, err := e.client.ListNotifications(c.Context, c.Int("page"), c.Int("page-size"), c.Bool("unread"))
	if err != nil {
		return err
	}
	if e.json {
		return printJSON(e.out, page)
	}
	fmt.Fprintf(e.out, "%d notifications, %d unread\n", page.Total, page.UnreadCount)
	w := newTable(e.out, "ID", "TIME", "READ", "TITLE", "NOTE")
	for _, n := range page.Items {
		w.row(n.ID, n.CreatedAt.Format(time.RFC3339), n.IsRead, n.Title, n.Body)
	}
	return w.flush()
}

func (e *env) readNotifications(c *cli.Context) error {
	if c.Bool("all") {
		if err := e.client.MarkAllNotificationsRead(c.Context); err != nil {
			return err
		}
		fmt.Fprintln(e.out, "all notifications marked as read")
		return nil
	}
	id, err := argID(c, 0, "id")
	if err != nil {
		return err
	}
	if err := e.client.MarkNotificationRead(c.Context, id); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "notification %d marked as read\n", id)
	return nil
}

// describeError renders a failure for the terminal
func describeError(err error) string {
	var (
		verr   *console.ValidationError
		apiErr *console.APIError
		tErr   *console.TransportError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &apiErr):
		if len(apiErr.Fields) > 0 {
			parts := make([]string, 0, len(apiErr.Fields))
			for k, v := range apiErr.Fields {
				parts = append(parts, k+": "+v)
			}
			sort.Strings(parts)
			return apiErr.Message + " (" + strings.Join(parts, "; ") + ")"
		}
		return apiErr.Message
	case errors.As(err, &tErr):
		return tErr.Message
	case errors.Is(err, console.ErrNotLoggedIn), errors.Is(err, console.ErrSessionExpired):
		return err.Error() + " (run hotelctl login)"
	}
	return err.Error()
}
