// Command hotelctl is the operator console for the hotel admin backend
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ikkim/hotel-admin-backend/pkg/console"
	"github.com/ikkim/hotel-admin-backend/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", describeError(err))
		os.Exit(1)
	}
}

// env carries what every command needs; it is filled in by setup
type env struct {
	client *console.Client
	store  *sessionFile
	out    io.Writer
	json   bool
}

func newApp() *cli.App {
	e := &env{}
	return &cli.App{
		Name:  "hotelctl",
		Usage: "manage hotel listings from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Value:   "http://localhost:8080/api",
				Usage:   "API base URL including the /api prefix",
				EnvVars: []string{"HOTELCTL_SERVER"},
			},
			&cli.StringFlag{
				Name:    "session",
				Value:   defaultSessionPath(),
				Usage:   "file holding the login session",
				EnvVars: []string{"HOTELCTL_SESSION"},
			},
			&cli.DurationFlag{Name: "timeout", Value: console.DefaultTimeout, Usage: "per request timeout"},
			&cli.IntFlag{Name: "rps", Value: console.DefaultRPS, Usage: "maximum requests per second"},
			&cli.BoolFlag{Name: "json", Usage: "print raw JSON"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log every request"},
		},
		Before:   e.setup,
		After:    e.persist,
		Commands: e.commands(),
	}
}

func (e *env) setup(c *cli.Context) error {
	e.out = c.App.Writer
	e.json = c.Bool("json")

	level := "warn"
	if c.Bool("verbose") {
		level = "debug"
	}
	log := logger.New(logger.Config{Level: level, Format: "console", Output: c.App.ErrWriter})

	e.store = &sessionFile{path: c.String("session")}
	session, err := e.store.Load()
	if err != nil {
		return err
	}
	e.client, err = console.New(console.Config{
		BaseURL: c.String("server"),
		Timeout: c.Duration("timeout"),
		RPS:     c.Int("rps"),
		Logger:  log,
	}, session)
	return err
}

// persist saves the session after every command; a rejected token clears it
func (e *env) persist(c *cli.Context) error {
	if e.client == nil || e.store == nil {
		return nil
	}
	return e.store.Save(e.client.Session())
}

func (e *env) commands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "login",
			Usage: "log in and store the session",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
				&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Required: true, EnvVars: []string{"HOTELCTL_PASSWORD"}},
			},
			Action: e.login,
		},
		{Name: "logout", Usage: "revoke the token and forget the session", Action: e.logout},
		{Name: "whoami", Usage: "show the logged-in account", Action: e.whoami},
		{
			Name:  "register",
			Usage: "create a merchant account",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "username", Required: true},
				&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"HOTELCTL_PASSWORD"}},
				&cli.StringFlag{Name: "role", Value: string(console.RoleMerchant)},
				&cli.StringFlag{Name: "email"},
				&cli.StringFlag{Name: "phone"},
			},
			Action: e.register,
		},
		{
			Name:  "hotels",
			Usage: "merchant hotel listings",
			Subcommands: []*cli.Command{
				{Name: "list", Flags: listFlags(false), Action: e.listHotels},
				{Name: "show", ArgsUsage: "<id>", Action: e.showHotel},
				{Name: "create", Flags: hotelFlags(true), Action: e.createHotel},
				{Name: "update", ArgsUsage: "<id>", Flags: hotelFlags(false), Action: e.updateHotel},
				{Name: "delete", ArgsUsage: "<id>", Action: e.deleteHotel},
			},
		},
		{
			Name:  "rooms",
			Usage: "room types of a merchant hotel",
			Subcommands: []*cli.Command{
				{Name: "create", ArgsUsage: "<hotel-id>", Flags: roomFlags(true), Action: e.createRoom},
				{Name: "update", ArgsUsage: "<room-id>", Flags: roomFlags(false), Action: e.updateRoom},
				{Name: "delete", ArgsUsage: "<hotel-id> <room-id>", Action: e.deleteRoom},
			},
		},
		{
			Name:  "admin",
			Usage: "audit and publish listings",
			Subcommands: []*cli.Command{
				{Name: "list", Flags: listFlags(true), Action: e.adminList},
				{Name: "show", ArgsUsage: "<id>", Action: e.adminShow},
				{
					Name:      "audit",
					ArgsUsage: "<id>",
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "approve"},
						&cli.BoolFlag{Name: "reject"},
						&cli.StringFlag{Name: "comment", Aliases: []string{"m"}},
					},
					Action: e.audit,
				},
				{Name: "publish", ArgsUsage: "<id>", Action: e.publish},
				{Name: "unpublish", ArgsUsage: "<id>", Action: e.unpublish},
				{Name: "history", ArgsUsage: "<id>", Action: e.history},
				{Name: "backlog", Action: e.backlog},
			},
		},
		{
			Name:  "tags",
			Usage: "the tag catalog",
			Subcommands: []*cli.Command{
				{Name: "list", Flags: []cli.Flag{&cli.StringFlag{Name: "category"}}, Action: e.listTags},
				{
					Name: "create",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "name", Required: true},
						&cli.StringFlag{Name: "category"},
					},
					Action: e.createTag,
				},
			},
		},
		{
			Name:  "notifications",
			Usage: "status change inbox",
			Subcommands: []*cli.Command{
				{
					Name: "list",
					Flags: []cli.Flag{
						&cli.BoolFlag{Name: "unread"},
						&cli.IntFlag{Name: "page", Value: 1},
						&cli.IntFlag{Name: "page-size", Value: 20},
					},
					Action: e.listNotifications,
				},
				{
					Name:      "read",
					ArgsUsage: "<id> | --all",
					Flags:     []cli.Flag{&cli.BoolFlag{Name: "all"}},
					Action:    e.readNotifications,
				},
			},
		},
	}
}

func listFlags(admin bool) []cli.Flag {
	flags := []cli.Flag{
		&cli.IntFlag{Name: "page", Value: 1},
		&cli.IntFlag{Name: "page-size", Value: 10},
		&cli.StringSliceFlag{Name: "status", Usage: "filter by status, repeatable or comma separated"},
		&cli.StringFlag{Name: "keyword"},
		&cli.StringFlag{Name: "sort-by"},
		&cli.StringFlag{Name: "order", Usage: "ascend or descend"},
	}
	if admin {
		flags = append(flags, &cli.UintFlag{Name: "merchant"})
	}
	return flags
}

func hotelFlags(create bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Required: create},
		&cli.StringFlag{Name: "address", Required: create},
		&cli.StringFlag{Name: "description"},
		&cli.IntFlag{Name: "star"},
		&cli.StringFlag{Name: "opening-date", Usage: "YYYY-MM-DD", Required: create},
		&cli.IntSliceFlag{Name: "tag-id", Usage: "catalog tag id, repeatable"},
		&cli.StringSliceFlag{Name: "image", Usage: "JPEG or PNG file, repeatable"},
	}
}

func roomFlags(create bool) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "type", Required: create},
		&cli.Float64Flag{Name: "area", Required: create},
		&cli.StringFlag{Name: "bed-type"},
		&cli.IntFlag{Name: "max-occupancy", Required: create},
		&cli.Float64Flag{Name: "price"},
		&cli.IntFlag{Name: "total-rooms"},
		&cli.IntFlag{Name: "available"},
		&cli.StringSliceFlag{Name: "amenity", Usage: "repeatable"},
		&cli.StringSliceFlag{Name: "image", Usage: "JPEG or PNG file, at most 3"},
	}
}
