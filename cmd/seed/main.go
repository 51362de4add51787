package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/hotel-admin-backend/config"
	"github.com/ikkim/hotel-admin-backend/internal/app/model"
	"github.com/ikkim/hotel-admin-backend/internal/app/repository"
	"github.com/ikkim/hotel-admin-backend/internal/app/service"
	"github.com/ikkim/hotel-admin-backend/internal/db"
	"github.com/ikkim/hotel-admin-backend/pkg/util"
	"github.com/urfave/cli/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "seed",
		Usage: "load the tag catalog and provision admin accounts",
		Commands: []*cli.Command{
			{
				Name:      "tags",
				Usage:     "import tags from an xlsx sheet with name and category columns",
				ArgsUsage: "<xlsx_file_path>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "sheet", Usage: "sheet name (default: first sheet)"},
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "skip the confirmation prompt"},
				},
				Action: importTags,
			},
			{
				Name:  "admin",
				Usage: "create an admin account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "username", Required: true, EnvVars: []string{"SEED_ADMIN_USERNAME"}},
					&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"SEED_ADMIN_PASSWORD"}},
					&cli.StringFlag{Name: "email"},
				},
				Action: createAdmin,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openDB() (*gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := db.Initialize(&cfg.Database); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return db.GetDB(), nil
}

func importTags(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("Usage: seed tags <xlsx_file_path>", 1)
	}
	filePath := c.Args().First()

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	tags, skipped, err := readTagsFromXLSX(filePath, c.String("sheet"))
	if err != nil {
		return err
	}
	fmt.Printf("Tags to import: %d (skipped rows: %d)\n", len(tags), skipped)
	if len(tags) == 0 {
		return nil
	}

	if !c.Bool("yes") {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return nil
		}
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	// no cache here; the server's tag cache expires on its own TTL
	tagService := service.NewTagService(repository.NewTagRepository(database), nil, 0)
	added, err := tagService.ImportTags(context.Background(), tags)
	if err != nil {
		return fmt.Errorf("failed to import tags: %w", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("New tags: %d, already present: %d\n", added, int64(len(tags))-added)
	return nil
}

// readTagsFromXLSX reads name and category from the first two columns.
// A header row is recognised by a first cell of "name".
func readTagsFromXLSX(filePath, sheet string) ([]model.Tag, int, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	if sheet == "" {
		return nil, 0, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	var tags []model.Tag
	seen := make(map[string]bool)
	skipped := 0
	for i, row := range rows {
		if len(row) == 0 {
			skipped++
			continue
		}
		name := strings.TrimSpace(row[0])
		if i == 0 && strings.EqualFold(name, "name") {
			continue
		}
		if name == "" {
			skipped++
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			skipped++
			continue
		}
		seen[key] = true

		category := ""
		if len(row) > 1 {
			category = strings.ToLower(strings.TrimSpace(row[1]))
		}
		tags = append(tags, model.Tag{Name: name, Category: category})
	}
	return tags, skipped, nil
}

func createAdmin(c *cli.Context) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	user, err := seedAdmin(repository.NewUserRepository(database), c.String("username"), c.String("password"), c.String("email"))
	if err != nil {
		return err
	}
	fmt.Printf("Admin account ready: %s (id %d)\n", user.Username, user.ID)
	return nil
}

// seedAdmin creates an admin account; admins cannot self-register
func seedAdmin(repo repository.UserRepository, username, password, email string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, service.ErrUsernameRequired
	}
	if err := util.CheckPasswordPolicy(password); err != nil {
		return nil, err
	}

	existing, err := repo.FindByUsername(username)
	switch {
	case err == nil:
		if existing.Role != model.RoleAdmin {
			return nil, fmt.Errorf("user %q exists with role %s", username, existing.Role)
		}
		return existing, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		Email:        strings.TrimSpace(email),
	}
	if err := repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}
