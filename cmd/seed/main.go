// cmd/seed/main.go
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/shelfaware/wastewatch/internal/config"
	"github.com/shelfaware/wastewatch/internal/datagen"
	"github.com/shelfaware/wastewatch/internal/domain"
	"github.com/shelfaware/wastewatch/internal/ingest"
	"github.com/shelfaware/wastewatch/internal/repository"
	"github.com/shelfaware/wastewatch/internal/repository/postgres"
	"github.com/shelfaware/wastewatch/internal/storage"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func openRepository(c *cli.Context) (repository.SalesRepository, error) {
	dbURL := c.String("db-url")
	if dbURL == "" {
		return nil, fmt.Errorf("--db-url (or DATABASE_URL) is required")
	}

	db, err := postgres.NewDBFromURL(dbURL)
	if err != nil {
		return nil, err
	}

	if err := postgres.InitSchema(c.Context, db); err != nil {
		return nil, fmt.Errorf("could not initialize schema: %w", err)
	}

	return postgres.NewSalesRepository(db), nil
}

func runGenerate(c *cli.Context) error {
	seed := c.Int64("seed")
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	gen := datagen.New(seed)
	endDate := time.Now().UTC().Truncate(24 * time.Hour)
	rows := gen.Generate(endDate, c.Int("days"), c.Int("stores"))

	if out := c.String("out"); out != "" {
		if err := ingest.WriteCSVFile(out, rows); err != nil {
			return err
		}
		log.Printf("wrote %d rows to %s", len(rows), out)
		return nil
	}

	repo, err := openRepository(c)
	if err != nil {
		return err
	}

	if err := repo.StoreSalesData(c.Context, rows); err != nil {
		return fmt.Errorf("could not store generated rows: %w", err)
	}

	log.Printf("stored %d generated rows", len(rows))
	return nil
}

func runLoad(c *cli.Context) error {
	loader := ingest.NewLoader(c.Int("store-id"))

	var files []string
	switch {
	case c.String("bucket-prefix") != "" || c.Bool("from-storage"):
		downloaded, cleanup, err := downloadFromStorage(c)
		if err != nil {
			return err
		}
		defer cleanup()
		files = downloaded
	case c.String("file") != "":
		files = []string{c.String("file")}
	case c.String("dir") != "":
		found, err := listCSVFiles(c.String("dir"))
		if err != nil {
			return err
		}
		files = found
	default:
		return fmt.Errorf("one of --file, --dir or --from-storage is required")
	}

	if len(files) == 0 {
		return fmt.Errorf("no CSV files to load")
	}

	var rows []domain.SalesObservation
	for _, f := range files {
		loaded, err := loader.LoadFile(f)
		if err != nil {
			return err
		}
		rows = append(rows, loaded...)
	}

	repo, err := openRepository(c)
	if err != nil {
		return err
	}

	if err := repo.StoreSalesData(c.Context, rows); err != nil {
		return fmt.Errorf("could not store loaded rows: %w", err)
	}

	log.Printf("loaded %d rows from %d file(s)", len(rows), len(files))
	return nil
}

// downloadFromStorage pulls exported CSVs from the configured object storage
// bucket into a temp directory. The returned cleanup removes the directory.
func downloadFromStorage(c *cli.Context) ([]string, func(), error) {
	cfg := config.Load()

	client, err := storage.NewMinioClient(cfg.Storage)
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to object storage: %w", err)
	}

	objects, err := client.ListObjects(c.Context, c.String("bucket-prefix"))
	if err != nil {
		return nil, nil, err
	}

	tmpDir, err := os.MkdirTemp("", "wastewatch-load-*")
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	var files []string
	for _, obj := range objects {
		if !strings.EqualFold(filepath.Ext(obj.Key), ".csv") {
			continue
		}
		dest := filepath.Join(tmpDir, filepath.Base(obj.Key))
		if err := client.DownloadObject(c.Context, obj.Key, dest); err != nil {
			cleanup()
			return nil, nil, err
		}
		files = append(files, dest)
	}

	return files, cleanup, nil
}

func listCSVFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("could not read %s: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Generate or load retail sales data",
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate synthetic sales data into the database or a CSV file",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "days",
						Usage: "Number of days to generate",
						Value: 90,
					},
					&cli.IntFlag{
						Name:  "stores",
						Usage: "Number of stores to generate",
						Value: 3,
					},
					&cli.Int64Flag{
						Name:  "seed",
						Usage: "Random seed (0 uses the current time)",
					},
					&cli.StringFlag{
						Name:  "out",
						Usage: "Write a CSV file instead of inserting into the database",
					},
				},
				Action: runGenerate,
			},
			{
				Name:  "load",
				Usage: "Load exported sales CSV files into the database",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "file",
						Usage: "Path to a single CSV file",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory containing CSV files",
					},
					&cli.BoolFlag{
						Name:  "from-storage",
						Usage: "Download CSV files from the configured object storage bucket",
					},
					&cli.StringFlag{
						Name:  "bucket-prefix",
						Usage: "Object key prefix to download (implies --from-storage)",
					},
					&cli.IntFlag{
						Name:  "store-id",
						Usage: "Store ID assigned to rows without a store column",
						Value: 1,
					},
				},
				Action: runLoad,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
