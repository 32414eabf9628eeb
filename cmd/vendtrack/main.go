package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vendtrack/internal/core"
	"vendtrack/internal/csvproc"
	"vendtrack/internal/db"
)

// version is set at build time via -ldflags "-X main.version=x.y.z".
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:     "vendtrack",
		Short:   "Vendor sales CSV ingestion pipeline",
		Long:    "Vendtrack ingests vendor machine CSV exports, validates them, and reconciles inventory.",
		Version: version,
	}

	previewCmd := &cobra.Command{
		Use:   "preview <csv-file>",
		Short: "Detect the vendor format and validate a CSV without touching the database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(args[0])
		},
	}

	var ingestUserID int
	ingestCmd := &cobra.Command{
		Use:   "ingest <csv-file>",
		Short: "Run the full ingestion pipeline on a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), args[0], ingestUserID)
		},
	}
	ingestCmd.Flags().IntVar(&ingestUserID, "user", 1, "User ID recorded on the audit row")

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema migrations to DATABASE_URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context())
		},
	}

	root.AddCommand(previewCmd, ingestCmd, migrateCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runPreview(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	text, err := csvproc.DecodeInput(f)
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	rows := csvproc.Tokenize(text)
	if len(rows) < 2 {
		return fmt.Errorf("%s: need at least a header row and one data row", path)
	}

	preview := csvproc.BuildPreview(rows)
	vendor := csvproc.DetectVendor(rows[0])
	fmt.Printf("Format:     %s\n", vendor.DisplayName())
	fmt.Printf("Data rows:  %d\n", preview.TotalRows)

	if vendor == csvproc.VendorUnknown {
		fmt.Printf("Headers:    %s\n", strings.Join(rows[0], ", "))
		return fmt.Errorf("unsupported CSV format")
	}

	result := csvproc.ValidateCandidates(csvproc.Normalize(rows, vendor))
	fmt.Printf("Valid:      %d\n", len(result.Valid))
	fmt.Printf("Invalid:    %d\n", len(result.Invalid))
	for _, re := range result.Invalid {
		fmt.Printf("  row %d: %s\n", re.Row, strings.Join(re.Errors, "; "))
	}
	return nil
}

func runIngest(ctx context.Context, path string, userID int) error {
	_ = godotenv.Load()

	pool, err := db.NewPool(ctx)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	references := core.NewReferenceService(pool)
	inventory := core.NewInventoryService(pool)
	uploads := core.NewUploadService(pool, references, inventory)

	result, err := uploads.ProcessUpload(ctx, filepath.Base(path), f, userID)
	if err != nil {
		return err
	}

	fmt.Printf("Upload:  %s\n", result.UploadID)
	fmt.Printf("Total:   %d\n", result.Stats.TotalRecords)
	fmt.Printf("Valid:   %d\n", result.Stats.ValidRecords)
	fmt.Printf("Invalid: %d\n", result.Stats.InvalidRecords)
	return nil
}

func runMigrate(ctx context.Context) error {
	_ = godotenv.Load()

	pool, err := db.NewPool(ctx)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer pool.Close()

	sqlFile, err := os.ReadFile("migrations/0001_init.sql")
	if err != nil {
		return fmt.Errorf("read migration: %w", err)
	}

	if _, err := pool.Exec(ctx, string(sqlFile)); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Println("Migration successful.")
	return nil
}
