package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gmendonca/selo/internal/catalog"
	"github.com/gmendonca/selo/internal/cli"
	"github.com/gmendonca/selo/internal/common"
	"github.com/gmendonca/selo/internal/config"
	"github.com/gmendonca/selo/internal/engine"
	"github.com/gmendonca/selo/internal/price"
	"github.com/gmendonca/selo/internal/storage"
	"github.com/gmendonca/selo/internal/trust"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func classifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify <catalog>",
		Short: "Derive trust and price signals and label every listing",
		Long: `Classify runs the full pipeline over a catalog file: price normalization,
seller trust resolution, category price statistics, and the heuristic label
cascade. CSV (semicolon-delimited by default) and XLSX catalogs are supported;
the format follows the file extension.

Examples:
  selo classify catalog.csv                          # label and print a summary
  selo classify catalog.csv -o labeled.csv           # also write the labeled table
  selo classify catalog.xlsx -o labeled.xlsx         # spreadsheet in, spreadsheet out
  selo classify catalog.csv --db results.db          # export the run to SQLite`,
		Args: cobra.ExactArgs(1),
		RunE: runClassify,
	}

	cmd.Flags().StringP("output", "o", "", "Write the labeled table to this file (csv or xlsx)")
	cmd.Flags().String("db", "", "Also export the run to this SQLite database")
	cmd.Flags().String("delimiter", "", "CSV field delimiter (default ';')")
	cmd.Flags().Bool("decimal-comma", true, "Write decimals with a comma separator in CSV output")
	cmd.Flags().String("price-col", "", "Column holding the price")
	cmd.Flags().String("seller-col", "", "Column holding the seller name")
	cmd.Flags().String("category-col", "", "Column holding the product category")
	cmd.Flags().BoolP("quiet", "q", false, "Suppress the progress bar and summary")

	// Bind to viper (errors are rare and can be ignored in practice)
	_ = viper.BindPFlag("output.path", cmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.db", cmd.Flags().Lookup("db"))
	_ = viper.BindPFlag("output.delimiter", cmd.Flags().Lookup("delimiter"))
	_ = viper.BindPFlag("output.decimal_comma", cmd.Flags().Lookup("decimal-comma"))
	_ = viper.BindPFlag("columns.price", cmd.Flags().Lookup("price-col"))
	_ = viper.BindPFlag("columns.seller", cmd.Flags().Lookup("seller-col"))
	_ = viper.BindPFlag("columns.category", cmd.Flags().Lookup("category-col"))
	_ = viper.BindPFlag("output.quiet", cmd.Flags().Lookup("quiet"))

	return cmd
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	inputPath := config.ExpandPath(args[0])
	quiet := viper.GetBool("output.quiet")

	cfg, err := config.FromViper()
	if err != nil {
		return err
	}

	table, err := readCatalog(inputPath, cfg)
	if err != nil {
		return common.NewUserError("could not load catalog", err)
	}
	if len(table.Listings) == 0 {
		return common.ErrNoListings
	}
	slog.Info("Catalog loaded", "path", inputPath, "rows", len(table.Listings))

	eng := engine.New(
		engine.WithNormalizer(&price.Normalizer{MaxPlausible: cfg.MaxPrice}),
		engine.WithResolver(trust.NewResolver(cfg.TrustMap, cfg.DefaultTrust)),
		engine.WithAvgCap(cfg.MaxAvgPrice),
	)
	if !quiet {
		bar := progressbar.Default(int64(len(table.Listings)), "classifying")
		eng.OnProgress = func() { _ = bar.Add(1) }
	}

	diag, err := eng.Run(ctx, table.Listings, table.Attrs)
	if err != nil {
		return err
	}

	if out := viper.GetString("output.path"); out != "" {
		outPath := config.ExpandPath(out)
		if err := writeCatalog(outPath, table, cfg); err != nil {
			return common.NewUserError("could not write labeled catalog", err)
		}
		slog.Info("Labeled catalog written", "path", outPath)
	}

	if dbPath := viper.GetString("output.db"); dbPath != "" {
		if err := exportRun(cmd, table, dbPath); err != nil {
			return err
		}
	}

	if !quiet {
		fmt.Println()
		fmt.Print(cli.RenderSummary(diag, engine.LabelCounts(table.Listings)))
	}
	return nil
}

func exportRun(cmd *cobra.Command, table *catalog.Table, dbPath string) error {
	ctx := cmd.Context()
	store, err := storage.NewSQLiteStore(config.ExpandPath(dbPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			slog.Error("Failed to close database", "error", closeErr)
		}
	}()

	if err := store.Migrate(ctx); err != nil {
		return err
	}
	if err := store.SaveRun(ctx, table.Listings); err != nil {
		return fmt.Errorf("failed to export run: %w", err)
	}
	slog.Info("Run exported to database", "path", dbPath, "rows", len(table.Listings))
	return nil
}

func readCatalog(path string, cfg *config.Config) (*catalog.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return catalog.ReadXLSXFile(path, cfg.Columns)
	case ".csv", ".txt":
		return catalog.ReadCSVFile(path, cfg.Columns, cfg.CSV)
	default:
		return nil, fmt.Errorf("%w: %q", common.ErrUnsupportedInput, filepath.Ext(path))
	}
}

func writeCatalog(path string, t *catalog.Table, cfg *config.Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return catalog.WriteXLSXFile(path, t)
	default:
		return catalog.WriteCSVFile(path, t, cfg.CSV)
	}
}
