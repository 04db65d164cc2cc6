package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fjelltopp/pjnz-go/internal/config"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/models"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/output"
	"github.com/fjelltopp/pjnz-go/pkg/pjnz/spectrum"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newBuildCmd() *cobra.Command {
	var indicators []string

	cmd := &cobra.Command{
		Use:   "build [archive.PJNZ]...",
		Short: "Build indicator tables from PJNZ archives",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(cmd.Context(), cmd, args, indicators)
		},
	}

	cmd.Flags().StringSliceVarP(&indicators, "indicator", "i", nil, "Indicators to build (default: all)")
	cmd.Flags().String("schemas-dir", "", "Directory holding the indicator schemas")
	cmd.Flags().StringP("output-dir", "o", "", "Directory for output files")
	cmd.Flags().StringP("format", "f", "", "Output format: csv, json, xlsx, sqlite")
	cmd.Flags().IntP("workers", "j", 0, "Archives processed concurrently")
	cmd.Flags().String("rscript", "", "Rscript executable used for model data")

	return cmd
}

func runBuild(ctx context.Context, cmd *cobra.Command, archives, names []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	format, err := cfg.Format()
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	if len(names) == 0 {
		names = registry.Names()
	}

	// Schemas are shared read-only by every archive.
	schemas := make(map[string]*spectrum.Schema, len(names))
	for _, name := range names {
		ind, ok := registry.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", spectrum.ErrUnknownIndicator, name)
		}
		schema, err := spectrum.LoadSchema(filepath.Join(cfg.SchemasDir, ind.Schema))
		if err != nil {
			return fmt.Errorf("indicator %s: %w", name, err)
		}
		schemas[name] = schema
	}

	for _, path := range archives {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", path)
		}
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for _, path := range archives {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			written, err := buildArchive(ctx, cfg, registry, schemas, names, path, format)
			if err != nil {
				return fmt.Errorf("%s: %w", filepath.Base(path), err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, p := range written {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		})
	}
	return g.Wait()
}

// buildArchive builds the named indicators from one archive and writes
// them to the output directory. Each call owns its file handle.
func buildArchive(ctx context.Context, cfg *config.Config, registry *spectrum.Registry, schemas map[string]*spectrum.Schema, names []string, path string, format output.Format) ([]string, error) {
	opts := cfg.FileOptions()
	opts.ModelData = cfg.SpecioService()
	opts.Logger = logger

	f, err := pjnz.Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tables := make(map[string]*models.Table, len(names))
	for _, name := range names {
		table, err := registry.Build(name, f, schemas[name])
		if err != nil {
			return nil, err
		}
		f.Logger().Info("indicator built", "indicator", name, "rows", table.NumRows(), "columns", table.NumCols())
		tables[name] = table
	}

	return output.WriteAll(ctx, cfg.OutputDir, f.Stem(), format, tables)
}
