package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/five82/stockboard/internal/inventory"
	"github.com/five82/stockboard/internal/locale"
	"github.com/five82/stockboard/internal/prefs"
)

// PrintOnce fetches the dataset once and writes it as a table to w. When the
// fetch fails the fallback dataset is printed instead and the error goes to
// errw. Without a fallback the fetch error is returned.
func PrintOnce(ctx context.Context, opts Options, w, errw io.Writer) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		fmt.Fprintf(errw, "stockboard: %v (using default prefs)\n", err)
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	snap, fetchErr := client.Fetch(ctx)
	if fetchErr != nil {
		fallback, err := cfg.Fallback()
		if err != nil {
			return err
		}
		if fallback == nil {
			return fmt.Errorf("fetch inventory: %w", fetchErr)
		}
		fmt.Fprintf(errw, "stockboard: %v\n", fetchErr)
		snap = *fallback
	}

	return writeTable(w, snap, userPrefs.VisibleProducts(snap.Products))
}

func writeTable(w io.Writer, snap inventory.Snapshot, products []string) error {
	fmt.Fprintf(w, "%s: %s\n", locale.Text(locale.LastUpdated), snap.LastUpdated)

	header := []any{locale.Text(locale.StoreName)}
	for _, p := range products {
		header = append(header, strings.Join(strings.Fields(p), " "))
	}

	table := tablewriter.NewWriter(w)
	table.Header(header...)
	for _, store := range snap.Stores {
		row := []string{store.Name}
		for _, p := range products {
			st, ok := store.StatusOf(p)
			if !ok {
				row = append(row, "-")
				continue
			}
			row = append(row, locale.StatusLabel(st))
		}
		if err := table.Append(row); err != nil {
			return fmt.Errorf("render table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}
