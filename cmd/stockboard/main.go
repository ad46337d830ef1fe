package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/five82/stockboard/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "stockboard: %v\n", err)
		return 1
	}
	return 0
}

type flags struct {
	configPath  string
	prefsPath   string
	sourceURL   string
	pollSeconds int
}

func (f flags) options() app.Options {
	opts := app.Options{
		ConfigPath: f.configPath,
		PrefsPath:  f.prefsPath,
		SourceURL:  f.sourceURL,
	}
	if f.pollSeconds > 0 {
		opts.Poll = time.Duration(f.pollSeconds) * time.Second
	}
	return opts
}

func newRootCmd() *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "stockboard",
		Short:         "Terminal dashboard for collaboration goods stock",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), f.options())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "override config path (optional)")
	pf.StringVar(&f.prefsPath, "prefs", "", "override preferences path (optional)")
	pf.StringVar(&f.sourceURL, "source", "", "inventory JSON URL (optional)")
	root.Flags().IntVar(&f.pollSeconds, "poll", 0, "refresh interval in seconds (optional, defaults to 30s)")

	root.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Fetch once and print the stock table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.PrintOnce(cmd.Context(), f.options(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stockboard %s\n", app.Version)
		},
	})

	return root
}
