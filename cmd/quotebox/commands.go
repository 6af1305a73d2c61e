package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/quotebox/internal/adapters/mcptools"
	"github.com/jsamuelsen/quotebox/internal/adapters/tui"
	"github.com/jsamuelsen/quotebox/internal/domain"
)

// errSyncDisabled is returned by sync when sync.enabled is false.
var errSyncDisabled = errors.New("sync is disabled in the configuration")

// withWiring loads the configuration, wires the application with logs on
// logOut, and runs fn. Resources are released when fn returns.
func withWiring(cmd *cobra.Command, opts *rootOptions, logOut io.Writer, fn func(context.Context, *wiring) error) error {
	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	w, err := wire(ctx, cfg, logOut)
	defer func() { _ = w.close(context.WithoutCancel(ctx)) }()

	if err != nil {
		return err
	}

	return fn(ctx, w)
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal widget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The widget owns the terminal; only the log file, if any, gets logs.
			return withWiring(cmd, opts, io.Discard, func(ctx context.Context, w *wiring) error {
				return tui.Run(ctx, tui.Config{
					Quotes:       w.quotes,
					Syncer:       w.syncer(),
					SyncInterval: w.cfg.Sync.Interval,
				})
			})
		},
	}
}

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the quote tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWiring(cmd, opts, cmd.ErrOrStderr(), func(ctx context.Context, w *wiring) error {
				s := mcptools.NewServer(mcptools.Deps{
					Quotes:  w.quotes,
					Sync:    w.sync,
					Version: Version,
				})

				return mcptools.Serve(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}

func newRandomCmd(opts *rootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "random",
		Short: "Print a random quote from the selected category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWiring(cmd, opts, cmd.ErrOrStderr(), func(ctx context.Context, w *wiring) error {
				quote, err := w.quotes.FilterQuotes(ctx, cliSession, category)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), quote.Render())

				return err
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", `select this category first ("all" for every quote)`)

	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text> <category>",
		Short: "Append a quote to the list",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWiring(cmd, opts, cmd.ErrOrStderr(), func(ctx context.Context, w *wiring) error {
				result, err := w.quotes.AddQuote(ctx, cliSession, args[0], args[1])
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Added. %d quotes.\n", result.Total)

				return err
			})
		},
	}
}

func newCategoriesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories; the selected one is starred",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWiring(cmd, opts, cmd.ErrOrStderr(), func(ctx context.Context, w *wiring) error {
				view, err := w.quotes.Categories(ctx)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()

				for _, c := range view.Categories {
					mark := " "
					if c == view.Selected {
						mark = "*"
					}

					if _, err := fmt.Fprintf(out, "%s %s\n", mark, c); err != nil {
						return err
					}
				}

				return nil
			})
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the list as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWiring(cmd, opts, cmd.ErrOrStderr(), func(ctx context.Context, w *wiring) error {
				if output == "-" {
					return w.quotes.ExportJSON(ctx, cmd.OutOrStdout())
				}

				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("creating %s: %w", output, err)
				}

				err = w.quotes.ExportJSON(ctx, f)
				if closeErr := f.Close(); err == nil {
					err = closeErr
				}

				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", output)

				return err
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", domain.ExportFileName, `output file, "-" for stdout`)

	return cmd
}

func newImportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Append the quotes of a JSON file to the list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withWiring(cmd, opts, cmd.ErrOrStderr(), func(ctx context.Context, w *wiring) error {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening %s: %w", args[0], err)
				}
				defer f.Close()

				n, err := w.quotes.ImportJSON(ctx, f)
				if err != nil {
					return err
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", domain.ImportedMessage, n)

				return err
			})
		},
	}
}

func newSyncCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the list with the remote endpoint once",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withWiring(cmd, opts, cmd.ErrOrStderr(), func(ctx context.Context, w *wiring) error {
				if w.sync == nil {
					return errSyncDisabled
				}

				status, err := w.sync.Sync(ctx)
				if err != nil {
					return fmt.Errorf("%s: %w", status.Message, err)
				}

				_, err = fmt.Fprintln(cmd.OutOrStdout(), status.Message)

				return err
			})
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "quotebox version %s (commit: %s, built: %s)\n", Version, Commit, BuildTime)
		},
	}
}
