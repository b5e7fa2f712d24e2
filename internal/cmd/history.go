package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/diskreport/internal/config"
	"github.com/harrison/diskreport/internal/display"
	"github.com/harrison/diskreport/internal/history"
	"github.com/harrison/diskreport/internal/sizes"
)

// shortIDLength is how much of a run id the list shows; show accepts it
// as a prefix.
const shortIDLength = 8

// NewHistoryCommand creates the 'diskreport history' parent command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List and inspect earlier scans",
		Long: `Commands for viewing the run history.

Every successful scan is recorded in $DISKREPORT_HOME/history/runs.db
(default ~/.diskreport) unless history is disabled in the configuration
or the scan ran with --no-history.`,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .diskreport/config.yaml)")
	cmd.AddCommand(newHistoryListCommand())
	cmd.AddCommand(newHistoryShowCommand())

	return cmd
}

func newHistoryListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded scans, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			store, err := openHistoryForRead(cmd)
			if err != nil {
				return err
			}
			if store == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}
			defer store.Close()

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			printRunList(cmd.OutOrStdout(), runs)
			return nil
		},
	}

	cmd.Flags().Int("limit", 20, "Maximum number of runs to list (0 = all)")
	return cmd
}

func newHistoryShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one recorded scan",
		Long: `Show the summary of one recorded scan as Markdown, or as HTML with --html.
A unique prefix of the run id is enough.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asHTML, _ := cmd.Flags().GetBool("html")
			store, err := openHistoryForRead(cmd)
			if err != nil {
				return err
			}
			if store == nil {
				return fmt.Errorf("%w: %s", history.ErrNotFound, args[0])
			}
			defer store.Close()

			return showRun(cmd.Context(), cmd.OutOrStdout(), store, args[0], asHTML)
		},
	}

	cmd.Flags().Bool("html", false, "Render the summary as HTML")
	return cmd
}

// openHistoryForRead opens the configured history database. It returns a
// nil store when no database has been created yet.
func openHistoryForRead(cmd *cobra.Command) (*history.Store, error) {
	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbPath, err := cfg.ResolveHistoryDBPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get history database path: %w", err)
	}
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return store, nil
}

func printRunList(out io.Writer, runs []*history.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return
	}

	useColor := display.ColorEnabled(out)
	header := fmt.Sprintf("%-*s  %-16s  %8s  %12s  %-8s  %s", shortIDLength, "ID", "STARTED", "FILES", "SIZE", "LIMIT", "ROOT")
	if useColor {
		header = color.New(color.FgCyan).Sprint(header)
	}
	fmt.Fprintln(out, header)

	for _, r := range runs {
		id := r.ID
		if len(id) > shortIDLength {
			id = id[:shortIDLength]
		}
		fmt.Fprintf(out, "%-*s  %-16s  %8s  %12s  %-8s  %s\n",
			shortIDLength, id,
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			humanize.Comma(int64(r.Retained)),
			sizes.FormatBinary(r.GrandTotal),
			r.SizeLimit,
			r.Root,
		)
	}
}

func showRun(ctx context.Context, out io.Writer, store *history.Store, id string, asHTML bool) error {
	run, err := store.Get(ctx, id)
	if err != nil {
		return err
	}

	if asHTML {
		html, err := history.HTML(run)
		if err != nil {
			return err
		}
		fmt.Fprint(out, html)
		return nil
	}
	fmt.Fprint(out, history.Markdown(run))
	return nil
}
