package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/sync"
)

func (a *app) syncer(cmd *cobra.Command) *sync.Syncer {
	return sync.New(a.db, a.cfg.Repos.Dir, cmd.ErrOrStderr())
}

func newSourceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "source",
		Short: "Manage markdown deck sources",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <path/or/url.git>",
			Short: "Add a local directory or git repository of decks",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := a.syncer(cmd).AddSource(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added source %d. Run 'knoldeck sync' to import it.\n", id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List deck sources",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				sources, err := a.db.GetAllSources()
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tTYPE\tPATH\tLAST SCANNED")
				for _, s := range sources {
					scanned := "never"
					if s.LastScanned.Valid {
						scanned = s.LastScanned.Time.Format("2006-01-02 15:04")
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", s.ID, s.Type, s.Path, scanned)
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Import cards from every deck source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.syncer(cmd).RunSync()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Found %d cards, %d new, %d removed, %d errors.\n",
				report.Parsed, report.Inserted, report.Orphaned, len(report.Errors))
			if len(report.Errors) > 0 {
				fmt.Fprintln(out, "\nErrors:")
				for _, e := range report.Errors {
					fmt.Fprintf(out, "- %s\n", e)
				}
			}
			return nil
		},
	}
}
