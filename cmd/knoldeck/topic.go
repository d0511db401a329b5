package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTopicCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Manage topics",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a topic",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.db.CreateTopic(args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added topic %q (id %d)\n", t.Name, t.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List topics",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				topics, err := a.db.ListTopics()
				if err != nil {
					return err
				}
				if len(topics) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No topics yet. Add one with 'knoldeck topic add <name>'.")
					return nil
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME")
				for _, t := range topics {
					fmt.Fprintf(tw, "%d\t%s\n", t.ID, t.Name)
				}
				return tw.Flush()
			},
		},
		&cobra.Command{
			Use:   "delete <name|id>",
			Short: "Delete a topic that has no cards",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := a.resolveTopic(args[0])
				if err != nil {
					return err
				}
				if err := a.db.DeleteTopic(t.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted topic %q\n", t.Name)
				return nil
			},
		},
	)
	return cmd
}
