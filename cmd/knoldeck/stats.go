package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/stats"
)

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show correct and incorrect answers per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			agg := stats.New(a.db)
			days, err := agg.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(days) == 0 {
				fmt.Fprintln(out, "No statistics yet.")
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "DATE\tCORRECT\tINCORRECT")
			for _, d := range days {
				fmt.Fprintf(tw, "%s\t%d\t%d\n", domain.FormatDay(d.Date), d.CorrectCount, d.IncorrectCount)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			summary, err := agg.Summarize()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%d days, %d correct, %d incorrect (%.0f%% accuracy)\n",
				summary.Days, summary.Correct, summary.Incorrect, summary.Accuracy*100)
			return nil
		},
	}
}

func newDebugCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "debug",
		Short: "List every card by weight, heaviest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := stats.New(a.db).CardsByWeight()
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cards yet.")
				return nil
			}
			return printCards(cmd, cards)
		},
	}
}

func newResetWeightsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-weights",
		Short: "Set every card back to the initial weight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := stats.New(a.db).ResetAllWeights(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All card weights reset to 0.5.")
			return nil
		},
	}
}
