package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/domain"
)

func newCardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Manage cards",
	}

	var question, answer string
	add := &cobra.Command{
		Use:   "add <topic>",
		Short: "Add a card to a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := a.resolveTopic(args[0])
			if err != nil {
				return err
			}
			card := domain.Card{TopicID: topic.ID, Question: question, Answer: answer}
			if err := validator.New().Struct(card); err != nil {
				return fmt.Errorf("invalid card: %w", err)
			}
			card, err = a.db.CreateCard(topic.ID, card.Question, card.Answer)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added card %d to %q\n", card.ID, topic.Name)
			return nil
		},
	}
	add.Flags().StringVarP(&question, "question", "q", "", "Question text")
	add.Flags().StringVarP(&answer, "answer", "a", "", "Answer text")

	list := &cobra.Command{
		Use:   "list <topic>",
		Short: "List the cards of a topic with their weights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := a.resolveTopic(args[0])
			if err != nil {
				return err
			}
			cards, err := a.db.ListCards(topic.ID)
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No cards in this topic.")
				return nil
			}
			return printCards(cmd, cards)
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid card id %q", args[0])
			}
			if err := a.db.DeleteCard(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted card %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(add, list, del)
	return cmd
}

func printCards(cmd *cobra.Command, cards []domain.Card) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tWEIGHT\tQUESTION\tANSWER")
	for _, c := range cards {
		fmt.Fprintf(tw, "%d\t%.2f\t%s\t%s\n", c.ID, c.Weight, c.Question, c.Answer)
	}
	return tw.Flush()
}
