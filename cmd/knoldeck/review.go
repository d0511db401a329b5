package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/review"
	"github.com/conorfennell/knoldeck/internal/sampler"
	"github.com/conorfennell/knoldeck/internal/stats"
)

func newReviewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "review <topic>",
		Short: "Start an interactive review session for a topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topic, err := a.resolveTopic(args[0])
			if err != nil {
				return err
			}
			s := review.New(a.db, stats.New(a.db), sampler.NewSeeded(a.cfg.Sampler.Seed),
				review.WithParams(a.params()),
			)
			if err := s.Start(topic.ID); err != nil {
				return err
			}
			return runReview(s, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

// runReview drives a session from line-based input until the user quits
// or input ends. A failed judgment can simply be answered again.
func runReview(s *review.Session, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	readLine := func() (string, bool) {
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return "", false
		}
		return strings.ToLower(strings.TrimSpace(line)), true
	}

	reviewed := 0
	for {
		card, ok := s.Current()
		if !ok {
			fmt.Fprintln(out, "No cards available for this topic.")
			return nil
		}

		if !s.Revealed() {
			fmt.Fprintf(out, "\nQuestion: %s\n", card.Question)
			fmt.Fprint(out, "Press Enter to reveal the answer (q to quit): ")
			line, ok := readLine()
			if !ok || line == "q" {
				break
			}
			if err := s.RevealAnswer(); err != nil {
				return err
			}
		}
		fmt.Fprintf(out, "Answer: %s\n", card.Answer)

		fmt.Fprint(out, "Did you know it? [y/n, q to quit]: ")
		line, ok := readLine()
		if !ok || line == "q" {
			break
		}
		if line != "y" && line != "n" {
			fmt.Fprintln(out, "Please answer y or n.")
			continue
		}
		if err := s.Judge(line == "y"); err != nil {
			fmt.Fprintf(out, "Could not save your answer: %v\n", err)
			continue
		}
		reviewed++
	}

	fmt.Fprintf(out, "\nReviewed %d cards.\n", reviewed)
	return nil
}
