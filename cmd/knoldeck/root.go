package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/conorfennell/knoldeck/internal/config"
	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/storage"
	"github.com/conorfennell/knoldeck/internal/weight"
)

// app carries what every command needs once flags are parsed.
type app struct {
	cfg *config.Config
	db  *storage.DB
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "knoldeck",
		Short: "A flashcard trainer that shows the cards you miss more often",
		Long: `knoldeck keeps question/answer cards grouped by topic and picks the next
card at random, weighted towards the ones you got wrong.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := config.Load(path, cmd.Flags())
			if err != nil {
				return err
			}
			slog.SetDefault(cfg.Logger())

			db, err := storage.Open(cfg.DB.Path)
			if err != nil {
				return err
			}
			slog.Debug("Database opened", "path", cfg.DB.Path)
			a.cfg, a.db = cfg, db
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.db == nil {
				return nil
			}
			return a.db.Close()
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(
		newReviewCmd(a),
		newTopicCmd(a),
		newCardCmd(a),
		newStatsCmd(a),
		newDebugCmd(a),
		newResetWeightsCmd(a),
		newSourceCmd(a),
		newSyncCmd(a),
		newServeCmd(a),
	)
	return root
}

// params builds the weight update rule from the configured factors.
func (a *app) params() *weight.Params {
	p := weight.DefaultParams()
	p.Decay = a.cfg.Weight.Decay
	p.Boost = a.cfg.Weight.Boost
	return p
}

// resolveTopic accepts a topic name or numeric ID.
func (a *app) resolveTopic(ref string) (domain.Topic, error) {
	t, err := a.db.FindTopicByName(ref)
	if err != nil {
		return domain.Topic{}, err
	}
	if t != nil {
		return *t, nil
	}
	id, err := strconv.ParseInt(ref, 10, 64)
	if err != nil {
		return domain.Topic{}, fmt.Errorf("topic %q: %w", ref, storage.ErrNotFound)
	}
	return a.db.GetTopic(id)
}
