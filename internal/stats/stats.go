package stats

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/weight"
)

// Store is the persistence the aggregator needs.
type Store interface {
	UpsertDailyStat(day time.Time, correctDelta, incorrectDelta int) error
	ListDailyStats() ([]domain.DailyStat, error)
	ResetAllCardWeights() (int64, error)
	JudgeCard(id int64, p *weight.Params, day time.Time, correct bool) (float64, error)
	ListCardsByWeight() ([]domain.Card, error)
}

// Aggregator keeps one correct/incorrect counter pair per calendar day.
type Aggregator struct {
	store Store
}

// New creates an Aggregator over store.
func New(store Store) *Aggregator {
	return &Aggregator{store: store}
}

// RecordOutcome counts one judgment on day. The first judgment of a day
// creates its record; later ones increment exactly one counter.
func (a *Aggregator) RecordOutcome(day time.Time, correct bool) error {
	correctDelta, incorrectDelta := 0, 1
	if correct {
		correctDelta, incorrectDelta = 1, 0
	}
	if err := a.store.UpsertDailyStat(domain.Day(day), correctDelta, incorrectDelta); err != nil {
		return fmt.Errorf("failed to record outcome: %w", err)
	}
	return nil
}

// RecordJudgment counts one judgment on day and moves the card's stored
// weight by p, as a single store transaction. It returns the new weight.
func (a *Aggregator) RecordJudgment(cardID int64, p *weight.Params, day time.Time, correct bool) (float64, error) {
	next, err := a.store.JudgeCard(cardID, p, domain.Day(day), correct)
	if err != nil {
		return 0, fmt.Errorf("failed to record judgment for card %d: %w", cardID, err)
	}
	return next, nil
}

// ResetAllWeights puts every card back to the initial weight. Daily stats
// are left untouched.
func (a *Aggregator) ResetAllWeights() error {
	n, err := a.store.ResetAllCardWeights()
	if err != nil {
		return err
	}
	slog.Info("Card weights reset", "cards", n)
	return nil
}

// List returns every recorded day, most recent first.
func (a *Aggregator) List() ([]domain.DailyStat, error) {
	return a.store.ListDailyStats()
}

// CardsByWeight lists every card, heaviest first.
func (a *Aggregator) CardsByWeight() ([]domain.Card, error) {
	return a.store.ListCardsByWeight()
}

// Summary totals the judgments across all recorded days.
type Summary struct {
	Days      int     `json:"days"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Accuracy  float64 `json:"accuracy"` // correct / total, 0 when nothing was recorded
}

// Summarize computes the Summary of the recorded days.
func (a *Aggregator) Summarize() (Summary, error) {
	days, err := a.store.ListDailyStats()
	if err != nil {
		return Summary{}, err
	}
	return summarize(days), nil
}

func summarize(days []domain.DailyStat) Summary {
	s := Summary{Days: len(days)}
	for _, d := range days {
		s.Correct += d.CorrectCount
		s.Incorrect += d.IncorrectCount
	}
	if total := s.Correct + s.Incorrect; total > 0 {
		s.Accuracy = float64(s.Correct) / float64(total)
	}
	return s
}
