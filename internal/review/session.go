package review

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/sampler"
	"github.com/conorfennell/knoldeck/internal/weight"
)

// ErrNoCard is returned by actions that need a card on screen when there is none.
var ErrNoCard = errors.New("no card is being shown")

// State is the position of a session in the review cycle.
type State int

const (
	AwaitingCard State = iota
	AnswerHidden
	AnswerRevealed
	NoCards // the topic has no cards; stays until a topic is started again
)

func (s State) String() string {
	switch s {
	case AwaitingCard:
		return "awaiting_card"
	case AnswerHidden:
		return "answer_hidden"
	case AnswerRevealed:
		return "answer_revealed"
	case NoCards:
		return "no_cards"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Store is the card persistence a session draws from.
type Store interface {
	ListCards(topicID int64) ([]domain.Card, error)
}

// Recorder applies a judgment to the stored card weight and the day's
// counters in one step, returning the new weight.
type Recorder interface {
	RecordJudgment(cardID int64, p *weight.Params, day time.Time, correct bool) (float64, error)
}

// Session drives one review loop over a single topic. Each Session owns
// its current card; sessions share nothing but the store.
type Session struct {
	store   Store
	stats   Recorder
	sampler *sampler.Sampler
	params  *weight.Params
	now     func() time.Time
	logger  *slog.Logger

	topicID int64
	state   State
	current domain.Card
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used to decide which day a judgment counts for.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithParams overrides the weight update parameters.
func WithParams(p *weight.Params) Option {
	return func(s *Session) { s.params = p }
}

// WithLogger sets the logger used for weight anomalies.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// New creates a session in the AwaitingCard state.
func New(store Store, stats Recorder, smp *sampler.Sampler, opts ...Option) *Session {
	s := &Session{
		store:   store,
		stats:   stats,
		sampler: smp,
		params:  weight.DefaultParams(),
		now:     time.Now,
		logger:  slog.Default(),
		state:   AwaitingCard,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start selects a topic and draws its first card.
func (s *Session) Start(topicID int64) error {
	s.topicID = topicID
	s.state = AwaitingCard
	s.current = domain.Card{}
	return s.draw()
}

// Next draws a new card for the current topic without judging the shown one.
func (s *Session) Next() error {
	return s.draw()
}

// draw fetches the topic's cards fresh, since weights change between draws.
func (s *Session) draw() error {
	cards, err := s.store.ListCards(s.topicID)
	if err != nil {
		s.state = AwaitingCard
		s.current = domain.Card{}
		return fmt.Errorf("failed to load cards for topic %d: %w", s.topicID, err)
	}

	byID := make(map[int64]domain.Card, len(cards))
	candidates := make([]sampler.Candidate, 0, len(cards))
	for _, c := range cards {
		if !s.params.InRange(c.Weight) {
			s.logger.Warn("Card weight out of range, clamping",
				"card_id", c.ID,
				"weight", c.Weight,
			)
			c.Weight = s.params.Clamp(c.Weight)
		}
		byID[c.ID] = c
		candidates = append(candidates, sampler.Candidate{ID: c.ID, Weight: c.Weight})
	}

	id, ok := s.sampler.PickOne(candidates)
	if !ok {
		s.state = NoCards
		s.current = domain.Card{}
		return nil
	}
	s.current = byID[id]
	s.state = AnswerHidden
	return nil
}

// TopicID returns the topic being reviewed.
func (s *Session) TopicID() int64 {
	return s.topicID
}

// State returns where the session is in the review cycle.
func (s *Session) State() State {
	return s.state
}

// Current returns the card on screen, if any.
func (s *Session) Current() (domain.Card, bool) {
	if s.state != AnswerHidden && s.state != AnswerRevealed {
		return domain.Card{}, false
	}
	return s.current, true
}

// Revealed reports whether the answer of the current card is visible.
func (s *Session) Revealed() bool {
	return s.state == AnswerRevealed
}

// RevealAnswer shows the answer of the current card. Weights and stats
// are not affected.
func (s *Session) RevealAnswer() error {
	if _, ok := s.Current(); !ok {
		return ErrNoCard
	}
	s.state = AnswerRevealed
	return nil
}

// Judge records whether the user knew the current card. The update starts
// from the card's stored weight, so changes made since the card was drawn
// (a reset, another session) are kept. The new weight and today's stats
// are persisted together before the next card is drawn. On a storage
// failure nothing is written and the current card is kept unchanged, so
// the same judgment can be submitted again.
func (s *Session) Judge(correct bool) error {
	card, ok := s.Current()
	if !ok {
		return ErrNoCard
	}

	next, err := s.stats.RecordJudgment(card.ID, s.params, s.now(), correct)
	if err != nil {
		return err
	}

	s.logger.Debug("Card judged",
		"card_id", card.ID,
		"correct", correct,
		"weight_after", next,
	)
	return s.draw()
}
