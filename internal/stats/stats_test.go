package stats

import (
	"errors"
	"testing"
	"time"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/storage"
	"github.com/conorfennell/knoldeck/internal/weight"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAggregator(t *testing.T) (*Aggregator, *storage.DB) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func TestRecordOutcome(t *testing.T) {
	agg, db := newAggregator(t)
	day1 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, agg.RecordOutcome(day1, true))
	stat, err := db.GetDailyStat(day1)
	require.NoError(t, err)
	require.NotNil(t, stat)
	assert.Equal(t, 1, stat.CorrectCount)
	assert.Equal(t, 0, stat.IncorrectCount)

	// Later the same day.
	require.NoError(t, agg.RecordOutcome(day1.Add(10*time.Hour), false))
	stat, err = db.GetDailyStat(day1)
	require.NoError(t, err)
	assert.Equal(t, 1, stat.CorrectCount)
	assert.Equal(t, 1, stat.IncorrectCount)

	require.NoError(t, agg.RecordOutcome(day1.AddDate(0, 0, 1), false))
	days, err := agg.List()
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, 0, days[0].CorrectCount)
	assert.Equal(t, 1, days[0].IncorrectCount)
}

func TestResetAllWeights(t *testing.T) {
	agg, db := newAggregator(t)
	topic, err := db.CreateTopic("T")
	require.NoError(t, err)
	card, err := db.CreateCard(topic.ID, "Q", "A")
	require.NoError(t, err)
	require.NoError(t, db.SetCardWeight(card.ID, 0.91))
	require.NoError(t, agg.RecordOutcome(time.Now(), false))

	require.NoError(t, agg.ResetAllWeights())
	require.NoError(t, agg.ResetAllWeights())

	w, err := db.GetCardWeight(card.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.5, w)

	days, err := agg.List()
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].IncorrectCount)
}

func TestRecordJudgment(t *testing.T) {
	agg, db := newAggregator(t)
	topic, err := db.CreateTopic("T")
	require.NoError(t, err)
	heavy, err := db.CreateCard(topic.ID, "Q1", "A1")
	require.NoError(t, err)
	light, err := db.CreateCard(topic.ID, "Q2", "A2")
	require.NoError(t, err)

	day := time.Date(2024, 1, 10, 21, 30, 0, 0, time.UTC)
	next, err := agg.RecordJudgment(heavy.ID, weight.DefaultParams(), day, false)
	require.NoError(t, err)
	assert.InDelta(t, 0.65, next, 1e-9)
	next, err = agg.RecordJudgment(light.ID, weight.DefaultParams(), day, true)
	require.NoError(t, err)
	assert.InDelta(t, 0.35, next, 1e-9)

	days, err := agg.List()
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 1, days[0].CorrectCount)
	assert.Equal(t, 1, days[0].IncorrectCount)

	cards, err := agg.CardsByWeight()
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, heavy.ID, cards[0].ID)
	assert.Equal(t, light.ID, cards[1].ID)

	_, err = agg.RecordJudgment(999, weight.DefaultParams(), day, true)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSummarize(t *testing.T) {
	testCases := []struct {
		name     string
		days     []domain.DailyStat
		expected Summary
	}{
		{name: "No days", expected: Summary{}},
		{
			name: "Several days",
			days: []domain.DailyStat{
				{CorrectCount: 3, IncorrectCount: 1},
				{CorrectCount: 0, IncorrectCount: 4},
			},
			expected: Summary{Days: 2, Correct: 3, Incorrect: 5, Accuracy: 0.375},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, summarize(tc.days))
		})
	}
}

type failingStore struct{}

var errUnavailable = errors.New("store unavailable")

func (failingStore) UpsertDailyStat(time.Time, int, int) error {
	return errUnavailable
}

func (failingStore) ListDailyStats() ([]domain.DailyStat, error) {
	return nil, errUnavailable
}

func (failingStore) ResetAllCardWeights() (int64, error) {
	return 0, errUnavailable
}

func (failingStore) ListCardsByWeight() ([]domain.Card, error) {
	return nil, errUnavailable
}

func (failingStore) JudgeCard(int64, *weight.Params, time.Time, bool) (float64, error) {
	return 0, errUnavailable
}

func TestStorageErrorsPropagate(t *testing.T) {
	agg := New(failingStore{})
	assert.ErrorIs(t, agg.RecordOutcome(time.Now(), true), errUnavailable)
	assert.ErrorIs(t, agg.ResetAllWeights(), errUnavailable)
	_, err := agg.RecordJudgment(1, weight.DefaultParams(), time.Now(), true)
	assert.ErrorIs(t, err, errUnavailable)
	_, err = agg.CardsByWeight()
	assert.ErrorIs(t, err, errUnavailable)
	_, err = agg.Summarize()
	assert.ErrorIs(t, err, errUnavailable)
}
