package domain

import "time"

// Card represents a single question-answer entry owned by a topic.
type Card struct {
	ID       int64   `json:"id"`
	TopicID  int64   `json:"topic_id"`
	Question string  `json:"question" validate:"required"`
	Answer   string  `json:"answer" validate:"required"`
	Weight   float64 `json:"weight"`

	// Set only for cards imported from a deck source.
	Topic    string `json:"-"`
	Hash     string `json:"hash,omitempty"`
	SourceID int64  `json:"source_id,omitempty"`
}

// Topic is a named group of cards.
type Topic struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}

// DailyStat counts the judgments recorded on one calendar day.
type DailyStat struct {
	Date           time.Time `json:"date"`
	CorrectCount   int       `json:"correct_count"`
	IncorrectCount int       `json:"incorrect_count"`
}

// Total returns the number of judgments recorded that day.
func (s DailyStat) Total() int {
	return s.CorrectCount + s.IncorrectCount
}
