package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/knoldeck/internal/domain"
	"github.com/conorfennell/knoldeck/internal/weight"
)

const cardColumns = `id, topic_id, question, answer, weight, hash, source_id`

func scanCard(row rowScanner) (domain.Card, error) {
	var (
		c        domain.Card
		hash     sql.NullString
		sourceID sql.NullInt64
	)
	if err := row.Scan(&c.ID, &c.TopicID, &c.Question, &c.Answer, &c.Weight, &hash, &sourceID); err != nil {
		return domain.Card{}, err
	}
	c.Hash = hash.String
	c.SourceID = sourceID.Int64
	return c, nil
}

func (db *DB) queryCards(query string, args ...any) ([]domain.Card, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

// CreateCard inserts a new card into a topic with the initial weight.
func (db *DB) CreateCard(topicID int64, question, answer string) (domain.Card, error) {
	card := domain.Card{TopicID: topicID, Question: question, Answer: answer, Weight: weight.Initial}
	err := db.withTx(func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM topics WHERE id = ?`, topicID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check topic %d: %w", topicID, err)
		}
		if exists == 0 {
			return fmt.Errorf("topic %d: %w", topicID, ErrNotFound)
		}

		res, err := tx.Exec(`
			INSERT INTO cards (topic_id, question, answer, weight)
			VALUES (?, ?, ?, ?)
		`, topicID, question, answer, weight.Initial)
		if err != nil {
			return fmt.Errorf("failed to insert card: %w", err)
		}
		card.ID, err = res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID for card: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Card{}, err
	}
	return card, nil
}

// InsertImportedCard inserts a card parsed from a deck source.
// Its hash must be set; the weight starts at the initial value.
func (db *DB) InsertImportedCard(card domain.Card, topicID, sourceID int64) error {
	_, err := db.conn.Exec(`
		INSERT INTO cards (topic_id, question, answer, weight, hash, source_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		topicID,
		card.Question,
		card.Answer,
		weight.Initial,
		card.Hash,
		sourceID,
	)
	if err != nil {
		return fmt.Errorf("failed to insert card %s: %w", card.Hash, err)
	}
	return nil
}

// GetCard retrieves a card by ID.
func (db *DB) GetCard(id int64) (domain.Card, error) {
	c, err := scanCard(db.conn.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Card{}, fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Card{}, fmt.Errorf("failed to get card %d: %w", id, err)
	}
	return c, nil
}

// FindCardByHash retrieves an imported card by its content hash.
func (db *DB) FindCardByHash(hash string) (*domain.Card, error) {
	c, err := scanCard(db.conn.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE hash = ?`, hash))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Card not found
		}
		return nil, fmt.Errorf("failed to find card by hash %s: %w", hash, err)
	}
	return &c, nil
}

// ListCards retrieves every card of a topic, in insertion order.
func (db *DB) ListCards(topicID int64) ([]domain.Card, error) {
	cards, err := db.queryCards(`SELECT `+cardColumns+` FROM cards WHERE topic_id = ? ORDER BY id`, topicID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards for topic %d: %w", topicID, err)
	}
	return cards, nil
}

// ListCardsByWeight retrieves all cards, heaviest first.
func (db *DB) ListCardsByWeight() ([]domain.Card, error) {
	cards, err := db.queryCards(`SELECT ` + cardColumns + ` FROM cards ORDER BY weight DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards by weight: %w", err)
	}
	return cards, nil
}

// GetCardsBySourceID retrieves all cards imported from a specific source.
func (db *DB) GetCardsBySourceID(sourceID int64) ([]domain.Card, error) {
	cards, err := db.queryCards(`SELECT `+cardColumns+` FROM cards WHERE source_id = ?`, sourceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cards for source ID %d: %w", sourceID, err)
	}
	return cards, nil
}

// GetCardWeight retrieves the stored weight of a card.
func (db *DB) GetCardWeight(id int64) (float64, error) {
	var w float64
	err := db.conn.QueryRow(`SELECT weight FROM cards WHERE id = ?`, id).Scan(&w)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get weight for card %d: %w", id, err)
	}
	return w, nil
}

// SetCardWeight stores a new weight for a card.
func (db *DB) SetCardWeight(id int64, w float64) error {
	if !weight.DefaultParams().InRange(w) {
		return fmt.Errorf("card %d weight %v: %w", id, w, ErrWeightOutOfRange)
	}
	res, err := db.conn.Exec(`UPDATE cards SET weight = ? WHERE id = ?`, w, id)
	if err != nil {
		return fmt.Errorf("failed to update weight for card %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	return nil
}

// JudgeCard applies one judgment to a card. The stored weight is read,
// clamped into range and updated by p, and the day's counters are
// incremented. Both writes commit together or not at all, so a failed
// judgment can be replayed. It returns the new weight.
func (db *DB) JudgeCard(id int64, p *weight.Params, day time.Time, correct bool) (float64, error) {
	var next float64
	err := db.withTx(func(tx *sql.Tx) error {
		var current float64
		err := tx.QueryRow(`SELECT weight FROM cards WHERE id = ?`, id).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("card %d: %w", id, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to get weight for card %d: %w", id, err)
		}

		next = p.Update(p.Clamp(current), correct)
		if _, err := tx.Exec(`UPDATE cards SET weight = ? WHERE id = ?`, next, id); err != nil {
			return fmt.Errorf("failed to update weight for card %d: %w", id, err)
		}

		correctDelta, incorrectDelta := 0, 1
		if correct {
			correctDelta, incorrectDelta = 1, 0
		}
		return upsertDailyStat(tx, day, correctDelta, incorrectDelta)
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

// ResetAllCardWeights sets every card back to the initial weight and
// returns the number of cards touched.
func (db *DB) ResetAllCardWeights() (int64, error) {
	res, err := db.conn.Exec(`UPDATE cards SET weight = ?`, weight.Initial)
	if err != nil {
		return 0, fmt.Errorf("failed to reset card weights: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// DeleteCard removes a card by ID.
func (db *DB) DeleteCard(id int64) error {
	res, err := db.conn.Exec(`DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card %d: %w", id, ErrNotFound)
	}
	return nil
}

// DeleteCardByHash removes an imported card by its hash.
func (db *DB) DeleteCardByHash(hash string) error {
	_, err := db.conn.Exec(`
		DELETE FROM cards
		WHERE hash = ?
	`, hash)
	if err != nil {
		return fmt.Errorf("failed to delete card with hash %s: %w", hash, err)
	}
	return nil
}
