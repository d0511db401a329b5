package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// CreateTopic inserts a new topic and returns it. Names are unique; a taken
// name fails with ErrTopicExists.
func (db *DB) CreateTopic(name string) (domain.Topic, error) {
	var topic domain.Topic
	err := db.withTx(func(tx *sql.Tx) error {
		var existing int64
		err := tx.QueryRow(`SELECT id FROM topics WHERE name = ?`, name).Scan(&existing)
		if err == nil {
			return fmt.Errorf("topic %q: %w", name, ErrTopicExists)
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to check topic name %q: %w", name, err)
		}

		res, err := tx.Exec(`INSERT INTO topics (name) VALUES (?)`, name)
		if err != nil {
			return fmt.Errorf("failed to insert topic %q: %w", name, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get last insert ID for topic %q: %w", name, err)
		}
		topic = domain.Topic{ID: id, Name: name}
		return nil
	})
	return topic, err
}

// GetTopic retrieves a topic by ID.
func (db *DB) GetTopic(id int64) (domain.Topic, error) {
	var t domain.Topic
	err := db.conn.QueryRow(`SELECT id, name FROM topics WHERE id = ?`, id).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Topic{}, fmt.Errorf("topic %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Topic{}, fmt.Errorf("failed to get topic %d: %w", id, err)
	}
	return t, nil
}

// FindTopicByName retrieves a topic by its name.
func (db *DB) FindTopicByName(name string) (*domain.Topic, error) {
	var t domain.Topic
	err := db.conn.QueryRow(`SELECT id, name FROM topics WHERE name = ?`, name).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Topic not found
		}
		return nil, fmt.Errorf("failed to find topic by name %q: %w", name, err)
	}
	return &t, nil
}

// EnsureTopic returns the topic with the given name, creating it if needed.
func (db *DB) EnsureTopic(name string) (domain.Topic, error) {
	t, err := db.FindTopicByName(name)
	if err != nil {
		return domain.Topic{}, err
	}
	if t != nil {
		return *t, nil
	}
	return db.CreateTopic(name)
}

// ListTopics retrieves all topics ordered by name.
func (db *DB) ListTopics() ([]domain.Topic, error) {
	rows, err := db.conn.Query(`SELECT id, name FROM topics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list topics: %w", err)
	}
	defer rows.Close()

	var topics []domain.Topic
	for rows.Next() {
		var t domain.Topic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("failed to scan topic row: %w", err)
		}
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

// DeleteTopic removes a topic. It fails with ErrTopicInUse while any card
// still belongs to the topic; nothing is deleted in that case.
func (db *DB) DeleteTopic(id int64) error {
	return db.withTx(func(tx *sql.Tx) error {
		var cards int
		if err := tx.QueryRow(`SELECT COUNT(*) FROM cards WHERE topic_id = ?`, id).Scan(&cards); err != nil {
			return fmt.Errorf("failed to count cards for topic %d: %w", id, err)
		}
		if cards > 0 {
			return fmt.Errorf("cannot delete topic %d with %d cards: %w", id, cards, ErrTopicInUse)
		}

		res, err := tx.Exec(`DELETE FROM topics WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete topic %d: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("topic %d: %w", id, ErrNotFound)
		}
		return nil
	})
}
