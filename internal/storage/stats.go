package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/conorfennell/knoldeck/internal/domain"
)

// GetDailyStat retrieves the counters of a day. It returns nil when nothing
// has been recorded for that day yet.
func (db *DB) GetDailyStat(day time.Time) (*domain.DailyStat, error) {
	s := domain.DailyStat{Date: domain.Day(day)}
	err := db.conn.QueryRow(`
		SELECT correct_count, incorrect_count
		FROM daily_stats WHERE date = ?
	`, domain.FormatDay(day)).Scan(&s.CorrectCount, &s.IncorrectCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // No record for that day
		}
		return nil, fmt.Errorf("failed to get stats for %s: %w", domain.FormatDay(day), err)
	}
	return &s, nil
}

// UpsertDailyStat adds the deltas to the day's counters, creating the row
// with the deltas as initial values if the day has no row yet. The insert
// and the increment are a single statement, so a partial update cannot occur.
func (db *DB) UpsertDailyStat(day time.Time, correctDelta, incorrectDelta int) error {
	return upsertDailyStat(db.conn, day, correctDelta, incorrectDelta)
}

func upsertDailyStat(ex execer, day time.Time, correctDelta, incorrectDelta int) error {
	if correctDelta < 0 || incorrectDelta < 0 {
		return fmt.Errorf("negative stat delta (%d, %d)", correctDelta, incorrectDelta)
	}
	_, err := ex.Exec(`
		INSERT INTO daily_stats (date, correct_count, incorrect_count)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			correct_count = correct_count + excluded.correct_count,
			incorrect_count = incorrect_count + excluded.incorrect_count
	`, domain.FormatDay(day), correctDelta, incorrectDelta)
	if err != nil {
		return fmt.Errorf("failed to upsert stats for %s: %w", domain.FormatDay(day), err)
	}
	return nil
}

// ListDailyStats retrieves all recorded days, most recent first.
func (db *DB) ListDailyStats() ([]domain.DailyStat, error) {
	rows, err := db.conn.Query(`
		SELECT date, correct_count, incorrect_count
		FROM daily_stats
		ORDER BY date DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list daily stats: %w", err)
	}
	defer rows.Close()

	var stats []domain.DailyStat
	for rows.Next() {
		var (
			s   domain.DailyStat
			day string
		)
		if err := rows.Scan(&day, &s.CorrectCount, &s.IncorrectCount); err != nil {
			return nil, fmt.Errorf("failed to scan daily stat row: %w", err)
		}
		if s.Date, err = domain.ParseDay(day); err != nil {
			return nil, fmt.Errorf("failed to parse stat date %q: %w", day, err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
