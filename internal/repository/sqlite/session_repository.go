package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

type sessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new SessionRepository implementation
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Get(ctx context.Context, profileID int64) (*models.DailySession, error) {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("getting session: profile_id=%d", profileID)

	var (
		s                           models.DailySession
		words, queue, firstAnswered string
	)
	err := r.db.QueryRowContext(ctx, `
SELECT profile_id, session_date, quota, words, queue, first_answered, correct_count, wrong_count, updated_at
FROM daily_sessions
WHERE profile_id = ?
`, profileID).Scan(&s.ProfileID, &s.Date, &s.Quota, &words, &queue, &firstAnswered, &s.CorrectCount, &s.WrongCount, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("session not found: profile_id=%d", profileID)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, err
	}

	s.Words = []string{}
	s.Queue = []string{}
	s.FirstAnswered = map[string]bool{}
	if err := decodeJSON(words, &s.Words); err != nil {
		log.Error("failed to decode session words: %v", err)
		return nil, err
	}
	if err := decodeJSON(queue, &s.Queue); err != nil {
		log.Error("failed to decode session queue: %v", err)
		return nil, err
	}
	if err := decodeJSON(firstAnswered, &s.FirstAnswered); err != nil {
		log.Error("failed to decode session answers: %v", err)
		return nil, err
	}

	log.Debug("session found: date=%s, remaining=%d", s.Date, len(s.Queue))
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, s models.DailySession) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("saving session: profile_id=%d, date=%s, remaining=%d", s.ProfileID, s.Date, len(s.Queue))

	words, err := encodeJSON(nonNil(s.Words))
	if err != nil {
		return err
	}
	queue, err := encodeJSON(nonNil(s.Queue))
	if err != nil {
		return err
	}
	if s.FirstAnswered == nil {
		s.FirstAnswered = map[string]bool{}
	}
	firstAnswered, err := encodeJSON(s.FirstAnswered)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO daily_sessions (profile_id, session_date, quota, words, queue, first_answered, correct_count, wrong_count, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(profile_id) DO UPDATE SET
    session_date = excluded.session_date,
    quota = excluded.quota,
    words = excluded.words,
    queue = excluded.queue,
    first_answered = excluded.first_answered,
    correct_count = excluded.correct_count,
    wrong_count = excluded.wrong_count,
    updated_at = excluded.updated_at
`, s.ProfileID, string(s.Date), s.Quota, words, queue, firstAnswered, s.CorrectCount, s.WrongCount)
	if err != nil {
		log.Error("failed to save session: %v", err)
	}
	return err
}

func (r *sessionRepository) Delete(ctx context.Context, profileID int64) error {
	log := logger.FromContext(ctx).WithPrefix("session_repo")
	log.Debug("deleting session: profile_id=%d", profileID)

	_, err := r.db.ExecContext(ctx, `DELETE FROM daily_sessions WHERE profile_id = ?`, profileID)
	if err != nil {
		log.Error("failed to delete session: %v", err)
	}
	return err
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
