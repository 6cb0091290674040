package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
)

var cardColumns = []string{
	"id", "profile_id", "word", "phonetic", "pos", "definition", "example", "example_cn",
	"level", "correct_streak", "next_review_date", "total_reviews", "last_reviewed_at", "mastered", "created_at",
}

type cardRepository struct {
	db *sql.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sql.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (models.Card, error) {
	var (
		c            models.Card
		lastReviewed sql.NullTime
	)
	err := row.Scan(&c.ID, &c.ProfileID, &c.Word, &c.Phonetic, &c.POS, &c.Definition, &c.Example, &c.ExampleCN,
		&c.Level, &c.CorrectStreak, &c.NextReviewDate, &c.TotalReviews, &lastReviewed, &c.Mastered, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time
		c.LastReviewedAt = &t
	}
	return c, nil
}

func (r *cardRepository) Get(ctx context.Context, profileID int64, word string) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: profile_id=%d, word=%s", profileID, word)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.Eq{"profile_id": profileID, "word": word}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	c, err := scanCard(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: profile_id=%d, word=%s", profileID, word)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func (r *cardRepository) ListAll(ctx context.Context, profileID int64) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing all cards: profile_id=%d", profileID)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").
		Where(squirrel.Eq{"profile_id": profileID}).
		OrderBy("id ASC").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	return r.query(ctx, log, query, args)
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards with filter: profile_id=%d, status=%s, q=%s", filter.ProfileID, filter.Status, filter.Query)

	query := applyCardFilter(sqlBuilder.Select(cardColumns...).From("cards"), filter)

	// Safe ORDER BY with validation
	orderBy := "created_at"
	switch filter.OrderBy {
	case "word", "next_review_date", "created_at":
		orderBy = filter.OrderBy
	}
	orderDir := "DESC"
	if strings.EqualFold(filter.OrderDir, "ASC") {
		orderDir = "ASC"
	}
	query = query.OrderBy(orderBy+" "+orderDir, "id "+orderDir)

	// Pagination
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query = query.Limit(uint64(limit)).Offset(uint64(offset))

	stmt, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	return r.query(ctx, log, stmt, args)
}

func (r *cardRepository) Count(ctx context.Context, filter models.CardFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("counting cards with filter: profile_id=%d, status=%s, q=%s", filter.ProfileID, filter.Status, filter.Query)

	stmt, args, err := applyCardFilter(sqlBuilder.Select("COUNT(*)").From("cards"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, stmt, args...).Scan(&count); err != nil {
		log.Error("failed to count cards: %v", err)
		return 0, err
	}
	log.Debug("card count: %d", count)
	return count, nil
}

func applyCardFilter(query squirrel.SelectBuilder, filter models.CardFilter) squirrel.SelectBuilder {
	if filter.ProfileID != 0 {
		query = query.Where(squirrel.Eq{"profile_id": filter.ProfileID})
	}
	switch filter.Status {
	case models.CardStatusNew:
		query = query.Where(squirrel.Eq{"mastered": false, "next_review_date": nil})
	case models.CardStatusLearning:
		query = query.Where(squirrel.Eq{"mastered": false}).Where(squirrel.NotEq{"next_review_date": nil})
	case models.CardStatusDue:
		query = query.Where(squirrel.Eq{"mastered": false}).
			Where(squirrel.NotEq{"next_review_date": nil}).
			Where(squirrel.LtOrEq{"next_review_date": string(filter.Today)})
	case models.CardStatusMastered:
		query = query.Where(squirrel.Eq{"mastered": true})
	}
	if q := strings.ToLower(strings.TrimSpace(filter.Query)); q != "" {
		query = query.Where(squirrel.Expr(`word LIKE ? ESCAPE '\'`, escapeLike(q)+"%"))
	}
	return query
}

func (r *cardRepository) query(ctx context.Context, log *logger.Logger, stmt string, args []any) ([]models.Card, error) {
	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row: %v", err)
			return nil, err
		}
		cards = append(cards, c)
	}
	log.Debug("found %d cards", len(cards))
	return cards, rows.Err()
}

func (r *cardRepository) Insert(ctx context.Context, card models.Card) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: profile_id=%d, word=%s", card.ProfileID, card.Word)

	res, err := r.db.ExecContext(ctx, `
INSERT INTO cards (profile_id, word, phonetic, pos, definition, example, example_cn,
                   level, correct_streak, next_review_date, total_reviews, last_reviewed_at, mastered)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`, card.ProfileID, card.Word, card.Phonetic, card.POS, card.Definition, card.Example, card.ExampleCN,
		card.Level, card.CorrectStreak, card.NextReviewDate, card.TotalReviews, card.LastReviewedAt, card.Mastered)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("card already exists: profile_id=%d, word=%s", card.ProfileID, card.Word)
			return 0, fmt.Errorf("card %q: %w", card.Word, repository.ErrDuplicate)
		}
		log.Error("failed to insert card: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get inserted card id: %v", err)
		return 0, err
	}
	log.Debug("card inserted: id=%d", id)
	return id, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, profileID int64, drafts []models.CardDraft) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting batch of %d cards: profile_id=%d", len(drafts), profileID)

	if len(drafts) == 0 {
		return 0, nil
	}

	inserted := 0
	err := tx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `
INSERT INTO cards (profile_id, word, phonetic, pos, definition, example, example_cn)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(profile_id, word) DO NOTHING
`)
		if err != nil {
			log.Error("failed to prepare batch insert: %v", err)
			return err
		}
		defer stmt.Close()

		for _, d := range drafts {
			res, err := stmt.ExecContext(ctx, profileID, d.Word, d.Phonetic, d.POS, d.Definition, d.Example, d.ExampleCN)
			if err != nil {
				log.Error("failed to insert card %q: %v", d.Word, err)
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			inserted += int(n)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Debug("batch inserted %d of %d cards", inserted, len(drafts))
	return inserted, nil
}

func (r *cardRepository) UpdateState(ctx context.Context, id int64, state models.LearningState) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card state: id=%d, level=%d, streak=%d, next=%s, mastered=%v",
		id, state.Level, state.CorrectStreak, state.NextReviewDate, state.Mastered)

	_, err := r.db.ExecContext(ctx, `
UPDATE cards
SET level = ?, correct_streak = ?, next_review_date = ?, total_reviews = ?, last_reviewed_at = ?, mastered = ?
WHERE id = ?
`, state.Level, state.CorrectStreak, state.NextReviewDate, state.TotalReviews, state.LastReviewedAt, state.Mastered, id)
	if err != nil {
		log.Error("failed to update card state: %v", err)
	}
	return err
}

// SetMastered overrides the scheduling fields without touching review
// history (total_reviews, last_reviewed_at).
func (r *cardRepository) SetMastered(ctx context.Context, id int64, state models.LearningState) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("setting card mastered: id=%d, mastered=%v", id, state.Mastered)

	_, err := r.db.ExecContext(ctx, `
UPDATE cards
SET level = ?, correct_streak = ?, next_review_date = ?, mastered = ?
WHERE id = ?
`, state.Level, state.CorrectStreak, state.NextReviewDate, state.Mastered, id)
	if err != nil {
		log.Error("failed to set card mastered: %v", err)
	}
	return err
}

func (r *cardRepository) Delete(ctx context.Context, profileID int64, word string) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: profile_id=%d, word=%s", profileID, word)

	_, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE profile_id = ? AND word = ?`, profileID, word)
	if err != nil {
		log.Error("failed to delete card: %v", err)
	}
	return err
}

func (r *cardRepository) Stats(ctx context.Context, profileID int64, today calendar.Date) (*models.LibraryStats, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("computing library stats: profile_id=%d, today=%s", profileID, today)

	stats := models.LibraryStats{ByLevel: map[int]int{}}
	err := r.db.QueryRowContext(ctx, `
SELECT
    COUNT(*),
    COALESCE(SUM(CASE WHEN mastered = 1 THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN mastered = 0 AND next_review_date IS NULL THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(CASE WHEN mastered = 0 AND next_review_date IS NOT NULL AND next_review_date <= ? THEN 1 ELSE 0 END), 0),
    COALESCE(SUM(total_reviews), 0)
FROM cards
WHERE profile_id = ?
`, string(today), profileID).Scan(&stats.Total, &stats.Mastered, &stats.New, &stats.Due, &stats.TotalReviews)
	if err != nil {
		log.Error("failed to compute card totals: %v", err)
		return nil, err
	}
	stats.Pending = stats.Total - stats.Mastered

	rows, err := r.db.QueryContext(ctx, `
SELECT level, COUNT(*)
FROM cards
WHERE profile_id = ? AND mastered = 0
GROUP BY level
`, profileID)
	if err != nil {
		log.Error("failed to compute level distribution: %v", err)
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var level, n int
		if err := rows.Scan(&level, &n); err != nil {
			log.Error("failed to scan level row: %v", err)
			return nil, err
		}
		stats.ByLevel[level] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var firstAttempts, firstCorrect int
	err = r.db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(SUM(l.correct), 0)
FROM review_log l
JOIN cards c ON c.id = l.card_id
WHERE c.profile_id = ? AND l.first_attempt = 1
`, profileID).Scan(&firstAttempts, &firstCorrect)
	if err != nil {
		log.Error("failed to compute accuracy: %v", err)
		return nil, err
	}
	if firstAttempts > 0 {
		stats.Accuracy = float64(firstCorrect) / float64(firstAttempts)
	}

	log.Debug("library stats: total=%d, mastered=%d, due=%d", stats.Total, stats.Mastered, stats.Due)
	return &stats, nil
}

func (r *cardRepository) InsertReviewLog(ctx context.Context, entry models.ReviewLog) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting review log: card_id=%d, correct=%v, first=%v", entry.CardID, entry.Correct, entry.FirstAttempt)

	reviewedAt := entry.ReviewedAt
	if reviewedAt.IsZero() {
		reviewedAt = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
INSERT INTO review_log (card_id, correct, first_attempt, level_after, reviewed_at)
VALUES (?, ?, ?, ?, ?)
`, entry.CardID, entry.Correct, entry.FirstAttempt, entry.LevelAfter, reviewedAt)
	if err != nil {
		log.Error("failed to insert review log: %v", err)
	}
	return err
}
