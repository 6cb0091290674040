package services

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"

	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/session"
	"github.com/vytor/wordflash/internal/srs"
)

// ReviewService tracks each profile's daily review session: it builds the
// day's queue with the selector, grades answers and advances the queue.
type ReviewService interface {
	Today(ctx context.Context, profileID int64) (*models.ReviewState, error)
	Regenerate(ctx context.Context, profileID int64) (*models.ReviewState, error)
	Answer(ctx context.Context, profileID int64, word string, correct bool) (*models.AnswerResult, error)
	Progress(ctx context.Context, profileID int64) (*models.SessionProgress, error)
	RemoveWord(ctx context.Context, profileID int64, word string) error
}

type reviewService struct {
	// mu serializes every read-modify-write of a stored session.
	mu sync.Mutex

	profileRepo repository.ProfileRepository
	cardRepo    repository.CardRepository
	sessionRepo repository.SessionRepository
	selector    *srs.Selector
	grader      *srs.Grader
	clock       *calendar.Clock
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	profileRepo repository.ProfileRepository,
	cardRepo repository.CardRepository,
	sessionRepo repository.SessionRepository,
	selector *srs.Selector,
	grader *srs.Grader,
	clock *calendar.Clock,
) ReviewService {
	return &reviewService{
		profileRepo: profileRepo,
		cardRepo:    cardRepo,
		sessionRepo: sessionRepo,
		selector:    selector,
		grader:      grader,
		clock:       clock,
	}
}

func (s *reviewService) Today(ctx context.Context, profileID int64) (*models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review")
	log.Debug("loading today's session: profile_id=%d", profileID)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	return s.state(ctx, sess)
}

func (s *reviewService) Regenerate(ctx context.Context, profileID int64) (*models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review")
	log.Info("regenerating today's session: profile_id=%d", profileID)

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current(ctx, profileID, true)
	if err != nil {
		return nil, err
	}
	return s.state(ctx, sess)
}

func (s *reviewService) Progress(ctx context.Context, profileID int64) (*models.SessionProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.current(ctx, profileID, false)
	if err != nil {
		return nil, err
	}
	p := session.Progress(sess)
	return &p, nil
}

func (s *reviewService) Answer(ctx context.Context, profileID int64, word string, correct bool) (*models.AnswerResult, error) {
	log := logger.FromContext(ctx).WithPrefix("review")
	word = strings.ToLower(strings.TrimSpace(word))
	log.Debug("answer: profile_id=%d, word=%s, correct=%v", profileID, word, correct)

	if word == "" {
		return nil, errors.NewValidationError("word", "cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.profile(ctx, profileID); err != nil {
		return nil, err
	}

	sess, err := s.sessionRepo.Get(ctx, profileID)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	today := s.clock.Today()
	if sess == nil {
		return nil, errors.NewConflictError("no review session for today; load today's review first")
	}

	now := s.clock.Now()
	next, outcome, err := session.Answer(*sess, word, correct, today, now)
	switch {
	case stderrors.Is(err, session.ErrExpired):
		log.Info("answer for stale session: profile_id=%d, session_date=%s, today=%s", profileID, sess.Date, today)
		return nil, errors.NewConflictError("the review session has rolled over to a new day; load today's review again")
	case stderrors.Is(err, session.ErrWordNotQueued):
		return nil, errors.NewValidationError("word", "is not waiting in today's review queue")
	case err != nil:
		return nil, errors.NewInternalError(err)
	}

	card, err := s.cardRepo.Get(ctx, profileID, word)
	if err != nil {
		log.Error("failed to load card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		pruned, _ := session.Remove(*sess, word)
		if err := s.sessionRepo.Save(ctx, pruned); err != nil {
			log.Warn("failed to prune missing card from session: %v", err)
		}
		return nil, errors.NewNotFoundError("card", word)
	}

	if outcome.FirstAttempt {
		graded := s.grader.ProcessAnswer(card.LearningState, correct, today)
		if err := s.cardRepo.UpdateState(ctx, card.ID, graded); err != nil {
			log.Error("failed to store graded state: %v", err)
			return nil, errors.NewInternalError(err)
		}
		card.LearningState = graded
		log.Debug("graded: word=%s, level=%d, streak=%d, next=%s, mastered=%v",
			word, graded.Level, graded.CorrectStreak, graded.NextReviewDate, graded.Mastered)
	}

	if err := s.sessionRepo.Save(ctx, next); err != nil {
		log.Error("failed to save session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Don't fail the answer if the review log write fails
	if err := s.cardRepo.InsertReviewLog(ctx, models.ReviewLog{
		CardID:       card.ID,
		Correct:      correct,
		FirstAttempt: outcome.FirstAttempt,
		LevelAfter:   card.Level,
		ReviewedAt:   now,
	}); err != nil {
		log.Warn("failed to store review log: %v", err)
	}

	state, err := s.state(ctx, &next)
	if err != nil {
		return nil, err
	}
	if outcome.Done {
		log.Info("session complete: profile_id=%d, correct=%d, wrong=%d", profileID, next.CorrectCount, next.WrongCount)
	}

	return &models.AnswerResult{
		Word:         word,
		Correct:      correct,
		FirstAttempt: outcome.FirstAttempt,
		Card:         card,
		ReviewState:  *state,
	}, nil
}

// RemoveWord drops word from today's session, if there is one.
func (s *reviewService) RemoveWord(ctx context.Context, profileID int64, word string) error {
	log := logger.FromContext(ctx).WithPrefix("review")

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessionRepo.Get(ctx, profileID)
	if err != nil {
		log.Error("failed to load session: %v", err)
		return errors.NewInternalError(err)
	}
	if sess == nil || sess.Date != s.clock.Today() {
		return nil
	}

	next, removed := session.Remove(*sess, word)
	if !removed {
		return nil
	}
	next.UpdatedAt = s.clock.Now()
	if err := s.sessionRepo.Save(ctx, next); err != nil {
		log.Error("failed to save session: %v", err)
		return errors.NewInternalError(err)
	}
	log.Debug("removed word from today's session: profile_id=%d, word=%s", profileID, word)
	return nil
}

func (s *reviewService) profile(ctx context.Context, profileID int64) (*models.Profile, error) {
	profile, err := s.profileRepo.Get(ctx, profileID)
	if err != nil {
		logger.FromContext(ctx).WithPrefix("review").Error("failed to load profile: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if profile == nil {
		return nil, errors.NewNotFoundError("profile", profileID)
	}
	return profile, nil
}

// current returns today's session for the profile, building and storing a
// new one when the stored session is missing, from another day, sized for
// a different quota, or when force is set. Callers hold s.mu.
func (s *reviewService) current(ctx context.Context, profileID int64, force bool) (*models.DailySession, error) {
	log := logger.FromContext(ctx).WithPrefix("review")

	profile, err := s.profile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	if !force {
		sess, err := s.sessionRepo.Get(ctx, profileID)
		if err != nil {
			log.Error("failed to load session: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if !session.NeedsRebuild(sess, today, profile.DailyQuota) {
			return sess, nil
		}
		if sess != nil {
			log.Debug("stored session is stale: session_date=%s, session_quota=%d, today=%s, quota=%d",
				sess.Date, sess.Quota, today, profile.DailyQuota)
		}
	}

	cards, err := s.cardRepo.ListAll(ctx, profileID)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, errors.NewInternalError(err)
	}

	words := s.selector.SelectTodayWords(cards, profile.DailyQuota, today)
	sess := session.New(profileID, today, profile.DailyQuota, words)
	sess.UpdatedAt = s.clock.Now()
	if err := s.sessionRepo.Save(ctx, sess); err != nil {
		log.Error("failed to save session: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("session built: profile_id=%d, date=%s, words=%d of %d cards", profileID, today, len(words), len(cards))
	return &sess, nil
}

// state resolves the card at the front of the queue. Words whose card has
// disappeared are pruned from the stored session. Callers hold s.mu.
func (s *reviewService) state(ctx context.Context, sess *models.DailySession) (*models.ReviewState, error) {
	log := logger.FromContext(ctx).WithPrefix("review")

	pruned := false
	var next *models.Card
	for {
		word, ok := session.Next(sess)
		if !ok {
			break
		}
		card, err := s.cardRepo.Get(ctx, sess.ProfileID, word)
		if err != nil {
			log.Error("failed to load card: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if card != nil {
			next = card
			break
		}
		log.Warn("queued word has no card, dropping it: word=%s", word)
		trimmed, _ := session.Remove(*sess, word)
		sess = &trimmed
		pruned = true
	}

	if pruned {
		if err := s.sessionRepo.Save(ctx, *sess); err != nil {
			log.Error("failed to save pruned session: %v", err)
			return nil, errors.NewInternalError(err)
		}
	}

	return &models.ReviewState{Progress: session.Progress(sess), Next: next}, nil
}
