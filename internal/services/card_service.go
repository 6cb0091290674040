package services

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/cardgen"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/repository"
	"github.com/vytor/wordflash/internal/srs"
	"github.com/vytor/wordflash/internal/vocab"
)

// CardService handles the card library
type CardService interface {
	AddCard(ctx context.Context, profileID int64, draft models.CardDraft) (*models.Card, error)
	GenerateCard(ctx context.Context, word string) (*models.CardDraft, error)
	GetCard(ctx context.Context, profileID int64, word string) (*models.Card, error)
	ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error)
	DeleteCard(ctx context.Context, profileID int64, word string) error
	SetMastered(ctx context.Context, profileID int64, word string, mastered bool) (*models.Card, error)
	Stats(ctx context.Context, profileID int64) (*models.LibraryStats, error)
}

// sessionPruner takes a word out of today's review queue.
type sessionPruner interface {
	RemoveWord(ctx context.Context, profileID int64, word string) error
}

type cardService struct {
	cardRepo  repository.CardRepository
	sessions  sessionPruner
	generator cardgen.Generator
	clock     *calendar.Clock
	policy    srs.Policy
}

// NewCardService creates a new CardService. generator may be nil when card
// generation is not configured.
func NewCardService(
	cardRepo repository.CardRepository,
	sessions sessionPruner,
	generator cardgen.Generator,
	clock *calendar.Clock,
	policy srs.Policy,
) CardService {
	return &cardService{
		cardRepo:  cardRepo,
		sessions:  sessions,
		generator: generator,
		clock:     clock,
		policy:    policy,
	}
}

func (s *cardService) AddCard(ctx context.Context, profileID int64, draft models.CardDraft) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("adding card: profile_id=%d, word=%s", profileID, draft.Word)

	prepared, err := vocab.Prepare(draft)
	if err != nil {
		return nil, errors.NewValidationError("word", err.Error())
	}

	card := models.Card{ProfileID: profileID, CardDraft: prepared}
	id, err := s.cardRepo.Insert(ctx, card)
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError(fmt.Sprintf("%q is already in the library", prepared.Word))
		}
		log.Error("failed to insert card: %v", err)
		return nil, errors.NewInternalError(err)
	}

	saved, err := s.cardRepo.Get(ctx, profileID, prepared.Word)
	if err != nil || saved == nil {
		log.Warn("card inserted but could not be reloaded: id=%d, err=%v", id, err)
		card.ID = id
		return &card, nil
	}

	log.Info("card added: profile_id=%d, word=%s", profileID, saved.Word)
	return saved, nil
}

func (s *cardService) GenerateCard(ctx context.Context, word string) (*models.CardDraft, error) {
	log := logger.FromContext(ctx)
	log.Debug("generating card preview: word=%s", word)

	normalized, err := vocab.NormalizeWord(word)
	if err != nil {
		return nil, errors.NewValidationError("word", err.Error())
	}
	if s.generator == nil {
		return nil, errors.NewUnavailableError("card generation is not configured", nil)
	}

	draft, err := s.generator.Generate(ctx, normalized)
	if err != nil {
		log.Error("card generation failed: word=%s, err=%v", normalized, err)
		return nil, errors.NewUnavailableError("card generation failed", err)
	}
	return draft, nil
}

func (s *cardService) GetCard(ctx context.Context, profileID int64, word string) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting card: profile_id=%d, word=%s", profileID, word)

	normalized, err := vocab.NormalizeWord(word)
	if err != nil {
		return nil, errors.NewValidationError("word", err.Error())
	}

	card, err := s.cardRepo.Get(ctx, profileID, normalized)
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if card == nil {
		return nil, errors.NewNotFoundError("card", normalized)
	}
	return card, nil
}

// ListCards returns one page of cards plus the total matching the filter.
func (s *cardService) ListCards(ctx context.Context, filter models.CardFilter) ([]models.Card, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing cards: profile_id=%d, status=%s", filter.ProfileID, filter.Status)

	switch filter.Status {
	case "", models.CardStatusAll, models.CardStatusNew, models.CardStatusLearning, models.CardStatusDue, models.CardStatusMastered:
	default:
		return nil, 0, errors.NewValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	if filter.Today.IsZero() {
		filter.Today = s.clock.Today()
	}

	cards, err := s.cardRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	total, err := s.cardRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count cards: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}
	if cards == nil {
		cards = []models.Card{}
	}
	return cards, total, nil
}

func (s *cardService) DeleteCard(ctx context.Context, profileID int64, word string) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting card: profile_id=%d, word=%s", profileID, word)

	card, err := s.GetCard(ctx, profileID, word)
	if err != nil {
		return err
	}

	if err := s.cardRepo.Delete(ctx, profileID, card.Word); err != nil {
		log.Error("failed to delete card: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.sessions.RemoveWord(ctx, profileID, card.Word); err != nil {
		log.Warn("card deleted but still queued today: word=%s, err=%v", card.Word, err)
	}

	log.Info("card deleted: profile_id=%d, word=%s", profileID, card.Word)
	return nil
}

// SetMastered overrides the grader. Marking a card mastered takes it out of
// scheduling; unmarking it puts it back at the top level, due today.
func (s *cardService) SetMastered(ctx context.Context, profileID int64, word string, mastered bool) (*models.Card, error) {
	log := logger.FromContext(ctx)
	log.Debug("setting mastered: profile_id=%d, word=%s, mastered=%v", profileID, word, mastered)

	card, err := s.GetCard(ctx, profileID, word)
	if err != nil {
		return nil, err
	}

	state := card.LearningState
	state.CorrectStreak = 0
	state.Mastered = mastered
	if mastered {
		state.Level = s.policy.MaxLevel + 1
		state.NextReviewDate = ""
	} else {
		state.Level = s.policy.MaxLevel
		state.NextReviewDate = s.clock.Today()
	}

	if err := s.cardRepo.SetMastered(ctx, card.ID, state); err != nil {
		log.Error("failed to set mastered: %v", err)
		return nil, errors.NewInternalError(err)
	}

	card.LearningState = state
	return card, nil
}

func (s *cardService) Stats(ctx context.Context, profileID int64) (*models.LibraryStats, error) {
	log := logger.FromContext(ctx)
	log.Debug("library stats: profile_id=%d", profileID)

	stats, err := s.cardRepo.Stats(ctx, profileID, s.clock.Today())
	if err != nil {
		log.Error("failed to compute stats: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return stats, nil
}
