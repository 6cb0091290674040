package srs_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/wordflash/internal/calendar"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/srs"
)

const today = calendar.Date("2026-02-14")

func card(word string, state models.LearningState) models.Card {
	return models.Card{CardDraft: models.CardDraft{Word: word}, LearningState: state}
}

func newCard(word string) models.Card {
	return card(word, models.LearningState{})
}

func dueCard(word string, level int, next calendar.Date) models.Card {
	return card(word, models.LearningState{Level: level, NextReviewDate: next})
}

// keepOrder is a shuffle that leaves every slice untouched.
func keepOrder(int, func(i, j int)) {}

// reverse is a deterministic, non-trivial permutation.
func reverse(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

func TestSelectTodayWords_Empty(t *testing.T) {
	assert.Empty(t, srs.SelectTodayWords(nil, 10, today))
	assert.Empty(t, srs.SelectTodayWords([]models.Card{}, 10, today))
}

func TestSelectTodayWords_AllMastered(t *testing.T) {
	cards := []models.Card{
		card("a", models.LearningState{Mastered: true, Level: 4}),
		card("b", models.LearningState{Mastered: true, Level: 4}),
	}
	assert.Empty(t, srs.SelectTodayWords(cards, 10, today))
}

func TestSelectTodayWords_NonPositiveQuota(t *testing.T) {
	cards := []models.Card{newCard("a"), dueCard("b", 0, today)}
	assert.Empty(t, srs.SelectTodayWords(cards, 0, today))
	assert.Empty(t, srs.SelectTodayWords(cards, -3, today))
}

func TestSelectTodayWords_DueBeforeNew(t *testing.T) {
	cards := []models.Card{newCard("new1"), newCard("new2"), dueCard("due", 1, "2026-02-13")}

	got := srs.SelectTodayWords(cards, 2, today)

	assert.Len(t, got, 2)
	assert.Contains(t, got, "due")
}

func TestSelectTodayWords_FillsQuotaWithNew(t *testing.T) {
	var cards []models.Card
	for i := 0; i < 10; i++ {
		cards = append(cards, newCard(fmt.Sprintf("new%d", i)))
	}

	assert.Len(t, srs.SelectTodayWords(cards, 4, today), 4)
}

func TestSelectTodayWords_TopsUpDueWithNew(t *testing.T) {
	cards := []models.Card{dueCard("due1", 0, today), newCard("new1"), newCard("new2"), newCard("new3")}

	got := srs.SelectTodayWords(cards, 4, today)

	assert.ElementsMatch(t, []string{"due1", "new1", "new2", "new3"}, got)
}

func TestSelectTodayWords_SkipsFutureReviews(t *testing.T) {
	cards := []models.Card{dueCard("future", 1, "2026-02-20")}
	assert.Empty(t, srs.SelectTodayWords(cards, 10, today))
}

func TestSelectTodayWords_DueTodayIsInclusive(t *testing.T) {
	cards := []models.Card{dueCard("hello", 0, today)}
	assert.Equal(t, []string{"hello"}, srs.SelectTodayWords(cards, 10, today))
}

func TestSelectTodayWords_LowestLevelsWin(t *testing.T) {
	cards := []models.Card{
		dueCard("lv2", 2, "2026-02-13"),
		dueCard("lv0", 0, "2026-02-13"),
		dueCard("lv1", 1, "2026-02-13"),
	}

	got := srs.SelectTodayWords(cards, 2, today)

	assert.ElementsMatch(t, []string{"lv0", "lv1"}, got)
}

func TestSelectTodayWords_StalestFirstWithinLevel(t *testing.T) {
	older := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	newer := time.Date(2026, 2, 10, 8, 0, 0, 0, time.UTC)
	cards := []models.Card{
		card("recent", models.LearningState{Level: 1, NextReviewDate: "2026-02-13", LastReviewedAt: &newer}),
		card("stale", models.LearningState{Level: 1, NextReviewDate: "2026-02-13", LastReviewedAt: &older}),
		card("unknown", models.LearningState{Level: 1, NextReviewDate: "2026-02-13"}),
	}

	got := srs.NewSelector(keepOrder).SelectTodayWords(cards, 3, today)
	assert.Equal(t, []string{"unknown", "stale", "recent"}, got)

	got = srs.NewSelector(keepOrder).SelectTodayWords(cards, 2, today)
	assert.Equal(t, []string{"unknown", "stale"}, got)
}

func TestSelectTodayWords_DueFillingQuotaAdmitsNoNew(t *testing.T) {
	var cards []models.Card
	for i := 0; i < 20; i++ {
		cards = append(cards, dueCard(fmt.Sprintf("due%d", i), i%4, "2026-02-10"))
	}
	cards = append(cards, newCard("fresh"))

	got := srs.SelectTodayWords(cards, 10, today)

	assert.Len(t, got, 10)
	assert.NotContains(t, got, "fresh")
}

func TestSelectTodayWords_FinalShuffleApplied(t *testing.T) {
	cards := []models.Card{dueCard("a", 0, today), dueCard("b", 1, today), newCard("c")}

	assert.Equal(t, []string{"a", "b", "c"}, srs.NewSelector(keepOrder).SelectTodayWords(cards, 3, today))
	assert.Equal(t, []string{"c", "b", "a"}, srs.NewSelector(reverse).SelectTodayWords(cards, 3, today))
}

func TestSelectTodayWords_Totality(t *testing.T) {
	var cards []models.Card
	for i := 0; i < 30; i++ {
		switch i % 4 {
		case 0:
			cards = append(cards, newCard(fmt.Sprintf("w%02d", i)))
		case 1:
			cards = append(cards, dueCard(fmt.Sprintf("w%02d", i), i%3, "2026-02-01"))
		case 2:
			cards = append(cards, dueCard(fmt.Sprintf("w%02d", i), 1, "2026-03-01"))
		default:
			cards = append(cards, card(fmt.Sprintf("w%02d", i), models.LearningState{Mastered: true, Level: 4}))
		}
	}
	eligible := 16 // 8 new + 8 due

	for _, quota := range []int{1, 5, 8, 16, 40} {
		t.Run(fmt.Sprintf("quota %d", quota), func(t *testing.T) {
			got := srs.SelectTodayWords(cards, quota, today)
			require.Len(t, got, min(quota, eligible))

			seen := map[string]bool{}
			byWord := map[string]models.Card{}
			for _, c := range cards {
				byWord[c.Word] = c
			}
			for _, w := range got {
				assert.False(t, seen[w], "duplicate %s", w)
				seen[w] = true
				c := byWord[w]
				assert.False(t, c.Mastered)
				assert.True(t, c.IsNew() || c.IsDue(today), "%s is neither new nor due", w)
				if quota <= 8 {
					assert.True(t, c.IsDue(today), "new card %s admitted before due cards", w)
				}
			}
		})
	}
}

func TestSelectTodayWords_DoesNotReorderInput(t *testing.T) {
	cards := []models.Card{dueCard("b", 2, today), dueCard("a", 0, today), newCard("c"), newCard("d")}
	before := append([]models.Card(nil), cards...)

	srs.NewSelector(reverse).SelectTodayWords(cards, 4, today)

	assert.Equal(t, before, cards)
}
