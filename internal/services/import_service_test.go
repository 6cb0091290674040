package services_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/services"
	"github.com/vytor/wordflash/internal/testutil/mocks"
)

func TestImportService_ImportDrafts(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockCardRepository)
	want := []models.CardDraft{
		{Word: "apple", Definition: "fruit"},
		{Word: "give up"},
	}
	cards.On("InsertBatch", ctx, int64(1), want).Return(1, nil)

	report, err := services.NewImportService(cards).ImportDrafts(ctx, 1, []models.CardDraft{
		{Word: "Apple", Definition: " fruit "},
		{Word: "???"},
		{Word: "give up"},
		{Word: "APPLE"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Total)
	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 1, report.Existing)
	require.Len(t, report.Problems, 2)
	assert.Equal(t, 2, report.Problems[0].Row)
	assert.Equal(t, 4, report.Problems[1].Row)
	cards.AssertExpectations(t)
}

func TestImportService_ImportDraftsStorageFailure(t *testing.T) {
	ctx := context.Background()
	cards := new(mocks.MockCardRepository)
	cards.On("InsertBatch", ctx, int64(1), mock.Anything).Return(0, errors.New("disk full"))

	_, err := services.NewImportService(cards).ImportDrafts(ctx, 1, []models.CardDraft{{Word: "apple"}})
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeInternal))
}

func TestImportService_ImportFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "words.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- word: Zeal\n  definition: passion\n- word: \"9\"\n"), 0o600))

	cards := new(mocks.MockCardRepository)
	cards.On("InsertBatch", ctx, int64(1), []models.CardDraft{{Word: "zeal", Definition: "passion"}}).Return(1, nil)

	report, err := services.NewImportService(cards).ImportFile(ctx, 1, path)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 1, report.Inserted)
	assert.Len(t, report.Problems, 1)
}

func TestImportService_ImportFileErrors(t *testing.T) {
	ctx := context.Background()
	svc := services.NewImportService(new(mocks.MockCardRepository))

	_, err := svc.ImportFile(ctx, 1, "words.pdf")
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidation))

	_, err = svc.ImportFile(ctx, 1, filepath.Join(t.TempDir(), "missing.csv"))
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeNotFound))

	bad := filepath.Join(t.TempDir(), "broken.xlsx")
	require.NoError(t, os.WriteFile(bad, []byte("not a spreadsheet"), 0o600))
	_, err = svc.ImportFile(ctx, 1, bad)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeBadRequest))
}
