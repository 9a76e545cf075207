package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

var conversationColumns = []string{
	"id", "person_id", "selected_product_id", "started_at",
	"review_requested_at", "product_selected_at", "review_received_at", "declined_review_at",
}

func TestConversationRepositoryFindByPersonID(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConversationRepository(db)
	started := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	requested := started.Add(time.Minute)
	selected := started.Add(2 * time.Minute)

	mock.ExpectQuery("FROM conversations WHERE person_id = \\$1 ORDER BY started_at LIMIT 1").
		WithArgs(int64(9)).
		WillReturnRows(sqlmock.NewRows(conversationColumns).
			AddRow("c-1", int64(9), int64(3), started, requested, selected, nil, nil))

	c, err := repo.FindByPersonID(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, "c-1", c.ID)
	require.NotNil(t, c.SelectedProductID)
	assert.Equal(t, int64(3), *c.SelectedProductID)
	assert.Equal(t, requested, *c.ReviewRequestedAt)
	assert.Nil(t, c.ReviewReceivedAt)
	assert.Nil(t, c.DeclinedReviewAt)
	assert.Equal(t, entity.StateAwaitingReview, c.State())
}

func TestConversationRepositoryFindByPersonIDFresh(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConversationRepository(db)

	mock.ExpectQuery("FROM conversations").
		WillReturnRows(sqlmock.NewRows(conversationColumns).
			AddRow("c-2", int64(9), nil, time.Now(), nil, nil, nil, nil))

	c, err := repo.FindByPersonID(context.Background(), 9)
	require.NoError(t, err)
	assert.Nil(t, c.SelectedProductID)
	assert.Equal(t, entity.StateInitial, c.State())
}

func TestConversationRepositoryFindByPersonIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConversationRepository(db)

	mock.ExpectQuery("FROM conversations").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByPersonID(context.Background(), 9)
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
}

func TestConversationRepositoryCreate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConversationRepository(db)
	c := entity.NewConversation(9, time.Now())

	mock.ExpectExec("INSERT INTO conversations").
		WithArgs(c.ID, int64(9), nil, sqlmock.AnyArg(), nil, nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepositoryUpdate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConversationRepository(db)
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	c := entity.NewConversation(9, now)
	c.RequestReview(now)
	c.SelectProduct(4, now)

	mock.ExpectExec("UPDATE conversations").
		WithArgs(c.ID, int64(4), now, now, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), c))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConversationRepositoryUpdateMissingRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewConversationRepository(db)

	mock.ExpectExec("UPDATE conversations").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), entity.NewConversation(9, time.Now()))
	assert.ErrorIs(t, err, entity.ErrConversationNotFound)
}
