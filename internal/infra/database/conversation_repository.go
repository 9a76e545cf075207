package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

type ConversationRepository struct {
	DB *sql.DB
}

func NewConversationRepository(db *sql.DB) *ConversationRepository {
	return &ConversationRepository{DB: db}
}

// FindByPersonID returns the person's oldest conversation. A person is only
// ever given one, but nothing in the schema enforces that.
func (r *ConversationRepository) FindByPersonID(ctx context.Context, personID int64) (*entity.Conversation, error) {
	query := `
		SELECT id, person_id, selected_product_id, started_at,
		       review_requested_at, product_selected_at, review_received_at, declined_review_at
		FROM conversations
		WHERE person_id = $1
		ORDER BY started_at
		LIMIT 1
	`

	var (
		c                                              entity.Conversation
		productID                                      sql.NullInt64
		requested, selected, received, declinedReview sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, personID).Scan(
		&c.ID,
		&c.PersonID,
		&productID,
		&c.StartedAt,
		&requested,
		&selected,
		&received,
		&declinedReview,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrConversationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find conversation for person %d: %w", personID, err)
	}

	if productID.Valid {
		id := productID.Int64
		c.SelectedProductID = &id
	}
	c.ReviewRequestedAt = timePtr(requested)
	c.ProductSelectedAt = timePtr(selected)
	c.ReviewReceivedAt = timePtr(received)
	c.DeclinedReviewAt = timePtr(declinedReview)
	return &c, nil
}

func (r *ConversationRepository) Create(ctx context.Context, c *entity.Conversation) error {
	query := `
		INSERT INTO conversations (id, person_id, selected_product_id, started_at,
			review_requested_at, product_selected_at, review_received_at, declined_review_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.DB.ExecContext(ctx, query,
		c.ID,
		c.PersonID,
		nullInt64(c.SelectedProductID),
		c.StartedAt,
		nullTime(c.ReviewRequestedAt),
		nullTime(c.ProductSelectedAt),
		nullTime(c.ReviewReceivedAt),
		nullTime(c.DeclinedReviewAt),
	)
	if err != nil {
		return fmt.Errorf("create conversation %s: %w", c.ID, err)
	}
	return nil
}

func (r *ConversationRepository) Update(ctx context.Context, c *entity.Conversation) error {
	return updateConversation(ctx, r.DB, c)
}

func updateConversation(ctx context.Context, db execer, c *entity.Conversation) error {
	query := `
		UPDATE conversations
		SET selected_product_id = $2,
		    review_requested_at = $3,
		    product_selected_at = $4,
		    review_received_at = $5,
		    declined_review_at = $6
		WHERE id = $1
	`

	res, err := db.ExecContext(ctx, query,
		c.ID,
		nullInt64(c.SelectedProductID),
		nullTime(c.ReviewRequestedAt),
		nullTime(c.ProductSelectedAt),
		nullTime(c.ReviewReceivedAt),
		nullTime(c.DeclinedReviewAt),
	)
	if err != nil {
		return fmt.Errorf("update conversation %s: %w", c.ID, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update conversation %s: %w", c.ID, err)
	}
	if rows == 0 {
		return entity.ErrConversationNotFound
	}
	return nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}
