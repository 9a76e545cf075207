package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

type ReviewRepository struct {
	DB *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

// CreateWithConversation inserts the review and writes the conversation in
// the same transaction, so a review row never exists for a conversation that
// still awaits one.
func (r *ReviewRepository) CreateWithConversation(ctx context.Context, rv *entity.Review, convo *entity.Conversation) error {
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		if err := insertReview(ctx, tx, rv); err != nil {
			return err
		}
		return updateConversation(ctx, tx, convo)
	})
}

func insertReview(ctx context.Context, db execer, rv *entity.Review) error {
	query := `
		INSERT INTO reviews (id, conversation_id, person_id, product_id, created_at, estimated_review_stars, raw_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := db.ExecContext(ctx, query,
		rv.ID,
		rv.ConversationID,
		rv.PersonID,
		rv.ProductID,
		rv.CreatedAt,
		strconv.FormatFloat(rv.EstimatedStars, 'f', 3, 64),
		rv.RawMessage,
	)
	if err != nil {
		return fmt.Errorf("create review %s: %w", rv.ID, err)
	}
	return nil
}
