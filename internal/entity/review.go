package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Review struct {
	ID             string    `json:"id"`
	ConversationID string    `json:"conversation_id"`
	PersonID       int64     `json:"person_id"`
	ProductID      int64     `json:"product_id"`
	CreatedAt      time.Time `json:"created_at"`
	EstimatedStars float64   `json:"estimated_stars"` // NUMERIC(4,3)
	RawMessage     string    `json:"raw_message"`
}

func NewReview(convo *Conversation, productID int64, stars float64, raw string, now time.Time) *Review {
	return &Review{
		ID:             uuid.New().String(),
		ConversationID: convo.ID,
		PersonID:       convo.PersonID,
		ProductID:      productID,
		CreatedAt:      now,
		EstimatedStars: stars,
		RawMessage:     raw,
	}
}

// ReviewRepositoryInterface stores a review together with the conversation
// update that marks it received. Either both are written or neither is.
type ReviewRepositoryInterface interface {
	CreateWithConversation(ctx context.Context, r *Review, convo *Conversation) error
}

// LabelScore is one row of a sentiment classifier's output, e.g. {"5 stars", 0.9}.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
