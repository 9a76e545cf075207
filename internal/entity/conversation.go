package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrConversationNotFound = errors.New("conversation not found")

// State is the position of a conversation in the review flow. It is never
// stored; it is derived from the conversation timestamps.
type State int

const (
	StateInitial State = iota
	StateProductPending
	StateAwaitingReview
	StateDeclined
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "INITIAL"
	case StateProductPending:
		return "PRODUCT_PENDING"
	case StateAwaitingReview:
		return "AWAITING_REVIEW"
	case StateDeclined:
		return "DECLINED"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no inbound message can move the conversation on.
func (s State) Terminal() bool {
	return s == StateDeclined || s == StateCompleted
}

type Conversation struct {
	ID                string     `json:"id"`
	PersonID          int64      `json:"person_id"`
	SelectedProductID *int64     `json:"selected_product_id,omitempty"`
	StartedAt         time.Time  `json:"started_at"`
	ReviewRequestedAt *time.Time `json:"review_requested_at,omitempty"`
	ProductSelectedAt *time.Time `json:"product_selected_at,omitempty"`
	ReviewReceivedAt  *time.Time `json:"review_received_at,omitempty"`
	DeclinedReviewAt  *time.Time `json:"declined_review_at,omitempty"`
}

func NewConversation(personID int64, now time.Time) *Conversation {
	return &Conversation{
		ID:        uuid.New().String(),
		PersonID:  personID,
		StartedAt: now,
	}
}

// State derives the flow position from which timestamps are set.
func (c *Conversation) State() State {
	switch {
	case c.ReviewRequestedAt == nil:
		return StateInitial
	case c.DeclinedReviewAt != nil:
		return StateDeclined
	case c.ReviewReceivedAt != nil:
		return StateCompleted
	case c.ProductSelectedAt == nil:
		return StateProductPending
	default:
		return StateAwaitingReview
	}
}

func (c *Conversation) RequestReview(now time.Time) {
	c.ReviewRequestedAt = &now
}

// Resolicit re-opens the review request. The selected product is kept, so a
// conversation that already chose a product goes straight to AWAITING_REVIEW.
func (c *Conversation) Resolicit(now time.Time) {
	c.ReviewRequestedAt = &now
	c.ReviewReceivedAt = nil
	c.DeclinedReviewAt = nil
}

func (c *Conversation) SelectProduct(productID int64, now time.Time) {
	c.SelectedProductID = &productID
	c.ProductSelectedAt = &now
}

func (c *Conversation) Decline(now time.Time) {
	c.DeclinedReviewAt = &now
}

func (c *Conversation) ReceiveReview(now time.Time) {
	c.ReviewReceivedAt = &now
}

// Clone returns a deep copy so callers can roll back a failed write.
func (c *Conversation) Clone() *Conversation {
	cp := *c
	cp.SelectedProductID = cloneInt64(c.SelectedProductID)
	cp.ReviewRequestedAt = cloneTime(c.ReviewRequestedAt)
	cp.ProductSelectedAt = cloneTime(c.ProductSelectedAt)
	cp.ReviewReceivedAt = cloneTime(c.ReviewReceivedAt)
	cp.DeclinedReviewAt = cloneTime(c.DeclinedReviewAt)
	return &cp
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt64(i *int64) *int64 {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}

type ConversationRepositoryInterface interface {
	FindByPersonID(ctx context.Context, personID int64) (*Conversation, error)
	Create(ctx context.Context, c *Conversation) error
	Update(ctx context.Context, c *Conversation) error
}
