package usecase

import "github.com/xavierca1/messenger-reviews/internal/entity"

// Outcome describes what handling one message or solicitation did. It is
// returned whenever the state change was committed, even if the reply could
// not be delivered.
type Outcome struct {
	PersonID       int64
	ConversationID string
	From           entity.State
	To             entity.State
	Reply          string
	ReviewID       string
	EstimatedStars float64
	// Degraded lists failures that were worked around, such as a catalog
	// outage answered with the fallback prompt.
	Degraded []ErrorCode
}

func (o *Outcome) Transitioned() bool {
	return o != nil && o.From != o.To
}

type SolicitReviewInput struct {
	PersonID int64 `json:"person_id"`
}
