package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

// SolicitReview proactively asks a person for a review, outside of any
// inbound message. It re-opens a finished conversation but keeps the product
// that was already selected, so the person's next message is treated as the
// review itself.
func (e *ConversationEngine) SolicitReview(ctx context.Context, input SolicitReviewInput) (*Outcome, error) {
	unlock := e.Locks.Lock(input.PersonID)
	defer unlock()

	person, degraded, err := e.getOrCreatePerson(ctx, input.PersonID)
	if err != nil {
		return nil, err
	}
	convo, err := e.getOrCreateConversation(ctx, person)
	if err != nil {
		return nil, err
	}

	from := convo.State()
	updated := convo.Clone()
	updated.Resolicit(e.Clock())
	to := updated.State()
	if err := e.update(ctx, updated); err != nil {
		return nil, err
	}

	out := &Outcome{
		PersonID:       person.ID,
		ConversationID: convo.ID,
		From:           from,
		To:             to,
		Reply:          ProactiveSolicitation(person.FirstName, to),
		Degraded:       degraded,
	}

	e.Log.WithFields(logrus.Fields{
		"person_id":  person.ID,
		"from_state": from.String(),
		"to_state":   out.To.String(),
	}).Info("review solicited")

	if err := e.send(ctx, entity.Update(person.ID, out.Reply)); err != nil {
		return out, err
	}
	return out, nil
}
