package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

// ConversationEngine drives each person's conversation through the review
// flow. All work for one person is serialised through Locks, so an inbound
// message and a proactive solicitation never interleave their
// read-modify-write of the conversation row.
type ConversationEngine struct {
	People        entity.PersonRepositoryInterface
	Conversations entity.ConversationRepositoryInterface
	Reviews       entity.ReviewRepositoryInterface
	Gateway       MessagingGateway
	Catalog       CatalogProvider
	Classifier    SentimentClassifier
	Locks         *KeyedMutex
	Clock         func() time.Time
	Log           logrus.FieldLogger
}

func NewConversationEngine(
	people entity.PersonRepositoryInterface,
	conversations entity.ConversationRepositoryInterface,
	reviews entity.ReviewRepositoryInterface,
	gateway MessagingGateway,
	catalog CatalogProvider,
	classifier SentimentClassifier,
	log logrus.FieldLogger,
) *ConversationEngine {
	return &ConversationEngine{
		People:        people,
		Conversations: conversations,
		Reviews:       reviews,
		Gateway:       gateway,
		Catalog:       catalog,
		Classifier:    classifier,
		Locks:         NewKeyedMutex(),
		Clock:         time.Now,
		Log:           log,
	}
}

// HandleMessage applies one inbound message. The returned Outcome is non-nil
// whenever the state change was committed; a ProcessingError alongside it
// means only the reply failed.
func (e *ConversationEngine) HandleMessage(ctx context.Context, msg entity.IncomingMessage) (*Outcome, error) {
	unlock := e.Locks.Lock(msg.SenderID)
	defer unlock()

	person, degraded, err := e.getOrCreatePerson(ctx, msg.SenderID)
	if err != nil {
		return nil, err
	}
	convo, err := e.getOrCreateConversation(ctx, person)
	if err != nil {
		return nil, err
	}

	from := convo.State()
	decision := Decide(from, msg.Text)
	now := e.Clock()

	out := &Outcome{
		PersonID:       person.ID,
		ConversationID: convo.ID,
		From:           from,
		To:             decision.Next,
		Reply:          decision.Reply,
		Degraded:       degraded,
	}

	switch decision.Action {
	case ActionRequestReview:
		updated := convo.Clone()
		updated.RequestReview(now)
		if err := e.update(ctx, updated); err != nil {
			return nil, err
		}

	case ActionSelectProduct:
		updated := convo.Clone()
		updated.SelectProduct(decision.ProductID, now)
		if err := e.update(ctx, updated); err != nil {
			return nil, err
		}

	case ActionPromptProduct:
		reply, ok := e.productPrompt(ctx)
		if !ok {
			out.Degraded = append(out.Degraded, CodeCatalogUnavailable)
		}
		out.Reply = reply

	case ActionDecline:
		updated := convo.Clone()
		updated.Decline(now)
		if err := e.update(ctx, updated); err != nil {
			return nil, err
		}

	case ActionRecordReview:
		review, err := e.recordReview(ctx, convo, msg.Text, now)
		if err != nil {
			return nil, err
		}
		out.ReviewID = review.ID
		out.EstimatedStars = review.EstimatedStars
	}

	if err := e.send(ctx, entity.Reply(person.ID, out.Reply)); err != nil {
		return out, err
	}
	return out, nil
}

func (e *ConversationEngine) productPrompt(ctx context.Context) (string, bool) {
	catalog, err := e.Catalog.ListCatalog(ctx)
	if err != nil {
		e.Log.WithError(err).WithField("code", CodeCatalogUnavailable).Warn("catalog unavailable, sending prompt without product list")
		return ProductRetryFallbackReply, false
	}
	return ProductPrompt(catalog), true
}

func (e *ConversationEngine) recordReview(ctx context.Context, convo *entity.Conversation, text string, now time.Time) (*entity.Review, error) {
	if convo.SelectedProductID == nil {
		return nil, newProcessingError(CodeInvalidState, "conversation awaiting review has no selected product", nil)
	}

	scores, err := e.Classifier.Classify(ctx, text)
	if err != nil {
		return nil, newProcessingError(CodeClassifierFailed, "classify review", err)
	}
	stars, err := ScoreSentiment(scores)
	if err != nil {
		return nil, newProcessingError(CodeClassifierFailed, "score review", err)
	}

	review := entity.NewReview(convo, *convo.SelectedProductID, RoundStars(stars), text, now)
	updated := convo.Clone()
	updated.ReceiveReview(now)

	if err := e.Reviews.CreateWithConversation(ctx, review, updated); err != nil {
		return nil, newProcessingError(CodePersistFailed, "persist review", err)
	}
	return review, nil
}

// getOrCreatePerson also reports CodeProfileUnavailable when a new person
// had to be stored without names.
func (e *ConversationEngine) getOrCreatePerson(ctx context.Context, id int64) (*entity.Person, []ErrorCode, error) {
	person, err := e.People.FindByID(ctx, id)
	if err == nil {
		return person, nil, nil
	}
	if !errors.Is(err, entity.ErrPersonNotFound) {
		return nil, nil, newProcessingError(CodePersonLookupFailed, "find person", err)
	}

	var degraded []ErrorCode
	profile, err := e.Gateway.GetProfile(ctx, id)
	if err != nil {
		e.Log.WithError(err).WithFields(logrus.Fields{
			"person_id": id,
			"code":      CodeProfileUnavailable,
		}).Warn("profile lookup failed, creating person without names")
		profile = nil
		degraded = append(degraded, CodeProfileUnavailable)
	}

	person = entity.NewPerson(id, profile, e.Clock())
	if err := e.People.Create(ctx, person); err != nil {
		if errors.Is(err, entity.ErrPersonAlreadyExists) {
			existing, findErr := e.People.FindByID(ctx, id)
			if findErr != nil {
				return nil, nil, newProcessingError(CodePersonLookupFailed, "find person after conflict", findErr)
			}
			return existing, nil, nil
		}
		return nil, nil, newProcessingError(CodePersistFailed, "create person", err)
	}
	return person, degraded, nil
}

func (e *ConversationEngine) getOrCreateConversation(ctx context.Context, person *entity.Person) (*entity.Conversation, error) {
	convo, err := e.Conversations.FindByPersonID(ctx, person.ID)
	if err == nil {
		return convo, nil
	}
	if !errors.Is(err, entity.ErrConversationNotFound) {
		return nil, newProcessingError(CodeConversationLookupFailed, "find conversation", err)
	}

	convo = entity.NewConversation(person.ID, e.Clock())
	if err := e.Conversations.Create(ctx, convo); err != nil {
		return nil, newProcessingError(CodePersistFailed, "create conversation", err)
	}
	return convo, nil
}

func (e *ConversationEngine) update(ctx context.Context, convo *entity.Conversation) error {
	if err := e.Conversations.Update(ctx, convo); err != nil {
		return newProcessingError(CodePersistFailed, "update conversation", err)
	}
	return nil
}

func (e *ConversationEngine) send(ctx context.Context, msg entity.OutgoingMessage) error {
	if err := e.Gateway.SendMessage(ctx, msg); err != nil {
		return newProcessingError(CodeSendFailed, "send reply", err)
	}
	return nil
}
