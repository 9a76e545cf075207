package usecase

import (
	"strconv"
	"strings"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

type Action int

const (
	ActionAcknowledge Action = iota
	ActionRequestReview
	ActionSelectProduct
	ActionPromptProduct
	ActionDecline
	ActionRecordReview
	ActionClose
)

func (a Action) String() string {
	switch a {
	case ActionAcknowledge:
		return "acknowledge"
	case ActionRequestReview:
		return "request_review"
	case ActionSelectProduct:
		return "select_product"
	case ActionPromptProduct:
		return "prompt_product"
	case ActionDecline:
		return "decline"
	case ActionRecordReview:
		return "record_review"
	case ActionClose:
		return "close"
	default:
		return "unknown"
	}
}

// Decision is the pure result of feeding one message text to a state.
// Reply is empty for actions whose reply depends on a collaborator
// (catalog listing, review scoring happen in the engine).
type Decision struct {
	Next      entity.State
	Action    Action
	Reply     string
	ProductID int64
}

// Decide maps (state, text) to the next state and the effect to apply.
func Decide(state entity.State, text string) Decision {
	switch state {
	case entity.StateInitial:
		if strings.Contains(strings.ToLower(text), "thank") {
			return Decision{Next: entity.StateProductPending, Action: ActionRequestReview, Reply: SolicitReviewReplyTemplate}
		}
		return Decision{Next: entity.StateInitial, Action: ActionAcknowledge, Reply: AcknowledgeReply}

	case entity.StateProductPending:
		if id, ok := parseProductID(text); ok {
			return Decision{Next: entity.StateAwaitingReview, Action: ActionSelectProduct, Reply: ProductConfirmedReply, ProductID: id}
		}
		return Decision{Next: entity.StateProductPending, Action: ActionPromptProduct}

	case entity.StateAwaitingReview:
		if isDecline(text) {
			return Decision{Next: entity.StateDeclined, Action: ActionDecline, Reply: DeclineReply}
		}
		return Decision{Next: entity.StateCompleted, Action: ActionRecordReview, Reply: ReviewThanksReply}

	default:
		return Decision{Next: state, Action: ActionClose, Reply: ClosingReply}
	}
}

func parseProductID(text string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func isDecline(text string) bool {
	return strings.ToLower(strings.TrimSpace(text)) == "no"
}
