package usecase

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

const (
	SolicitReviewReplyTemplate     = "Please take a moment to let us know how we did! Which product would you like to review? Reply with its product number."
	SolicitReviewProactiveTemplate = "Hey %s!  Please take a moment to let us know what you thought of your experience with us, or reply NO if you'd rather not."
	ProactiveProductTemplate       = "Hey %s!  Please take a moment to let us know how we did! Which product would you like to review? Reply with its product number."
	AcknowledgeReply               = "..."
	ProductConfirmedReply          = "Got it! How did it work out for you? Reply NO if you'd rather not leave a review."
	ProductRetryTemplate           = "Sorry, I didn't catch that. Please reply with one of these product numbers: %s"
	ProductRetryFallbackReply      = "Sorry, I didn't catch that. Please reply with the number of the product you'd like to review."
	DeclineReply                   = "Aw :( No worries, thanks anyway!"
	ReviewThanksReply              = "Thanks for the feedback!"
	ClosingReply                   = "Thanks again! We already have everything we need from you."
)

// ProductPrompt lists the catalog as "(id: manufacturer vehicle)" entries in id order.
func ProductPrompt(catalog entity.Catalog) string {
	if len(catalog) == 0 {
		return ProductRetryFallbackReply
	}
	labels := make([]string, 0, len(catalog))
	for _, id := range slices.Sorted(maps.Keys(catalog)) {
		labels = append(labels, catalog[id].Label())
	}
	return fmt.Sprintf(ProductRetryTemplate, strings.Join(labels, ", "))
}

// ProactiveSolicitation greets the person and asks for what the conversation
// expects next: a product number, or the review itself.
func ProactiveSolicitation(firstName string, next entity.State) string {
	if strings.TrimSpace(firstName) == "" {
		firstName = "there"
	}
	if next == entity.StateProductPending {
		return fmt.Sprintf(ProactiveProductTemplate, firstName)
	}
	return fmt.Sprintf(SolicitReviewProactiveTemplate, firstName)
}
