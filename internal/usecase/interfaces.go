package usecase

import (
	"context"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

// MessagingGateway sends messages to and reads profiles from the platform.
type MessagingGateway interface {
	SendMessage(ctx context.Context, msg entity.OutgoingMessage) error
	GetProfile(ctx context.Context, personID int64) (*entity.Profile, error)
}

type CatalogProvider interface {
	ListCatalog(ctx context.Context) (entity.Catalog, error)
}

type SentimentClassifier interface {
	Classify(ctx context.Context, text string) ([]entity.LabelScore, error)
}
