package usecase_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

// MockGateway
type MockGateway struct {
	mock.Mock
	mu   sync.Mutex
	sent []entity.OutgoingMessage
}

func (m *MockGateway) SendMessage(ctx context.Context, msg entity.OutgoingMessage) error {
	args := m.Called(ctx, msg)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.sent = append(m.sent, msg)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *MockGateway) GetProfile(ctx context.Context, personID int64) (*entity.Profile, error) {
	args := m.Called(ctx, personID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

func (m *MockGateway) Sent() []entity.OutgoingMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.OutgoingMessage(nil), m.sent...)
}

// MockCatalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) ListCatalog(ctx context.Context) (entity.Catalog, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entity.Catalog), args.Error(1)
}

// MockClassifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) ([]entity.LabelScore, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LabelScore), args.Error(1)
}

// MockReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) CreateWithConversation(ctx context.Context, r *entity.Review, c *entity.Conversation) error {
	args := m.Called(ctx, r, c)
	return args.Error(0)
}

type memoryPeople struct {
	mu   sync.Mutex
	rows map[int64]entity.Person
}

func newMemoryPeople() *memoryPeople {
	return &memoryPeople{rows: make(map[int64]entity.Person)}
}

func (r *memoryPeople) FindByID(_ context.Context, id int64) (*entity.Person, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.rows[id]
	if !ok {
		return nil, entity.ErrPersonNotFound
	}
	return &p, nil
}

func (r *memoryPeople) Create(_ context.Context, p *entity.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[p.ID]; ok {
		return entity.ErrPersonAlreadyExists
	}
	r.rows[p.ID] = *p
	return nil
}

type memoryConversations struct {
	mu        sync.Mutex
	rows      map[int64]*entity.Conversation
	updateErr error
	updates   int
}

func newMemoryConversations() *memoryConversations {
	return &memoryConversations{rows: make(map[int64]*entity.Conversation)}
}

func (r *memoryConversations) FindByPersonID(_ context.Context, personID int64) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[personID]
	if !ok {
		return nil, entity.ErrConversationNotFound
	}
	return c.Clone(), nil
}

func (r *memoryConversations) Create(_ context.Context, c *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[c.PersonID] = c.Clone()
	return nil
}

func (r *memoryConversations) Update(ctx context.Context, c *entity.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updates++
	r.rows[c.PersonID] = c.Clone()
	return nil
}

func (r *memoryConversations) get(personID int64) *entity.Conversation {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.rows[personID]; ok {
		return c.Clone()
	}
	return nil
}

// memoryReviews writes the review and the conversation together: when the
// conversation update fails the review is not kept.
type memoryReviews struct {
	mu            sync.Mutex
	rows          map[string]entity.Review
	conversations *memoryConversations
	// afterInsert runs between the review insert and the conversation update.
	afterInsert func()
}

func newMemoryReviews(conversations *memoryConversations) *memoryReviews {
	return &memoryReviews{rows: make(map[string]entity.Review), conversations: conversations}
}

func (r *memoryReviews) CreateWithConversation(ctx context.Context, rv *entity.Review, c *entity.Conversation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.afterInsert != nil {
		r.afterInsert()
	}
	if err := r.conversations.Update(ctx, c); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[rv.ID] = *rv
	return nil
}

func (r *memoryReviews) all() []entity.Review {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]entity.Review, 0, len(r.rows))
	for _, rv := range r.rows {
		out = append(out, rv)
	}
	return out
}
