package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/messenger-reviews/internal/entity"
	"github.com/xavierca1/messenger-reviews/internal/usecase"
)

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
	err           error
}

func (p *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	p.exchange, p.key, p.msg = exchange, key, msg
	return p.err
}

type fakeAcknowledger struct {
	mu      sync.Mutex
	acked   int
	nacked  int
	requeue bool
}

func (a *fakeAcknowledger) Ack(uint64, bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.acked++
	return nil
}

func (a *fakeAcknowledger) Nack(_ uint64, _ bool, requeue bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nacked++
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(_ uint64, requeue bool) error {
	return a.Nack(0, false, requeue)
}

// MockSolicitor
type MockSolicitor struct {
	mock.Mock
}

func (m *MockSolicitor) SolicitReview(ctx context.Context, input usecase.SolicitReviewInput) (*usecase.Outcome, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.Outcome), args.Error(1)
}

type fakeConsumer struct {
	deliveries chan amqp.Delivery
	err        error
}

func (c *fakeConsumer) Consume(string, string, bool, bool, bool, bool, amqp.Table) (<-chan amqp.Delivery, error) {
	return c.deliveries, c.err
}

type fakeTopology struct {
	exchanges []string
	queues    map[string]amqp.Table
	bindings  []string
}

func (f *fakeTopology) ExchangeDeclare(name, _ string, _, _, _, _ bool, _ amqp.Table) error {
	f.exchanges = append(f.exchanges, name)
	return nil
}

func (f *fakeTopology) QueueDeclare(name string, _, _, _, _ bool, args amqp.Table) (amqp.Queue, error) {
	if f.queues == nil {
		f.queues = make(map[string]amqp.Table)
	}
	f.queues[name] = args
	return amqp.Queue{Name: name}, nil
}

func (f *fakeTopology) QueueBind(name, key, exchange string, _ bool, _ amqp.Table) error {
	f.bindings = append(f.bindings, exchange+"->"+name+":"+key)
	return nil
}

func TestSetupTopologyDeadLetters(t *testing.T) {
	topo := &fakeTopology{}
	require.NoError(t, setupTopology(topo))

	assert.ElementsMatch(t, []string{DLXName, ExchangeName}, topo.exchanges)
	assert.Equal(t, DLXName, topo.queues[QueueName]["x-dead-letter-exchange"])
	assert.Nil(t, topo.queues[DLQName])
	assert.Contains(t, topo.bindings, ExchangeName+"->"+QueueName+":"+RoutingKey)
	assert.Contains(t, topo.bindings, DLXName+"->"+DLQName+":"+RoutingKey)
}

func TestPublishSolicitation(t *testing.T) {
	pub := &fakePublisher{}
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	producer := &RabbitMQProducer{Ch: pub, Clock: func() time.Time { return at }}

	require.NoError(t, producer.PublishSolicitation(context.Background(), 1234))

	assert.Equal(t, ExchangeName, pub.exchange)
	assert.Equal(t, RoutingKey, pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)
	assert.Equal(t, amqp.Persistent, pub.msg.DeliveryMode)

	var msg SolicitationMessage
	require.NoError(t, json.Unmarshal(pub.msg.Body, &msg))
	assert.Equal(t, int64(1234), msg.PersonID)
	assert.Equal(t, at, msg.RequestedAt)
	assert.Equal(t, pub.msg.MessageId, msg.ID)
	assert.NotEmpty(t, msg.ID)
}

func TestPublishSolicitationError(t *testing.T) {
	boom := errors.New("channel closed")
	producer := &RabbitMQProducer{Ch: &fakePublisher{err: boom}, Clock: time.Now}

	err := producer.PublishSolicitation(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

func delivery(t *testing.T, ack *fakeAcknowledger, body any, redelivered bool) amqp.Delivery {
	t.Helper()
	raw, ok := body.([]byte)
	if !ok {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	return amqp.Delivery{Acknowledger: ack, Body: raw, Redelivered: redelivered}
}

func newTestWorker(s Solicitor) (*Worker, *[]string) {
	log, _ := test.NewNullLogger()
	var results []string
	w := &Worker{Solicitor: s, Log: log}
	w.OnResult = func(r string) { results = append(results, r) }
	return w, &results
}

func TestWorkerHandle(t *testing.T) {
	ok := &usecase.Outcome{PersonID: 7, From: entity.StateCompleted, To: entity.StateAwaitingReview}
	sendFailed := &usecase.ProcessingError{Code: usecase.CodeSendFailed, Message: "send reply"}
	persistFailed := &usecase.ProcessingError{Code: usecase.CodePersistFailed, Message: "update conversation"}

	tests := []struct {
		name        string
		body        any
		redelivered bool
		outcome     *usecase.Outcome
		err         error
		acked       int
		nacked      int
		requeue     bool
		result      string
	}{
		{name: "success", body: SolicitationMessage{PersonID: 7}, outcome: ok, acked: 1, result: "ok"},
		{name: "send failed is acked", body: SolicitationMessage{PersonID: 7}, outcome: ok, err: sendFailed, acked: 1, result: "send_failed"},
		{name: "first failure requeues", body: SolicitationMessage{PersonID: 7}, err: persistFailed, nacked: 1, requeue: true, result: "requeued"},
		{name: "second failure dead-letters", body: SolicitationMessage{PersonID: 7}, redelivered: true, err: persistFailed, nacked: 1, result: "dead_lettered"},
		{name: "malformed json", body: []byte("{not json"), nacked: 1, result: "malformed"},
		{name: "missing person", body: map[string]any{"id": "x"}, nacked: 1, result: "malformed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := new(MockSolicitor)
			if tt.outcome != nil || tt.err != nil {
				s.On("SolicitReview", mock.Anything, usecase.SolicitReviewInput{PersonID: 7}).Return(tt.outcome, tt.err)
			}
			w, results := newTestWorker(s)
			ack := &fakeAcknowledger{}

			w.handle(context.Background(), delivery(t, ack, tt.body, tt.redelivered))

			assert.Equal(t, tt.acked, ack.acked)
			assert.Equal(t, tt.nacked, ack.nacked)
			assert.Equal(t, tt.requeue, ack.requeue)
			assert.Equal(t, []string{tt.result}, *results)
			s.AssertExpectations(t)
		})
	}
}

func TestWorkerStartStopsOnCancel(t *testing.T) {
	s := new(MockSolicitor)
	s.On("SolicitReview", mock.Anything, usecase.SolicitReviewInput{PersonID: 3}).
		Return(&usecase.Outcome{PersonID: 3}, nil)

	deliveries := make(chan amqp.Delivery, 1)
	ack := &fakeAcknowledger{}
	deliveries <- delivery(t, ack, SolicitationMessage{PersonID: 3}, false)

	log, _ := test.NewNullLogger()
	processed := make(chan struct{}, 1)
	w := &Worker{Channel: &fakeConsumer{deliveries: deliveries}, Solicitor: s, Log: log}
	w.OnResult = func(string) { processed <- struct{}{} }

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()

	select {
	case <-processed:
	case <-time.After(time.Second):
		t.Fatal("delivery not processed")
	}
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, 1, ack.acked)
}

func TestWorkerStartChannelClosed(t *testing.T) {
	deliveries := make(chan amqp.Delivery)
	close(deliveries)
	log, _ := test.NewNullLogger()
	w := &Worker{Channel: &fakeConsumer{deliveries: deliveries}, Log: log}

	assert.Error(t, w.Start(context.Background()))
}

func TestWorkerStartConsumeError(t *testing.T) {
	log, _ := test.NewNullLogger()
	w := &Worker{Channel: &fakeConsumer{err: errors.New("access refused")}, Log: log}

	assert.Error(t, w.Start(context.Background()))
}
