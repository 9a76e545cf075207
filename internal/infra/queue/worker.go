package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/messenger-reviews/internal/usecase"
)

var errMissingPersonID = errors.New("solicitation has no person_id")

type Solicitor interface {
	SolicitReview(ctx context.Context, input usecase.SolicitReviewInput) (*usecase.Outcome, error)
}

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel   consumer
	Solicitor Solicitor
	Log       logrus.FieldLogger
	// OnResult is called after every delivery with the outcome that was
	// acknowledged or rejected. Optional.
	OnResult func(result string)
}

func NewWorker(ch *amqp.Channel, solicitor Solicitor, log logrus.FieldLogger) *Worker {
	return &Worker{
		Channel:   ch,
		Solicitor: solicitor,
		Log:       log,
	}
}

// Start consumes QueueName until ctx is cancelled or the channel closes.
func (w *Worker) Start(ctx context.Context) error {
	msgs, err := w.Channel.Consume(
		QueueName,
		"",
		false, // manual ack
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	w.Log.WithField("queue", QueueName).Info("solicitation worker started")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			w.handle(ctx, d)
		}
	}
}

func (w *Worker) handle(ctx context.Context, d amqp.Delivery) {
	log := w.Log.WithField("delivery_id", d.MessageId)

	var msg SolicitationMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		log.WithError(err).Error("malformed solicitation, dead-lettering")
		w.reject(d, false, "malformed")
		return
	}
	if msg.PersonID == 0 {
		log.WithError(errMissingPersonID).Error("malformed solicitation, dead-lettering")
		w.reject(d, false, "malformed")
		return
	}

	log = log.WithField("person_id", msg.PersonID)

	out, err := w.Solicitor.SolicitReview(ctx, usecase.SolicitReviewInput{PersonID: msg.PersonID})
	switch {
	case err == nil:
		log.WithFields(logrus.Fields{
			"from_state": out.From.String(),
			"to_state":   out.To.String(),
		}).Info("solicitation processed")
		w.ack(d, "ok")

	case usecase.ErrorCodeOf(err) == usecase.CodeSendFailed:
		// The conversation was already re-opened; redelivering would solicit twice.
		log.WithError(err).Warn("solicitation committed but message not delivered")
		w.ack(d, "send_failed")

	case d.Redelivered:
		log.WithError(err).Error("solicitation failed twice, dead-lettering")
		w.reject(d, false, "dead_lettered")

	default:
		log.WithError(err).Warn("solicitation failed, requeueing")
		w.reject(d, true, "requeued")
	}
}

func (w *Worker) ack(d amqp.Delivery, result string) {
	if err := d.Ack(false); err != nil {
		w.Log.WithError(err).Error("ack failed")
	}
	w.report(result)
}

func (w *Worker) reject(d amqp.Delivery, requeue bool, result string) {
	if err := d.Nack(false, requeue); err != nil {
		w.Log.WithError(err).Error("nack failed")
	}
	w.report(result)
}

func (w *Worker) report(result string) {
	if w.OnResult != nil {
		w.OnResult(result)
	}
}
