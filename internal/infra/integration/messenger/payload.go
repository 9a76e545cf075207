package messenger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

const pageObject = "page"

// Envelope is a webhook body whose object type, entry list and messaging
// lists were validated. Individual messaging items are decoded lazily by
// EachMessage.
type Envelope struct {
	Object  string
	batches [][]json.RawMessage
}

// DecodeEnvelope validates the structure of a webhook body. A missing entry
// or messaging list rejects the whole request before anything is routed.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	var env envelopeDTO
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if env.Object != pageObject {
		return nil, fmt.Errorf("%w: %q", ErrUnknownObjectType, env.Object)
	}
	if isAbsent(env.Entry) {
		return nil, fmt.Errorf("%w: missing entry", ErrMalformedPayload)
	}

	var entries []entryDTO
	if err := json.Unmarshal(env.Entry, &entries); err != nil {
		return nil, fmt.Errorf("%w: entry: %v", ErrMalformedPayload, err)
	}

	batches := make([][]json.RawMessage, 0, len(entries))
	for i, entry := range entries {
		if isAbsent(entry.Messaging) {
			return nil, fmt.Errorf("%w: entry %d: missing messaging", ErrMalformedPayload, i)
		}
		var items []json.RawMessage
		if err := json.Unmarshal(entry.Messaging, &items); err != nil {
			return nil, fmt.Errorf("%w: entry %d: messaging: %v", ErrMalformedPayload, i, err)
		}
		batches = append(batches, items)
	}
	return &Envelope{Object: env.Object, batches: batches}, nil
}

// EachMessage decodes messaging items in order and hands each one to fn as
// soon as it is decoded. The first bad item stops the walk with
// ErrMalformedPayload; messages already passed to fn are not revisited.
func (e *Envelope) EachMessage(fn func(entity.IncomingMessage)) error {
	for i, items := range e.batches {
		for j, raw := range items {
			msg, err := decodeMessage(raw)
			if err != nil {
				return fmt.Errorf("%w: entry %d item %d: %v", ErrMalformedPayload, i, j, err)
			}
			fn(msg)
		}
	}
	return nil
}

// ParsePayload decodes every message of a body up front.
func ParsePayload(body []byte) ([]entity.IncomingMessage, error) {
	env, err := DecodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	var out []entity.IncomingMessage
	err = env.EachMessage(func(m entity.IncomingMessage) {
		out = append(out, m)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func decodeMessage(raw json.RawMessage) (entity.IncomingMessage, error) {
	var item messagingDTO
	if err := json.Unmarshal(raw, &item); err != nil {
		return entity.IncomingMessage{}, err
	}
	switch {
	case item.Sender == nil || item.Sender.ID == nil:
		return entity.IncomingMessage{}, fmt.Errorf("missing sender.id")
	case item.Recipient == nil || item.Recipient.ID == nil:
		return entity.IncomingMessage{}, fmt.Errorf("missing recipient.id")
	case item.Timestamp == nil:
		return entity.IncomingMessage{}, fmt.Errorf("missing timestamp")
	case item.Message == nil:
		return entity.IncomingMessage{}, fmt.Errorf("missing message")
	case item.Message.MID == nil:
		return entity.IncomingMessage{}, fmt.Errorf("missing message.mid")
	case item.Message.Text == nil:
		return entity.IncomingMessage{}, fmt.Errorf("missing message.text")
	}

	return entity.IncomingMessage{
		SenderID:    int64(*item.Sender.ID),
		RecipientID: int64(*item.Recipient.ID),
		Timestamp:   time.UnixMilli(int64(*item.Timestamp)),
		MessageID:   *item.Message.MID,
		Text:        *item.Message.Text,
	}, nil
}

func isAbsent(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// flexInt accepts both 123 and "123"; the platform sends ids as strings.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := string(bytes.Trim(b, `"`))
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", b)
	}
	*f = flexInt(v)
	return nil
}
