package entity

import "time"

// IncomingMessage is a single text message delivered by the webhook.
type IncomingMessage struct {
	SenderID    int64     `json:"sender_id"`
	RecipientID int64     `json:"recipient_id"`
	Timestamp   time.Time `json:"timestamp"`
	MessageID   string    `json:"message_id"`
	Text        string    `json:"text"`
}

type OutgoingMessage struct {
	RecipientID int64
	Text        string
	// IsResponse is false for messages the page initiates (messaging_type UPDATE).
	IsResponse bool
}

func Reply(recipientID int64, text string) OutgoingMessage {
	return OutgoingMessage{RecipientID: recipientID, Text: text, IsResponse: true}
}

func Update(recipientID int64, text string) OutgoingMessage {
	return OutgoingMessage{RecipientID: recipientID, Text: text, IsResponse: false}
}

func (m OutgoingMessage) MessagingType() string {
	if m.IsResponse {
		return "RESPONSE"
	}
	return "UPDATE"
}
