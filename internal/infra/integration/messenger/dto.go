package messenger

import "encoding/json"

type envelopeDTO struct {
	Object string          `json:"object"`
	Entry  json.RawMessage `json:"entry"`
}

type entryDTO struct {
	ID        string          `json:"id"`
	Time      int64           `json:"time"`
	Messaging json.RawMessage `json:"messaging"`
}

type messagingDTO struct {
	Sender    *participantDTO `json:"sender"`
	Recipient *participantDTO `json:"recipient"`
	Timestamp *flexInt        `json:"timestamp"`
	Message   *messageDTO     `json:"message"`
}

type participantDTO struct {
	ID *flexInt `json:"id"`
}

type messageDTO struct {
	MID  *string `json:"mid"`
	Text *string `json:"text"`
}

type SendMessageRequest struct {
	Recipient     Recipient   `json:"recipient"`
	Message       MessageBody `json:"message"`
	MessagingType string      `json:"messaging_type"`
}

type Recipient struct {
	ID int64 `json:"id"`
}

type MessageBody struct {
	Text string `json:"text"`
}

type SendMessageResponse struct {
	RecipientID string `json:"recipient_id"`
	MessageID   string `json:"message_id"`
}

type profileResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type graphErrorEnvelope struct {
	Error *GraphError `json:"error"`
}

type GraphError struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id"`
}
