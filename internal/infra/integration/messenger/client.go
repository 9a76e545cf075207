package messenger

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/messenger-reviews/internal/entity"
)

const DefaultGraphURL = "https://graph.facebook.com/v15.0"

// Client talks to the Graph API send and profile endpoints.
type Client struct {
	http        *resty.Client
	accessToken string
	log         logrus.FieldLogger
}

func NewClient(baseURL, accessToken string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if baseURL == "" {
		baseURL = DefaultGraphURL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(timeout),
		accessToken: accessToken,
		log:         log.WithField("component", "messenger"),
	}
}

func (c *Client) SendMessage(ctx context.Context, msg entity.OutgoingMessage) error {
	if c.accessToken == "" {
		return fmt.Errorf("messenger: access token not configured")
	}

	payload := SendMessageRequest{
		Recipient:     Recipient{ID: msg.RecipientID},
		Message:       MessageBody{Text: msg.Text},
		MessagingType: msg.MessagingType(),
	}

	var result SendMessageResponse
	var graphErr graphErrorEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("access_token", c.accessToken).
		SetBody(payload).
		SetResult(&result).
		SetError(&graphErr).
		Post("/me/messages")
	if err != nil {
		return fmt.Errorf("messenger: send message: %w", err)
	}
	if resp.IsError() {
		return apiError("send message", resp.StatusCode(), graphErr.Error, resp.String())
	}

	c.log.WithFields(logrus.Fields{
		"recipient_id":   msg.RecipientID,
		"message_id":     result.MessageID,
		"messaging_type": payload.MessagingType,
	}).Debug("message sent")
	return nil
}

func (c *Client) GetProfile(ctx context.Context, personID int64) (*entity.Profile, error) {
	if c.accessToken == "" {
		return nil, fmt.Errorf("messenger: access token not configured")
	}

	var result profileResponse
	var graphErr graphErrorEnvelope
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("person_id", strconv.FormatInt(personID, 10)).
		SetQueryParams(map[string]string{
			"fields":       "first_name,last_name",
			"access_token": c.accessToken,
		}).
		SetResult(&result).
		SetError(&graphErr).
		Get("/{person_id}")
	if err != nil {
		return nil, fmt.Errorf("messenger: get profile: %w", err)
	}
	if resp.IsError() {
		return nil, apiError("get profile", resp.StatusCode(), graphErr.Error, resp.String())
	}

	return &entity.Profile{
		PersonID:  personID,
		FirstName: result.FirstName,
		LastName:  result.LastName,
	}, nil
}

func apiError(op string, status int, ge *GraphError, raw string) error {
	if ge != nil && ge.Message != "" {
		return fmt.Errorf("messenger: %s: status %d: %s (code %d)", op, status, ge.Message, ge.Code)
	}
	return fmt.Errorf("messenger: %s: status %d: %s", op, status, raw)
}
