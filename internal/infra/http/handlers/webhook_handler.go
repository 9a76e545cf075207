package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/messenger-reviews/internal/entity"
	"github.com/xavierca1/messenger-reviews/internal/infra/cache"
	"github.com/xavierca1/messenger-reviews/internal/infra/http/middleware"
	"github.com/xavierca1/messenger-reviews/internal/infra/integration/messenger"
	"github.com/xavierca1/messenger-reviews/internal/usecase"
)

const maxWebhookBody = 1 << 20

// DefaultMessageTimeout bounds the work done for one message once it has been
// detached from the delivery request.
const DefaultMessageTimeout = 20 * time.Second

const (
	bodyEventReceived = "EVENT_RECEIVED"
	bodyInvalid       = "INVALID"
	bodyForbidden     = "FORBIDDEN"
	bodyUnknown       = "UNKNOWN"
)

type MessageHandler interface {
	HandleMessage(ctx context.Context, msg entity.IncomingMessage) (*usecase.Outcome, error)
}

type WebhookHandler struct {
	AppSecret   string
	VerifyToken string
	Engine      MessageHandler
	Dedup       cache.Deduplicator
	Log         logrus.FieldLogger

	// MessageTimeout limits each message; the platform hanging up does not
	// cancel work already started.
	MessageTimeout time.Duration
}

func NewWebhookHandler(appSecret, verifyToken string, engine MessageHandler, dedup cache.Deduplicator, log logrus.FieldLogger) *WebhookHandler {
	if dedup == nil {
		dedup = cache.NoopDeduplicator{}
	}
	return &WebhookHandler{
		AppSecret:      appSecret,
		VerifyToken:    verifyToken,
		Engine:         engine,
		Dedup:          dedup,
		Log:            log,
		MessageTimeout: DefaultMessageTimeout,
	}
}

// Handle serves POST deliveries. Messages are routed one by one as they are
// decoded, so a malformed item answers 400 after the earlier ones were
// already handled. Processing failures never change the status.
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		h.respond(w, http.StatusBadRequest, bodyInvalid, "unreadable")
		return
	}

	if !messenger.VerifySignature(body, r.Header.Get(messenger.SignatureHeader), h.AppSecret) {
		h.Log.WithError(messenger.ErrSignatureInvalid).Warn("rejected webhook delivery")
		h.respond(w, http.StatusForbidden, bodyForbidden, "forbidden")
		return
	}

	if res, ok := messenger.Handshake(r.URL.Query(), h.VerifyToken); ok {
		h.respond(w, res.Status, res.Body, "handshake")
		return
	}

	env, err := messenger.DecodeEnvelope(body)
	if err != nil {
		h.Log.WithError(err).Warn("rejected webhook payload")
		if errors.Is(err, messenger.ErrUnknownObjectType) {
			h.respond(w, http.StatusNotFound, bodyUnknown, "unknown")
			return
		}
		h.respond(w, http.StatusBadRequest, bodyInvalid, "invalid")
		return
	}

	err = env.EachMessage(func(msg entity.IncomingMessage) {
		h.route(r.Context(), msg)
	})
	if err != nil {
		h.Log.WithError(err).Warn("webhook batch stopped at malformed item")
		h.respond(w, http.StatusBadRequest, bodyInvalid, "invalid")
		return
	}

	h.respond(w, http.StatusOK, bodyEventReceived, "received")
}

// HandleVerification serves GET handshakes.
func (h *WebhookHandler) HandleVerification(w http.ResponseWriter, r *http.Request) {
	res, ok := messenger.Handshake(r.URL.Query(), h.VerifyToken)
	if !ok {
		h.respond(w, http.StatusBadRequest, bodyInvalid, "invalid")
		return
	}
	h.respond(w, res.Status, res.Body, "handshake")
}

func (h *WebhookHandler) route(parent context.Context, msg entity.IncomingMessage) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), h.MessageTimeout)
	defer cancel()

	log := h.Log.WithFields(logrus.Fields{
		"sender_id":  msg.SenderID,
		"message_id": msg.MessageID,
	})

	first, err := h.Dedup.Claim(ctx, msg.MessageID)
	if err != nil {
		log.WithError(err).Warn("dedup unavailable, handling message anyway")
	} else if !first {
		log.Info("duplicate message ignored")
		middleware.RecordMessage("duplicate")
		return
	}

	out, err := h.Engine.HandleMessage(ctx, msg)
	if out != nil {
		for _, code := range out.Degraded {
			middleware.RecordProcessingError(string(code))
		}
		log = log.WithFields(logrus.Fields{
			"from_state": out.From.String(),
			"to_state":   out.To.String(),
		})
		if out.Transitioned() {
			middleware.RecordTransition(out.From.String(), out.To.String())
		}
	}

	if err != nil {
		code := usecase.ErrorCodeOf(err)
		if code == "" {
			code = "UNKNOWN"
		}
		middleware.RecordProcessingError(string(code))
		middleware.RecordMessage("failed")
		log.WithError(err).WithField("code", code).Error("message processing failed")
		return
	}

	middleware.RecordMessage("handled")
	log.Info("message handled")
}

func (h *WebhookHandler) respond(w http.ResponseWriter, status int, body, result string) {
	middleware.RecordWebhookDelivery(result)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
