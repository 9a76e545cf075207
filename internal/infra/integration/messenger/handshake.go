package messenger

import (
	"crypto/subtle"
	"net/http"
	"net/url"
)

const (
	modeParam      = "hub.mode"
	tokenParam     = "hub.verify_token"
	challengeParam = "hub.challenge"
	subscribeMode  = "subscribe"
)

type HandshakeResult struct {
	Status int
	Body   string
}

// Handshake answers the subscription verification challenge. ok is false when
// the query does not carry both hub.mode and hub.verify_token, meaning the
// request is not a handshake at all.
func Handshake(query url.Values, verifyToken string) (result HandshakeResult, ok bool) {
	if !query.Has(modeParam) || !query.Has(tokenParam) {
		return HandshakeResult{}, false
	}

	mode := query.Get(modeParam)
	token := query.Get(tokenParam)
	if mode == subscribeMode && verifyToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(verifyToken)) == 1 {
		return HandshakeResult{Status: http.StatusOK, Body: query.Get(challengeParam)}, true
	}
	return HandshakeResult{Status: http.StatusForbidden, Body: "FORBIDDEN"}, true
}
