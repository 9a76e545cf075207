package messenger

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const (
	SignatureHeader = "X-Hub-Signature-256"
	signaturePrefix = "sha256="
)

// VerifySignature checks that header carries the HMAC-SHA256 of the raw body
// keyed with the app secret. body must be the bytes exactly as received.
func VerifySignature(body []byte, header, secret string) bool {
	digest, ok := strings.CutPrefix(strings.TrimSpace(header), signaturePrefix)
	if !ok || digest == "" {
		return false
	}
	got, err := hex.DecodeString(digest)
	if err != nil {
		return false
	}
	return hmac.Equal(got, computeMAC(body, secret))
}

// Sign returns the header value the platform would send for body.
func Sign(body []byte, secret string) string {
	return signaturePrefix + hex.EncodeToString(computeMAC(body, secret))
}

func computeMAC(body []byte, secret string) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}
