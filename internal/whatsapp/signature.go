package whatsapp

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
)

// SignatureHeader carries the platform's MAC over the raw request body.
const SignatureHeader = "X-Hub-Signature-256"

// ErrBadSignature is returned for any verification failure: missing
// secret, missing header or MAC mismatch. Verification fails closed.
var ErrBadSignature = errors.New("webhook signature verification failed")

// VerifySignature checks the HMAC-SHA256 of the exact raw body bytes
// against the header value. The comparison is constant time.
func VerifySignature(secret string, body []byte, header string) error {
	if secret == "" || header == "" {
		return ErrBadSignature
	}

	provided := strings.TrimPrefix(header, "sha256=")
	if provided == header {
		return ErrBadSignature
	}

	decoded, err := hex.DecodeString(provided)
	if err != nil {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	if !hmac.Equal(decoded, mac.Sum(nil)) {
		return ErrBadSignature
	}
	return nil
}
