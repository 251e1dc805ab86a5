package webhook

import (
	"errors"
	"fmt"
	"net/http"

	domerrors "github.com/garyellow/protein-linebot-go/internal/errors"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// MaxBodyBytes caps the webhook body read before signature verification.
const MaxBodyBytes = 1 << 20

// ParseCallback verifies the X-Line-Signature header against the raw body
// and decodes the events. A signature mismatch returns *errors.SignatureError;
// every other failure wraps errors.ErrMalformedRequest.
func ParseCallback(secret string, r *http.Request) (*webhook.CallbackRequest, error) {
	if r.Header.Get("X-Line-Signature") == "" {
		return nil, domerrors.NewSignatureError(errors.New("missing X-Line-Signature header"))
	}

	r.Body = http.MaxBytesReader(nil, r.Body, MaxBodyBytes)
	cb, err := webhook.ParseRequest(secret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			return nil, domerrors.NewSignatureError(err)
		}
		return nil, fmt.Errorf("%w: %w", domerrors.ErrMalformedRequest, err)
	}
	return cb, nil
}
