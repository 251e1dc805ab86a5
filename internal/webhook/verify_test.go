package webhook

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domerrors "github.com/garyellow/protein-linebot-go/internal/errors"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCallbackRequest(body, signature string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Line-Signature", signature)
	}
	return req
}

func TestParseCallback_Valid(t *testing.T) {
	t.Parallel()

	body := callbackBody(textEventJSON("tok1", "蛋白質對照圖"))
	cb, err := ParseCallback(testSecret, newCallbackRequest(body, sign(testSecret, body)))
	require.NoError(t, err)
	require.Len(t, cb.Events, 1)

	event, ok := cb.Events[0].(webhook.MessageEvent)
	require.True(t, ok)
	assert.Equal(t, "tok1", event.ReplyToken)
	text, ok := event.Message.(webhook.TextMessageContent)
	require.True(t, ok)
	assert.Equal(t, "蛋白質對照圖", text.Text)
}

func TestParseCallback_SignatureErrors(t *testing.T) {
	t.Parallel()

	body := callbackBody(textEventJSON("tok1", "70"))
	tests := map[string]string{
		"missing":       "",
		"wrong secret":  sign("nope", body),
		"not base64":    "%%%",
		"tampered body": sign(testSecret, body+" "),
	}

	for name, signature := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCallback(testSecret, newCallbackRequest(body, signature))
			require.Error(t, err)

			var sigErr *domerrors.SignatureError
			assert.ErrorAs(t, err, &sigErr)
			assert.ErrorIs(t, err, domerrors.ErrInvalidSignature)
		})
	}
}

func TestParseCallback_Malformed(t *testing.T) {
	t.Parallel()

	body := "not json"
	_, err := ParseCallback(testSecret, newCallbackRequest(body, sign(testSecret, body)))
	require.Error(t, err)
	assert.ErrorIs(t, err, domerrors.ErrMalformedRequest)
	assert.NotErrorIs(t, err, domerrors.ErrInvalidSignature)
}

func TestParseCallback_BodyTooLarge(t *testing.T) {
	t.Parallel()

	body := strings.Repeat("a", MaxBodyBytes+1)
	_, err := ParseCallback(testSecret, newCallbackRequest(body, sign(testSecret, body)))
	require.Error(t, err)
	assert.ErrorIs(t, err, domerrors.ErrMalformedRequest)
}
