package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/angelmondragon/orderdesk-backend/api/responses"
	pkgerrors "github.com/angelmondragon/orderdesk-backend/pkg/errors"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
)

const WebhookTokenHeader = "X-Webhook-Token"

// WebhookVerifier decides whether an inbound provider request is authentic.
type WebhookVerifier interface {
	Verify(r *http.Request) bool
}

// AllowAllVerifier accepts every request. Used when no shared secret is configured.
type AllowAllVerifier struct{}

func (AllowAllVerifier) Verify(*http.Request) bool { return true }

// SharedSecretVerifier compares the X-Webhook-Token header with a configured secret.
type SharedSecretVerifier struct {
	Secret string
}

func (v SharedSecretVerifier) Verify(r *http.Request) bool {
	if r == nil || v.Secret == "" {
		return false
	}
	got := strings.TrimSpace(r.Header.Get(WebhookTokenHeader))
	return subtle.ConstantTimeCompare([]byte(got), []byte(v.Secret)) == 1
}

// NewWebhookVerifier picks the shared-secret verifier when a secret is set.
func NewWebhookVerifier(secret string) WebhookVerifier {
	if strings.TrimSpace(secret) == "" {
		return AllowAllVerifier{}
	}
	return SharedSecretVerifier{Secret: strings.TrimSpace(secret)}
}

// VerifyWebhook rejects provider requests the verifier does not accept.
func VerifyWebhook(verifier WebhookVerifier, logg *logger.Logger) func(http.Handler) http.Handler {
	if verifier == nil {
		verifier = AllowAllVerifier{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !verifier.Verify(r) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid webhook signature"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
