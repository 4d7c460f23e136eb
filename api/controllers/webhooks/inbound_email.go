package webhooks

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/angelmondragon/orderdesk-backend/api/responses"
	"github.com/angelmondragon/orderdesk-backend/api/validators"
	"github.com/angelmondragon/orderdesk-backend/internal/ingest"
	pkgerrors "github.com/angelmondragon/orderdesk-backend/pkg/errors"
	"github.com/angelmondragon/orderdesk-backend/pkg/logger"
)

// maxHeaderBytes bounds header-like fields (from, subject) at the RFC 5322 line limit.
const maxHeaderBytes = 998

// Field aliases used by the supported mail providers, in priority order.
var (
	messageIDFields = []string{"messageId", "Message-Id", "message-id", "id"}
	fromFields      = []string{"from", "sender"}
	subjectFields   = []string{"subject"}
	textFields      = []string{"text", "stripped-text", "plain"}
	htmlFields      = []string{"html", "stripped-html", "htmlBody"}
)

// InboundEmailProcessor runs one delivery through the ingest pipeline.
type InboundEmailProcessor interface {
	Process(ctx context.Context, msg ingest.InboundEmail) (*ingest.Outcome, error)
}

// InboundEmail accepts a parsed-email delivery from the mail provider and runs
// it through the ingest gate.
func InboundEmail(gate InboundEmailProcessor, maxBodyBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if gate == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingest gate unavailable"))
			return
		}

		fields, err := validators.DecodeProviderBody(w, r, maxBodyBytes)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		msg := inboundEmailFromFields(fields)
		msg.ReceivedAt = time.Now().UTC()
		if msg.MessageID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing messageId").
				WithDetails(map[string]any{"field": "messageId", "accepted": messageIDFields}))
			return
		}

		if logg != nil {
			ctx = logg.WithMessageID(ctx, msg.MessageID)
		}

		outcome, err := gate.Process(ctx, msg)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, outcome)
	}
}

func inboundEmailFromFields(fields map[string]any) ingest.InboundEmail {
	return ingest.InboundEmail{
		MessageID: strings.TrimSpace(firstField(fields, messageIDFields)),
		From:      validators.SanitizeString(firstField(fields, fromFields), maxHeaderBytes),
		Subject:   validators.SanitizeString(firstField(fields, subjectFields), maxHeaderBytes),
		Text:      firstField(fields, textFields),
		HTML:      firstField(fields, htmlFields),
	}
}

// firstField returns the first alias holding a non-empty scalar value.
func firstField(fields map[string]any, keys []string) string {
	for _, key := range keys {
		if value := scalarString(fields[key]); value != "" {
			return value
		}
	}
	return ""
}

func scalarString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	case bool:
		if value {
			return "true"
		}
	}
	return ""
}
