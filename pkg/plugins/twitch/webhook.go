package twitch

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"golem/pkg/plugin"
)

const webhookPath = "/touitche/coucou"

const (
	headerMessageID        = "Twitch-Eventsub-Message-Id"
	headerMessageTimestamp = "Twitch-Eventsub-Message-Timestamp"
	headerMessageSignature = "Twitch-Eventsub-Message-Signature"
	headerMessageType      = "Twitch-Eventsub-Message-Type"
)

const (
	messageTypeVerification = "webhook_callback_verification"
	messageTypeNotification = "notification"
	messageTypeRevocation   = "revocation"
)

// streamEvent is one EventSub notification relevant to us.
type streamEvent struct {
	Type             string
	BroadcasterLogin string
}

func (t *Twitch) routes() []plugin.Route {
	return []plugin.Route{
		{Method: http.MethodPost, Path: webhookPath, Handle: t.handleWebhook},
	}
}

type eventsubPayload struct {
	Challenge    string `json:"challenge"`
	Subscription struct {
		Type string `json:"type"`
	} `json:"subscription"`
	Event struct {
		BroadcasterUserLogin string `json:"broadcaster_user_login"`
	} `json:"event"`
}

func (t *Twitch) handleWebhook(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		http.Error(w, "cannot read body", http.StatusBadRequest)
		return
	}
	if !verifySignature(r.Header, t.cfg.AppSecret, body) {
		t.log.Error("webhook signature verification failed")
		http.Error(w, "invalid signature", http.StatusForbidden)
		return
	}

	var payload eventsubPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "cannot parse payload", http.StatusBadRequest)
		return
	}

	switch r.Header.Get(headerMessageType) {
	case messageTypeVerification:
		t.log.Debug("webhook verification request received")
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, payload.Challenge)

	case messageTypeNotification:
		event := streamEvent{
			Type:             payload.Subscription.Type,
			BroadcasterLogin: strings.ToLower(payload.Event.BroadcasterUserLogin),
		}
		t.log.Debug("eventsub notification", "type", event.Type, "broadcaster", event.BroadcasterLogin)
		select {
		case t.events <- event:
		case <-r.Context().Done():
			http.Error(w, "shutting down", http.StatusServiceUnavailable)
			return
		}

	case messageTypeRevocation:
		t.log.Warn("eventsub subscription revoked", "type", payload.Subscription.Type)

	default:
		http.Error(w, "unsupported message type", http.StatusNotImplemented)
	}
}

// verifySignature checks the HMAC-SHA256 over message id, timestamp and raw
// body against the signature header.
func verifySignature(h http.Header, secret string, body []byte) bool {
	sig, ok := strings.CutPrefix(h.Get(headerMessageSignature), "sha256=")
	if !ok {
		return false
	}
	expected, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(h.Get(headerMessageID)))
	mac.Write([]byte(h.Get(headerMessageTimestamp)))
	mac.Write(body)
	return hmac.Equal(mac.Sum(nil), expected)
}
