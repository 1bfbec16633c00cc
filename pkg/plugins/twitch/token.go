package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const defaultAuthURL = "https://id.twitch.tv/oauth2/token"

// refresh a little before the token actually expires
const refreshMargin = time.Minute

// appToken holds an app access token and keeps it fresh in the background.
// Get snapshots under the lock; the lock is never held across a request.
type appToken struct {
	log          *slog.Logger
	client       *http.Client
	authURL      string
	clientID     string
	clientSecret string

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func newAppToken(ctx context.Context, clientID, clientSecret string, logger *slog.Logger) (*appToken, error) {
	t := &appToken{
		log:          logger,
		client:       &http.Client{Timeout: 10 * time.Second},
		authURL:      defaultAuthURL,
		clientID:     clientID,
		clientSecret: clientSecret,
	}
	if err := t.fetch(ctx); err != nil {
		return nil, fmt.Errorf("cannot get app access token: %w", err)
	}
	return t, nil
}

func (t *appToken) Get() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.token
}

func (t *appToken) fetch(ctx context.Context) error {
	form := url.Values{
		"client_id":     {t.clientID},
		"client_secret": {t.clientSecret},
		"grant_type":    {"client_credentials"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token endpoint returned %s", resp.Status)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decoding token response: %w", err)
	}

	t.mu.Lock()
	t.token = parsed.AccessToken
	t.expiresAt = time.Now().Add(time.Duration(parsed.ExpiresIn) * time.Second)
	t.mu.Unlock()
	return nil
}

// refreshLoop renews the token shortly before expiry. A failed refresh is
// logged and retried: the stale token usually still works for a while, so
// this is the one place a transient error does not take the process down.
func (t *appToken) refreshLoop(ctx context.Context) {
	for {
		t.mu.Lock()
		wait := time.Until(t.expiresAt) - refreshMargin
		t.mu.Unlock()
		if wait < 0 {
			wait = refreshMargin
		}
		t.log.Debug("sleeping before token refresh", "wait", wait)

		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if err := t.fetch(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			t.log.Error("error while refreshing twitch token", "error", err)
			continue
		}
		t.log.Info("successfully acquired a new twitch token")
	}
}
