package twitch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultHelixURL = "https://api.twitch.tv/helix"

// helixClient is a thin wrapper over the handful of Helix endpoints the
// plugin needs: users, streams and EventSub subscription management.
type helixClient struct {
	http     *http.Client
	apiURL   string
	clientID string
	token    *appToken
}

func newHelixClient(clientID string, token *appToken) *helixClient {
	return &helixClient{
		http:     &http.Client{Timeout: 10 * time.Second},
		apiURL:   defaultHelixURL,
		clientID: clientID,
		token:    token,
	}
}

type helixUser struct {
	ID    string `json:"id"`
	Login string `json:"login"`
}

type helixStream struct {
	UserLogin string `json:"user_login"`
	UserName  string `json:"user_name"`
	GameName  string `json:"game_name"`
	StartedAt string `json:"started_at"`
}

type helixSubscription struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Status    string `json:"status"`
	Condition struct {
		BroadcasterUserID string `json:"broadcaster_user_id"`
	} `json:"condition"`
}

func (s helixSubscription) isValid() bool {
	return s.Status == "enabled" || s.Status == "webhook_callback_verification_pending"
}

func (c *helixClient) getUsers(ctx context.Context, logins []string) ([]helixUser, error) {
	if len(logins) == 0 {
		return nil, nil
	}
	q := url.Values{"login": logins}
	var out struct {
		Data []helixUser `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/users", q, nil, &out); err != nil {
		return nil, fmt.Errorf("cannot get users: %w", err)
	}
	return out.Data, nil
}

func (c *helixClient) getStreams(ctx context.Context, logins []string) ([]helixStream, error) {
	if len(logins) == 0 {
		return nil, nil
	}
	q := url.Values{"user_login": logins}
	var out struct {
		Data []helixStream `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/streams", q, nil, &out); err != nil {
		return nil, fmt.Errorf("cannot get live streams: %w", err)
	}
	return out.Data, nil
}

func (c *helixClient) listSubscriptions(ctx context.Context) ([]helixSubscription, error) {
	// TODO: handle pagination
	var out struct {
		Data []helixSubscription `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/eventsub/subscriptions", nil, nil, &out); err != nil {
		return nil, fmt.Errorf("cannot list subscriptions: %w", err)
	}
	return out.Data, nil
}

func (c *helixClient) createSubscription(ctx context.Context, typ, broadcasterID, callback, secret string) error {
	body := map[string]any{
		"type":    typ,
		"version": "1",
		"condition": map[string]string{
			"broadcaster_user_id": broadcasterID,
		},
		"transport": map[string]string{
			"method":   "webhook",
			"callback": callback,
			"secret":   secret,
		},
	}
	if err := c.do(ctx, http.MethodPost, "/eventsub/subscriptions", nil, body, nil); err != nil {
		return fmt.Errorf("failed to subscribe %s for %s: %w", typ, broadcasterID, err)
	}
	return nil
}

func (c *helixClient) deleteSubscription(ctx context.Context, id string) error {
	q := url.Values{"id": {id}}
	if err := c.do(ctx, http.MethodDelete, "/eventsub/subscriptions", q, nil, nil); err != nil {
		return fmt.Errorf("failed to delete subscription %s: %w", id, err)
	}
	return nil
}

func (c *helixClient) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.apiURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+c.token.Get())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %s: %s", method, path, resp.Status, raw)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding %s response: %w", path, err)
		}
	}
	return nil
}
