package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultFCMEndpoint = "https://fcm.googleapis.com/fcm/send"

type PushConfig struct {
	ServerKey string
	Endpoint  string // defaults to the FCM legacy send endpoint
	Timeout   time.Duration
}

// PushMessage is a visible notification (title/body) plus free-form data the
// app consumes when the user opens it.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// PushClient is the delivery seam; tests inject a recording fake.
type PushClient interface {
	Push(ctx context.Context, token string, msg PushMessage) error
}

// NewPushClient builds the configured client. Without a server key pushes are
// silently disabled, which keeps local development working.
func NewPushClient(cfg PushConfig) PushClient {
	if cfg.ServerKey == "" {
		return nopClient{}
	}
	return NewFCMClient(cfg)
}

type nopClient struct{}

func (nopClient) Push(ctx context.Context, token string, msg PushMessage) error { return nil }

// FCMClient talks to the FCM legacy HTTP API. A push is a single JSON POST
// authorized by the server key; there is no SDK dependency to carry.
type FCMClient struct {
	cfg    PushConfig
	client *http.Client
}

func NewFCMClient(cfg PushConfig) *FCMClient {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultFCMEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &FCMClient{
		cfg:    cfg,
		client: &http.Client{Timeout: timeout},
	}
}

type fcmPayload struct {
	To           string            `json:"to"`
	Notification *fcmNotification  `json:"notification,omitempty"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResult struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
	Results []struct {
		Error string `json:"error"`
	} `json:"results"`
}

func (f *FCMClient) Push(ctx context.Context, token string, msg PushMessage) error {
	payload := fcmPayload{
		To:   token,
		Data: msg.Data,
	}
	if msg.Title != "" || msg.Body != "" {
		payload.Notification = &fcmNotification{Title: msg.Title, Body: msg.Body}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+f.cfg.ServerKey)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("push dispatch returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return err
	}
	var result fcmResult
	if err := json.Unmarshal(raw, &result); err != nil {
		// non-JSON body with a 200 status; treat as delivered
		return nil
	}
	if result.Failure > 0 {
		if len(result.Results) > 0 && result.Results[0].Error != "" {
			return fmt.Errorf("push rejected: %s", result.Results[0].Error)
		}
		return fmt.Errorf("push rejected")
	}
	return nil
}
