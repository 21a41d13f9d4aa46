package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// TICTransport posts alert payloads to the TIC monitoring endpoint as JSON,
// optionally with basic auth.
type TICTransport struct {
	URL      string
	Username string
	Password string

	// Client is used for delivery when set; a default client with a 30s
	// timeout is used otherwise.
	Client *http.Client
}

func (t *TICTransport) Deliver(ctx context.Context, payload Payload) error {
	if t.URL == "" {
		return errors.New("no alert endpoint configured")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.URL, bytes.NewBuffer(body))
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if t.Username != "" || t.Password != "" {
		req.SetBasicAuth(t.Username, t.Password)
	}

	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending alert to TIC endpoint: %w", err)
	}

	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("TIC endpoint responded with status %d", resp.StatusCode)
	}

	return nil
}
