package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"titan/game"
)

// EventClient posts events to an EventServer.
type EventClient struct {
	serverURL string
	http      *http.Client
}

// NewEventClient initializes and returns a new EventClient.
func NewEventClient(serverURL string, httpClient *http.Client) *EventClient {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &EventClient{
		serverURL: serverURL,
		http:      httpClient,
	}
}

func (c *EventClient) Send(ctx context.Context, events ...game.Event) error {
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("failed to encode events: %w", err)
	}
	return c.post(ctx, "/events", data)
}

// Close tells the server no more events will come.
func (c *EventClient) Close(ctx context.Context) error {
	return c.post(ctx, "/close", nil)
}

func (c *EventClient) post(ctx context.Context, path string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.serverURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post %s: %w", path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("post %s: unexpected status %s", path, resp.Status)
	}
	return nil
}
