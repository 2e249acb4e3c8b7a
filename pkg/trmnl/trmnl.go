// Package trmnl pushes data to a TRMNL private plugin through its webhook.
package trmnl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const DefaultURL = "https://usetrmnl.com/api/custom_plugins"

// Client posts merge variables to one plugin.
type Client struct {
	URL  string
	UUID string
	HTTP *http.Client
}

// NewClient creates a client for the plugin with the given UUID.
func NewClient(baseURL, uuid string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		URL:  baseURL,
		UUID: uuid,
		HTTP: &http.Client{Timeout: 15 * time.Second},
	}
}

// envelope is the body TRMNL expects; the plugin's template sees the fields
// of MergeVariables at the top level.
type envelope struct {
	MergeVariables interface{} `json:"merge_variables"`
}

// Send posts v as the plugin's merge variables.
func (c *Client) Send(ctx context.Context, v interface{}) error {
	body, err := json.Marshal(envelope{v})
	if err != nil {
		return fmt.Errorf("failed to encode merge variables: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook rejected update with %s: %s", resp.Status, strings.TrimSpace(string(msg)))
	}
	// Drain so the connection can be reused.
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) endpoint() string {
	return strings.TrimSuffix(c.URL, "/") + "/" + c.UUID
}
