package factcheck

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"
)

const maxReplyBytes = 4 << 20

var _ Collaborator = (*WebhookClient)(nil)

// WebhookClient posts the claim to an HTTP workflow endpoint.
type WebhookClient struct {
	url    string
	client *http.Client
}

type WebhookOption func(*WebhookClient)

func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *WebhookClient) {
		w.client = client
	}
}

func NewWebhookClient(url string, options ...WebhookOption) *WebhookClient {
	w := &WebhookClient{
		url:    url,
		client: http.DefaultClient,
	}
	for _, opt := range options {
		opt(w)
	}
	return w
}

type webhookRequest struct {
	Message string `json:"message"`
}

// FactCheck sends one request; the deadline comes from ctx. A body that is
// not JSON is returned as a string.
func (w *WebhookClient) FactCheck(ctx context.Context, claim string) (any, error) {
	body, err := json.Marshal(webhookRequest{Message: claim})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxReplyBytes))
		return nil, &Error{Kind: KindStatus, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, Classify(err)
	}
	log.Debug().Int("bytes", len(raw)).Msg("Webhook reply received")

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var reply any
	if err := decoder.Decode(&reply); err != nil {
		return string(raw), nil
	}
	return reply, nil
}
