package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/hackdesk/hackdesk-api/pkg/session"
)

// Client dispatches HTTP calls on behalf of the dashboards, attaching the
// session credential and translating failures into typed errors. It performs
// no retries and no request de-duplication.
type Client struct {
	Auth       *AuthAPI
	Tasks      *TasksAPI
	Student    *StudentAPI
	Supervisor *SupervisorAPI

	baseURL string
	http    *http.Client
	store   *session.Store
	logger  zerolog.Logger
}

// New builds a gateway client rooted at baseURL (including the API prefix,
// e.g. "https://host/api/v1").
func New(baseURL string, store *session.Store, logger zerolog.Logger) *Client {
	client := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		store:   store,
		logger:  logger.With().Str("component", "gateway").Logger(),
	}
	client.Auth = &AuthAPI{client: client}
	client.Tasks = &TasksAPI{client: client}
	client.Student = &StudentAPI{client: client}
	client.Supervisor = &SupervisorAPI{client: client}
	return client
}

// Session exposes the store the client reads credentials from.
func (c *Client) Session() *session.Store {
	return c.store
}

func (c *Client) requireAuth() error {
	if !c.store.Authenticated() {
		return &Error{Kind: KindAuthRequired, Message: "authentication required"}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}, out interface{}) error {
	var body io.Reader
	contentType := ""
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return &Error{Kind: KindTransportFailure, Message: "failed to encode request payload"}
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, body, contentType, out)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &Error{Kind: KindTransportFailure, Message: "failed to build request"}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if credential := c.store.Credential(); credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", path).Msg("request failed")
		return &Error{Kind: KindTransportFailure, Message: "network unreachable, try again"}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransportFailure, Message: "failed to read response body"}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		// A rejected credential is never retried. The session is cleared so
		// every consumer observes the logout.
		if clearErr := c.store.ClearAuth(); clearErr != nil {
			c.logger.Error().Err(clearErr).Msg("failed to clear session after credential rejection")
		}
		return &Error{Kind: KindAuthDenied, Message: extractMessage(raw, "credential rejected")}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &Error{
			Kind:    classifyStatus(resp.StatusCode),
			Message: extractMessage(raw, http.StatusText(resp.StatusCode)),
		}
	}

	if out == nil {
		return nil
	}
	return decodePayload(raw, out)
}

func classifyStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity, http.StatusRequestEntityTooLarge:
		return KindValidationFailed
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusForbidden:
		return KindAuthDenied
	default:
		return KindTransportFailure
	}
}

// extractMessage pulls the human-readable message out of the response
// envelope when one is present.
func extractMessage(raw []byte, fallback string) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Message != "" {
		return envelope.Message
	}
	return fallback
}

// decodePayload tolerates the envelope variants the backend has shipped:
// {success, data, message}, {data}, or the bare payload itself.
func decodePayload(raw []byte, out interface{}) error {
	if len(raw) == 0 {
		return nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil &&
		len(envelope.Data) > 0 && !bytes.Equal(envelope.Data, []byte("null")) {
		if err := json.Unmarshal(envelope.Data, out); err == nil {
			return nil
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Kind: KindTransportFailure, Message: "malformed response body"}
	}
	return nil
}
