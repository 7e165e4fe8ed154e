package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vc3-project/vc3-info-service/pkg/clierror"
)

// InfoClient provides HTTP client access to the info service API.
type InfoClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewInfoClient creates a new client for the info service API.
func NewInfoClient(baseURL string) *InfoClient {
	return &InfoClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// pairingResponse matches the API response for filing a pairing request.
type pairingResponse struct {
	Name        string `json:"name"`
	PairingCode string `json:"pairingcode"`
}

// statusResponse matches the API response for mutations.
type statusResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Entity string `json:"entity,omitempty"`
}

// errorResponse matches the API error body.
type errorResponse struct {
	Error string `json:"error"`
}

func (c *InfoClient) documentURL(key string) string {
	return c.baseURL + "/api/v1/documents/" + url.PathEscape(key)
}

func (c *InfoClient) entityURL(key, name string) string {
	return c.documentURL(key) + "/entities/" + url.PathEscape(name)
}

// do sends a request with the given JSON body and decodes the
// response into out when the status matches.
func (c *InfoClient) do(ctx context.Context, method, rawURL string, body []byte, wantStatus int, out interface{}) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return clierror.ConnectionFailed(c.baseURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		respBody, _ := io.ReadAll(resp.Body)
		msg := strings.TrimSpace(string(respBody))
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return apiError(resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// apiError maps a server error status onto a structured CLI error,
// keeping the server's message.
func apiError(status int, msg string) *clierror.CLIError {
	switch status {
	case http.StatusBadRequest:
		return clierror.InvalidInput(msg)
	case http.StatusNotFound:
		if strings.Contains(msg, "not satisfied yet") {
			pending := clierror.PairingPending()
			pending.Message = msg
			return pending
		}
		return &clierror.CLIError{
			Code:     clierror.CodeEntityNotFound,
			Message:  msg,
			Hint:     "Check entity names with 'infoctl document get <key>'",
			ExitCode: clierror.ExitNotFound,
		}
	case http.StatusConflict:
		return &clierror.CLIError{
			Code:     clierror.CodeAlreadyExists,
			Message:  msg,
			Hint:     "Use 'infoctl entity update' or delete the existing entity first",
			ExitCode: clierror.ExitConflict,
		}
	default:
		return &clierror.CLIError{
			Code:     clierror.CodeInternalError,
			Message:  fmt.Sprintf("server returned %d: %s", status, msg),
			ExitCode: clierror.ExitGeneral,
		}
	}
}

// ReadDocument retrieves the full document stored at key.
func (c *InfoClient) ReadDocument(ctx context.Context, key string) (map[string]interface{}, error) {
	var doc map[string]interface{}
	if err := c.do(ctx, http.MethodGet, c.documentURL(key), nil, http.StatusOK, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// ReplaceDocument overwrites the document at key with the given JSON body.
func (c *InfoClient) ReplaceDocument(ctx context.Context, key string, body []byte) error {
	return c.do(ctx, http.MethodPost, c.documentURL(key), body, http.StatusOK, nil)
}

// MergeDocument recursively merges the given JSON body into the document at key.
func (c *InfoClient) MergeDocument(ctx context.Context, key string, body []byte) error {
	return c.do(ctx, http.MethodPut, c.documentURL(key), body, http.StatusOK, nil)
}

// DeleteDocument clears the document at key.
func (c *InfoClient) DeleteDocument(ctx context.Context, key string) error {
	return c.do(ctx, http.MethodDelete, c.documentURL(key), nil, http.StatusOK, nil)
}

// GetEntity retrieves a single entity from the document at key.
func (c *InfoClient) GetEntity(ctx context.Context, key, name string) (map[string]interface{}, error) {
	var entity map[string]interface{}
	if err := c.do(ctx, http.MethodGet, c.entityURL(key, name), nil, http.StatusOK, &entity); err != nil {
		return nil, err
	}
	return entity, nil
}

// CreateEntity creates a new named entity in the document at key.
func (c *InfoClient) CreateEntity(ctx context.Context, key, name string, body []byte) error {
	return c.do(ctx, http.MethodPost, c.entityURL(key, name), body, http.StatusCreated, nil)
}

// UpdateEntity replaces attributes of an existing entity.
func (c *InfoClient) UpdateEntity(ctx context.Context, key, name string, body []byte) error {
	return c.do(ctx, http.MethodPut, c.entityURL(key, name), body, http.StatusOK, nil)
}

// DeleteEntity removes a named entity from the document at key.
func (c *InfoClient) DeleteEntity(ctx context.Context, key, name string) error {
	return c.do(ctx, http.MethodDelete, c.entityURL(key, name), nil, http.StatusOK, nil)
}

// CreatePairing files a pairing request and returns the generated
// name and one-time code.
func (c *InfoClient) CreatePairing(ctx context.Context, key string) (*pairingResponse, error) {
	var out pairingResponse
	u := c.baseURL + "/api/v1/pairing/" + url.PathEscape(key)
	if err := c.do(ctx, http.MethodPost, u, nil, http.StatusCreated, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolvePairing presents a pairing code and returns the delivered
// entry on success.
func (c *InfoClient) ResolvePairing(ctx context.Context, key, code string) (map[string]interface{}, error) {
	var entry map[string]interface{}
	u := c.baseURL + "/api/v1/pairing/" + url.PathEscape(key) + "/" + url.PathEscape(code)
	if err := c.do(ctx, http.MethodGet, u, nil, http.StatusOK, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Health checks the server liveness endpoint.
func (c *InfoClient) Health(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := c.do(ctx, http.MethodGet, c.baseURL+"/health", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}
