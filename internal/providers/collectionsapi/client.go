package collectionsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/game-collections-service/internal/domain/collections"
	"github.com/preston-bernstein/game-collections-service/internal/metrics"
	"github.com/preston-bernstein/game-collections-service/internal/providers"
)

// Config controls how the client reaches the collections API.
type Config struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client fetches collections from a remote collections API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient httpDoer
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient, cfg.Timeout),
	}
}

// FetchCollection performs GET /user/collection?uid=..&collid=..
func (c *Client) FetchCollection(ctx context.Context, key collections.Key) (collections.View, error) {
	req, err := c.newRequest(ctx, http.MethodGet, collectionPath+"?"+key.String(), nil)
	if err != nil {
		return collections.View{}, err
	}

	var payload collections.CollectionResponse
	if err := c.do(req, metrics.OpFetchCollection, &payload); err != nil {
		return collections.View{}, err
	}
	return payload.View(), nil
}

// RemoveGame performs POST /user/collection/remove with the request as JSON body.
func (c *Client) RemoveGame(ctx context.Context, body collections.RemoveRequest) (collections.RemoveResponse, error) {
	encoded, err := json.Marshal(body)
	if err != nil {
		return collections.RemoveResponse{}, fmt.Errorf("collectionsapi: encode remove request: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, removePath, bytes.NewReader(encoded))
	if err != nil {
		return collections.RemoveResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var payload collections.RemoveResponse
	if err := c.do(req, metrics.OpRemoveGame, &payload); err != nil {
		return collections.RemoveResponse{}, err
	}
	return payload, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, op string, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		upErr := &providers.UpstreamError{Provider: providerName, Op: op, Err: err}
		if !errors.Is(err, context.DeadlineExceeded) {
			upErr.Message = unreachableMessage
		}
		return upErr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return providers.StatusError(providerName, op, resp.StatusCode, readErrorMessage(resp))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &providers.UpstreamError{
			Provider: providerName,
			Op:       op,
			Message:  "The collection source returned an unreadable response.",
			Err:      fmt.Errorf("decode %s response: %w", op, err),
		}
	}
	return nil
}

func readErrorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var parsed errorResponse
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.text() != "" {
		return parsed.text()
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
