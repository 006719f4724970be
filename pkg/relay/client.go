package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/permachat/permachat/pkg/logger"
)

// Client is a thin wrapper over the bot-relay HTTP API. It performs no
// retries; a failed call is simply retried by the watcher on its next tick.
type Client struct {
	baseURL string
	httpc   *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// InitializeBot brings the relay's Telegram bot up: initialize first, then
// start. The calls are strictly sequential and either failure aborts.
func (c *Client) InitializeBot(ctx context.Context) error {
	var resp statusResponse
	if err := c.do(ctx, http.MethodPost, "/telegram/initialize", &resp); err != nil {
		return err
	}
	if !resp.Success {
		return c.serviceError("initialize bot", resp.Message)
	}

	resp = statusResponse{}
	if err := c.do(ctx, http.MethodPost, "/telegram/start", &resp); err != nil {
		return err
	}
	if !resp.Success {
		return c.serviceError("start bot", resp.Message)
	}

	return nil
}

// ListRecentFiles fetches the relay's recent-files listing along with the
// server-side snapshot timestamp.
func (c *Client) ListRecentFiles(ctx context.Context) (Listing, error) {
	var resp listResponse
	if err := c.do(ctx, http.MethodGet, "/telegram/files/recent", &resp); err != nil {
		return Listing{}, err
	}
	if !resp.Success {
		return Listing{}, c.serviceError("list recent files", resp.Message)
	}

	return Listing{
		Files:     resp.Files,
		Count:     resp.Count,
		Timestamp: resp.Timestamp,
	}, nil
}

// GetUploadCost fetches the Arweave cost estimate for one file.
func (c *Client) GetUploadCost(ctx context.Context, fileID string) (CostEstimate, error) {
	var resp costResponse
	path := fmt.Sprintf("/telegram/ardrive/files/%s/cost", fileID)
	if err := c.do(ctx, http.MethodGet, path, &resp); err != nil {
		return CostEstimate{}, err
	}
	if !resp.Success {
		return CostEstimate{}, c.serviceError("get upload cost", resp.Message)
	}

	return resp.CostEstimate, nil
}

// UploadFile triggers the permanent-storage upload for one file.
func (c *Client) UploadFile(ctx context.Context, fileID string) (UploadResult, error) {
	var resp uploadResponse
	path := fmt.Sprintf("/telegram/ardrive/files/%s/upload", fileID)
	if err := c.do(ctx, http.MethodPost, path, &resp); err != nil {
		return UploadResult{}, err
	}
	if !resp.Success {
		return UploadResult{}, c.serviceError("upload file", resp.Message)
	}

	return resp.UploadResult, nil
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type listResponse struct {
	Success   bool         `json:"success"`
	Message   string       `json:"message,omitempty"`
	Files     []RemoteFile `json:"files"`
	Count     int          `json:"count"`
	Timestamp time.Time    `json:"timestamp"`
}

type costResponse struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message,omitempty"`
	FileID       string       `json:"file_id"`
	FileName     string       `json:"file_name"`
	FileSize     int64        `json:"file_size"`
	CostEstimate CostEstimate `json:"cost_estimate"`
}

type uploadResponse struct {
	Success bool `json:"success"`
	UploadResult
}

func (c *Client) do(ctx context.Context, method, path string, out interface{}) error {
	op := method + " " + path

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, nil)
	if err != nil {
		return c.transportError(op, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return c.transportError(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return c.transportError(op, fmt.Errorf("unexpected status %s", resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.transportError(op, fmt.Errorf("decoding response: %w", err))
	}

	return nil
}

func (c *Client) transportError(op string, err error) error {
	logger.ErrorCF("relay", "request failed", map[string]interface{}{
		"op":    op,
		"error": err.Error(),
	})
	return &TransportError{Op: op, Err: err}
}

func (c *Client) serviceError(op, message string) error {
	logger.ErrorCF("relay", "service reported failure", map[string]interface{}{
		"op":      op,
		"message": message,
	})
	return &RemoteServiceError{Op: op, Message: message}
}
