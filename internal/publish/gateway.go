// Package publish uploads files to the content-addressed publishing gateway
// and returns the content id and public link it assigns.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"workbench/internal/faults"
	"workbench/internal/logging"
)

const (
	userAgent      = "Workbench-Go/1.0"
	cardIDHeader   = "rfid-card-id"
	uploadPath     = "/publish-to-ipfs/upload-file"
	byPathPath     = "/publish-to-ipfs/by-path"
	fileFieldName  = "file_data"
	maxErrorDetail = 2048
)

// Result is what the gateway returns for a published file.
type Result struct {
	CID  string
	Link string
}

// Gateway is an HTTP client for the publishing gateway.
type Gateway struct {
	baseURL string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures the gateway client.
type Option func(*Gateway)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(g *Gateway) {
		if client != nil {
			g.client = client
		}
	}
}

// NewGateway constructs a gateway client for baseURL.
func NewGateway(baseURL string, timeout time.Duration, logger *slog.Logger, opts ...Option) (*Gateway, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("gateway uri required")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	g := &Gateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logging.NewComponentLogger(logger, "publish"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

type gatewayResponse struct {
	Status int    `json:"status"`
	Detail string `json:"detail"`
	CID    string `json:"ipfs_cid"`
	Link   string `json:"ipfs_link"`
}

// Publish uploads the file at path on behalf of the operator holding
// cardID. When the file is not present locally the gateway is asked to
// publish it by absolute path instead.
func (g *Gateway) Publish(ctx context.Context, path, cardID string) (string, string, error) {
	req, err := g.buildRequest(ctx, path, cardID)
	if err != nil {
		return "", "", faults.Wrap(faults.ErrExternalService, "publish", "build request", path, err)
	}
	started := time.Now()
	resp, err := g.client.Do(req)
	if err != nil {
		return "", "", faults.Wrap(faults.ErrExternalService, "publish", "send", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", "", faults.Wrap(faults.ErrExternalService, "publish", "read response", path, err)
	}
	var payload gatewayResponse
	decodeErr := json.Unmarshal(body, &payload)
	if resp.StatusCode >= 300 {
		detail := strings.TrimSpace(payload.Detail)
		if detail == "" {
			detail = strings.TrimSpace(string(truncate(body)))
		}
		return "", "", faults.Wrap(faults.ErrExternalService, "publish", "gateway response",
			fmt.Sprintf("status %d: %s", resp.StatusCode, detail), nil)
	}
	if decodeErr != nil {
		return "", "", faults.Wrap(faults.ErrExternalService, "publish", "decode response", path, decodeErr)
	}
	if payload.Status != 0 && payload.Status != http.StatusOK {
		return "", "", faults.Wrap(faults.ErrExternalService, "publish", "gateway status",
			fmt.Sprintf("status %d: %s", payload.Status, payload.Detail), nil)
	}
	if payload.CID == "" || payload.Link == "" {
		return "", "", faults.Wrap(faults.ErrExternalService, "publish", "gateway response", "no content id returned", nil)
	}
	g.logger.Info("file published",
		logging.String("path", path),
		logging.String("cid", payload.CID),
		logging.Duration("elapsed", time.Since(started)))
	return payload.CID, payload.Link, nil
}

func (g *Gateway) buildRequest(ctx context.Context, path, cardID string) (*http.Request, error) {
	var (
		body        bytes.Buffer
		contentType string
		endpoint    string
	)
	file, err := os.Open(path)
	switch {
	case err == nil:
		defer file.Close()
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile(fileFieldName, filepath.Base(path))
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, fmt.Errorf("copy file: %w", err)
		}
		if err := writer.Close(); err != nil {
			return nil, err
		}
		contentType = writer.FormDataContentType()
		endpoint = g.baseURL + uploadPath
	case errors.Is(err, os.ErrNotExist):
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, err
		}
		encoded, err := json.Marshal(map[string]string{"absolute_path": abs})
		if err != nil {
			return nil, err
		}
		body.Write(encoded)
		contentType = "application/json"
		endpoint = g.baseURL + byPathPath
	default:
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(cardIDHeader, cardID)
	return req, nil
}

func truncate(body []byte) []byte {
	if len(body) > maxErrorDetail {
		return body[:maxErrorDetail]
	}
	return body
}
