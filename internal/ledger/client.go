package ledger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"workbench/internal/faults"
)

const userAgent = "Workbench-Go/1.0"

// Client posts data to the ledger bridge HTTP API.
type Client struct {
	baseURL string
	seed    string
	client  *http.Client
}

// NewClient constructs a bridge client. The account seed authenticates the
// station as a bearer token.
func NewClient(baseURL, seed string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("ledger uri required")
	}
	if strings.TrimSpace(seed) == "" {
		return nil, errors.New("ledger account seed required")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{baseURL: baseURL, seed: seed, client: &http.Client{Timeout: timeout}}, nil
}

type datalogRequest struct {
	Data           string `json:"data"`
	UnitInternalID string `json:"unit_internal_id"`
}

type datalogResponse struct {
	TxnHash string `json:"txn_hash"`
	Detail  string `json:"detail"`
}

// Post records content for a unit and returns the transaction hash.
func (c *Client) Post(ctx context.Context, content, unitInternalID string) (string, error) {
	body, err := json.Marshal(datalogRequest{Data: content, UnitInternalID: unitInternalID})
	if err != nil {
		return "", fmt.Errorf("encode datalog request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/datalog", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build datalog request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.seed)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", faults.Wrap(faults.ErrExternalService, "ledger", "post", "send", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", faults.Wrap(faults.ErrExternalService, "ledger", "post", "read response", err)
	}
	var payload datalogResponse
	decodeErr := json.Unmarshal(raw, &payload)
	if resp.StatusCode >= 300 {
		detail := strings.TrimSpace(payload.Detail)
		if detail == "" {
			detail = strings.TrimSpace(string(raw))
		}
		return "", faults.Wrap(faults.ErrExternalService, "ledger", "post",
			fmt.Sprintf("bridge returned %d: %s", resp.StatusCode, detail), nil)
	}
	if decodeErr != nil {
		return "", faults.Wrap(faults.ErrExternalService, "ledger", "post", "decode response", decodeErr)
	}
	if payload.TxnHash == "" {
		return "", faults.Wrap(faults.ErrExternalService, "ledger", "post", "bridge returned no transaction hash", nil)
	}
	return payload.TxnHash, nil
}
