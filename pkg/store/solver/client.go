package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/de-tools/capacity-atlas/pkg/services/licensing"
	"github.com/rs/zerolog"
)

// ErrUnavailable wraps every transport or upstream failure so callers can
// treat an unreachable optimizer as one recoverable condition.
var ErrUnavailable = errors.New("license solver unavailable")

const solveTimeout = 15 * time.Second

// solveRequest is the upstream wire shape. The service expects whole
// quantities serialized as strings.
type solveRequest struct {
	RequiredUsers     string `json:"required_users"`
	RequiredStorageGB string `json:"required_storage_gb"`
}

type solveResponse struct {
	FiveGBPacks   int `json:"five_gb_packs"`
	TwentyGBPacks int `json:"twenty_gb_packs"`
	FiftyGBPacks  int `json:"fifty_gb_packs"`
}

// Client submits pack-mix optimization requests to the external solver
// service. One fallible call per forecast, no retries.
type Client struct {
	endpoint string
	client   *http.Client
}

func NewClient(endpoint string) *Client {
	return &Client{
		endpoint: endpoint,
		client:   &http.Client{Timeout: solveTimeout},
	}
}

func (c *Client) Solve(ctx context.Context, req licensing.SolveRequest) (licensing.SolveResponse, error) {
	logger := zerolog.Ctx(ctx)

	payload, err := json.Marshal(solveRequest{
		RequiredUsers:     strconv.Itoa(req.RequiredUsers),
		RequiredStorageGB: strconv.Itoa(req.RequiredStorageGB),
	})
	if err != nil {
		return licensing.SolveResponse{}, fmt.Errorf("failed to encode solve request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return licensing.SolveResponse{}, fmt.Errorf("failed to create solve request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return licensing.SolveResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close solver response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return licensing.SolveResponse{}, fmt.Errorf("failed to read solver response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return licensing.SolveResponse{}, fmt.Errorf("%w: %s: %s", ErrUnavailable, resp.Status, bytes.TrimSpace(body))
	}

	var decoded solveResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return licensing.SolveResponse{}, fmt.Errorf("failed to decode solver response: %w", err)
	}

	return licensing.SolveResponse{
		FiveGBPacks:   decoded.FiveGBPacks,
		TwentyGBPacks: decoded.TwentyGBPacks,
		FiftyGBPacks:  decoded.FiftyGBPacks,
	}, nil
}
