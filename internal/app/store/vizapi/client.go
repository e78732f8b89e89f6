// internal/app/store/vizapi/client.go
package vizapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// maxResponseBytes bounds a single data payload read.
const maxResponseBytes = 64 << 20

// Client fetches truth and forecast payloads from a remote data
// endpoint instead of a local archive directory. It implements the
// engine's DataFetcher interface.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// New creates a client for the data endpoint at baseURL (the server
// root; the client appends the data path).
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// FetchData requests one payload from GET <base>/api/viz/data.
func (c *Client) FetchData(ctx context.Context, isForecast bool, targetKey, unitAbbrev, referenceDate string) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("is_forecast", strconv.FormatBool(isForecast))
	q.Set("target_key", targetKey)
	q.Set("unit", unitAbbrev)
	q.Set("ref_date", referenceDate)
	u := c.baseURL + "/api/viz/data?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build data request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("data endpoint returned non-OK status",
			zap.Int("status", resp.StatusCode),
			zap.String("url", u))
		return nil, fmt.Errorf("data endpoint returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read data response: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("data endpoint returned invalid JSON")
	}
	return body, nil
}
