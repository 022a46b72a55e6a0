package progress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
)

// ActivityPath is where reports are posted, relative to the base URL.
const ActivityPath = "/api/user-activity"

// Client posts reports to a remote progress endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a Client for baseURL. A non-positive timeout uses 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Record(ctx context.Context, report models.ActivityReport) error {
	log := logger.FromContext(ctx).WithPrefix("progress").WithFields(map[string]any{
		"user_id":     report.UserID,
		"activity_id": report.ActivityID,
	})
	url := c.baseURL + ActivityPath

	body, err := json.Marshal(report)
	if err != nil {
		return err
	}

	log.Debug("posting activity report to: %s", url)
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error("failed to create request: %v", err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("failed to post activity report: %v", err)
		return err
	}
	defer resp.Body.Close()

	log.Debug("report response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		log.Warn("activity report rejected: status=%d, body=%s", resp.StatusCode, string(msg))
		return fmt.Errorf("activity report status %d: %s", resp.StatusCode, string(msg))
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	return nil
}
