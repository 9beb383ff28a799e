package sleeper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/omarshaarawi/leaguewrapped/internal/config"
)

const defaultBaseURL = "https://api.sleeper.app/v1"

type Client struct {
	httpClient *http.Client
	BaseURL    string
	Config     config.Sleeper
}

func NewClient(cfg config.Sleeper) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    defaultBaseURL,
		Config:     cfg,
	}
}

// Get decodes the JSON body of a GET request into result. Sleeper is
// public, so no credentials are attached.
func (c *Client) Get(ctx context.Context, endpoint string, result any) error {
	url := fmt.Sprintf("%s%s", c.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}

	return nil
}
