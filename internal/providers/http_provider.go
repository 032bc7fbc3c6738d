package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// jsonClient is the transport shared by the upstream providers: one GET,
// a static credential header, a bounded error body and a JSON decode.
type jsonClient struct {
	name         string
	baseURL      string
	apiKey       string
	apiKeyHeader string
	client       *http.Client
}

func newJSONClient(name, baseURL, apiKey, apiKeyHeader string) jsonClient {
	return jsonClient{
		name:         name,
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		apiKeyHeader: apiKeyHeader,
		client: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

func (c jsonClient) getJSON(ctx context.Context, path string, query url.Values, dst any) error {
	if c.baseURL == "" {
		return fmt.Errorf("%s base URL is not set", c.name)
	}
	if c.apiKey == "" {
		return fmt.Errorf("%s api key is not set", c.name)
	}

	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return err
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(c.apiKeyHeader, c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s error: status %d: %s", c.name, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%s error: decode response: %w", c.name, err)
	}
	return nil
}
