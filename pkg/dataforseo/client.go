// Package dataforseo wraps the DataForSEO Keywords Data API: precise search
// volumes, keyword expansion, and the location taxonomy.
package dataforseo

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://api.dataforseo.com"

	searchVolumePath        = "/v3/keywords_data/google_ads/search_volume/live"
	keywordsForKeywordsPath = "/v3/keywords_data/google_ads/keywords_for_keywords/live"
	locationsPathFmt        = "/v3/keywords_data/google_ads/locations/%s"

	// statusOK is the provider's success code carried in response bodies.
	statusOK = 20000
)

// Client performs live requests against the DataForSEO API.
type Client interface {
	SearchVolume(ctx context.Context, req SearchVolumeRequest) ([]KeywordRow, error)
	KeywordsForKeywords(ctx context.Context, req KeywordsForKeywordsRequest) ([]KeywordRow, error)
	Locations(ctx context.Context, country string) ([]LocationRow, error)
}

// APIError is a non-success status reported by the provider itself, as
// opposed to a transport failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("dataforseo: provider status %d: %s", e.StatusCode, e.Message)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit overrides the default request rate limit.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

type httpClient struct {
	auth    string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a DataForSEO client authenticating with HTTP basic auth.
func NewClient(login, password string, opts ...Option) Client {
	c := &httpClient{
		auth:    base64.StdEncoding.EncodeToString([]byte(login + ":" + password)),
		baseURL: defaultBaseURL,
		limiter: rate.NewLimiter(5, 1),
		http: &http.Client{
			Timeout: 60 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// envelope is the outer response shape shared by all endpoints. Task results
// stay raw until the caller knows the row type.
type envelope struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
	Tasks         []struct {
		StatusCode    int             `json:"status_code"`
		StatusMessage string          `json:"status_message"`
		Result        json.RawMessage `json:"result"`
	} `json:"tasks"`
}

func (c *httpClient) SearchVolume(ctx context.Context, req SearchVolumeRequest) ([]KeywordRow, error) {
	raw, err := c.post(ctx, searchVolumePath, req)
	if err != nil {
		return nil, err
	}
	return decodeKeywordRows(raw)
}

func (c *httpClient) KeywordsForKeywords(ctx context.Context, req KeywordsForKeywordsRequest) ([]KeywordRow, error) {
	raw, err := c.post(ctx, keywordsForKeywordsPath, req)
	if err != nil {
		return nil, err
	}
	return decodeKeywordRows(raw)
}

func (c *httpClient) Locations(ctx context.Context, country string) ([]LocationRow, error) {
	raw, err := c.get(ctx, fmt.Sprintf(locationsPathFmt, country))
	if err != nil {
		return nil, err
	}
	var rows []LocationRow
	if raw == nil {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, eris.Wrap(err, "dataforseo: unmarshal location rows")
	}
	return rows, nil
}

func decodeKeywordRows(raw json.RawMessage) ([]KeywordRow, error) {
	if raw == nil {
		return nil, nil
	}
	var rows []KeywordRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, eris.Wrap(err, "dataforseo: unmarshal keyword rows")
	}
	return rows, nil
}

// post sends a live task request. The API wraps every task payload in an
// array and returns the matching task array in the envelope.
func (c *httpClient) post(ctx context.Context, path string, task any) (json.RawMessage, error) {
	body, err := json.Marshal([]any{task})
	if err != nil {
		return nil, eris.Wrap(err, "dataforseo: marshal request")
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "dataforseo: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	return c.do(httpReq)
}

func (c *httpClient) get(ctx context.Context, path string) (json.RawMessage, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, eris.Wrap(err, "dataforseo: create request")
	}
	return c.do(httpReq)
}

func (c *httpClient) do(req *http.Request) (json.RawMessage, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, eris.Wrap(err, "dataforseo: rate limit wait")
	}
	req.Header.Set("Authorization", "Basic "+c.auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "dataforseo: send request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "dataforseo: read response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: string(respBody)}
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return nil, eris.Wrap(err, "dataforseo: unmarshal response")
	}
	if env.StatusCode != statusOK {
		return nil, &APIError{StatusCode: env.StatusCode, Message: env.StatusMessage}
	}
	if len(env.Tasks) == 0 {
		return nil, &APIError{StatusCode: env.StatusCode, Message: "response has no tasks"}
	}
	task := env.Tasks[0]
	if task.StatusCode != statusOK {
		return nil, &APIError{StatusCode: task.StatusCode, Message: task.StatusMessage}
	}
	return task.Result, nil
}
