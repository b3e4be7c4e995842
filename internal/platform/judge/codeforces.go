package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/jigyasu-kalyan/cp-nexus/internal/common"
)

// Client is the read-only boundary to the external judge API. Every call is
// a fresh network round trip; no retries, no caching.
type Client interface {
	UserStatus(ctx context.Context, handle string) ([]RawSubmission, error)
	UserRating(ctx context.Context, handle string) ([]RawRatingChange, error)
	ContestList(ctx context.Context) ([]RawContest, error)
}

type codeforcesClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCodeforcesClient(baseURL string, timeout time.Duration) Client {
	return &codeforcesClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// envelope is the wrapping object every Codeforces endpoint answers with.
type envelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment,omitempty"`
	Result  json.RawMessage `json:"result"`
}

func (c *codeforcesClient) UserStatus(ctx context.Context, handle string) ([]RawSubmission, error) {
	var result []RawSubmission
	if err := c.get(ctx, "user.status", url.Values{"handle": {handle}}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *codeforcesClient) UserRating(ctx context.Context, handle string) ([]RawRatingChange, error) {
	var result []RawRatingChange
	if err := c.get(ctx, "user.rating", url.Values{"handle": {handle}}, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *codeforcesClient) ContestList(ctx context.Context) ([]RawContest, error) {
	var result []RawContest
	if err := c.get(ctx, "contest.list", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *codeforcesClient) get(ctx context.Context, method string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + "/" + method
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return common.Errorf("codeforces: build request for %s: %w", method, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return common.Errorf("codeforces: %s request failed: %v: %w", method, err, common.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return common.Errorf("codeforces: %s returned HTTP %d: %w", method, resp.StatusCode, common.ErrUpstream)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return common.Errorf("codeforces: %s malformed envelope: %v: %w", method, err, common.ErrUpstream)
	}

	if env.Status != "OK" {
		comment := env.Comment
		if comment == "" {
			comment = "unknown error"
		}
		return common.Errorf("codeforces: %s API failure: %s: %w", method, comment, common.ErrUpstream)
	}

	if err := json.Unmarshal(env.Result, out); err != nil {
		return common.Errorf("codeforces: %s malformed result payload: %v: %w", method, err, common.ErrUpstream)
	}
	return nil
}
