package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/qaboard/pkg/domain/interfaces"
	"github.com/secmon-lab/qaboard/pkg/domain/model"
	"github.com/secmon-lab/qaboard/pkg/utils/logging"
	"github.com/secmon-lab/qaboard/pkg/utils/safe"
)

const (
	DefaultTimeout = 10 * time.Second
	DefaultRetries = 2
	DefaultBackoff = 300 * time.Millisecond

	idempotencyHeader = "Idempotency-Key"
	maxErrorBody      = 4096
)

// Client talks to the qaboard REST API
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	retries    int
	backoff    time.Duration
}

var (
	_ interfaces.DashboardAPI           = &Client{}
	_ interfaces.MetricDefinitionSource = &Client{}
)

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithRetries sets how many times a mutation is retried after the first attempt
func WithRetries(n int) Option {
	return func(client *Client) {
		client.retries = max(n, 0)
	}
}

func WithBackoff(d time.Duration) Option {
	return func(client *Client) {
		client.backoff = d
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, goerr.Wrap(err, "invalid API base URL", goerr.V("url", baseURL))
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, goerr.New("API base URL must be http or https", goerr.V("url", baseURL))
	}
	u.Path = strings.TrimSuffix(u.Path, "/")

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		retries:    DefaultRetries,
		backoff:    DefaultBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) FetchKPISeries(ctx context.Context) (model.KPISeries, error) {
	var series model.KPISeries
	if err := c.get(ctx, "/api/kpi", &series); err != nil {
		return nil, err
	}
	return series, nil
}

func (c *Client) FetchKPITargets(ctx context.Context) (model.KPITargets, error) {
	var targets model.KPITargets
	if err := c.get(ctx, "/api/kpi_targets", &targets); err != nil {
		return nil, err
	}
	return targets, nil
}

func (c *Client) FetchRisks(ctx context.Context) ([]*model.Risk, error) {
	var risks []*model.Risk
	if err := c.get(ctx, "/api/risks", &risks); err != nil {
		return nil, err
	}
	if err := model.RejectNil(risks); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrDecode, err), "malformed risk list", goerr.V("path", "/api/risks"))
	}
	return risks, nil
}

func (c *Client) FetchPredefinedRisks(ctx context.Context) ([]*model.PredefinedRisk, error) {
	var catalog []*model.PredefinedRisk
	if err := c.get(ctx, "/api/predefined_risks", &catalog); err != nil {
		return nil, err
	}
	if err := model.RejectNil(catalog); err != nil {
		return nil, goerr.Wrap(errors.Join(ErrDecode, err), "malformed predefined risk list", goerr.V("path", "/api/predefined_risks"))
	}
	return catalog, nil
}

func (c *Client) FetchMetricDefinitions(ctx context.Context) (model.MetricDefinitions, error) {
	var defs model.MetricDefinitions
	if err := c.get(ctx, "/api/metrics", &defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func (c *Client) SubmitFeedback(ctx context.Context, feedback *model.Feedback) error {
	return c.post(ctx, "/api/feedback-submission", feedback)
}

func (c *Client) SubmitRisk(ctx context.Context, risk *model.Risk) error {
	return c.post(ctx, "/api/risks", risk)
}

// get issues a single request; reads are not retried
func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path), nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(errors.Join(ErrTransport, err), "request failed", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if err := checkStatus(resp); err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("path", path))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return goerr.Wrap(errors.Join(ErrDecode, err), "failed to decode response", goerr.V("path", path))
	}
	return nil
}

// post sends a mutation with an Idempotency-Key and retries transport errors and 5xx with the same key
func (c *Client) post(ctx context.Context, path string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return goerr.Wrap(err, "failed to encode request", goerr.V("path", path))
	}
	key := uuid.NewString()
	logger := logging.From(ctx)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			wait := c.backoff * time.Duration(1<<(attempt-1))
			logger.Warn("retrying request", "path", path, "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return goerr.Wrap(ctx.Err(), "request canceled", goerr.V("path", path))
			case <-time.After(wait):
			}
		}

		lastErr = c.send(ctx, path, key, data)
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) || ctx.Err() != nil {
			break
		}
	}
	return lastErr
}

func (c *Client) send(ctx context.Context, path, key string, data []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(data))
	if err != nil {
		return goerr.Wrap(err, "failed to build request", goerr.V("path", path))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(idempotencyHeader, key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(errors.Join(ErrTransport, err), "request failed", goerr.V("path", path))
	}
	defer safe.Close(ctx, resp.Body)

	if err := checkStatus(resp); err != nil {
		return goerr.Wrap(err, "request failed", goerr.V("path", path))
	}
	safe.Copy(ctx, io.Discard, resp.Body)
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(body)),
	}
}

func retryable(err error) bool {
	if errors.Is(err, ErrTransport) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Retryable()
}
