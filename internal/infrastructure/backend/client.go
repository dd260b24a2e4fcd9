// Package backend is the API access layer: it talks to the job card REST
// backend, attaches the session's bearer token and tears the session down
// when the backend rejects it.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/dkm/jobcards/internal/pkg/metrics"
	"github.com/dkm/jobcards/internal/core/domain"
	"github.com/dkm/jobcards/internal/core/session"
)

const (
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 64 << 10
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Client implements ports.Backend over HTTP. It is safe for concurrent use;
// the session is taken from each call's context.
type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	log     zerolog.Logger
}

// New returns a Client. A bounded timeout is applied to every call.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		timeout: timeout,
		http:    hc,
		log:     opts.Logger,
	}
}

// Login exchanges credentials for a token. A rejection here is a failed login,
// not a session teardown.
func (c *Client) Login(ctx context.Context, name, password string) (string, error) {
	var resp loginResponse
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		route:  "/api/auth/login",
		body:   loginRequest{Name: name, Password: password},
		out:    &resp,
	})
	if err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &domain.APIError{Kind: domain.ErrRequestFailed, Status: http.StatusOK, Message: "Login failed."}
	}
	return resp.Token, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]domain.Job, error) {
	var resp []jobDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/jobs", route: "/api/jobs", auth: true, out: &resp}); err != nil {
		return nil, err
	}
	return toJobs(resp), nil
}

func (c *Client) GetJob(ctx context.Context, id int64) (*domain.DetailedJob, error) {
	var resp jobDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: jobPath(id, ""), route: "/api/jobs/:id", auth: true, out: &resp}); err != nil {
		return nil, err
	}
	return toDetailedJob(resp), nil
}

func (c *Client) AssignJob(ctx context.Context, id, technicianID int64) (*domain.DetailedJob, error) {
	var resp jobDTO
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   jobPath(id, "/assign"),
		route:  "/api/jobs/:id/assign",
		auth:   true,
		body:   assignRequest{TechnicianID: technicianID},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return toDetailedJob(resp), nil
}

func (c *Client) UpdateJobStatus(ctx context.Context, id int64, status domain.JobStatus) (*domain.DetailedJob, error) {
	var resp jobDTO
	err := c.do(ctx, call{
		method: http.MethodPut,
		path:   jobPath(id, "/status"),
		route:  "/api/jobs/:id/status",
		auth:   true,
		body:   statusRequest{Status: string(status)},
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	return toDetailedJob(resp), nil
}

func (c *Client) CreateJob(ctx context.Context, job domain.NewJob) (*domain.Job, error) {
	var resp jobDTO
	err := c.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/jobs",
		route:  "/api/jobs",
		auth:   true,
		body:   toCreateJobRequest(job),
		out:    &resp,
	})
	if err != nil {
		return nil, err
	}
	created := toJob(resp)
	return &created, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]domain.JobCategory, error) {
	var resp []categoryDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/categories", route: "/api/categories", auth: true, out: &resp}); err != nil {
		return nil, err
	}
	return toCategories(resp), nil
}

func (c *Client) LookupProperties(ctx context.Context, query string) ([]domain.Property, error) {
	var resp []propertyDTO
	path := "/api/properties/lookup?query=" + url.QueryEscape(query)
	if err := c.do(ctx, call{method: http.MethodGet, path: path, route: "/api/properties/lookup", auth: true, out: &resp}); err != nil {
		return nil, err
	}
	return toProperties(resp), nil
}

func (c *Client) ListTechnicians(ctx context.Context) ([]domain.User, error) {
	var resp []personDTO
	if err := c.do(ctx, call{method: http.MethodGet, path: "/api/users/technicians", route: "/api/users/technicians", auth: true, out: &resp}); err != nil {
		return nil, err
	}
	return toUsers(resp), nil
}

type call struct {
	method string
	path   string
	route  string
	auth   bool
	body   any
	out    any
}

func (c *Client) do(ctx context.Context, cl call) error {
	var store *session.Store
	var token string
	if cl.auth {
		store = session.FromContext(ctx)
		token = store.Token()
		if token == "" {
			// Never send a protected request without a token.
			store.Logout(ctx)
			return &domain.APIError{Kind: domain.ErrAuthRejected, Message: "no active session"}
		}
	}

	var buf bytes.Buffer
	if cl.body != nil {
		if err := json.NewEncoder(&buf).Encode(cl.body); err != nil {
			return fmt.Errorf("encode %s body: %w", cl.route, err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, &buf)
	if err != nil {
		return fmt.Errorf("build %s request: %w", cl.route, err)
	}
	req.Header.Set("Accept", "application/json")
	if cl.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.BackendRequestDuration.WithLabelValues(cl.route).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.BackendRequestsTotal.WithLabelValues(cl.route, "network_error").Inc()
		c.log.Warn().Err(err).Str("method", cl.method).Str("route", cl.route).Msg("backend unreachable")
		return &domain.APIError{Kind: domain.ErrNetwork, Err: err}
	}
	defer resp.Body.Close()
	metrics.BackendRequestsTotal.WithLabelValues(cl.route, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg := readMessage(resp.Body)
		if cl.auth && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			// Tear the session down before the caller sees the error.
			store.Logout(ctx)
			metrics.SessionTeardownsTotal.WithLabelValues("auth_rejected").Inc()
			c.log.Info().Int("status", resp.StatusCode).Str("route", cl.route).Msg("backend rejected session, logged out")
			return &domain.APIError{Kind: domain.ErrAuthRejected, Status: resp.StatusCode, Message: msg}
		}
		c.log.Debug().Int("status", resp.StatusCode).Str("route", cl.route).Str("message", msg).Msg("backend request failed")
		return &domain.APIError{Kind: domain.ErrRequestFailed, Status: resp.StatusCode, Message: msg}
	}

	if cl.out != nil {
		if err := json.NewDecoder(resp.Body).Decode(cl.out); err != nil {
			return &domain.APIError{
				Kind:    domain.ErrRequestFailed,
				Status:  resp.StatusCode,
				Message: "Unexpected response from server.",
				Err:     err,
			}
		}
	}
	return nil
}

// readMessage pulls a human message out of an error body, if there is one.
func readMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return ""
	}
	var body errorBody
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		return body.Error
	}
	return ""
}

func jobPath(id int64, suffix string) string {
	return "/api/jobs/" + strconv.FormatInt(id, 10) + suffix
}
