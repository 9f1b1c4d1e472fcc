package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/birbparty/artifacts-go/internal/telemetry"
)

// httpTransport is the single HTTP implementation behind the client. It
// owns URL building, auth headers, JSON codec, and the translation of
// non-success responses into the typed error taxonomy.
type httpTransport struct {
	client  *http.Client
	baseURL string
	token   string
	headers map[string]string
	logger  *logrus.Logger
}

func newHTTPTransport(config *Config) *httpTransport {
	return &httpTransport{
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:    config.TransportConfig.MaxIdleConns,
				IdleConnTimeout: config.TransportConfig.IdleConnTimeout,
			},
		},
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		token:   config.Token,
		headers: config.Headers,
		logger:  config.Logger,
	}
}

// serverError is the error envelope the game API wraps failures in.
type serverError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// do performs one HTTP request. body, if non-nil, is JSON-encoded; out, if
// non-nil, receives the decoded response body. query is appended as-is.
func (t *httpTransport) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path

	var reqBody []byte
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body for %s: %w", op, err)
		}
		reqBody = encoded
		reader = bytes.NewReader(encoded)
	}

	endpoint := t.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", op, err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+t.token)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return fmt.Errorf("%w: %s after %v", ErrTimeout, op, time.Since(start))
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return t.apiError(ctx, resp.StatusCode, method, path, reqBody, respBody)
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &decodeError{op: op, err: err}
		}
	}
	return nil
}

// get performs a GET with optional query parameters.
func (t *httpTransport) get(ctx context.Context, path string, query url.Values, out any) error {
	return t.do(ctx, http.MethodGet, path, query, nil, out)
}

// post performs a POST with an optional JSON body.
func (t *httpTransport) post(ctx context.Context, path string, body, out any) error {
	return t.do(ctx, http.MethodPost, path, nil, body, out)
}

// apiError builds an *APIError from a non-success response, extracting the
// server's message when the body parses.
func (t *httpTransport) apiError(ctx context.Context, status int, method, path string, reqBody, respBody []byte) error {
	apiErr := &APIError{
		StatusCode: status,
		Method:     method,
		Endpoint:   path,
		Body:       reqBody,
	}

	var envelope serverError
	if err := json.Unmarshal(respBody, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	} else if len(respBody) > 0 {
		apiErr.Message = string(respBody)
	} else {
		apiErr.Message = http.StatusText(status)
	}

	telemetry.Entry(ctx, t.logger).WithFields(logrus.Fields{
		"status":   status,
		"method":   method,
		"endpoint": path,
	}).Debug("api request failed")

	return apiErr
}

// close releases idle connections.
func (t *httpTransport) close() {
	t.client.CloseIdleConnections()
}

func isTimeout(err error) bool {
	var urlErr *url.Error
	return errors.As(err, &urlErr) && urlErr.Timeout()
}
