// internal/common/http/client.go
package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"unit-client/internal/common/config"
	apperrors "unit-client/internal/common/errors"
	"unit-client/internal/jsonapi"
)

const RequestIDHeader = "X-Request-Id"

// Client sends authenticated JSON:API requests to the Unit API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	userAgent  string
}

// Response is a fully read API response.
type Response struct {
	StatusCode int
	Body       []byte
	RequestID  string
}

func NewClient(cfg config.UnitConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout(),
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.Token,
		userAgent: cfg.UserAgent,
	}
}

// NewRequest builds a request for path relative to the base URL. A non-nil body is
// marshaled as JSON.
func (c *Client) NewRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", jsonapi.MediaType)
	if body != nil {
		req.Header.Set("Content-Type", jsonapi.MediaType)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set(RequestIDHeader, uuid.NewString())
	return req, nil
}

// Do sends req and reads the whole body. Non-2xx responses are returned as
// API_REQUEST_FAILED errors alongside the response.
func (c *Client) Do(req *http.Request) (*Response, error) {
	path := req.URL.Path
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewAPITimeoutError(req.Method, path, err)
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewAPITimeoutError(req.Method, path, err)
		}
		return nil, fmt.Errorf("read %s %s response: %w", req.Method, path, err)
	}

	out := &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		RequestID:  req.Header.Get(RequestIDHeader),
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return out, apperrors.NewAPIRequestFailedError(req.Method, path, resp.StatusCode, ErrorDetails(body))
	}
	return out, nil
}

// ErrorDetails extracts "title: detail" pairs from a JSON:API errors body.
// Bodies without an errors array are returned verbatim, truncated.
func ErrorDetails(body []byte) string {
	errs := gjson.GetBytes(body, "errors")
	if !errs.IsArray() {
		s := strings.TrimSpace(string(body))
		if len(s) > 200 {
			s = s[:200]
		}
		return s
	}

	var parts []string
	errs.ForEach(func(_, e gjson.Result) bool {
		title := e.Get("title").String()
		detail := e.Get("detail").String()
		switch {
		case title != "" && detail != "":
			parts = append(parts, title+": "+detail)
		case title != "":
			parts = append(parts, title)
		case detail != "":
			parts = append(parts, detail)
		}
		return true
	})
	return strings.Join(parts, "; ")
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
