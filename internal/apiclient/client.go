// Package apiclient talks to the FATLA backend REST API on behalf of one
// admin session.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fatla/fatla-admin/internal/session"
	"github.com/sirupsen/logrus"
)

const (
	LangEnglish = "en"
	LangArabic  = "ar"
)

// NormalizeLang maps anything that is not a supported locale to English.
func NormalizeLang(lang string) string {
	if lang == LangArabic {
		return LangArabic
	}
	return LangEnglish
}

// Path builds /api/{lang}/{resource}/{action}.
func Path(lang, resource, action string) string {
	return "/api/" + NormalizeLang(lang) + "/" + resource + "/" + action
}

// Caller is the contract resource services depend on.
type Caller interface {
	Call(ctx context.Context, method, path string, data, out any, opts ...CallOption) error
}

// Factory produces session-bound clients that share one transport.
type Factory struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewFactory(baseURL string, timeout time.Duration, logger *logrus.Logger) *Factory {
	return &Factory{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (f *Factory) WithHTTPClient(c *http.Client) *Factory {
	f.httpClient = c
	return f
}

// New returns a client that reads its bearer token from tokens on every call.
// A nil reader yields an anonymous client.
func (f *Factory) New(tokens session.TokenReader) *Client {
	return &Client{
		baseURL:    f.baseURL,
		httpClient: f.httpClient,
		tokens:     tokens,
		logger:     f.logger,
	}
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     session.TokenReader
	logger     *logrus.Logger
}

type callConfig struct {
	form    bool
	query   url.Values
	headers http.Header
}

type CallOption func(*callConfig)

// AsForm sends data as multipart/form-data; data must be a *FormData.
func AsForm() CallOption {
	return func(c *callConfig) { c.form = true }
}

func WithQuery(q url.Values) CallOption {
	return func(c *callConfig) {
		if c.query == nil {
			c.query = url.Values{}
		}
		for k, vs := range q {
			for _, v := range vs {
				c.query.Add(k, v)
			}
		}
	}
}

func WithHeader(key, value string) CallOption {
	return func(c *callConfig) {
		if c.headers == nil {
			c.headers = http.Header{}
		}
		c.headers.Set(key, value)
	}
}

// envelope is the wrapper every backend response uses.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Call performs one request. Non-2xx responses become *Error, undecodable or
// invalid payloads become *SchemaError. When out is nil the data field is
// ignored.
func (c *Client) Call(ctx context.Context, method, path string, data, out any, opts ...CallOption) error {
	cfg := &callConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	body, contentType, err := encodeBody(data, cfg.form)
	if err != nil {
		return err
	}

	target := c.baseURL + path
	if len(cfg.query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + cfg.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, vs := range cfg.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"method": method,
			"path":   path,
		}).Warn("Backend request failed")
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	c.logger.WithFields(logrus.Fields{
		"method":      method,
		"path":        path,
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Backend request completed")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, raw)
	}

	return decode(resp.StatusCode, raw, out)
}

func encodeBody(data any, form bool) (io.Reader, string, error) {
	if form {
		fd, ok := data.(*FormData)
		if !ok {
			return nil, "", fmt.Errorf("form call requires *FormData, got %T", data)
		}
		return fd.encode()
	}
	if data == nil {
		return nil, "", nil
	}
	buf, err := json.Marshal(data)
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
	}
	return bytes.NewReader(buf), "application/json", nil
}

func decode(status int, raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		if out != nil {
			return &SchemaError{Reason: "empty response body"}
		}
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return &SchemaError{Reason: "response is not a JSON envelope", Err: err}
	}
	if env.Success != nil && !*env.Success {
		return &Error{Status: status, Message: env.Message, Body: string(raw)}
	}
	if out == nil {
		return nil
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return &SchemaError{Reason: "response has no data"}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &SchemaError{Reason: "data does not match the expected shape", Err: err}
	}
	return validateResponse(out)
}
