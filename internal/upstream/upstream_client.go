package upstream

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

	"go.uber.org/zap"
)

// maxBodyBytes caps how much of an upstream answer is buffered. A larger
// answer is rejected, never truncated.
const maxBodyBytes = 10 << 20

type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger ...*zap.Logger) *Client {
	l := zap.L().Named("upstream.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("upstream.client")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  l,
	}
}

type Request struct {
	Method      string
	Path        string
	Query       url.Values
	Token       string
	Body        io.Reader
	ContentType string
}

type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	target := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, target, r.Body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if r.ContentType != "" {
		req.Header.Set("Content-Type", r.ContentType)
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed",
			zap.String("method", r.Method),
			zap.String("path", r.Path),
			zap.Error(err),
		)
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		c.logger.Warn("upstream body read failed",
			zap.String("path", r.Path),
			zap.Error(err),
		)
		return nil, ErrUnavailable
	}
	if len(body) > maxBodyBytes {
		c.logger.Warn("upstream body too large",
			zap.String("path", r.Path),
			zap.Int("limit", maxBodyBytes),
		)
		return nil, ErrUnavailable
	}

	c.logger.Debug("upstream response",
		zap.String("method", r.Method),
		zap.String("path", r.Path),
		zap.Int("status", resp.StatusCode),
	)

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// DoJSON sends payload as a JSON body. A nil payload sends no body.
func (c *Client) DoJSON(ctx context.Context, method, path, token string, payload any) (*Response, error) {
	r := Request{Method: method, Path: path, Token: token}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		r.Body = bytes.NewReader(raw)
		r.ContentType = "application/json"
	}
	return c.Do(ctx, r)
}

func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

func (r *Response) IsJSON() bool {
	return strings.Contains(r.ContentType, "application/json")
}

// Payload is the JSON document relayed to the browser: the upstream body
// when it is JSON, otherwise the text wrapped as {"message": text}.
func (r *Response) Payload() []byte {
	trimmed := bytes.TrimSpace(r.Body)
	if r.IsJSON() && len(trimmed) > 0 && json.Valid(trimmed) {
		return r.Body
	}
	out, _ := json.Marshal(map[string]string{"message": string(r.Body)})
	return out
}

// Message returns the upstream `message` field, or fallback when absent.
func (r *Response) Message(fallback string) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(r.Payload(), &body); err == nil && body.Message != "" {
		return body.Message
	}
	return fallback
}

// Err is nil for 2xx answers and an *Error otherwise.
func (r *Response) Err() error {
	if r.OK() {
		return nil
	}
	return &Error{
		Status:  r.Status,
		Message: r.Message(fmt.Sprintf("HTTP %d", r.Status)),
	}
}

// Decode unmarshals a JSON body into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Payload(), v)
}
