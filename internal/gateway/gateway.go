package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tickerbot/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const requestTimeout = 30 * time.Second

// Response is the raw upstream reply. The body is only JSON-decoded by the
// caller, and only when IsJSON reports true.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

func (r *Response) IsJSON() bool {
	return strings.Contains(strings.ToLower(r.ContentType), "application/json")
}

// Gateway executes one HTTP exchange against a single upstream host. It has
// no retry, backoff or suppression: a failure surfaces immediately and the
// caller decides what to do with it.
type Gateway struct {
	baseURL string
	client  *http.Client
	tracer  trace.Tracer
}

func New(baseURL string, tracer trace.Tracer) *Gateway {
	return &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		tracer:  tracer,
	}
}

// Do sends one request. The path must be absolute (start at the API root);
// a relative path is a caller bug, not something to quietly fix, because the
// signed bytes cover the path verbatim.
func (g *Gateway) Do(ctx context.Context, method, path string, headers map[string]string, body string) (*Response, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, &domain.ValidationError{Reason: fmt.Sprintf("request path %q is not absolute", path)}
	}

	ctx, span := g.tracer.Start(ctx, "gateway.do")
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &domain.UpstreamError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return &Response{
		Status:      resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}
