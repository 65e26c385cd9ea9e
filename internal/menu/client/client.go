// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/menusync/pkg/id"
	httpx "github.com/go-arcade/menusync/pkg/http"
	"github.com/go-arcade/menusync/pkg/log"
	"github.com/go-arcade/menusync/pkg/metrics"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultBaseURL = "http://localhost:8000"
	apiPrefix      = "/api"
	tracerName     = "github.com/go-arcade/menusync/internal/menu/client"
)

var ErrMenuUnavailable = errors.New("menu service reported the menu as unavailable")

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API Error: %d %s", e.StatusCode, e.StatusText)
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

type Config struct {
	BaseURL    string        `mapstructure:"baseURL"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Token      string        `mapstructure:"token"`
	AppVersion string        `mapstructure:"appVersion"`
	InstallID  string        `mapstructure:"installID"`
	Debug      bool          `mapstructure:"debug"`
}

// Client talks to the menu REST service. It neither caches nor retries.
type Client struct {
	rc     *resty.Client
	tracer trace.Tracer
}

func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	rc := httpx.NewClient(httpx.ClientConfig{
		BaseURL:   base + apiPrefix,
		Timeout:   cfg.Timeout,
		UserAgent: "menusync/" + cfg.AppVersion,
		Debug:     cfg.Debug,
	})
	rc.SetHeader("Content-Type", "application/json")
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}
	if cfg.AppVersion != "" {
		rc.SetHeader("app-version", cfg.AppVersion)
	}
	if cfg.InstallID != "" {
		rc.SetHeader("user-id", cfg.InstallID)
	}
	return &Client{rc: rc, tracer: otel.Tracer(tracerName)}
}

// BaseURL returns the resolved API root including the /api prefix.
func (c *Client) BaseURL() string {
	return c.rc.BaseURL
}

// do runs one request inside a client span. A 2xx body is decoded into
// out when out is non-nil.
func (c *Client) do(ctx context.Context, op, method, path string, prepare func(*resty.Request), out any) error {
	ctx, span := c.tracer.Start(ctx, "menu."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	req := c.rc.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", id.GetUUID())
	if prepare != nil {
		prepare(req)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		metrics.APIRequestsTotal.WithLabelValues(op, "error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warnw("menu api request failed", "op", op, "path", path, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}

	code := resp.StatusCode()
	metrics.APIRequestsTotal.WithLabelValues(op, strconv.Itoa(code)).Inc()
	span.SetAttributes(attribute.Int("http.status_code", code))
	if code < 200 || code > 299 {
		apiErr := &APIError{StatusCode: code, StatusText: http.StatusText(code), Body: resp.String()}
		span.SetStatus(codes.Error, apiErr.Error())
		log.Warnw("menu api returned error", "op", op, "path", path, "status", code)
		return apiErr
	}

	if out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := sonic.Unmarshal(resp.Body(), out); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, path string, query map[string]string, out any) error {
	return c.do(ctx, op, resty.MethodGet, path, func(r *resty.Request) {
		if len(query) > 0 {
			r.SetQueryParams(query)
		}
	}, out)
}

func (c *Client) send(ctx context.Context, op, method, path string, body, out any) error {
	return c.do(ctx, op, method, path, func(r *resty.Request) {
		if body != nil {
			r.SetBody(body)
		}
	}, out)
}
