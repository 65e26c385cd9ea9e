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
	"io"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
)

type UploadResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// UploadIcon posts r as the multipart field "file".
func (c *Client) UploadIcon(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	var out UploadResult
	err := c.do(ctx, "upload_icon", resty.MethodPost, "/upload/icon", func(req *resty.Request) {
		req.SetFileReader("file", filename, r)
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DateRange bounds analytics queries. Empty fields are omitted.
type DateRange struct {
	Start string
	End   string
}

func (d DateRange) params() map[string]string {
	p := map[string]string{}
	if d.Start != "" {
		p["start_date"] = d.Start
	}
	if d.End != "" {
		p["end_date"] = d.End
	}
	return p
}

func (c *Client) GetAnalytics(ctx context.Context, r DateRange) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "get_analytics", "/analytics", r.params(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type EventQuery struct {
	Page      int
	Limit     int
	EventType string
	UserID    string
	Range     DateRange
}

func (c *Client) GetAnalyticsEvents(ctx context.Context, q EventQuery) (map[string]any, error) {
	p := q.Range.params()
	if q.Page > 0 {
		p["page"] = strconv.Itoa(q.Page)
	}
	if q.Limit > 0 {
		p["limit"] = strconv.Itoa(q.Limit)
	}
	if q.EventType != "" {
		p["event_type"] = q.EventType
	}
	if q.UserID != "" {
		p["user_id"] = q.UserID
	}
	var out map[string]any
	if err := c.get(ctx, "get_analytics_events", "/analytics/events", p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUserAnalytics(ctx context.Context, userID string, days int) (map[string]any, error) {
	var p map[string]string
	if days > 0 {
		p = map[string]string{"days": strconv.Itoa(days)}
	}
	var out map[string]any
	if err := c.get(ctx, "get_user_analytics", "/analytics/users/"+url.PathEscape(userID), p, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetFeatureUsage(ctx context.Context, r DateRange) (map[string]any, error) {
	var out map[string]any
	if err := c.get(ctx, "get_feature_usage", "/analytics/features", r.params(), &out); err != nil {
		return nil, err
	}
	return out, nil
}

type ExportResult struct {
	Data     any    `json:"data"`
	Filename string `json:"filename"`
}

// ExportAnalytics exports in format "json" (default) or "csv".
func (c *Client) ExportAnalytics(ctx context.Context, format string, r DateRange) (*ExportResult, error) {
	if format == "" {
		format = "json"
	}
	p := r.params()
	p["format"] = format
	var out ExportResult
	if err := c.get(ctx, "export_analytics", "/analytics/export", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type HealthStatus struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (c *Client) Health(ctx context.Context) (*HealthStatus, error) {
	var out HealthStatus
	if err := c.get(ctx, "health", "/health", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
