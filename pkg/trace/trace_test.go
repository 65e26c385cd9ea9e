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

package trace

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func withRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return rec
}

func TestConf_Defaults(t *testing.T) {
	c := Conf{Protocol: ProtocolHTTP}
	c.SetDefaults()
	assert.Equal(t, "menusync", c.ServiceName)
	assert.Equal(t, "localhost:4318", c.Endpoint)
	assert.Equal(t, 512, c.MaxExportBatchSize)

	g := Conf{}
	g.SetDefaults()
	assert.Equal(t, ProtocolGRPC, g.Protocol)
	assert.Equal(t, "localhost:4317", g.Endpoint)
}

func TestConf_Validate(t *testing.T) {
	tests := []struct {
		name    string
		conf    Conf
		wantErr bool
	}{
		{"empty", Conf{}, false},
		{"http", Conf{Protocol: ProtocolHTTP, SampleRatio: 0.5}, false},
		{"bad protocol", Conf{Protocol: "zipkin"}, true},
		{"bad ratio", Conf{SampleRatio: 1.5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.conf.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestInitTracerProvider_Disabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, cleanup, err := InitTracerProvider(context.Background(), Conf{})
	require.NoError(t, err)
	defer cleanup()

	_, span := tp.Tracer("test").Start(context.Background(), "op")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}

func TestInitTracerProvider_Invalid(t *testing.T) {
	_, _, err := InitTracerProvider(context.Background(), Conf{Enabled: true, Protocol: "udp"})
	assert.Error(t, err)
}

func TestFiberMiddleware(t *testing.T) {
	rec := withRecorder(t)

	var handlerSpan oteltrace.SpanContext
	app := fiber.New()
	app.Use(FiberMiddleware())
	app.Get("/menu", func(c *fiber.Ctx) error {
		handlerSpan = oteltrace.SpanContextFromContext(c.UserContext())
		return c.SendString("ok")
	})
	app.Get("/missing", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/menu", nil))
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	_, err = app.Test(httptest.NewRequest("GET", "/missing", nil))
	require.NoError(t, err)

	spans := rec.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "GET /menu", spans[0].Name())
	assert.Equal(t, handlerSpan.SpanID(), spans[0].SpanContext().SpanID())
	assert.Equal(t, codes.Ok, spans[0].Status().Code)
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}

func TestRedisHook(t *testing.T) {
	rec := withRecorder(t)
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	client.AddHook(RedisHook{})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "menu_cache", "[]", 0).Err())
	assert.ErrorIs(t, client.Get(ctx, "missing").Err(), redis.Nil)

	var names []string
	for _, s := range rec.Ended() {
		names = append(names, s.Name())
		if s.Name() == "redis.get" {
			assert.Equal(t, codes.Ok, s.Status().Code)
		}
	}
	assert.Contains(t, names, "redis.set")
	assert.Contains(t, names, "redis.get")
}
