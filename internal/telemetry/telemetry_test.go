// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package telemetry

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

func TestSetupNone(t *testing.T) {
	tel, err := Setup(context.Background(), "transfer-desk", types.TelemetryConfig{Exporter: types.ExporterNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, tel.TracerProvider)
	assert.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupStdoutExportsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	var buf bytes.Buffer
	tel, err := Setup(context.Background(), "transfer-desk", types.TelemetryConfig{Exporter: types.ExporterStdout}, &buf)
	require.NoError(t, err)
	require.NotNil(t, tel.TracerProvider)

	_, span := otel.Tracer("test").Start(context.Background(), "fetch.html")
	span.End()
	require.NoError(t, tel.Shutdown(context.Background()))

	assert.Contains(t, buf.String(), "fetch.html")
	assert.Contains(t, buf.String(), "transfer-desk")
}

func TestSetupUnknownExporter(t *testing.T) {
	_, err := Setup(context.Background(), "transfer-desk", types.TelemetryConfig{Exporter: "jaeger"}, nil)
	assert.ErrorContains(t, err, "unknown trace exporter")
}
