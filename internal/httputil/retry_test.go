// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/transfer-desk/pkg/types"
)

func init() {
	// Use a tiny base delay so tests finish quickly.
	RetryBaseDelay = 1 * time.Millisecond
}

func countingServer(t *testing.T, calls *int32, handler func(n int32, w http.ResponseWriter)) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		handler(atomic.AddInt32(calls, 1), w)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestGet_ImmediateSuccess(t *testing.T) {
	var calls int32
	ts := countingServer(t, &calls, func(_ int32, w http.ResponseWriter) {
		w.Write([]byte("ok"))
	})

	body, err := Get(context.Background(), NewClient(types.HTTPConfig{}), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_RetriesThen200(t *testing.T) {
	var calls int32
	ts := countingServer(t, &calls, func(n int32, w http.ResponseWriter) {
		switch n {
		case 1:
			w.WriteHeader(http.StatusTooManyRequests)
		case 2:
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.Write([]byte("ok"))
		}
	})

	body, err := Get(context.Background(), NewClient(types.HTTPConfig{MaxRetries: 5}), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGet_ExhaustsRetries(t *testing.T) {
	var calls int32
	ts := countingServer(t, &calls, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := Get(context.Background(), NewClient(types.HTTPConfig{MaxRetries: 2}), ts.URL)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
	// 1 initial + 2 retries = 3 total calls.
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGet_DefaultMaxRetries(t *testing.T) {
	var calls int32
	ts := countingServer(t, &calls, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := Get(context.Background(), NewClient(types.HTTPConfig{}), ts.URL)
	require.Error(t, err)
	// 1 initial + 3 default retries = 4 total calls.
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestGet_NoRetriesWhenNegative(t *testing.T) {
	var calls int32
	ts := countingServer(t, &calls, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := Get(context.Background(), NewClient(types.HTTPConfig{MaxRetries: -1}), ts.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_ClientErrorNotRetried(t *testing.T) {
	var calls int32
	ts := countingServer(t, &calls, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := Get(context.Background(), NewClient(types.HTTPConfig{}), ts.URL)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGet_ContextCancelled(t *testing.T) {
	var calls int32
	ts := countingServer(t, &calls, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	client := NewClient(types.HTTPConfig{MaxRetries: 5, RetryWait: 500 * time.Millisecond})
	_, err := Get(ctx, client, ts.URL)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewClient_SetsUserAgent(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer ts.Close()

	_, err := Get(context.Background(), NewClient(types.HTTPConfig{UserAgent: "transfer-desk/test"}), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "transfer-desk/test", got)
}

func TestThrottle_SpacesRequests(t *testing.T) {
	var calls int32
	ts := countingServer(t, &calls, func(_ int32, w http.ResponseWriter) {
		w.Write([]byte("ok"))
	})

	client := Throttle(NewClient(types.HTTPConfig{}), 50*time.Millisecond)
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := Get(context.Background(), client, ts.URL)
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}
