package retry

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastConfig(maxRetries int) RetryConfig {
	return RetryConfig{
		MaxRetries:          maxRetries,
		InitialDelay:        time.Millisecond,
		MaxDelay:            5 * time.Millisecond,
		BackoffFactor:       2,
		NetworkInitialDelay: time.Millisecond,
		NetworkMaxDelay:     5 * time.Millisecond,
	}
}

func TestRetryableClientRetriesServerErrors(t *testing.T) {
	var calls int32
	var mu sync.Mutex
	var bodies []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, string(body))
		mu.Unlock()
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewNetworkRetrier(fastConfig(3), nil).WrapHTTPClient(server.Client())
	req, err := http.NewRequest(http.MethodPost, server.URL, strings.NewReader("q=hello"))
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"q=hello", "q=hello", "q=hello"}, bodies)
}

func TestRetryableClientDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	client := NewNetworkRetrier(fastConfig(3), nil).WrapHTTPClient(server.Client())
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestRetryGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewNetworkRetrier(fastConfig(2), nil).WrapHTTPClient(server.Client())
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestExecuteWithRetryCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	nr := NewNetworkRetrier(fastConfig(3), nil)
	_, err := nr.ExecuteWithRetry(ctx, func() (*http.Response, error) {
		t.Fatal("should not be called")
		return nil, nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClassify(t *testing.T) {
	nr := NewNetworkRetrier(DefaultRetryConfig(), nil)

	tests := []struct {
		name string
		err  error
		code int
		want ErrorType
	}{
		{"connection refused", errors.New("dial tcp: connection refused"), 0, ErrorTypeNetwork},
		{"permanent", errors.New("bad url"), 0, ErrorTypePermanent},
		{"canceled", context.Canceled, 0, ErrorTypePermanent},
		{"server error", nil, 500, ErrorTypeServerError},
		{"rate limited", nil, 429, ErrorTypeRetryableHTTP},
		{"client error", nil, 401, ErrorTypeClientError},
		{"ok", nil, 200, ErrorTypeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp *http.Response
			if tt.code != 0 {
				resp = &http.Response{StatusCode: tt.code}
			}
			assert.Equal(t, tt.want, nr.Classify(tt.err, resp))
		})
	}
}

func TestCalculateDelayCapped(t *testing.T) {
	nr := NewNetworkRetrier(fastConfig(5), nil)
	assert.Equal(t, time.Millisecond, nr.calculateDelay(false, 0))
	assert.Equal(t, 2*time.Millisecond, nr.calculateDelay(false, 1))
	assert.Equal(t, 5*time.Millisecond, nr.calculateDelay(false, 4))
}
