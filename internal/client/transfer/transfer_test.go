package transfer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPut_Success(t *testing.T) {
	var received []byte
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		contentType = r.Header.Get("Content-Type")
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	payload := []byte("%PDF-1.7 fake body")
	out := New().Put(context.Background(), srv.URL, payload, "application/pdf", nil)

	assert.Equal(t, StatusSuccess, out.Status)
	assert.Equal(t, http.StatusOK, out.HTTPStatus)
	assert.Equal(t, payload, received)
	assert.Equal(t, "application/pdf", contentType)
}

func TestPut_ProgressIsMonotoneAndReachesOne(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	var mu sync.Mutex
	var fractions []float64
	payload := make([]byte, 1<<20)

	out := New().Put(context.Background(), srv.URL, payload, "application/pdf", func(f float64) {
		mu.Lock()
		fractions = append(fractions, f)
		mu.Unlock()
	})
	require.Equal(t, StatusSuccess, out.Status)

	require.NotEmpty(t, fractions)
	for i := 1; i < len(fractions); i++ {
		assert.GreaterOrEqual(t, fractions[i], fractions[i-1], "progress must be monotone")
	}
	for _, f := range fractions {
		assert.GreaterOrEqual(t, f, 0.0)
		assert.LessOrEqual(t, f, 1.0)
	}
	assert.Equal(t, 1.0, fractions[len(fractions)-1])
}

func TestPut_RemoteRejectedCarriesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "SignatureDoesNotMatch", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	out := New().Put(context.Background(), srv.URL, []byte("x"), "application/pdf", nil)

	assert.Equal(t, StatusRemoteRejected, out.Status)
	assert.Equal(t, http.StatusForbidden, out.HTTPStatus)
	assert.Contains(t, out.Body, "SignatureDoesNotMatch")
}

func TestPut_NetworkErrorHasNoStatus(t *testing.T) {
	out := New().Put(context.Background(), "http://127.0.0.1:1/nope", []byte("x"), "application/pdf", nil)

	assert.Equal(t, StatusNetworkError, out.Status)
	assert.Zero(t, out.HTTPStatus)
	assert.Error(t, out.Err)
}

func TestPut_CancelledMidFlight(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Hold the request open until the client gives up.
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	out := New().Put(ctx, srv.URL, make([]byte, 1<<22), "application/pdf", nil)

	assert.Equal(t, StatusCancelled, out.Status, "abort must never classify as network error")
	assert.NoError(t, out.Err)
}

func TestPut_DeadlineExpiryIsNetworkError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	out := New().Put(ctx, srv.URL, make([]byte, 1<<22), "application/pdf", nil)

	assert.Equal(t, StatusNetworkError, out.Status, "a deadline expiry is not a user abort")
	assert.Error(t, out.Err)
}

func TestPut_InvalidURL(t *testing.T) {
	out := New().Put(context.Background(), "://bad", []byte("x"), "application/pdf", nil)
	assert.Equal(t, StatusNetworkError, out.Status)
}
