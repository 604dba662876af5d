package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_DoSendsJSONAndParams(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/order", r.URL.Path)
		assert.Equal(t, "7", r.URL.Query().Get("productId"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "x", r.Header.Get("X-Test"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"price":"1"}`, string(body))
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", Options{})
	resp, err := c.Do(context.Background(), http.MethodPost, "/v1/order", &RequestOptions{
		Headers: map[string]string{"X-Test": "x"},
		Params:  map[string]any{"productId": 7},
		Data:    map[string]any{"price": "1"},
	})
	require.NoError(t, err)
	assert.True(t, resp.IsSuccess())

	var out struct{ OK bool }
	require.NoError(t, DecodeBody(resp.Body, &out))
	assert.True(t, out.OK)
}

func TestClient_NoRetryOnServerError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`boom`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, Options{}).Do(context.Background(), http.MethodPost, "/x", nil)
	require.NoError(t, err)
	assert.False(t, resp.IsSuccess())
	assert.Equal(t, "boom", string(resp.Body))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, Options{Timeout: 20 * time.Millisecond}).Do(context.Background(), http.MethodGet, "/slow", nil)
	require.Error(t, err)
}

func TestClient_UnsupportedMethod(t *testing.T) {
	_, err := NewClient("http://127.0.0.1:1", Options{}).Do(context.Background(), "PATCH", "/x", nil)
	require.Error(t, err)
}

func TestDecodeBody(t *testing.T) {
	var v map[string]any
	require.NoError(t, DecodeBody(nil, &v))
	require.Error(t, DecodeBody([]byte("not json"), &v))
}
