package remote_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"todoApp/internal/logger"
	"todoApp/internal/models/todo"
	"todoApp/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_List(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectLen   int
		expectError bool
	}{
		{name: "success - records", status: http.StatusOK, body: `[{"id":"1","title":"A","time":"1","done":false},{"id":0.25,"title":"B","time":"2","done":true}]`, expectLen: 2},
		{name: "success - empty array", status: http.StatusOK, body: `[]`, expectLen: 0},
		{name: "success - null body", status: http.StatusOK, body: `null`, expectLen: 0},
		{name: "error - server error", status: http.StatusInternalServerError, body: `boom`, expectError: true},
		{name: "error - invalid json", status: http.StatusOK, body: `{invalid`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/todos", r.URL.Path)
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			client := remote.NewClient(ts.URL+"/", time.Second)
			todos, err := client.List(context.Background())

			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, todos)
			assert.Len(t, todos, tt.expectLen)
		})
	}
}

func TestClient_StatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not here", http.StatusNotFound)
	}))
	defer ts.Close()

	client := remote.NewClient(ts.URL, time.Second)
	err := client.Delete(context.Background(), "42")

	var statusErr *remote.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Equal(t, http.MethodDelete, statusErr.Method)
	assert.Equal(t, "/todos/42", statusErr.Path)
	assert.Equal(t, "not here", statusErr.Body)
}

func TestClient_Create(t *testing.T) {
	draft := todo.Todo{ID: "abc", Title: "Buy milk", Time: "2"}

	t.Run("sends json body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/todos", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "req-7", r.Header.Get("X-Request-ID"))

			var got todo.Todo
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.Equal(t, draft, got)

			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(got)
		}))
		defer ts.Close()

		ctx := logger.WithRequestID(context.Background(), "req-7")
		created, err := remote.NewClient(ts.URL, time.Second).Create(ctx, draft)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, draft, *created)
	})

	t.Run("empty response body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}))
		defer ts.Close()

		created, err := remote.NewClient(ts.URL, time.Second).Create(context.Background(), draft)
		require.NoError(t, err)
		assert.Nil(t, created)
	})
}

func TestClient_Update(t *testing.T) {
	record := todo.Todo{ID: "a b", Title: "Test", Time: "1", Done: true}

	t.Run("returns server record", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/todos/a%20b", r.URL.EscapedPath())

			var got todo.Todo
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			assert.True(t, got.Done)

			got.Title = "Normalized"
			json.NewEncoder(w).Encode(got)
		}))
		defer ts.Close()

		updated, err := remote.NewClient(ts.URL, time.Second).Update(context.Background(), record)
		require.NoError(t, err)
		assert.Equal(t, "Normalized", updated.Title)
		assert.True(t, updated.Done)
	})

	t.Run("empty response is an error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		_, err := remote.NewClient(ts.URL, time.Second).Update(context.Background(), record)
		assert.Error(t, err)
	})
}

func TestClient_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	err := remote.NewClient(ts.URL, 20*time.Millisecond).Ping(context.Background())
	assert.Error(t, err)
}

func TestClient_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	_, err := remote.NewClient(url, time.Second).List(context.Background())
	assert.Error(t, err)

	var statusErr *remote.StatusError
	assert.False(t, errors.As(err, &statusErr))
}
