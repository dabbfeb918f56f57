package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPITestStats(t *testing.T) {
	s := &APITestStats{}
	s.Add(true, 10*time.Millisecond)
	s.Add(true, 30*time.Millisecond)
	s.Add(false, time.Second)

	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 1, s.FailedRequests)
	assert.Equal(t, 20*time.Millisecond, s.AverageLatency)
	assert.Equal(t, 30*time.Millisecond, s.MaxLatency)
	assert.Equal(t, 10*time.Millisecond, s.MinLatency)
	assert.InDelta(t, 66.67, s.SuccessRate(), 0.01)
}

// fakeServer 最小化的接口桩，注册过的用户再次注册返回 409
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	var mu sync.Mutex
	registered := map[string]uint{}

	mux := http.NewServeMux()
	auth := func(w http.ResponseWriter, username string, status int) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"user":        map[string]interface{}{"id": registered[username]},
			"accessToken": "token-" + username,
		})
	}
	mux.HandleFunc("/api/register", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		defer mu.Unlock()
		if _, ok := registered[body["username"]]; ok {
			w.WriteHeader(http.StatusConflict)
			return
		}
		registered[body["username"]] = uint(len(registered) + 1)
		auth(w, body["username"], http.StatusCreated)
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		mu.Lock()
		defer mu.Unlock()
		auth(w, body["username"], http.StatusOK)
	})
	mux.HandleFunc("/api/messages/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer token-") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte("[]"))
	})
	mux.HandleFunc("/api/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/api/skills", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSignInFallsBackToLogin(t *testing.T) {
	srv := fakeServer(t)
	ctx := context.Background()

	first := &benchClient{base: srv.URL, http: srv.Client()}
	require.NoError(t, first.signIn(ctx, "a@example.com", "pw"))
	second := &benchClient{base: srv.URL, http: srv.Client()}
	require.NoError(t, second.signIn(ctx, "a@example.com", "pw"))

	assert.Equal(t, first.token, second.token)
	assert.Equal(t, first.userID, second.userID)
}

func TestRunPollsMessages(t *testing.T) {
	srv := fakeServer(t)

	var out bytes.Buffer
	report, err := run(context.Background(), srv.URL, 2, 300*time.Millisecond, 20*time.Millisecond, &out)
	require.NoError(t, err)

	polls := report.Stats("GET /api/messages/:userId")
	assert.Positive(t, polls.SuccessfulRequests)
	assert.Zero(t, polls.FailedRequests)
	assert.Contains(t, out.String(), "GET /api/messages/:userId")
}
