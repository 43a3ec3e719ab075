package duw_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rybaaa/townhall-queue-tgbot/internal/config"
	"github.com/rybaaa/townhall-queue-tgbot/internal/duw"
)

func testMonitorConfig(url string) *config.MonitorConfig {
	return &config.MonitorConfig{
		StatusURL:      url,
		City:           "Wrocław",
		QueueID:        24,
		RequestTimeout: 5 * time.Second,
		UserAgent:      "test-agent",
	}
}

func TestFetchStatus(t *testing.T) {
	t.Parallel()

	t.Run("decodes valid payload", func(t *testing.T) {
		t.Parallel()

		var gotUserAgent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUserAgent = r.Header.Get("User-Agent")
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"result":{"Wrocław":[{"id":24,"name":"Karta pobytu","ticket_count":2}]}}`))
		}))
		defer srv.Close()

		client := duw.NewClient(testMonitorConfig(srv.URL), nil)
		status, err := client.FetchStatus(context.Background())
		if err != nil {
			t.Fatalf("FetchStatus() unexpected error: %v", err)
		}

		q, err := status.Queue("Wrocław", 24)
		if err != nil {
			t.Fatalf("Queue() unexpected error: %v", err)
		}
		if q.TicketCount.Int() != 2 {
			t.Errorf("ticket count = %d, want 2", q.TicketCount.Int())
		}
		if gotUserAgent != "test-agent" {
			t.Errorf("user agent = %q, want %q", gotUserAgent, "test-agent")
		}
	})

	t.Run("rejects non-200 response", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		client := duw.NewClient(testMonitorConfig(srv.URL), nil)
		if _, err := client.FetchStatus(context.Background()); err == nil {
			t.Fatal("FetchStatus() expected error for HTTP 503, got nil")
		}
	})

	t.Run("rejects empty body", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client := duw.NewClient(testMonitorConfig(srv.URL), nil)
		if _, err := client.FetchStatus(context.Background()); err == nil {
			t.Fatal("FetchStatus() expected error for empty body, got nil")
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>maintenance</html>`))
		}))
		defer srv.Close()

		client := duw.NewClient(testMonitorConfig(srv.URL), nil)
		if _, err := client.FetchStatus(context.Background()); err == nil {
			t.Fatal("FetchStatus() expected error for malformed body, got nil")
		}
	})

	t.Run("skips certificate verification when configured", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"result":{}}`))
		}))
		defer srv.Close()

		cfg := testMonitorConfig(srv.URL)
		cfg.InsecureSkipVerify = true

		client := duw.NewClient(cfg, nil)
		if _, err := client.FetchStatus(context.Background()); err != nil {
			t.Fatalf("FetchStatus() with InsecureSkipVerify unexpected error: %v", err)
		}
	})
}
