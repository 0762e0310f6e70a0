package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/theoremus-urban-solutions/mnr-feed/rterr"
)

func TestGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "" {
			t.Error("plain Get sent an api key header")
		}
		_, _ = w.Write([]byte("station page"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(2 * time.Second)
	body, err := c.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(body) != "station page" {
		t.Errorf("body = %q, want station page", body)
	}
}

func TestGetWithKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("x-api-key = %q, want secret", got)
		}
		_, _ = w.Write([]byte("feed"))
	}))
	t.Cleanup(srv.Close)

	c := NewClient(2 * time.Second)
	if _, err := c.GetWithKey(context.Background(), srv.URL, "secret"); err != nil {
		t.Fatalf("GetWithKey: %v", err)
	}
}

func TestGetNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	c := NewClient(2 * time.Second)
	_, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected error for HTTP 502")
	}
	if !rterr.IsNetwork(err) {
		t.Errorf("error = %v, want network", err)
	}
}

func TestGetTimeout(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c := NewClient(50 * time.Millisecond)
	_, err := c.Get(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !rterr.IsTimeout(err) {
		t.Errorf("error = %v, want timeout", err)
	}
}

func TestGetConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := NewClient(2 * time.Second)
	_, err := c.Get(context.Background(), url)
	if err == nil {
		t.Fatal("expected error for a closed server")
	}
	if !rterr.IsNetwork(err) {
		t.Errorf("error = %v, want network", err)
	}
}
