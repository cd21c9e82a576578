package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Fetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != "ActivityScout/1.0 (test)" {
			t.Errorf("Unexpected user agent: %s", ua)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Unexpected accept header: %s", accept)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewClient("ActivityScout/1.0 (test)", 100)

	data, contentType, err := client.Fetch(context.Background(), server.URL, "application/json")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if string(data) != `{"ok":true}` {
		t.Errorf("Unexpected payload: %s", data)
	}
	if contentType != "application/json" {
		t.Errorf("Unexpected content type: %s", contentType)
	}
}

func TestClient_Fetch_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient("ActivityScout/1.0 (test)", 100)

	_, _, err := client.Fetch(context.Background(), server.URL, "")
	if err == nil {
		t.Fatal("Expected error for HTTP 503")
	}

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *FetchError, got %T", err)
	}
	if fetchErr.URL != server.URL {
		t.Errorf("Expected error to carry URL %s, got %s", server.URL, fetchErr.URL)
	}
}

func TestClient_Fetch_CancelledContext(t *testing.T) {
	client := NewClient("ActivityScout/1.0 (test)", 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := client.Fetch(ctx, "http://example.com", "")
	if err == nil {
		t.Fatal("Expected error for cancelled context")
	}
}

func TestClient_Fetch_BodyCapped(t *testing.T) {
	big := make([]byte, maxBodyBytes+1024)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(big)
	}))
	defer server.Close()

	client := NewClient("ActivityScout/1.0 (test)", 100)

	data, _, err := client.Fetch(context.Background(), server.URL, "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(data) != maxBodyBytes {
		t.Errorf("Expected body capped at %d bytes, got %d", maxBodyBytes, len(data))
	}
}

func TestClient_Accessible(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("Expected HEAD request, got %s", r.Method)
		}
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient("ActivityScout/1.0 (test)", 100)

	if !client.Accessible(context.Background(), server.URL+"/page") {
		t.Error("Expected 200 response to be accessible")
	}
	if client.Accessible(context.Background(), server.URL+"/missing") {
		t.Error("Expected 404 response to be inaccessible")
	}
}
