package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestGenerateContentRequestShape(t *testing.T) {
	type captured struct {
		method      string
		path        string
		key         string
		contentType string
		payload     GenerateContentRequest
	}
	requests := make(chan captured, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := captured{
			method:      r.Method,
			path:        r.URL.Path,
			key:         r.URL.Query().Get("key"),
			contentType: r.Header.Get("Content-Type"),
		}
		if err := json.NewDecoder(r.Body).Decode(&c.payload); err != nil {
			t.Errorf("Failed to decode upstream payload: %v", err)
		}
		requests <- c
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	client := NewBackendClient(server.URL+"/v1beta/", "gemini-1.5-flash-latest", 5*time.Second)
	resp, err := client.GenerateContent(context.Background(), "secret-key", NewPromptRequest("hello"))
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	got := <-requests
	if got.method != http.MethodPost {
		t.Errorf("Expected POST, got %s", got.method)
	}
	if got.path != "/v1beta/models/gemini-1.5-flash-latest:generateContent" {
		t.Errorf("Unexpected upstream path %q", got.path)
	}
	if got.key != "secret-key" {
		t.Errorf("Expected key query parameter, got %q", got.key)
	}
	if got.contentType != "application/json" {
		t.Errorf("Expected JSON content type, got %q", got.contentType)
	}

	if len(got.payload.Contents) != 1 {
		t.Fatalf("Expected one content entry, got %d", len(got.payload.Contents))
	}
	content := got.payload.Contents[0]
	if content.Role != "user" {
		t.Errorf("Expected role 'user', got %q", content.Role)
	}
	if len(content.Parts) != 1 || content.Parts[0].Text != "hello" {
		t.Errorf("Unexpected parts %+v", content.Parts)
	}
}

func TestNewPromptRequestJSON(t *testing.T) {
	raw, err := json.Marshal(NewPromptRequest("hi"))
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	want := `{"contents":[{"role":"user","parts":[{"text":"hi"}]}]}`
	if string(raw) != want {
		t.Errorf("Expected %s, got %s", want, raw)
	}
}

func TestGenerateContentTransportError(t *testing.T) {
	reset := errors.New("connection reset by peer")
	client := NewBackendClient("https://upstream.invalid", "m", time.Second).
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, reset
		})})

	_, err := client.GenerateContent(context.Background(), "k", NewPromptRequest("x"))
	if !errors.Is(err, reset) {
		t.Fatalf("Expected wrapped transport error, got %v", err)
	}
}

func TestForwardCopiesHeaders(t *testing.T) {
	client := NewBackendClient("https://upstream.invalid", "m", time.Second).
		WithHTTPClient(&http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			if got := r.Header.Values("X-Trace"); len(got) != 2 {
				t.Errorf("Expected two X-Trace values, got %v", got)
			}
			return &http.Response{
				StatusCode: http.StatusNoContent,
				Body:       io.NopCloser(http.NoBody),
				Header:     http.Header{},
			}, nil
		})})

	headers := http.Header{}
	headers.Add("X-Trace", "a")
	headers.Add("X-Trace", "b")

	resp, err := client.Forward(context.Background(), http.MethodGet, "/ping", headers, nil)
	if err != nil {
		t.Fatalf("Forward failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("Expected 204, got %d", resp.StatusCode)
	}
}

func TestClientTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewBackendClient(server.URL, "m", 50*time.Millisecond)
	if _, err := client.GenerateContent(context.Background(), "k", NewPromptRequest("x")); err == nil {
		t.Fatal("Expected a timeout error")
	}
}
