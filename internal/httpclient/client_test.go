package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGetDefaultClient(t *testing.T) {
	client := GetDefaultClient()
	if client == nil || client.Timeout != DefaultTimeout {
		t.Fatalf("GetDefaultClient() = %+v, want timeout %v", client, DefaultTimeout)
	}
	if GetDefaultClient() != client {
		t.Errorf("Expected singleton client instance")
	}

	custom := &http.Client{Timeout: 3 * time.Second}
	restore := SetDefaultClientForTesting(custom)
	if GetDefaultClient() != custom {
		t.Errorf("Expected overridden default client")
	}
	restore()
	if GetDefaultClient() != client {
		t.Errorf("restore did not bring back the singleton")
	}
}

func TestDoJSON(t *testing.T) {
	var got struct {
		method, auth, ua, ctype, prefer string
		payload                         map[string]string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.auth = r.Header.Get("Authorization")
		got.ua = r.Header.Get("User-Agent")
		got.ctype = r.Header.Get("Content-Type")
		got.prefer = r.Header.Get("Prefer")
		_ = json.NewDecoder(r.Body).Decode(&got.payload)
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":"p1"}`)
	}))
	defer server.Close()

	resp, err := DoJSON(context.Background(), Request{
		Method:  http.MethodPost,
		URL:     server.URL,
		Token:   "r8_test",
		Payload: map[string]string{"version": "v1"},
		Header:  http.Header{"Prefer": {"wait"}},
	})
	if err != nil {
		t.Fatalf("DoJSON() error: %v", err)
	}
	if !resp.OK() || resp.StatusCode != http.StatusCreated || string(resp.Body) != `{"id":"p1"}` {
		t.Errorf("response = %+v", resp)
	}
	if got.method != http.MethodPost || got.auth != "Bearer r8_test" || got.ctype != "application/json" || got.prefer != "wait" {
		t.Errorf("request headers = %+v", got)
	}
	if !strings.HasPrefix(got.ua, "aitag/") {
		t.Errorf("User-Agent = %q, want aitag/ prefix", got.ua)
	}
	if got.payload["version"] != "v1" {
		t.Errorf("payload = %v", got.payload)
	}
}

func TestDoJSON_NonSuccessIsAResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "" {
			t.Errorf("GET without payload sent Content-Type %q", r.Header.Get("Content-Type"))
		}
		http.Error(w, `{"detail":"nope"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	resp, err := DoJSON(context.Background(), Request{Method: http.MethodGet, URL: server.URL})
	if err != nil {
		t.Fatalf("DoJSON() error: %v", err)
	}
	if resp.OK() || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("response = %+v, want 401", resp)
	}
}

func TestDoAndReadTooLarge(t *testing.T) {
	oversized := make([]byte, MaxResponseBytes+1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", fmt.Sprintf("%d", len(oversized)))
		w.WriteHeader(http.StatusOK)
		w.Write(oversized)
	}))
	defer server.Close()

	req, _ := http.NewRequest(http.MethodGet, server.URL, nil)
	_, _, err := DoAndRead(GetDefaultClient(), req)
	if err == nil || !strings.Contains(err.Error(), "response body too large") {
		t.Fatalf("expected response body too large error, got: %v", err)
	}
}
