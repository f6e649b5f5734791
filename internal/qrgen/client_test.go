package qrgen

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerate(t *testing.T) {
	var gotPayload string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/generate" {
			t.Errorf("path %s, want /generate", r.URL.Path)
		}
		var req struct {
			Payload string `json:"payload"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotPayload = req.Payload
		json.NewEncoder(w).Encode(map[string]string{"url": "https://img.example/qr.png"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 5*time.Second)
	url, err := c.Generate(context.Background(), "*182*1*1*0788123456*1000#")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if url != "https://img.example/qr.png" {
		t.Errorf("url %q", url)
	}
	if gotPayload != "*182*1*1*0788123456*1000#" {
		t.Errorf("payload %q", gotPayload)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"empty url", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]string{"url": ""})
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(srv.URL, 5*time.Second)
			if _, err := c.Generate(context.Background(), "*182*1*1*0788123456#"); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
