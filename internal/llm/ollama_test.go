package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewOllamaClient_Defaults(t *testing.T) {
	c := NewOllamaClient()

	if c.baseURL != DefaultOllamaURL {
		t.Errorf("baseURL = %s, want %s", c.baseURL, DefaultOllamaURL)
	}
	if c.model != DefaultModel {
		t.Errorf("model = %s, want %s", c.model, DefaultModel)
	}
	if c.client.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.client.Timeout, DefaultTimeout)
	}
}

func TestNewOllamaClient_WithOptions(t *testing.T) {
	c := NewOllamaClient(
		WithBaseURL("http://custom:8080/"),
		WithModel("mistral"),
		WithTimeout(5*time.Second),
	)

	if c.BaseURL() != "http://custom:8080" {
		t.Errorf("BaseURL() = %s", c.BaseURL())
	}
	if c.ModelName() != "mistral" {
		t.Errorf("ModelName() = %s", c.ModelName())
	}
	if c.client.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", c.client.Timeout)
	}
}

func TestOllamaClient_Chat(t *testing.T) {
	var got ollamaChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathChat || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"model":"llama3.1:8b","message":{"role":"assistant","content":"{\"author\":\"Doe, Jane\"}"},"done":true}`))
	}))
	defer server.Close()

	c := NewOllamaClient(WithBaseURL(server.URL))
	reply, err := c.Chat(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != `{"author":"Doe, Jane"}` {
		t.Errorf("reply = %q", reply)
	}
	if got.Model != DefaultModel || got.Stream {
		t.Errorf("request = %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" || got.Messages[0].Content != "hello" {
		t.Errorf("messages = %+v", got.Messages)
	}
}

func TestOllamaClient_Chat_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, "boom"},
		{"model missing", http.StatusNotFound, `{"error":"model not found"}`},
		{"bad json", http.StatusOK, "not json"},
		{"error field", http.StatusOK, `{"error":"out of memory"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := NewOllamaClient(WithBaseURL(server.URL))
			if _, err := c.Chat(context.Background(), "x"); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestOllamaClient_HasModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != apiPathTags {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Write([]byte(`{"models":[{"name":"all-minilm:l6-v2"},{"name":"llama3.1:8b-instruct-q4_0"}]}`))
	}))
	defer server.Close()

	tests := []struct {
		model string
		want  bool
	}{
		{"llama3.1:8b", true},
		{"llama3.1", true},
		{"mistral", false},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			c := NewOllamaClient(WithBaseURL(server.URL), WithModel(tt.model))
			if err := c.IsAvailable(context.Background()); err != nil {
				t.Fatalf("IsAvailable: %v", err)
			}
			got, err := c.HasModel(context.Background())
			if err != nil {
				t.Fatalf("HasModel: %v", err)
			}
			if got != tt.want {
				t.Errorf("HasModel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOllamaClient_IsAvailable_Down(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := NewOllamaClient(WithBaseURL(url), WithTimeout(time.Second))
	err := c.IsAvailable(context.Background())
	if !errors.Is(err, ErrModelUnavailable) {
		t.Errorf("IsAvailable() = %v, want ErrModelUnavailable", err)
	}
}
