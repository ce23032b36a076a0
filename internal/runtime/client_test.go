package runtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChat(t *testing.T) {
	var gotReq generateRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(map[string]string{"response": "hello back"})
	}))
	defer srv.Close()

	c := New(srv.URL)
	result := c.Chat(context.Background(), "hello there", "")

	if result.Fallback {
		t.Error("expected runtime response, got fallback")
	}
	if result.Response != "hello back" {
		t.Errorf("response = %q", result.Response)
	}
	if gotReq.Model != DefaultModel {
		t.Errorf("model = %q, want default %q", gotReq.Model, DefaultModel)
	}
	if gotReq.Stream {
		t.Error("streaming must be disabled")
	}
	if gotReq.Options["temperature"] != 0.7 || gotReq.Options["top_p"] != 0.9 {
		t.Errorf("unexpected sampling options: %v", gotReq.Options)
	}
}

func TestChatRuntimeDownFallsBack(t *testing.T) {
	c := New("http://127.0.0.1:1")

	result := c.Chat(context.Background(), "hello", "gemma")
	if !result.Fallback {
		t.Error("expected fallback when runtime is down")
	}
	if result.Response == "" {
		t.Error("fallback reply must not be empty")
	}
}

func TestChatRuntimeErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	result := c.Chat(context.Background(), "anything", "missing-model")
	if !result.Fallback {
		t.Error("expected fallback on runtime error status")
	}
}

func TestChatKeywordFallbacks(t *testing.T) {
	c := New("http://127.0.0.1:1")

	tests := []struct {
		message string
		want    string
	}{
		{"hello", "Hello! Nice to meet you. I'm ready to help!"},
		{"how are you doing", "I'm doing great! As an AI, I'm always ready to assist. How are you doing?"},
		{"thank you so much", "You're welcome! I'm glad I could help. Is there anything else you'd like to know?"},
		{"goodbye", "Goodbye! It was nice chatting with you. Feel free to come back anytime!"},
	}

	for _, tt := range tests {
		result := c.Chat(context.Background(), tt.message, "")
		if result.Response != tt.want {
			t.Errorf("Chat(%q) = %q, want %q", tt.message, result.Response, tt.want)
		}
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"models": []map[string]interface{}{
				{"name": "gemma:2b", "size": 1234},
				{"name": "mistral:latest", "size": 5678},
			},
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	models, ok := c.ListModels(context.Background())
	if !ok {
		t.Error("expected ok=true from live runtime")
	}
	if len(models) != 2 || models[0] != "gemma:2b" || models[1] != "mistral:latest" {
		t.Errorf("unexpected models: %v", models)
	}
}

func TestListModelsFallback(t *testing.T) {
	c := New("http://127.0.0.1:1")

	models, ok := c.ListModels(context.Background())
	if ok {
		t.Error("expected ok=false when runtime is down")
	}
	if len(models) != 4 || models[0] != "gemma" {
		t.Errorf("unexpected fallback list: %v", models)
	}
}
