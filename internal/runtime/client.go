package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"gen-studio/internal/logging"
	"gen-studio/internal/metrics"
)

// DefaultModel is used when a chat request names no model.
const DefaultModel = "gemma"

// generateTimeout bounds one completion. Long, because small local models
// can take minutes on CPU.
const generateTimeout = 120 * time.Second

// fallbackModels is served when the runtime cannot be reached.
var fallbackModels = []string{"gemma", "llama2", "mistral", "codellama"}

// Client talks to the model runtime's HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a runtime client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: generateTimeout},
	}
}

// ChatResult is a completion plus whether it came from the runtime or the
// canned fallback.
type ChatResult struct {
	Response string
	Fallback bool
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Chat generates a completion for one message. Runtime failures of any kind
// degrade to a canned reply rather than an error.
func (c *Client) Chat(ctx context.Context, message, model string) ChatResult {
	if model == "" {
		model = DefaultModel
	}

	body, err := json.Marshal(generateRequest{
		Model:  model,
		Prompt: message,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0.7,
			"top_p":       0.9,
			"num_ctx":     1024,
		},
	})
	if err != nil {
		return c.fallback(message)
	}

	reqCtx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return c.fallback(message)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Warn("runtime generate failed: %v", err)
		return c.fallback(message)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logging.Warn("runtime generate returned %d: %s", resp.StatusCode, string(text))
		return c.fallback(message)
	}

	var gr generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		logging.Warn("failed to decode runtime response: %v", err)
		return c.fallback(message)
	}

	response := gr.Response
	if response == "" {
		response = "Sorry, I could not generate a response."
	}

	metrics.ChatRequestsTotal.WithLabelValues("ok").Inc()
	return ChatResult{Response: response}
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ListModels returns the runtime's installed models, or the static fallback
// list (with ok=false) when the runtime cannot be reached.
func (c *Client) ListModels(ctx context.Context) ([]string, bool) {
	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return fallbackModels, false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logging.Warn("runtime tags failed: %v", err)
		return fallbackModels, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logging.Warn("runtime tags returned %d", resp.StatusCode)
		return fallbackModels, false
	}

	var tr tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		logging.Warn("failed to decode runtime tags: %v", err)
		return fallbackModels, false
	}

	models := make([]string, 0, len(tr.Models))
	for _, m := range tr.Models {
		models = append(models, m.Name)
	}
	return models, true
}

var cannedReplies = []string{
	"Hello! I'm a helpful AI assistant. How can I help you today?",
	"That's an interesting question! As an AI language model, I'm here to assist with various tasks and answer questions.",
	"I'm doing well, thank you for asking! What would you like to talk about?",
	"Great question! I'm designed to be helpful and provide accurate information. What specific topic interests you?",
	"I'd be happy to help you with that! Could you tell me more about what you're looking for?",
}

// fallback returns a canned reply, keyword-matched where possible.
func (c *Client) fallback(message string) ChatResult {
	metrics.ChatRequestsTotal.WithLabelValues("fallback").Inc()

	lower := strings.ToLower(message)
	var response string
	switch {
	case strings.Contains(lower, "hello"), strings.Contains(lower, "hi"):
		response = "Hello! Nice to meet you. I'm ready to help!"
	case strings.Contains(lower, "how are you"):
		response = "I'm doing great! As an AI, I'm always ready to assist. How are you doing?"
	case strings.Contains(lower, "image"):
		response = "I see you're working with image generation! Would you like help coming up with prompt ideas?"
	case strings.Contains(lower, "thank"):
		response = "You're welcome! I'm glad I could help. Is there anything else you'd like to know?"
	case strings.Contains(lower, "bye"), strings.Contains(lower, "goodbye"):
		response = "Goodbye! It was nice chatting with you. Feel free to come back anytime!"
	default:
		response = cannedReplies[rand.Intn(len(cannedReplies))]
	}

	return ChatResult{Response: response, Fallback: true}
}

// Ping checks runtime reachability, used by the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("model runtime unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("model runtime returned %d", resp.StatusCode)
	}
	return nil
}
