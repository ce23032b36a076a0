package handlers

import (
	"net/http"
	"strings"
)

// ChatRequest is the body of POST /api/chat.
type ChatRequest struct {
	Message string `json:"message"`
	Model   string `json:"model"`
}

// Chat proxies one message to the model runtime. Runtime failures degrade
// to a canned reply, so this endpoint never returns an upstream error.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := decodeJSON(r, &req); err != nil {
		writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSONError(w, "Message is required", http.StatusBadRequest)
		return
	}

	result := h.runtime.Chat(r.Context(), req.Message, req.Model)

	writeJSON(w, map[string]interface{}{
		"response": result.Response,
		"fallback": result.Fallback,
	})
}

// ListModels returns the runtime's installed models. When the runtime is
// unreachable the static fallback list is served with success=false, the
// same contract the chat UI already understands.
func (h *Handlers) ListModels(w http.ResponseWriter, r *http.Request) {
	models, ok := h.runtime.ListModels(r.Context())

	response := map[string]interface{}{
		"models":  models,
		"success": ok,
	}
	if !ok {
		response["error"] = "Could not connect to model runtime. Using fallback model list."
	}
	writeJSON(w, response)
}
