// Package runtime is the client for the local model runtime (Ollama): chat
// completions and model listing.
//
// The runtime is optional infrastructure. When it is down or slow, chat
// falls back to canned assistant replies and the model list falls back to a
// static set, so the web app's chat panel keeps working without it.
package runtime
