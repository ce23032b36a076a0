package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"gen-studio/internal/logging"
	"gen-studio/internal/metrics"

	"github.com/google/uuid"
)

var (
	// ErrUnavailable indicates the engine could not be reached at all.
	ErrUnavailable = errors.New("diffusion engine unavailable")

	// ErrOutputNotFound indicates the engine has no file at the requested
	// filename/subfolder. Expected while sweeping video candidates.
	ErrOutputNotFound = errors.New("engine output not found")
)

// Client talks to the ComfyUI HTTP surface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	clientID   string
}

// New creates an engine client for the given base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		clientID:   uuid.NewString(),
	}
}

// SubmitResponse is the engine's reply to a job graph submission.
type SubmitResponse struct {
	PromptID string `json:"prompt_id"`
	Number   int    `json:"number"`
}

// HistoryEntry is one job's record in the engine history.
type HistoryEntry struct {
	Status  HistoryStatus         `json:"status"`
	Outputs map[string]NodeOutput `json:"outputs"`
}

// HistoryStatus carries the engine's terminal-state string.
type HistoryStatus struct {
	StatusStr string `json:"status_str"`
	Completed bool   `json:"completed"`
}

// NodeOutput lists the artifacts one graph node produced.
type NodeOutput struct {
	Images []OutputRef `json:"images"`
	Gifs   []OutputRef `json:"gifs"`
}

// OutputRef locates one produced file on the engine's output tree.
type OutputRef struct {
	Filename  string `json:"filename"`
	Subfolder string `json:"subfolder"`
	Type      string `json:"type"`
}

// SubmitJob posts a job graph to the engine queue and returns the job id.
func (c *Client) SubmitJob(ctx context.Context, graph Graph) (string, error) {
	start := time.Now()

	body, err := json.Marshal(map[string]interface{}{
		"prompt":    graph,
		"client_id": c.clientID,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode job graph: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/prompt", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("submit", start, err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err = fmt.Errorf("engine rejected job graph: %d %s", resp.StatusCode, string(text))
		c.record("submit", start, err)
		return "", err
	}

	var sr SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		c.record("submit", start, err)
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	if sr.PromptID == "" {
		err = errors.New("engine returned no job id")
		c.record("submit", start, err)
		return "", err
	}

	c.record("submit", start, nil)
	logging.Debug("submitted job graph, job id %s", sr.PromptID)
	return sr.PromptID, nil
}

// History fetches the engine's history record for a job. A job the engine
// has not finished queuing yet comes back with ok=false.
func (c *Client) History(ctx context.Context, jobID string) (HistoryEntry, bool, error) {
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/history/"+url.PathEscape(jobID), nil)
	if err != nil {
		return HistoryEntry{}, false, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("history", start, err)
		return HistoryEntry{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("engine history returned %d", resp.StatusCode)
		c.record("history", start, err)
		return HistoryEntry{}, false, err
	}

	// The history endpoint keys its response by job id.
	var history map[string]HistoryEntry
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		c.record("history", start, err)
		return HistoryEntry{}, false, fmt.Errorf("failed to decode history: %w", err)
	}

	c.record("history", start, nil)
	entry, ok := history[jobID]
	return entry, ok, nil
}

// FetchOutput downloads one produced file from the engine's output tree.
func (c *Client) FetchOutput(ctx context.Context, filename, subfolder string) ([]byte, error) {
	start := time.Now()

	q := url.Values{}
	q.Set("filename", filename)
	q.Set("subfolder", subfolder)
	q.Set("type", "output")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/view?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("fetch_output", start, err)
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.record("fetch_output", start, ErrOutputNotFound)
		return nil, fmt.Errorf("%w: %s/%s", ErrOutputNotFound, subfolder, filename)
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("engine view returned %d for %s/%s", resp.StatusCode, subfolder, filename)
		c.record("fetch_output", start, err)
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record("fetch_output", start, err)
		return nil, fmt.Errorf("failed to read engine output: %w", err)
	}

	c.record("fetch_output", start, nil)
	return data, nil
}

// UploadImage stages an input image on the engine ahead of a video job.
// The engine assigns the final input filename, which callers must round-trip
// into the job graph verbatim.
func (c *Client) UploadImage(ctx context.Context, data []byte, name string) (string, error) {
	start := time.Now()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", name)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/upload/image", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record("upload_image", start, err)
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		err = fmt.Errorf("engine upload returned %d: %s", resp.StatusCode, string(text))
		c.record("upload_image", start, err)
		return "", err
	}

	var ur struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&ur); err != nil {
		c.record("upload_image", start, err)
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	c.record("upload_image", start, nil)
	if ur.Name == "" {
		return name, nil
	}
	return ur.Name, nil
}

// Ping checks engine reachability, used by the health endpoint and the
// startup probe.
func (c *Client) Ping(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.baseURL+"/system_stats", nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) record(operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.EngineRequestsTotal.WithLabelValues(operation, status).Inc()
	metrics.EngineRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}
