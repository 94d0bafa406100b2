package syncx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// HTTPAdapter syncs progress to the remote study-session API. Requests are
// authenticated with the X-API-Key header the backend expects.
type HTTPAdapter struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPAdapter creates an adapter for the API at baseURL.
func NewHTTPAdapter(baseURL, apiKey string) *HTTPAdapter {
	return &HTTPAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
	}
}

// progressPayload is the incremental update body: the full card snapshot
// plus whichever answers have been recorded so far.
type progressPayload struct {
	Cards   []CardState     `json:"cards"`
	Answers map[string]bool `json:"answers,omitempty"`
}

// finalPayload extends the progress body with the terminal result fields.
type finalPayload struct {
	progressPayload
	Score       int       `json:"score"`
	Total       int       `json:"total"`
	CompletedAt time.Time `json:"completed_at"`
}

func (a *HTTPAdapter) SaveProgress(ctx context.Context, sessionID string, cards []CardState, answers map[string]bool) error {
	body := progressPayload{Cards: cards, Answers: answers}
	_, err := a.patch(ctx, sessionID, body)
	return err
}

func (a *HTTPAdapter) Complete(ctx context.Context, sessionID string, result FinalResult, cards []CardState, answers map[string]bool) (*Summary, error) {
	body := finalPayload{
		progressPayload: progressPayload{Cards: cards, Answers: answers},
		Score:           result.Score,
		Total:           result.Total,
		CompletedAt:     result.CompletedAt.UTC(),
	}
	resp, err := a.patch(ctx, sessionID, body)
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := json.Unmarshal(resp, &summary); err != nil {
		return nil, fmt.Errorf("decode session summary: %w", err)
	}
	return &summary, nil
}

func (a *HTTPAdapter) patch(ctx context.Context, sessionID string, body any) ([]byte, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode sync payload: %w", err)
	}

	url := fmt.Sprintf("%s/study-sessions/%s", a.baseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("X-API-Key", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sync request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sync response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("sync request: HTTP %d for %s", resp.StatusCode, url)
	}
	return data, nil
}
