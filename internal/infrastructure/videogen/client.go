package videogen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client talks to the video-generation collaborator: submit a prompt, poll
// its status on a bounded loop, retrieve the asset URL. The service is
// treated as opaque and fallible.
type Client struct {
	baseURL      string
	http         *http.Client
	pollInterval time.Duration
	timeout      time.Duration
}

type Result struct {
	URL             string
	DurationSeconds int
}

func NewClient(baseURL string, pollInterval, timeout time.Duration) *Client {
	return &Client{
		baseURL:      baseURL,
		http:         &http.Client{Timeout: 30 * time.Second},
		pollInterval: pollInterval,
		timeout:      timeout,
	}
}

type submitRequest struct {
	Prompt string `json:"prompt"`
}

type jobResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	URL             string `json:"url"`
	DurationSeconds int    `json:"duration_seconds"`
	Error           string `json:"error"`
}

// Generate blocks until the asset is ready, the collaborator reports
// failure, or the polling budget is exhausted.
func (c *Client) Generate(ctx context.Context, prompt string) (*Result, error) {
	jobID, err := c.submit(ctx, prompt)
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(c.timeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		job, err := c.status(ctx, jobID)
		if err != nil {
			return nil, err
		}
		switch job.Status {
		case "ready":
			return &Result{URL: job.URL, DurationSeconds: job.DurationSeconds}, nil
		case "failed":
			return nil, fmt.Errorf("video generation failed: %s", job.Error)
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("video generation timed out after %s", c.timeout)
		}
	}
}

func (c *Client) submit(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(submitRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/videos", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("submitting video prompt: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("video service returned status %d on submit", resp.StatusCode)
	}

	var job jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return "", fmt.Errorf("decoding submit response: %w", err)
	}
	if job.ID == "" {
		return "", fmt.Errorf("video service returned an empty job id")
	}
	return job.ID, nil
}

func (c *Client) status(ctx context.Context, jobID string) (*jobResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/videos/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("polling video job %s: %w", jobID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("video service returned status %d on poll", resp.StatusCode)
	}

	var job jobResponse
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("decoding poll response: %w", err)
	}
	return &job, nil
}
