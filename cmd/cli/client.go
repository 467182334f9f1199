package main

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

// apiClient is a thin JSON client for the Bankrecon HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
}

func newAPIClient(baseURL string, timeout time.Duration) *apiClient {
	return &apiClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// apiError is a non-2xx response.
type apiError struct {
	Status int
	Body   []byte
}

func (e *apiError) Error() string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(e.Body, &payload) == nil && payload.Error != "" {
		if payload.Message != "" {
			return fmt.Sprintf("%s (status %d): %s", payload.Error, e.Status, payload.Message)
		}
		return fmt.Sprintf("%s (status %d)", payload.Error, e.Status)
	}
	return fmt.Sprintf("request failed (status %d): %s", e.Status, truncate(string(e.Body), 200))
}

// do sends body as JSON and returns the raw response body. Non-2xx
// responses are returned as *apiError.
func (c *apiClient) do(ctx context.Context, method, path string, body any, headers map[string]string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return data, &apiError{Status: resp.StatusCode, Body: data}
	}
	return data, nil
}

func printJSON(w io.Writer, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "failed to format output: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// printRaw pretty-prints a JSON body, falling back to the raw text.
func printRaw(w io.Writer, body []byte) {
	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Fprintln(w, string(body))
		return
	}
	printJSON(w, v)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
