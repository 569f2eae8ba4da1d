package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

const (
	anthropicModel     = "claude-sonnet-4-5"
	anthropicVersion   = "2023-06-01"
	defaultHTTPTimeout = 60 * time.Second
	remoteMaxTokens    = 2048
)

type anthropicClient struct {
	apiKey string
	http   *http.Client
	model  string
}

type anthropicRequest struct {
	Model       string                    `json:"model"`
	MaxTokens   int                       `json:"max_tokens"`
	Temperature float64                   `json:"temperature,omitempty"`
	Messages    []anthropicRequestMessage `json:"messages"`
}

type anthropicRequestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicErrorEnvelope struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// complete issues a single Messages API call and returns the joined text
// content. No retries; the caller owns timeout policy via the HTTP client.
func (c *anthropicClient) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(c.apiKey) == "" {
		return "", errors.New("missing Anthropic API key")
	}
	if maxTokens <= 0 {
		maxTokens = remoteMaxTokens
	}
	model := strings.TrimSpace(c.model)
	if model == "" {
		model = anthropicModel
	}

	reqBody := anthropicRequest{
		Model:       model,
		MaxTokens:   maxTokens,
		Temperature: 1,
		Messages: []anthropicRequestMessage{
			{Role: "user", Content: prompt},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal Anthropic request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.anthropic.com/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build Anthropic request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call Anthropic API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read Anthropic response: %w", err)
	}

	if resp.StatusCode >= 300 {
		var apiErr anthropicErrorEnvelope
		if json.Unmarshal(body, &apiErr) == nil && strings.TrimSpace(apiErr.Error.Message) != "" {
			return "", fmt.Errorf("Anthropic API %d %s: %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
		}
		return "", fmt.Errorf("Anthropic API %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decode Anthropic response: %w", err)
	}
	var chunks []string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			chunks = append(chunks, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(chunks, "\n"))
	if text == "" {
		return "", errors.New("Anthropic response did not include text content")
	}
	return text, nil
}

// generateRemote runs the remote generation path end to end: render the
// prompt, call the service once, decode the payload, normalize the shape.
func generateRemote(ctx context.Context, client *anthropicClient, decision, promptDir string) (result, error) {
	if strings.TrimSpace(decision) == "" {
		return result{}, errEmptyInput
	}
	prompt, err := renderOverthinkPrompt(promptVars{Decision: decision}, promptDir)
	if err != nil {
		return result{}, err
	}
	text, err := client.complete(ctx, prompt, remoteMaxTokens)
	if err != nil {
		return result{}, err
	}
	raw, err := decodeRawResult(text)
	if err != nil {
		return result{}, err
	}
	if strings.TrimSpace(raw.Decision) == "" {
		raw.Decision = decision
	}
	return normalizeResult(raw)
}

// decodeRawResult parses the service's JSON block, tolerating incidental
// Markdown code fences around it.
func decodeRawResult(text string) (rawResult, error) {
	cleaned := stripCodeFences(text)
	var raw rawResult
	if err := json.Unmarshal([]byte(cleaned), &raw); err != nil {
		return rawResult{}, fmt.Errorf("%w: %v", errMalformedRemoteResult, err)
	}
	return raw, nil
}

// stripCodeFences removes a single wrapping ``` or ```json fence pair.
func stripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		// Drop the language tag line (e.g. "json").
		trimmed = trimmed[idx+1:]
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// resolveAPIKey checks the environment first, then the app's .env file.
func resolveAPIKey(paths appDataPaths) (string, error) {
	if env := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY")); env != "" {
		return env, nil
	}
	if key, err := readKeyFromEnvFile(paths.envFile); err == nil && key != "" {
		return key, nil
	}
	return "", fmt.Errorf("unable to resolve Anthropic API key; set ANTHROPIC_API_KEY or add it to %s", paths.envFile)
}

func readKeyFromEnvFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		if !strings.HasPrefix(line, "ANTHROPIC_API_KEY=") {
			continue
		}
		val := strings.TrimPrefix(line, "ANTHROPIC_API_KEY=")
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if val != "" {
			return val, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", err
	}
	return "", nil
}
