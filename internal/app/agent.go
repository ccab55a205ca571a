package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// DefaultAgentTimeout bounds a single question round-trip. The endpoint can
// sit on a question for a long time while it builds a mind map, so this is
// generous; the UI stays responsive either way.
const DefaultAgentTimeout = 60 * time.Second

const defaultAgentPath = "/agents/student"

// AgentClient asks the platform's student agent endpoint a question and
// returns its answer. The endpoint is a plain POST {input} -> {answer}
// exchange with bearer auth; answers may be prose, Markdown, or a fenced
// mind-map payload (see mindmap.go).
type AgentClient struct {
	BaseURL string
	Path    string
	Token   string
	HTTP    *http.Client
}

type agentRequest struct {
	Input string `json:"input"`
}

type agentResponse struct {
	Answer string `json:"answer"`
}

func NewAgentClient(baseURL, token string, timeout time.Duration) *AgentClient {
	if timeout <= 0 {
		timeout = DefaultAgentTimeout
	}
	return &AgentClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Path:    defaultAgentPath,
		Token:   token,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

// Ask sends one question. The caller is expected to capture the originating
// session id before calling and route the answer by that id, never by
// whichever session is current when the answer lands.
func (c *AgentClient) Ask(ctx context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", errors.New("empty question")
	}
	if c.Token == "" {
		return "", errors.New("not logged in")
	}

	payload, err := json.Marshal(agentRequest{Input: input})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+c.Path, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", errors.New("the agent took too long to answer")
		}
		return "", fmt.Errorf("agent request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read agent response: %v", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Non-2xx responses carry an optional {message} with the error text.
		var errResp struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(body, &errResp)
		if errResp.Message != "" {
			return "", fmt.Errorf("agent error: %s", errResp.Message)
		}
		return "", fmt.Errorf("agent error: status %d", resp.StatusCode)
	}

	var out agentResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("invalid agent response: %v", err)
	}
	return out.Answer, nil
}
