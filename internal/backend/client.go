package backend

import (
	"aglc_chat/internal/model"
	"aglc_chat/pkg/monitoring"
	"aglc_chat/pkg/tracing"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	chatPath   = "/api/chat"
	togglePath = "/api/toggle_embeddings"
)

// APIError 归一化后的后端错误，Message 直接展示给用户
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client 问答后端客户端。没有重试；Timeout 为 0 时不设超时。
type Client struct {
	mu      sync.RWMutex
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetBaseURL 配置热更新时调用
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = strings.TrimRight(baseURL, "/")
}

func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (c *Client) Chat(ctx context.Context, req model.ChatRequest) (*model.ChatResponse, error) {
	if req.History == nil {
		req.History = []model.ChatTurn{}
	}

	var out model.ChatResponse
	status, body, err := c.post(ctx, chatPath, req)
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}

	if status < 200 || status > 299 {
		var eb errorBody
		if json.Unmarshal(body, &eb) == nil && eb.Detail != "" {
			return nil, &APIError{StatusCode: status, Message: eb.Detail}
		}
		return nil, &APIError{StatusCode: status, Message: "Error: " + http.StatusText(status)}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &APIError{StatusCode: status, Message: "Error: empty response from chat backend"}
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, &APIError{StatusCode: status, Message: fmt.Sprintf("Error: invalid response from chat backend: %v", err)}
	}
	if out.Citations == nil {
		out.Citations = []model.Citation{}
	}
	return &out, nil
}

// ToggleEmbeddings 非 2xx 或 success=false 都返回 APIError，优先使用后端的 message
func (c *Client) ToggleEmbeddings(ctx context.Context, mode model.EmbeddingMode) (*model.ToggleResponse, error) {
	status, body, err := c.post(ctx, togglePath, model.ToggleRequest{EmbeddingType: mode})
	if err != nil {
		return nil, &APIError{Message: err.Error()}
	}

	var out model.ToggleResponse
	decodeErr := json.Unmarshal(body, &out)

	ok := status >= 200 && status <= 299
	if ok && decodeErr == nil && out.Success {
		return &out, nil
	}

	if decodeErr == nil && out.Message != "" {
		return nil, &APIError{StatusCode: status, Message: out.Message}
	}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && eb.Detail != "" {
		return nil, &APIError{StatusCode: status, Message: eb.Detail}
	}
	if decodeErr != nil && ok {
		return nil, &APIError{StatusCode: status, Message: fmt.Sprintf("Error switching: invalid response: %v", decodeErr)}
	}
	return nil, &APIError{StatusCode: status, Message: "Error switching: " + http.StatusText(status)}
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) (int, []byte, error) {
	ctx, span := tracing.Tracer.Start(ctx, "backend "+path)
	defer span.End()

	start := time.Now()
	status := 0
	defer func() { monitoring.ObserveBackend(path, status, start) }()

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+path, bytes.NewReader(jsonData))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	tracing.Inject(ctx, req)

	resp, err := c.http.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, err
	}
	defer resp.Body.Close()

	status = resp.StatusCode
	span.SetAttributes(attribute.Int("http.status_code", status))

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return status, nil, err
	}
	if status >= 400 {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	return status, body, nil
}
