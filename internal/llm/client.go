package llm

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

// Config 一次调用所需的连接参数，来自系统设置
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
}

// Ready 是否具备调用条件
func (c Config) Ready() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// Client 调用 OpenAI 兼容的 chat/completions 接口
type Client struct {
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat 发送单轮用户消息，返回模型回复的文本内容
func (c *Client) Chat(ctx context.Context, cfg Config, prompt string, maxTokens int, temperature float64) (string, error) {
	reqBody := chatRequest{
		Model:       cfg.Model,
		Messages:    []Message{{Role: "user", Content: prompt}},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat request: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("无法连接到 AI 服务: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		snippet := string(body)
		if len(snippet) > 100 {
			snippet = snippet[:100]
		}
		return "", fmt.Errorf("AI 服务返回错误 (%d): %s", resp.StatusCode, snippet)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to decode chat response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("AI 返回内容为空")
	}

	return chatResp.Choices[0].Message.Content, nil
}

// StripCodeFence 移除回复中可能包裹的 markdown 代码块标记
func StripCodeFence(content string) string {
	content = strings.ReplaceAll(content, "```json\n", "")
	content = strings.ReplaceAll(content, "```json", "")
	content = strings.ReplaceAll(content, "```\n", "")
	content = strings.ReplaceAll(content, "```", "")
	return strings.TrimSpace(content)
}

// ParseJSON 解析结构化回复，容忍代码块包裹
func ParseJSON(content string, v interface{}) error {
	if err := json.Unmarshal([]byte(StripCodeFence(content)), v); err != nil {
		return fmt.Errorf("AI 返回格式错误: %w", err)
	}
	return nil
}
