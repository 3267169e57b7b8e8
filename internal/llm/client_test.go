package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigReady(t *testing.T) {
	assert.False(t, Config{}.Ready())
	assert.False(t, Config{BaseURL: "https://api.example.com/v1"}.Ready())
	assert.False(t, Config{APIKey: "sk-x"}.Ready())
	assert.True(t, Config{BaseURL: "https://api.example.com/v1", APIKey: "sk-x"}.Ready())
}

func TestChat(t *testing.T) {
	var gotReq chatRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "你好"}},
			},
		})
	}))
	defer ts.Close()

	client := NewClient()
	cfg := Config{BaseURL: ts.URL + "/v1/", Model: "test-model", APIKey: "sk-test"}

	content, err := client.Chat(context.Background(), cfg, "打个招呼", 100, 0.7)
	require.NoError(t, err)
	assert.Equal(t, "你好", content)

	// 末尾斜杠被归一化，请求体带上全部参数
	assert.Equal(t, "test-model", gotReq.Model)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
	assert.Equal(t, 100, gotReq.MaxTokens)
	assert.InDelta(t, 0.7, gotReq.Temperature, 0.001)
}

func TestChat_ErrorStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	client := NewClient()
	cfg := Config{BaseURL: ts.URL, Model: "m", APIKey: "bad"}

	_, err := client.Chat(context.Background(), cfg, "hi", 100, 0.7)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestChat_EmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer ts.Close()

	client := NewClient()
	cfg := Config{BaseURL: ts.URL, Model: "m", APIKey: "k"}

	_, err := client.Chat(context.Background(), cfg, "hi", 100, 0.7)
	assert.Error(t, err)
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"无包裹", `{"a":1}`, `{"a":1}`},
		{"json代码块", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"普通代码块", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"带首尾空白", "  \n```json\n{\"a\":1}\n```\n  ", `{"a":1}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StripCodeFence(tc.input))
		})
	}
}

func TestParseJSON(t *testing.T) {
	var v struct {
		Title string `json:"title"`
	}
	require.NoError(t, ParseJSON("```json\n{\"title\":\"夜曲\"}\n```", &v))
	assert.Equal(t, "夜曲", v.Title)

	assert.Error(t, ParseJSON("不是 JSON", &v))
}
