package volc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultBase     = "https://ark.cn-beijing.volces.com"
	defaultChatPath = "/api/v3/chat/completions"
	imagePath       = "/api/v3/images/generations"
	maxErrorBody    = 512
)

// Options ArkClient 配置
type Options struct {
	BaseURL  string
	APIKey   string
	Timeout  time.Duration
	Mock     bool
	ChatPath string
}

type ArkClient struct {
	BaseURL    string
	APIKey     string
	ChatPath   string
	HTTPClient *http.Client
	Mock       bool
	log        logrus.FieldLogger
}

// HTTPError is returned for non-2xx responses so callers can classify by status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// ErrMalformedResponse 2xx 响应但内容无法使用
var ErrMalformedResponse = errors.New("malformed ark response")

func NewArkClient(opts Options, log logrus.FieldLogger) *ArkClient {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBase
	}
	if opts.ChatPath == "" {
		opts.ChatPath = defaultChatPath
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ArkClient{
		BaseURL:    strings.TrimRight(opts.BaseURL, "/"),
		APIKey:     opts.APIKey,
		ChatPath:   opts.ChatPath,
		HTTPClient: &http.Client{Timeout: opts.Timeout},
		Mock:       opts.Mock,
		log:        log.WithField("component", "ark_client"),
	}
}

// ChatMessage OpenAI 兼容的聊天消息
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat 结构化输出约束
type ResponseFormat struct {
	Type       string          `json:"type"`
	JSONSchema *JSONSchemaSpec `json:"json_schema,omitempty"`
}

type JSONSchemaSpec struct {
	Name   string         `json:"name"`
	Schema map[string]any `json:"schema"`
	Strict bool           `json:"strict"`
}

type ChatParams struct {
	Model          string
	Messages       []ChatMessage
	Temperature    *float32
	ResponseFormat *ResponseFormat
}

// ChatCompletion 调用聊天补全接口，返回第一个候选的文本内容
func (c *ArkClient) ChatCompletion(ctx context.Context, p ChatParams) (string, error) {
	if c.Mock {
		return mockStoryJSON, nil
	}
	if p.Model == "" {
		return "", errors.New("model required")
	}
	body := map[string]any{
		"model":    p.Model,
		"messages": p.Messages,
	}
	if p.Temperature != nil {
		body["temperature"] = *p.Temperature
	}
	if p.ResponseFormat != nil {
		body["response_format"] = p.ResponseFormat
	}
	var resp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := c.postJSON(ctx, c.ChatPath, body, &resp); err != nil {
		return "", err
	}
	var content string
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		if content == "" {
			content = resp.Choices[0].Delta.Content
		}
	}
	if content == "" {
		return "", fmt.Errorf("%w: empty chat content", ErrMalformedResponse)
	}
	return content, nil
}

type ImageGenParams struct {
	Model  string
	Prompt string
	Size   string
}

// GenerateImages 生成图片，返回 URL 或 data URI
func (c *ArkClient) GenerateImages(ctx context.Context, p ImageGenParams) ([]string, error) {
	if c.Mock {
		return []string{"data:image/png;base64," + mockPixel}, nil
	}
	if p.Model == "" {
		p.Model = "doubao-seedream-4.0"
	}
	if p.Size == "" {
		p.Size = "1024x1024"
	}
	body := map[string]any{
		"model":  p.Model,
		"prompt": p.Prompt,
		"size":   p.Size,
	}

	var resp struct {
		Data []struct {
			URL    string `json:"url"`
			B64    string `json:"b64_json"`
			Format string `json:"format"`
		} `json:"data"`
	}
	if err := c.postJSON(ctx, imagePath, body, &resp); err != nil {
		return nil, err
	}
	urls := make([]string, 0, len(resp.Data))
	for _, d := range resp.Data {
		if d.URL != "" {
			urls = append(urls, d.URL)
			continue
		}
		if d.B64 != "" {
			fmtType := d.Format
			if fmtType == "" {
				fmtType = "png"
			}
			urls = append(urls, "data:image/"+fmtType+";base64,"+d.B64)
		}
	}
	if len(urls) == 0 {
		return nil, errors.New("no images returned")
	}
	return urls, nil
}

// Download 获取图片内容，支持 data URI
func (c *ArkClient) Download(ctx context.Context, url string) ([]byte, error) {
	if strings.HasPrefix(url, "data:") {
		comma := strings.Index(url, ",")
		if comma < 0 || !strings.Contains(url[:comma], ";base64") {
			return nil, errors.New("unsupported data uri")
		}
		return base64.StdEncoding.DecodeString(url[comma+1:])
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: truncate(string(raw))}
	}
	return raw, nil
}

func (c *ArkClient) postJSON(ctx context.Context, path string, body any, out any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	res, err := c.HTTPClient.Do(req)
	if err != nil {
		c.log.WithFields(logrus.Fields{"path": path, "error": err}).Warn("ark request failed")
		return err
	}
	defer res.Body.Close()
	bodyBytes, err := io.ReadAll(res.Body)
	if err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{
		"path":           path,
		"status":         res.StatusCode,
		"request_bytes":  len(b),
		"response_bytes": len(bodyBytes),
		"elapsed":        time.Since(start).String(),
	}).Debug("ark request")
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &HTTPError{StatusCode: res.StatusCode, Body: truncate(string(bodyBytes))}
	}
	if err := json.Unmarshal(bodyBytes, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformedResponse, path, err)
	}
	return nil
}

func truncate(s string) string {
	if len(s) <= maxErrorBody {
		return s
	}
	return s[:maxErrorBody] + "..."
}
