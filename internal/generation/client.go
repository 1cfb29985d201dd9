package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	einomodel "github.com/cloudwego/eino/components/model"
	einoprompt "github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
	"github.com/sirupsen/logrus"
	arkmodel "github.com/volcengine/volcengine-go-sdk/service/arkruntime/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"lovereel/internal/apierr"
	"lovereel/internal/model"
	"lovereel/internal/prompt"
	"lovereel/internal/volc"
)

const (
	generateOp     = "generate"
	promptVariable = "story_prompt"
)

// Generator 生成故事内容
type Generator interface {
	Generate(ctx context.Context, prompt string) (*model.Content, error)
}

// Client 调用外部 LLM 并校验结构化输出。它本身不做重试。
type Client struct {
	chatModel   einomodel.BaseChatModel
	template    einoprompt.ChatTemplate
	temperature float32
	log         logrus.FieldLogger
}

func NewClient(chatModel einomodel.BaseChatModel, temperature float32, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	template := einoprompt.FromMessages(schema.FString,
		schema.SystemMessage(prompt.SystemInstructions),
		&schema.Message{
			Role:    schema.User,
			Content: "{" + promptVariable + "}",
		})
	return &Client{
		chatModel:   chatModel,
		template:    template,
		temperature: temperature,
		log:         log.WithField("component", "generation"),
	}
}

// Generate sends the built prompt and returns validated content or a typed failure.
func (c *Client) Generate(ctx context.Context, userPrompt string) (*model.Content, error) {
	ctx, span := otel.Tracer("lovereel/generation").Start(ctx, "generation.Generate")
	defer span.End()
	span.SetAttributes(attribute.Int("prompt.bytes", len(userPrompt)))

	content, err := c.generate(ctx, userPrompt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, apierr.KindOf(err).String())
		c.log.WithFields(logrus.Fields{
			"kind":         apierr.KindOf(err).String(),
			"prompt_bytes": len(userPrompt),
			"error":        err,
		}).Error("story generation failed")
		return nil, err
	}
	return content, nil
}

func (c *Client) generate(ctx context.Context, userPrompt string) (*model.Content, error) {
	messages, err := c.template.Format(ctx, map[string]any{promptVariable: userPrompt})
	if err != nil {
		return nil, apierr.New(apierr.KindInputValidation, generateOp, fmt.Errorf("format messages: %w", err))
	}

	resp, err := c.chatModel.Generate(ctx, messages, einomodel.WithTemperature(c.temperature))
	if err != nil {
		return nil, classifyTransport(err)
	}
	if resp == nil {
		return nil, apierr.New(apierr.KindMalformedResponse, generateOp, errors.New("nil message"))
	}

	raw, err := parseObject(resp.Content)
	if err != nil {
		c.log.WithField("response_bytes", len(resp.Content)).Warn("unparseable generator response")
		return nil, err
	}
	return model.ValidateContent(raw)
}

func parseObject(content string) (map[string]any, error) {
	cleaned := strings.TrimSpace(content)
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		cleaned = strings.TrimSuffix(cleaned, "```")
		cleaned = strings.TrimSpace(cleaned)
	}
	var decoded any
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return nil, apierr.New(apierr.KindMalformedResponse, generateOp, fmt.Errorf("parse response: %w", err))
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return nil, apierr.New(apierr.KindSchemaViolation, generateOp, fmt.Errorf("response is %T, want object", decoded))
	}
	return obj, nil
}

// classifyTransport maps provider errors onto the retryable kinds. Any
// failure before a response body arrives counts as a connection failure;
// an unusable 2xx body is malformed.
func classifyTransport(err error) error {
	var typed *apierr.Error
	if errors.As(err, &typed) {
		return err
	}
	if errors.Is(err, volc.ErrMalformedResponse) {
		return apierr.New(apierr.KindMalformedResponse, generateOp, err)
	}
	if statusOf(err) == http.StatusTooManyRequests {
		return apierr.New(apierr.KindRateLimited, generateOp, err)
	}
	return apierr.New(apierr.KindConnectionFailure, generateOp, err)
}

func statusOf(err error) int {
	var httpErr *volc.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	// eino-ark 透传 arkruntime 的错误
	var apiErr *arkmodel.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *arkmodel.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
