package volc

import (
	"context"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

// ChatModel 基于 ArkClient 的 eino ChatModel，附带固定的结构化输出约束
type ChatModel struct {
	client         *ArkClient
	model          string
	temperature    float32
	responseFormat *ResponseFormat
}

func NewChatModel(client *ArkClient, modelName string, temperature float32, format *ResponseFormat) *ChatModel {
	return &ChatModel{
		client:         client,
		model:          modelName,
		temperature:    temperature,
		responseFormat: format,
	}
}

func (m *ChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	temperature := m.temperature
	modelName := m.model
	options := model.GetCommonOptions(&model.Options{Temperature: &temperature, Model: &modelName}, opts...)

	messages := make([]ChatMessage, 0, len(input))
	for _, msg := range input {
		if msg == nil {
			continue
		}
		messages = append(messages, ChatMessage{Role: string(msg.Role), Content: msg.Content})
	}

	params := ChatParams{
		Model:          modelName,
		Messages:       messages,
		Temperature:    options.Temperature,
		ResponseFormat: m.responseFormat,
	}
	if options.Model != nil && *options.Model != "" {
		params.Model = *options.Model
	}

	content, err := m.client.ChatCompletion(ctx, params)
	if err != nil {
		return nil, err
	}
	return schema.AssistantMessage(content, nil), nil
}

func (m *ChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

var _ model.BaseChatModel = (*ChatModel)(nil)
