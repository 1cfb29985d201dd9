package generation

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/ark"
	einomodel "github.com/cloudwego/eino/components/model"

	"lovereel/internal/volc"
)

const (
	ProviderArk     = "ark"
	ProviderEinoArk = "eino-ark"
)

// ProviderConfig 选择聊天模型实现
type ProviderConfig struct {
	Provider    string
	Model       string
	Region      string
	Temperature float32
}

// NewChatModel builds the chat model behind the generation client. The
// default provider sends the response schema with every call; eino-ark
// relies on the prompt and local validation alone.
func NewChatModel(ctx context.Context, cfg ProviderConfig, client *volc.ArkClient) (einomodel.BaseChatModel, error) {
	switch cfg.Provider {
	case "", ProviderArk:
		return volc.NewChatModel(client, cfg.Model, cfg.Temperature, ResponseFormat()), nil
	case ProviderEinoArk:
		region := cfg.Region
		if region == "" {
			region = "cn-beijing"
		}
		temperature := cfg.Temperature
		chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
			APIKey:      client.APIKey,
			Region:      region,
			HTTPClient:  client.HTTPClient,
			Model:       cfg.Model,
			Temperature: &temperature,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		return chatModel, nil
	}
	return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
}
