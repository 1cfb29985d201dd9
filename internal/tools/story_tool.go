package tools

import (
	"context"
	"encoding/json"

	einotool "github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"

	"lovereel/internal/apierr"
	"lovereel/internal/model"
	"lovereel/internal/service"
)

// StoryCreator 创建故事并返回分享链接
type StoryCreator interface {
	Create(ctx context.Context, req model.CreationRequest) (*service.Created, error)
}

// StoryTool 实现eino框架的故事生成工具
type StoryTool struct {
	creator StoryCreator
}

// StoryToolResp 故事生成响应
type StoryToolResp struct {
	StoryID string `json:"story_id"`
	Link    string `json:"link"`
	Message string `json:"message"`
}

// NewStoryTool 创建故事生成工具实例
func NewStoryTool(creator StoryCreator) *StoryTool {
	return &StoryTool{creator: creator}
}

// Info 获取故事生成工具信息
func (t *StoryTool) Info(ctx context.Context) (*schema.ToolInfo, error) {
	memory := &schema.ParameterInfo{
		Type: schema.Object,
		SubParams: map[string]*schema.ParameterInfo{
			"title":       {Type: schema.String, Required: true, Desc: "回忆标题"},
			"description": {Type: schema.String, Required: true, Desc: "回忆描述，去掉首尾空白后超过10个字符"},
		},
	}
	qa := &schema.ParameterInfo{
		Type: schema.Object,
		SubParams: map[string]*schema.ParameterInfo{
			"question": {Type: schema.String, Required: true, Desc: "问题"},
			"answer":   {Type: schema.String, Required: true, Desc: "答案"},
		},
	}
	params := map[string]*schema.ParameterInfo{
		"memories":    {Type: schema.Array, Required: true, Desc: "恰好3条共同回忆", ElemInfo: memory},
		"personal_qa": {Type: schema.Array, Required: true, Desc: "恰好3条个人问答", ElemInfo: qa},
	}
	return &schema.ToolInfo{
		Name:        "story_generate",
		Desc:        "根据3条回忆和3条个人问答生成5个场景的浪漫喜剧测验故事，返回故事id和分享链接",
		ParamsOneOf: schema.NewParamsOneOfByParams(params),
	}, nil
}

// InvokableRun 执行故事生成任务
func (t *StoryTool) InvokableRun(ctx context.Context, argumentsInJSON string, opts ...einotool.Option) (string, error) {
	var req model.CreationRequest
	if err := json.Unmarshal([]byte(argumentsInJSON), &req); err != nil {
		return "", apierr.New(apierr.KindInputValidation, "story_generate", err)
	}

	created, err := t.creator.Create(ctx, req)
	if err != nil {
		return "", err
	}

	b, err := json.Marshal(StoryToolResp{
		StoryID: created.StoryID,
		Link:    created.Link,
		Message: "story created",
	})
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// 确保StoryTool实现了einotool.InvokableTool接口
var _ einotool.InvokableTool = (*StoryTool)(nil)
